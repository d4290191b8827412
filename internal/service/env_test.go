package service_test

import (
	"database/sql"
	"testing"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/repository"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/service"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/testutil"
)

// testEnv wires the services against a containerized database, the same way
// main does it.
type testEnv struct {
	db       *sql.DB
	fixtures *testutil.Fixtures

	projectSvc    *service.ProjectService
	reviewSvc     *service.ReviewService
	incubationSvc *service.IncubationService
	fundSvc       *service.FundService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	containers := testutil.SetupTestContainers(t)
	t.Cleanup(func() { containers.Cleanup(t) })

	db := containers.DB
	fixtures := testutil.SetupFixtures(t, db)

	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	auditRepo := repository.NewAuditRecordRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	incubationRepo := repository.NewIncubationRepository(db)
	milestoneRepo := repository.NewMilestoneRepository(db)
	pocRepo := repository.NewPoCRepository(db)
	fundRepo := repository.NewFundRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	reviewSvc := service.NewReviewService(db, reviewRepo, projectRepo, notificationRepo)

	return &testEnv{
		db:         db,
		fixtures:   fixtures,
		reviewSvc:  reviewSvc,
		projectSvc: service.NewProjectService(db, projectRepo, teamRepo, userRepo, auditRepo, reviewRepo, notificationRepo, reviewSvc),
		incubationSvc: service.NewIncubationService(
			db, incubationRepo, milestoneRepo, pocRepo, projectRepo, userRepo, teamRepo, reviewRepo,
		),
		fundSvc: service.NewFundService(db, fundRepo, projectRepo, userRepo, teamRepo, reviewRepo),
	}
}

// notificationCount returns how many notifications a user has received
func (e *testEnv) notificationCount(t *testing.T, userID uint) int {
	t.Helper()

	var count int
	err := e.db.QueryRow(
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count notifications: %v", err)
	}
	return count
}
