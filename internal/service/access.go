package service

import (
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/repository"
)

// accessChecker centralizes the project visibility and mutation rules shared
// by the services.
type accessChecker struct {
	teamRepo   *repository.TeamRepository
	reviewRepo *repository.ReviewRepository
}

func newAccessChecker(teamRepo *repository.TeamRepository, reviewRepo *repository.ReviewRepository) *accessChecker {
	return &accessChecker{teamRepo: teamRepo, reviewRepo: reviewRepo}
}

// canAccess reports whether the user may read the project. Admins and
// secretaries see everything, reviewers see their assignments, supporters see
// marketplace-visible projects, everyone else needs ownership or membership.
func (a *accessChecker) canAccess(user *models.User, project *models.Project) (bool, error) {
	switch user.Role {
	case models.RoleAdmin, models.RoleSecretary:
		return true, nil
	case models.RoleReviewer:
		if assigned, err := a.reviewRepo.TaskExists(project.ID, user.ID); err != nil {
			return false, err
		} else if assigned {
			return true, nil
		}
	case models.RoleSupporter:
		if models.MarketplaceVisible(project.Status) {
			return true, nil
		}
	}
	return a.isOwnerOrMember(user.ID, project)
}

// canMutate reports whether the user may change project-scoped data. Only the
// principal, team members and admins qualify.
func (a *accessChecker) canMutate(user *models.User, project *models.Project) (bool, error) {
	if user.Role == models.RoleAdmin {
		return true, nil
	}
	return a.isOwnerOrMember(user.ID, project)
}

// canManage reports whether the user may take owner-only actions such as
// writing incubation plans or starting PoC runs. Team membership is not
// enough; only the principal and admins qualify.
func (a *accessChecker) canManage(user *models.User, project *models.Project) (bool, error) {
	if user.Role == models.RoleAdmin {
		return true, nil
	}
	return project.PrincipalID == user.ID, nil
}

func (a *accessChecker) isOwnerOrMember(userID uint, project *models.Project) (bool, error) {
	if project.PrincipalID == userID {
		return true, nil
	}
	if project.TeamID == 0 {
		return false, nil
	}
	return a.teamRepo.IsMember(project.TeamID, userID)
}
