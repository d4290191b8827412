package models

import (
	"time"
)

// User represents a platform account. Role is a single closed enum value,
// fixed at registration.
type User struct {
	ID           uint      `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	RealName     string    `json:"real_name" db:"real_name"`
	Role         Role      `json:"role" db:"role"`
	Affiliation  string    `json:"affiliation" db:"affiliation"`
	Email        string    `json:"email" db:"email"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Team represents a project team
type Team struct {
	ID          uint      `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	LeaderID    uint      `json:"leader_id" db:"leader_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TeamMember represents membership of a user in a team
type TeamMember struct {
	UserID     uint      `json:"user_id" db:"user_id"`
	TeamID     uint      `json:"team_id" db:"team_id"`
	RoleInTeam string    `json:"role_in_team" db:"role_in_team"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// TeamMemberWithUser extends TeamMember with user profile fields
type TeamMemberWithUser struct {
	TeamMember
	Username    string `json:"username"`
	RealName    string `json:"real_name"`
	Affiliation string `json:"affiliation"`
}

// Project represents an incubation project and its lifecycle state
type Project struct {
	ID          uint          `json:"id" db:"id"`
	Name        string        `json:"name" db:"name"`
	Description string        `json:"description" db:"description"`
	PrincipalID uint          `json:"principal_id" db:"principal_id"`
	TeamID      uint          `json:"team_id" db:"team_id"`
	Status      ProjectStatus `json:"status" db:"status"`
	ReviewScore *float64      `json:"review_score,omitempty" db:"review_score"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// AuditRecord represents a secretary screening decision on a project
type AuditRecord struct {
	ID        uint      `json:"id" db:"id"`
	ProjectID uint      `json:"project_id" db:"project_id"`
	AuditorID uint      `json:"auditor_id" db:"auditor_id"`
	Decision  string    `json:"decision" db:"decision"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Audit decisions
const (
	AuditDecisionAccept = "accept"
	AuditDecisionReject = "reject"
)

// ReviewTask represents a review assignment for one reviewer on one project.
// Deadline is optional.
type ReviewTask struct {
	ID         uint       `json:"id" db:"id"`
	ProjectID  uint       `json:"project_id" db:"project_id"`
	ReviewerID uint       `json:"reviewer_id" db:"reviewer_id"`
	Status     string     `json:"status" db:"status"`
	Deadline   *time.Time `json:"deadline,omitempty" db:"deadline"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// Review task statuses
const (
	ReviewTaskAssigned = "assigned"
	ReviewTaskDone     = "done"
)

// ReviewTaskWithProject extends ReviewTask with project summary fields
type ReviewTaskWithProject struct {
	ReviewTask
	ProjectName   string        `json:"project_name"`
	ProjectStatus ProjectStatus `json:"project_status"`
}

// ReviewOpinion represents a submitted review with four scored dimensions.
// TotalScore is always the sum of the four sub-scores.
type ReviewOpinion struct {
	ID                uint      `json:"id" db:"id"`
	TaskID            uint      `json:"task_id" db:"task_id"`
	InnovationScore   float64   `json:"innovation_score" db:"innovation_score"`
	FeasibilityScore  float64   `json:"feasibility_score" db:"feasibility_score"`
	PotentialityScore float64   `json:"potentiality_score" db:"potentiality_score"`
	TeamworkScore     float64   `json:"teamwork_score" db:"teamwork_score"`
	TotalScore        float64   `json:"total_score" db:"total_score"`
	Comment           string    `json:"comment" db:"comment"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// IncubationRecord tracks the incubation plan and progress of a project.
// Progress is always within [0,100].
type IncubationRecord struct {
	ID        uint      `json:"id" db:"id"`
	ProjectID uint      `json:"project_id" db:"project_id"`
	Plan      string    `json:"plan" db:"plan"`
	Progress  int       `json:"progress" db:"progress"`
	StartedAt time.Time `json:"started_at" db:"started_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Milestone represents a scheduled checkpoint of an incubating project
type Milestone struct {
	ID          uint      `json:"id" db:"id"`
	ProjectID   uint      `json:"project_id" db:"project_id"`
	Title       string    `json:"title" db:"title"`
	DueDate     time.Time `json:"due_date" db:"due_date"`
	Status      string    `json:"status" db:"status"`
	Deliverable string    `json:"deliverable" db:"deliverable"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Milestone statuses
const (
	MilestoneNotStarted = "not_started"
	MilestoneInProgress = "in_progress"
	MilestoneCompleted  = "completed"
)

// ValidMilestoneStatus reports whether s is a known milestone status.
func ValidMilestoneStatus(s string) bool {
	return s == MilestoneNotStarted || s == MilestoneInProgress || s == MilestoneCompleted
}

// ProofOfConcept represents a PoC run attached to a project
type ProofOfConcept struct {
	ID          uint      `json:"id" db:"id"`
	ProjectID   uint      `json:"project_id" db:"project_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Status      string    `json:"status" db:"status"`
	Result      string    `json:"result" db:"result"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// PoC statuses
const (
	PoCRunning   = "running"
	PoCCompleted = "completed"
)

// FundRecord represents an allocation row of the funds ledger.
// Rows are keyed (project_id, title); repeated records accumulate.
type FundRecord struct {
	ID        uint      `json:"id" db:"id"`
	ProjectID uint      `json:"project_id" db:"project_id"`
	Title     string    `json:"title" db:"title"`
	Amount    float64   `json:"amount" db:"amount"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Expenditure represents a spend row of the funds ledger, keyed like FundRecord
type Expenditure struct {
	ID        uint      `json:"id" db:"id"`
	ProjectID uint      `json:"project_id" db:"project_id"`
	Title     string    `json:"title" db:"title"`
	Amount    float64   `json:"amount" db:"amount"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProjectFunds aggregates the ledger view of one project
type ProjectFunds struct {
	Funds        []FundRecord  `json:"funds"`
	Expenditures []Expenditure `json:"expenditures"`
	TotalFunds   float64       `json:"total_funds"`
	TotalSpent   float64       `json:"total_spent"`
	Balance      float64       `json:"balance"`
}

// Notification represents an in-app message to a user
type Notification struct {
	ID        uint      `json:"id" db:"id"`
	UserID    uint      `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SupportIntention represents a supporter's interest in a project
type SupportIntention struct {
	ID          uint      `json:"id" db:"id"`
	ProjectID   uint      `json:"project_id" db:"project_id"`
	SupporterID uint      `json:"supporter_id" db:"supporter_id"`
	SupportType string    `json:"support_type" db:"support_type"`
	Message     string    `json:"message" db:"message"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Support intention statuses
const (
	IntentionPending   = "pending"
	IntentionConnected = "connected"
	IntentionDeclined  = "declined"
)

// IncubationResource represents a resource published on the marketplace
type IncubationResource struct {
	ID           uint      `json:"id" db:"id"`
	ProviderID   uint      `json:"provider_id" db:"provider_id"`
	Title        string    `json:"title" db:"title"`
	ResourceType string    `json:"resource_type" db:"resource_type"`
	Description  string    `json:"description" db:"description"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Resource statuses
const (
	ResourceOpen   = "open"
	ResourceClosed = "closed"
)

// IncubationResourceWithProvider extends IncubationResource with provider info
type IncubationResourceWithProvider struct {
	IncubationResource
	ProviderName        string `json:"provider_name"`
	ProviderAffiliation string `json:"provider_affiliation"`
}

// ResourceApplication represents a project applying for a marketplace resource
type ResourceApplication struct {
	ID          uint      `json:"id" db:"id"`
	ResourceID  uint      `json:"resource_id" db:"resource_id"`
	ProjectID   uint      `json:"project_id" db:"project_id"`
	ApplicantID uint      `json:"applicant_id" db:"applicant_id"`
	Status      string    `json:"status" db:"status"`
	Message     string    `json:"message" db:"message"`
	Reply       string    `json:"reply" db:"reply"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Resource application statuses
const (
	ApplicationPending    = "pending"
	ApplicationInProgress = "in_progress"
	ApplicationCompleted  = "completed"
	ApplicationRejected   = "rejected"
)

// ValidApplicationStatus reports whether s is a known application status.
func ValidApplicationStatus(s string) bool {
	switch s {
	case ApplicationPending, ApplicationInProgress, ApplicationCompleted, ApplicationRejected:
		return true
	}
	return false
}

// ResourceApplicationWithDetails extends ResourceApplication with joined fields
type ResourceApplicationWithDetails struct {
	ResourceApplication
	ResourceTitle        string `json:"resource_title,omitempty"`
	ResourceType         string `json:"resource_type,omitempty"`
	ProjectName          string `json:"project_name,omitempty"`
	ApplicantName        string `json:"applicant_name,omitempty"`
	ApplicantAffiliation string `json:"applicant_affiliation,omitempty"`
	ProviderName         string `json:"provider_name,omitempty"`
	ProviderAffiliation  string `json:"provider_affiliation,omitempty"`
}

// Achievement represents a published outcome of a project
type Achievement struct {
	ID              uint      `json:"id" db:"id"`
	ProjectID       uint      `json:"project_id" db:"project_id"`
	Title           string    `json:"title" db:"title"`
	AchievementType string    `json:"achievement_type" db:"achievement_type"`
	Description     string    `json:"description" db:"description"`
	AuthorID        uint      `json:"author_id" db:"author_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
