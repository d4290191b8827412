package models

// Role is the closed set of account roles.
type Role string

const (
	RoleParticipant Role = "participant"
	RoleReviewer    Role = "reviewer"
	RoleSecretary   Role = "secretary"
	RoleAdmin       Role = "admin"
	RoleSupporter   Role = "supporter"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleParticipant, RoleReviewer, RoleSecretary, RoleAdmin, RoleSupporter:
		return true
	}
	return false
}

// SelfAssignableRole reports whether a user may pick r at registration.
// Admin accounts are only created by other admins.
func SelfAssignableRole(r Role) bool {
	switch r {
	case RoleParticipant, RoleReviewer, RoleSecretary, RoleSupporter:
		return true
	}
	return false
}

// ProjectStatus is the closed set of project lifecycle states.
type ProjectStatus string

const (
	StatusSubmitted          ProjectStatus = "submitted"
	StatusScreening          ProjectStatus = "screening"
	StatusPeerReview         ProjectStatus = "peer_review"
	StatusPublicNotice       ProjectStatus = "public_notice"
	StatusApproved           ProjectStatus = "approved"
	StatusIncubating         ProjectStatus = "incubating"
	StatusPoCInProgress      ProjectStatus = "poc_in_progress"
	StatusIncubationComplete ProjectStatus = "incubation_complete"
	StatusRejected           ProjectStatus = "rejected"
	StatusReviewFailed       ProjectStatus = "review_failed"
)

// statusTransitions is the lifecycle transition table. Terminal states have
// no entry.
var statusTransitions = map[ProjectStatus][]ProjectStatus{
	StatusSubmitted:     {StatusScreening, StatusPeerReview, StatusRejected},
	StatusScreening:     {StatusPeerReview, StatusRejected},
	StatusPeerReview:    {StatusPublicNotice, StatusApproved, StatusReviewFailed},
	StatusPublicNotice:  {StatusApproved, StatusReviewFailed},
	StatusApproved:      {StatusIncubating, StatusPoCInProgress},
	StatusIncubating:    {StatusPoCInProgress, StatusIncubationComplete},
	StatusPoCInProgress: {StatusIncubationComplete},
}

// ValidProjectStatus reports whether s is a known lifecycle state.
func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case StatusSubmitted, StatusScreening, StatusPeerReview, StatusPublicNotice,
		StatusApproved, StatusIncubating, StatusPoCInProgress,
		StatusIncubationComplete, StatusRejected, StatusReviewFailed:
		return true
	}
	return false
}

// CanTransition reports whether the lifecycle allows moving from one state
// to another.
func CanTransition(from, to ProjectStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s has no outgoing transitions.
func IsTerminal(s ProjectStatus) bool {
	return len(statusTransitions[s]) == 0
}

// AuditableStatus reports whether a screening decision may still be taken.
func AuditableStatus(s ProjectStatus) bool {
	return s == StatusSubmitted || s == StatusScreening
}

// ReviewableStatus reports whether review finalization may still fire.
func ReviewableStatus(s ProjectStatus) bool {
	return s == StatusPeerReview || s == StatusPublicNotice
}

// IncubationStatus reports whether incubation data may be written.
func IncubationStatus(s ProjectStatus) bool {
	return s == StatusApproved || s == StatusIncubating || s == StatusPoCInProgress
}

// MarketplaceVisible reports whether supporters may see the project.
func MarketplaceVisible(s ProjectStatus) bool {
	return s == StatusIncubating || s == StatusPoCInProgress
}
