package identity

// Organisational roles carried by authenticated callers.
const (
	RoleTeamMember     = "team-member"
	RoleTeamLead       = "team-lead"
	RoleSectionChief   = "section-chief"
	RoleDepartmentHead = "department-head"
	RoleHR             = "hr"
	RoleCEO            = "ceo"
	RoleAdmin          = "admin"
)

// Reviewer roles recorded on opinions. Derived from the (possibly
// substituted) reviewer identity relative to the candidate's department,
// never taken from client input.
const (
	ReviewerOwnDepartmentHead   = "own-department-head"
	ReviewerOtherDepartmentHead = "other-department-head"
	ReviewerHRLead              = "hr-lead"
)

// UserContext is the caller identity attached to a request.
type UserContext struct {
	UserID     string
	Role       string
	Department string
}

// ReviewerRoleFor classifies a reviewer against a candidate's department.
// An empty string means the reviewer has no standing to attach opinions.
func ReviewerRoleFor(reviewer UserContext, candidateDepartment string) string {
	switch reviewer.Role {
	case RoleDepartmentHead:
		if reviewer.Department == candidateDepartment {
			return ReviewerOwnDepartmentHead
		}
		return ReviewerOtherDepartmentHead
	case RoleHR:
		return ReviewerHRLead
	}
	return ""
}
