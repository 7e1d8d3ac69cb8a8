package identity

import "testing"

func TestHasPermission(t *testing.T) {
	if !HasPermission(RoleDepartmentHead, PermOpinionWrite) {
		t.Fatal("department head should write opinions")
	}
	if HasPermission(RoleDepartmentHead, PermConfirm) {
		t.Fatal("department head must not confirm")
	}
	if !HasPermission(RoleCEO, PermConfirm) {
		t.Fatal("ceo should confirm")
	}
	if HasPermission(RoleCEO, PermOpinionWrite) {
		t.Fatal("ceo does not attach opinions")
	}
	if HasPermission(RoleTeamMember, PermRosterRead) {
		t.Fatal("team member has no roster access")
	}
	if !HasPermission(RoleAdmin, PermOpinionOnBehalf) {
		t.Fatal("admin should save on behalf of reviewers")
	}
	if HasPermission(RoleHR, PermOpinionOnBehalf) {
		t.Fatal("hr must not save on behalf of reviewers")
	}
	if HasPermission("unknown", PermRosterRead) {
		t.Fatal("unknown role should have nothing")
	}
}

func TestReviewerRoleFor(t *testing.T) {
	head := UserContext{UserID: "u1", Role: RoleDepartmentHead, Department: "sales"}

	if got := ReviewerRoleFor(head, "sales"); got != ReviewerOwnDepartmentHead {
		t.Fatalf("expected own-department-head, got %q", got)
	}
	if got := ReviewerRoleFor(head, "engineering"); got != ReviewerOtherDepartmentHead {
		t.Fatalf("expected other-department-head, got %q", got)
	}
	if got := ReviewerRoleFor(UserContext{Role: RoleHR}, "sales"); got != ReviewerHRLead {
		t.Fatalf("expected hr-lead, got %q", got)
	}
	if got := ReviewerRoleFor(UserContext{Role: RoleTeamLead}, "sales"); got != "" {
		t.Fatalf("team lead has no reviewer standing, got %q", got)
	}
}
