package review

import (
	"testing"

	"levelup/internal/domain/identity"
)

func TestResolveOwnHeadAlwaysOverwrites(t *testing.T) {
	got, changed := Resolve(RecommendationRecommended, identity.ReviewerOwnDepartmentHead, RecommendationRejected, false)
	if got != RecommendationRejected || !changed {
		t.Fatalf("expected rejected/changed, got %q changed=%v", got, changed)
	}

	// Clearing back to unset is a real overwrite.
	got, changed = Resolve(RecommendationRejected, identity.ReviewerOwnDepartmentHead, RecommendationUnset, false)
	if got != RecommendationUnset || !changed {
		t.Fatalf("expected unset/changed, got %q changed=%v", got, changed)
	}
}

func TestResolveOtherHeadYieldsToOwnHead(t *testing.T) {
	// No own-head decision yet: the other head's value lands.
	got, changed := Resolve(RecommendationUnset, identity.ReviewerOtherDepartmentHead, RecommendationRecommended, false)
	if got != RecommendationRecommended || !changed {
		t.Fatalf("expected recommended/changed, got %q changed=%v", got, changed)
	}

	// Own head has decided: the other head's save is recorded but the
	// authoritative value stays.
	got, changed = Resolve(RecommendationRejected, identity.ReviewerOtherDepartmentHead, RecommendationRecommended, true)
	if got != RecommendationRejected || changed {
		t.Fatalf("expected rejected/unchanged, got %q changed=%v", got, changed)
	}
}

func TestResolveHRLeadNeverMoves(t *testing.T) {
	got, changed := Resolve(RecommendationRecommended, identity.ReviewerHRLead, RecommendationRejected, false)
	if got != RecommendationRecommended || changed {
		t.Fatalf("expected recommended/unchanged, got %q changed=%v", got, changed)
	}
}

// The three-step scenario: an other department head recommends, the own
// head later rejects, and the other head's repeated recommendation no
// longer wins.
func TestResolvePrecedenceSequence(t *testing.T) {
	current := RecommendationUnset

	current, changed := Resolve(current, identity.ReviewerOtherDepartmentHead, RecommendationRecommended, false)
	if current != RecommendationRecommended || !changed {
		t.Fatalf("step 1: got %q changed=%v", current, changed)
	}

	current, changed = Resolve(current, identity.ReviewerOwnDepartmentHead, RecommendationRejected, false)
	if current != RecommendationRejected || !changed {
		t.Fatalf("step 2: got %q changed=%v", current, changed)
	}

	current, changed = Resolve(current, identity.ReviewerOtherDepartmentHead, RecommendationRecommended, true)
	if current != RecommendationRejected || changed {
		t.Fatalf("step 3: got %q changed=%v", current, changed)
	}
}

func TestResolveNoChangeWhenSameValue(t *testing.T) {
	got, changed := Resolve(RecommendationRecommended, identity.ReviewerOwnDepartmentHead, RecommendationRecommended, false)
	if got != RecommendationRecommended || changed {
		t.Fatalf("expected recommended/unchanged, got %q changed=%v", got, changed)
	}
}
