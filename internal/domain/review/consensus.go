package review

import "levelup/internal/domain/identity"

// Resolve applies the consensus precedence rule to one opinion save and
// returns the new authoritative recommendation plus whether it changed.
//
// The own department head always overwrites, including back to unset. Any
// other department head only wins while no own-head opinion with a non-unset
// recommendation exists; ownHeadDecided must be read in the same transaction
// as the write, or two concurrent savers could both believe they have
// precedence. The HR lead is an annotation channel and never moves the
// authoritative value.
func Resolve(current Recommendation, reviewerRole string, proposed Recommendation, ownHeadDecided bool) (Recommendation, bool) {
	switch reviewerRole {
	case identity.ReviewerOwnDepartmentHead:
		return proposed, proposed != current
	case identity.ReviewerOtherDepartmentHead:
		if ownHeadDecided {
			return current, false
		}
		return proposed, proposed != current
	}
	return current, false
}
