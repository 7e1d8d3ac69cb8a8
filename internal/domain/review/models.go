package review

import "time"

// Recommendation is the tri-state review decision. The empty string is the
// unset state; on the wire it maps to a nullable bool.
type Recommendation string

const (
	RecommendationUnset       Recommendation = ""
	RecommendationRecommended Recommendation = "recommended"
	RecommendationRejected    Recommendation = "rejected"
)

func RecommendationFromBool(value *bool) Recommendation {
	if value == nil {
		return RecommendationUnset
	}
	if *value {
		return RecommendationRecommended
	}
	return RecommendationRejected
}

func (r Recommendation) Bool() *bool {
	switch r {
	case RecommendationRecommended:
		v := true
		return &v
	case RecommendationRejected:
		v := false
		return &v
	}
	return nil
}

// Review is the per-candidate decision record. Recommendation is derived by
// the consensus rule on every opinion save, never set directly.
type Review struct {
	ID              string         `json:"id"`
	CandidateID     string         `json:"candidateId"`
	CompetencyScore float64        `json:"competencyScore"`
	CompetencyEval  string         `json:"competencyEval"`
	Recommendation  Recommendation `json:"recommendation"`
}

// Opinion is one reviewer's contribution, unique per (review, reviewer).
// ModifiedBy/ModifiedAt record administrator saves made on the reviewer's
// behalf.
type Opinion struct {
	ID             string         `json:"id"`
	ReviewID       string         `json:"reviewId"`
	ReviewerID     string         `json:"reviewerId"`
	ReviewerRole   string         `json:"reviewerRole"`
	Text           string         `json:"text"`
	Recommendation Recommendation `json:"recommendation"`
	SavedAt        time.Time      `json:"savedAt"`
	ModifiedBy     string         `json:"modifiedBy,omitempty"`
	ModifiedAt     *time.Time     `json:"modifiedAt,omitempty"`
}

// ReviewContext locates a review's candidate for authorization and lock
// checks.
type ReviewContext struct {
	ReviewID    string
	CandidateID string
	EmployeeID  string
	Department  string
	Year        int
}

type Submission struct {
	Department  string    `json:"department"`
	Year        int       `json:"year"`
	SubmittedBy string    `json:"submittedBy"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type ConfirmationStatus string

const (
	StatusPending   ConfirmationStatus = "pending"
	StatusConfirmed ConfirmationStatus = "confirmed"
	StatusDeferred  ConfirmationStatus = "deferred"
)

func ParseConfirmationStatus(raw string) (ConfirmationStatus, bool) {
	switch ConfirmationStatus(raw) {
	case StatusPending, StatusConfirmed, StatusDeferred:
		return ConfirmationStatus(raw), true
	}
	return "", false
}

type Confirmation struct {
	CandidateID string             `json:"candidateId"`
	Year        int                `json:"year"`
	Status      ConfirmationStatus `json:"status"`
	ConfirmedAt *time.Time         `json:"confirmedAt,omitempty"`
}

// ConfirmationRow is one line of the final-decision roster.
type ConfirmationRow struct {
	CandidateID    string             `json:"candidateId"`
	EmployeeID     string             `json:"employeeId"`
	Name           string             `json:"name"`
	Department     string             `json:"department"`
	Level          int                `json:"level"`
	Recommendation Recommendation     `json:"recommendation"`
	Status         ConfirmationStatus `json:"status"`
	ConfirmedAt    *time.Time         `json:"confirmedAt,omitempty"`
}

// SaveOutcome reports the authoritative recommendation after an opinion
// save. ReviewUpdated is false when the save lost precedence and the
// authoritative value stayed put.
type SaveOutcome struct {
	Recommendation Recommendation `json:"recommendation"`
	ReviewUpdated  bool           `json:"reviewUpdated"`
}
