package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParticipantStatus is the approval state of an activity participant.
type ParticipantStatus string

const (
	ParticipantStatusPending  ParticipantStatus = "pending"
	ParticipantStatusApproved ParticipantStatus = "approved"
	ParticipantStatusRejected ParticipantStatus = "rejected"
)

// Participant is a user signed up for an activity. Only approved participants
// are eligible for cost allocation.
type Participant struct {
	ParticipantID string            `json:"participantID"` // Primary Key (UUID)
	ActivityID    string            `json:"activityID"`
	UserID        string            `json:"userID"`
	DisplayName   string            `json:"displayName"`
	Status        ParticipantStatus `json:"status"`
	JoinedAt      time.Time         `json:"joinedAt"`
}

// ParticipantSetting tunes one participant's part in a single allocation run.
// It is supplied per request and never persisted on its own; participants
// without a setting default to weight 1, not exempt.
type ParticipantSetting struct {
	ParticipantID string          `json:"participantID"`
	Weight        decimal.Decimal `json:"weight"`
	IsExempt      bool            `json:"isExempt"`
}
