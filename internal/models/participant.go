package models

import "time"

// ParticipantStatus is the approval state column of a participant row.
type ParticipantStatus string

const (
	ParticipantStatusPending  ParticipantStatus = "pending"
	ParticipantStatusApproved ParticipantStatus = "approved"
	ParticipantStatusRejected ParticipantStatus = "rejected"
)

// Participant maps the activity_participants table.
type Participant struct {
	ParticipantID string            `db:"participant_id"`
	ActivityID    string            `db:"activity_id"`
	UserID        string            `db:"user_id"`
	DisplayName   string            `db:"display_name"`
	Status        ParticipantStatus `db:"status"`
	JoinedAt      time.Time         `db:"joined_at"`
}
