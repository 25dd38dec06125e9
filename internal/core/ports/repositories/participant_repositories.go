package repositories

import (
	"context"

	"github.com/SscSPs/activity_settlement_app/internal/core/domain"
)

// ParticipantReader defines read operations for activity participant data
type ParticipantReader interface {
	// FindParticipantByID retrieves a specific participant by their unique identifier.
	FindParticipantByID(ctx context.Context, participantID string) (*domain.Participant, error)

	// ListParticipantsByActivity retrieves every participant of an activity
	// regardless of status, ordered by participant ID.
	ListParticipantsByActivity(ctx context.Context, activityID string) ([]domain.Participant, error)

	// ListApprovedParticipants retrieves only the approved participants of an
	// activity, ordered by participant ID. This is the roster the allocation
	// math runs against.
	ListApprovedParticipants(ctx context.Context, activityID string) ([]domain.Participant, error)
}

// ParticipantWriter defines write operations for activity participant data
type ParticipantWriter interface {
	// SaveParticipant persists a new participant.
	SaveParticipant(ctx context.Context, participant domain.Participant) error

	// UpdateParticipantStatus moves a participant to the given status.
	UpdateParticipantStatus(ctx context.Context, participantID string, status domain.ParticipantStatus) error
}

// ParticipantRepositoryFacade combines all participant-related repository interfaces
// This is a facade for clients that need access to all operations
type ParticipantRepositoryFacade interface {
	ParticipantReader
	ParticipantWriter
}
