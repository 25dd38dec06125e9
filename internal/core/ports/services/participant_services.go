package services

import (
	"context"

	"github.com/SscSPs/activity_settlement_app/internal/core/domain"
	"github.com/SscSPs/activity_settlement_app/internal/dto"
)

// ParticipantReaderSvc defines read operations for activity participants
type ParticipantReaderSvc interface {
	// ListParticipants retrieves every participant of an activity.
	ListParticipants(ctx context.Context, activityID string) ([]domain.Participant, error)
}

// ParticipantWriterSvc defines write operations for activity participants
type ParticipantWriterSvc interface {
	// AddParticipant registers a pending participant on an activity.
	AddParticipant(ctx context.Context, activityID string, req dto.AddParticipantRequest, requestingUserID string) (*domain.Participant, error)

	// ApproveParticipant moves a pending participant to approved.
	ApproveParticipant(ctx context.Context, activityID string, participantID string, requestingUserID string) (*domain.Participant, error)

	// RejectParticipant moves a pending participant to rejected.
	RejectParticipant(ctx context.Context, activityID string, participantID string, requestingUserID string) (*domain.Participant, error)
}

// ParticipantSvcFacade combines all participant-related service interfaces
type ParticipantSvcFacade interface {
	ParticipantReaderSvc
	ParticipantWriterSvc
}
