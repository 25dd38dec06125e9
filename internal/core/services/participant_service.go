package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/activity_settlement_app/internal/apperrors"
	"github.com/SscSPs/activity_settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/activity_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/activity_settlement_app/internal/core/ports/services"
	"github.com/SscSPs/activity_settlement_app/internal/dto"
	"github.com/SscSPs/activity_settlement_app/internal/middleware"
)

// participantService manages the activity roster.
type participantService struct {
	participantRepo portsrepo.ParticipantRepositoryFacade
}

// NewParticipantService creates a new ParticipantService.
func NewParticipantService(participantRepo portsrepo.ParticipantRepositoryFacade) portssvc.ParticipantSvcFacade {
	return &participantService{participantRepo: participantRepo}
}

// Ensure participantService implements the portssvc.ParticipantSvcFacade interface
var _ portssvc.ParticipantSvcFacade = (*participantService)(nil)

// ListParticipants retrieves every participant of an activity.
func (s *participantService) ListParticipants(ctx context.Context, activityID string) ([]domain.Participant, error) {
	return s.participantRepo.ListParticipantsByActivity(ctx, activityID)
}

// AddParticipant registers a pending participant on an activity.
func (s *participantService) AddParticipant(ctx context.Context, activityID string, req dto.AddParticipantRequest, requestingUserID string) (*domain.Participant, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	participant := domain.Participant{
		ParticipantID: uuid.NewString(),
		ActivityID:    activityID,
		UserID:        req.UserID,
		DisplayName:   req.DisplayName,
		Status:        domain.ParticipantStatusPending,
		JoinedAt:      time.Now(),
	}

	if err := s.participantRepo.SaveParticipant(ctx, participant); err != nil {
		logger.Error("Failed to save participant", slog.String("activity_id", activityID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save participant: %w", err)
	}

	logger.Info("Participant added", slog.String("participant_id", participant.ParticipantID), slog.String("activity_id", activityID), slog.String("added_by", requestingUserID))
	return &participant, nil
}

// ApproveParticipant moves a pending participant to approved.
func (s *participantService) ApproveParticipant(ctx context.Context, activityID string, participantID string, requestingUserID string) (*domain.Participant, error) {
	return s.transitionParticipant(ctx, activityID, participantID, requestingUserID, domain.ParticipantStatusApproved)
}

// RejectParticipant moves a pending participant to rejected.
func (s *participantService) RejectParticipant(ctx context.Context, activityID string, participantID string, requestingUserID string) (*domain.Participant, error) {
	return s.transitionParticipant(ctx, activityID, participantID, requestingUserID, domain.ParticipantStatusRejected)
}

func (s *participantService) transitionParticipant(ctx context.Context, activityID string, participantID string, requestingUserID string, target domain.ParticipantStatus) (*domain.Participant, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	participant, err := s.participantRepo.FindParticipantByID(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if participant.ActivityID != activityID {
		return nil, apperrors.ErrNotFound
	}
	if participant.Status != domain.ParticipantStatusPending {
		return nil, fmt.Errorf("%w: participant is already %s", apperrors.ErrInvalidState, participant.Status)
	}

	if err := s.participantRepo.UpdateParticipantStatus(ctx, participantID, target); err != nil {
		logger.Error("Failed to update participant status", slog.String("participant_id", participantID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update participant status: %w", err)
	}

	participant.Status = target
	logger.Info("Participant status updated", slog.String("participant_id", participantID), slog.String("status", string(target)), slog.String("updated_by", requestingUserID))
	return participant, nil
}
