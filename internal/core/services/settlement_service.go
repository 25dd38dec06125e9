package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/activity_settlement_app/internal/apperrors"
	"github.com/SscSPs/activity_settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/activity_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/activity_settlement_app/internal/core/ports/services"
	"github.com/SscSPs/activity_settlement_app/internal/dto"
	"github.com/SscSPs/activity_settlement_app/internal/middleware"
	"github.com/SscSPs/activity_settlement_app/internal/utils/allocation"
)

// settlementService manages the settlement lifecycle for activities.
type settlementService struct {
	settlementRepo  portsrepo.SettlementRepositoryFacade
	recordRepo      portsrepo.RecordReader
	participantRepo portsrepo.ParticipantReader
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(settlementRepo portsrepo.SettlementRepositoryFacade, recordRepo portsrepo.RecordReader, participantRepo portsrepo.ParticipantReader) portssvc.SettlementSvcFacade {
	return &settlementService{
		settlementRepo:  settlementRepo,
		recordRepo:      recordRepo,
		participantRepo: participantRepo,
	}
}

// Ensure settlementService implements the portssvc.SettlementSvcFacade interface
var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

// CreateSettlement persists a new draft settlement. When the request carries a
// previously simulated allocation, that snapshot is validated against the
// current roster before being accepted; otherwise the allocation is recomputed
// with default options.
func (s *settlementService) CreateSettlement(ctx context.Context, activityID string, req dto.CreateSettlementRequest, creatorUserID string) (*domain.Settlement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var alloc domain.Allocation
	if req.SimulationResult != nil {
		alloc = dto.ToDomainAllocation(req.SimulationResult)
		if err := s.validateSnapshot(ctx, activityID, alloc); err != nil {
			return nil, err
		}
	} else {
		computed, err := s.computeAllocation(ctx, activityID)
		if err != nil {
			return nil, err
		}
		alloc = computed
	}

	now := time.Now()
	settlement := domain.Settlement{
		SettlementID:     uuid.NewString(),
		ActivityID:       activityID,
		Status:           domain.SettlementStatusDraft,
		TotalExpense:     alloc.TotalExpense,
		TotalReserve:     alloc.TotalReserve,
		NetExpense:       alloc.NetExpense,
		PerPersonCost:    alloc.PerPersonCost,
		ParticipantCount: alloc.ParticipantCount,
		Notes:            req.Notes,
		Breakdown:        alloc.Breakdown,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.settlementRepo.SaveSettlement(ctx, &settlement); err != nil {
		logger.Error("Failed to save settlement", slog.String("activity_id", activityID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save settlement: %w", err)
	}

	logger.Info("Settlement created",
		slog.String("settlement_id", settlement.SettlementID),
		slog.String("settlement_number", settlement.SettlementNumber),
		slog.String("activity_id", activityID))
	return &settlement, nil
}

// FinalizeSettlement promotes a draft settlement to finalized. Any previously
// finalized settlement of the activity becomes superseded in the same
// transaction. Losing a finalize race surfaces as ErrConcurrencyConflict.
func (s *settlementService) FinalizeSettlement(ctx context.Context, activityID string, settlementID string, requestingUserID string) (*domain.Settlement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	settlement, err := s.GetSettlementByID(ctx, activityID, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement.Status != domain.SettlementStatusDraft {
		return nil, fmt.Errorf("%w: cannot finalize a %s settlement", apperrors.ErrInvalidState, settlement.Status)
	}

	finalized, err := s.settlementRepo.FinalizeSettlement(ctx, settlementID, requestingUserID, time.Now())
	if err != nil {
		if errors.Is(err, apperrors.ErrConcurrencyConflict) {
			logger.Warn("Lost finalize race", slog.String("settlement_id", settlementID))
			return nil, err
		}
		logger.Error("Failed to finalize settlement", slog.String("settlement_id", settlementID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to finalize settlement: %w", err)
	}

	logger.Info("Settlement finalized",
		slog.String("settlement_id", settlementID),
		slog.String("settlement_number", finalized.SettlementNumber),
		slog.String("finalized_by", requestingUserID))
	return finalized, nil
}

// GetSettlementByID retrieves a settlement with its breakdown and verifies it
// belongs to the activity.
func (s *settlementService) GetSettlementByID(ctx context.Context, activityID string, settlementID string) (*domain.Settlement, error) {
	settlement, err := s.settlementRepo.FindSettlementByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement.ActivityID != activityID {
		return nil, apperrors.ErrNotFound
	}
	return settlement, nil
}

// ListSettlements retrieves a paginated list of settlements, newest first.
func (s *settlementService) ListSettlements(ctx context.Context, activityID string, params dto.ListSettlementsParams) (*dto.ListSettlementsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	settlements, nextToken, err := s.settlementRepo.ListSettlementsByActivity(ctx, activityID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}

	return &dto.ListSettlementsResponse{
		Settlements: dto.ToSettlementResponses(settlements),
		NextToken:   nextToken,
	}, nil
}

// computeAllocation runs the allocation with default options: team fund
// deducted, draft records excluded. A no-eligible-payers outcome is still a
// valid snapshot to persist.
func (s *settlementService) computeAllocation(ctx context.Context, activityID string) (domain.Allocation, error) {
	records, err := s.recordRepo.FindRecordsByActivity(ctx, activityID)
	if err != nil {
		return domain.Allocation{}, fmt.Errorf("failed to load records: %w", err)
	}
	participants, err := s.participantRepo.ListApprovedParticipants(ctx, activityID)
	if err != nil {
		return domain.Allocation{}, fmt.Errorf("failed to load participants: %w", err)
	}

	alloc, err := allocation.Calculate(records, participants, nil, allocation.Options{IncludeReserve: true})
	if err != nil && !errors.Is(err, apperrors.ErrNoEligiblePayers) {
		return domain.Allocation{}, err
	}
	return alloc, nil
}

// validateSnapshot rejects a submitted simulation result that no longer
// matches the activity state: the breakdown must cover exactly the current
// approved roster and the non-exempt shares must sum to the net expense.
func (s *settlementService) validateSnapshot(ctx context.Context, activityID string, alloc domain.Allocation) error {
	participants, err := s.participantRepo.ListApprovedParticipants(ctx, activityID)
	if err != nil {
		return fmt.Errorf("failed to load participants: %w", err)
	}

	if len(alloc.Breakdown) != len(participants) {
		return fmt.Errorf("%w: simulation is stale, roster changed", apperrors.ErrInvalidState)
	}
	roster := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		roster[p.ParticipantID] = struct{}{}
	}
	for _, line := range alloc.Breakdown {
		if _, ok := roster[line.ParticipantID]; !ok {
			return fmt.Errorf("%w: simulation is stale, participant %s is no longer approved", apperrors.ErrInvalidState, line.ParticipantID)
		}
	}

	shareSum := decimal.Zero
	for _, line := range alloc.Breakdown {
		if !line.IsExempt {
			shareSum = shareSum.Add(line.ShareAmount)
		}
	}
	if !shareSum.Equal(alloc.NetExpense) && alloc.ParticipantCount > 0 {
		return fmt.Errorf("%w: breakdown shares sum to %s, expected %s", apperrors.ErrValidation, shareSum.String(), alloc.NetExpense.String())
	}
	return nil
}
