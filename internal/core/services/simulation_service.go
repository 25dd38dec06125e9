package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/activity_settlement_app/internal/apperrors"
	"github.com/SscSPs/activity_settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/activity_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/activity_settlement_app/internal/core/ports/services"
	"github.com/SscSPs/activity_settlement_app/internal/dto"
	"github.com/SscSPs/activity_settlement_app/internal/middleware"
	"github.com/SscSPs/activity_settlement_app/internal/utils/allocation"
)

// noEligiblePayersWarning is surfaced to clients instead of a hard failure
// when there is a net expense but nobody to carry it.
const noEligiblePayersWarning = "no eligible payers: every participant is exempt or has zero weight"

// simulationService computes cost allocation previews. It reads records and
// roster state but never writes anything.
type simulationService struct {
	recordRepo      portsrepo.RecordReader
	participantRepo portsrepo.ParticipantReader
}

// NewSimulationService creates a new SimulationService.
func NewSimulationService(recordRepo portsrepo.RecordReader, participantRepo portsrepo.ParticipantReader) portssvc.SimulationSvcFacade {
	return &simulationService{
		recordRepo:      recordRepo,
		participantRepo: participantRepo,
	}
}

// Ensure simulationService implements the portssvc.SimulationSvcFacade interface
var _ portssvc.SimulationSvcFacade = (*simulationService)(nil)

// SimulateSettlement computes a cost allocation for an activity.
func (s *simulationService) SimulateSettlement(ctx context.Context, activityID string, req dto.SimulateSettlementRequest, requestingUserID string) (*dto.AllocationResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	records, err := s.recordRepo.FindRecordsByActivity(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load records for simulation: %w", err)
	}

	participants, err := s.participantRepo.ListApprovedParticipants(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants for simulation: %w", err)
	}

	settings := toDomainSettings(req.ParticipantSettings)
	opts := allocation.Options{
		IncludeReserve:     req.IncludeTeamFund,
		IncludeUnconfirmed: req.IncludeUnconfirmedRecords,
	}

	alloc, err := allocation.Calculate(records, participants, settings, opts)
	warning := ""
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrNoEligiblePayers):
		warning = noEligiblePayersWarning
		logger.Warn("Simulation produced no eligible payers", slog.String("activity_id", activityID), slog.String("net_expense", alloc.NetExpense.String()))
	default:
		return nil, err
	}

	logger.Info("Settlement simulated",
		slog.String("activity_id", activityID),
		slog.String("requested_by", requestingUserID),
		slog.String("net_expense", alloc.NetExpense.String()),
		slog.Int("participant_count", alloc.ParticipantCount))

	resp := dto.ToAllocationResponse(&alloc, warning)
	return &resp, nil
}

// toDomainSettings resolves the per-request overrides, defaulting an omitted
// weight to 1.
func toDomainSettings(inputs []dto.ParticipantSettingInput) []domain.ParticipantSetting {
	settings := make([]domain.ParticipantSetting, len(inputs))
	for i, in := range inputs {
		weight := decimal.NewFromInt(1)
		if in.Weight != nil {
			weight = *in.Weight
		}
		settings[i] = domain.ParticipantSetting{
			ParticipantID: in.ParticipantID,
			Weight:        weight,
			IsExempt:      in.IsExempt,
		}
	}
	return settings
}
