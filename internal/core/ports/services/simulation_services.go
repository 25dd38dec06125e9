package services

import (
	"context"

	"github.com/SscSPs/activity_settlement_app/internal/dto"
)

// SimulationSvcFacade defines cost allocation preview operations.
// Simulations read current records and roster state but never write anything.
type SimulationSvcFacade interface {
	// SimulateSettlement computes a cost allocation for an activity using the
	// supplied options and per-participant overrides.
	SimulateSettlement(ctx context.Context, activityID string, req dto.SimulateSettlementRequest, requestingUserID string) (*dto.AllocationResponse, error)
}
