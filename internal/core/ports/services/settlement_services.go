package services

import (
	"context"

	"github.com/SscSPs/activity_settlement_app/internal/core/domain"
	"github.com/SscSPs/activity_settlement_app/internal/dto"
)

// SettlementReaderSvc defines read operations for settlement data
type SettlementReaderSvc interface {
	// GetSettlementByID retrieves a settlement with its breakdown by ID.
	GetSettlementByID(ctx context.Context, activityID string, settlementID string) (*domain.Settlement, error)

	// ListSettlements retrieves a paginated list of settlements in an activity, newest first.
	ListSettlements(ctx context.Context, activityID string, params dto.ListSettlementsParams) (*dto.ListSettlementsResponse, error)
}

// SettlementWriterSvc defines write operations for settlement data
type SettlementWriterSvc interface {
	// CreateSettlement persists a new draft settlement from a simulation result.
	CreateSettlement(ctx context.Context, activityID string, req dto.CreateSettlementRequest, creatorUserID string) (*domain.Settlement, error)

	// FinalizeSettlement promotes a draft settlement to finalized, superseding
	// any previously finalized settlement of the activity.
	FinalizeSettlement(ctx context.Context, activityID string, settlementID string, requestingUserID string) (*domain.Settlement, error)
}

// SettlementSvcFacade combines all settlement-related service interfaces
// This is a facade for clients that need access to all operations
type SettlementSvcFacade interface {
	SettlementReaderSvc
	SettlementWriterSvc
}
