package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/activity_settlement_app/internal/core/domain"
)

// SettlementReader defines read operations for settlement data
type SettlementReader interface {
	// FindSettlementByID retrieves a specific settlement, including its
	// breakdown lines, by its unique identifier.
	FindSettlementByID(ctx context.Context, settlementID string) (*domain.Settlement, error)

	// ListSettlementsByActivity retrieves a paginated list of settlements for an
	// activity, newest first, using token-based pagination. Breakdown lines are
	// not loaded for list views. It returns the settlements, a token for the
	// next page, and an error.
	ListSettlementsByActivity(ctx context.Context, activityID string, limit int, nextToken *string) ([]domain.Settlement, *string, error)
}

// SettlementWriter defines write operations for settlement data
type SettlementWriter interface {
	// SaveSettlement persists a draft settlement and its breakdown lines.
	// The settlement number is assigned inside the same transaction so that
	// sequence numbers stay gapless-monotonic per activity; the assigned
	// number and sequence are written back onto the passed settlement.
	SaveSettlement(ctx context.Context, settlement *domain.Settlement) error

	// FinalizeSettlement promotes a draft settlement to finalized and marks any
	// previously finalized settlement of the same activity as superseded, all
	// within one transaction. The status change is a compare-and-swap on the
	// draft status: if the settlement is no longer a draft the update matches
	// zero rows and ErrConcurrencyConflict is returned.
	FinalizeSettlement(ctx context.Context, settlementID string, finalizedByUserID string, finalizedAt time.Time) (*domain.Settlement, error)
}

// SettlementRepositoryFacade combines all settlement-related repository interfaces
// This is a facade for clients that need access to all operations
type SettlementRepositoryFacade interface {
	SettlementReader
	SettlementWriter
}

// SettlementRepositoryWithTx extends SettlementRepositoryFacade with transaction capabilities
type SettlementRepositoryWithTx interface {
	SettlementRepositoryFacade
	TransactionManager
}
