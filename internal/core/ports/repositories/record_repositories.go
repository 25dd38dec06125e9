package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/activity_settlement_app/internal/core/domain"
)

// RecordReader defines read operations for accounting record data
type RecordReader interface {
	// FindRecordByID retrieves a specific accounting record by its unique identifier.
	FindRecordByID(ctx context.Context, recordID string) (*domain.AccountingRecord, error)

	// FindRecordsByActivity retrieves every non-deleted record of an activity.
	// Allocation math needs the complete set, so this is deliberately unpaginated.
	FindRecordsByActivity(ctx context.Context, activityID string) ([]domain.AccountingRecord, error)

	// ListRecordsByActivity retrieves a paginated list of records for an activity
	// using token-based pagination. It returns the records, a token for the next
	// page, and an error.
	ListRecordsByActivity(ctx context.Context, activityID string, limit int, nextToken *string) ([]domain.AccountingRecord, *string, error)
}

// RecordWriter defines write operations for accounting record data
type RecordWriter interface {
	// SaveRecord persists a new accounting record.
	SaveRecord(ctx context.Context, record domain.AccountingRecord) error

	// UpdateRecord updates an existing record's details.
	UpdateRecord(ctx context.Context, record domain.AccountingRecord) error

	// UpdateRecordStatus moves a record to the given status.
	UpdateRecordStatus(ctx context.Context, recordID string, status domain.RecordStatus, updatedByUserID string, updatedAt time.Time) error

	// DeleteRecord removes a record permanently.
	DeleteRecord(ctx context.Context, recordID string) error
}

// CategoryReader defines read operations for expense category data
type CategoryReader interface {
	// ListCategories retrieves all expense categories ordered by sort order.
	ListCategories(ctx context.Context) ([]domain.ExpenseCategory, error)
}

// RecordRepositoryFacade combines all record-related repository interfaces
// This is a facade for clients that need access to all operations
type RecordRepositoryFacade interface {
	RecordReader
	RecordWriter
	CategoryReader
}

// RecordRepositoryWithTx extends RecordRepositoryFacade with transaction capabilities
type RecordRepositoryWithTx interface {
	RecordRepositoryFacade
	TransactionManager
}
