package services

import (
	"context"

	"github.com/SscSPs/activity_settlement_app/internal/core/domain"
	"github.com/SscSPs/activity_settlement_app/internal/dto"
)

// RecordReaderSvc defines read operations for accounting record data
type RecordReaderSvc interface {
	// GetRecordByID retrieves a specific accounting record by its ID.
	GetRecordByID(ctx context.Context, activityID string, recordID string) (*domain.AccountingRecord, error)

	// ListRecords retrieves a paginated list of records in an activity.
	ListRecords(ctx context.Context, activityID string, params dto.ListRecordsParams) (*dto.ListRecordsResponse, error)

	// ListCategories retrieves all expense categories.
	ListCategories(ctx context.Context) ([]domain.ExpenseCategory, error)
}

// RecordWriterSvc defines write operations for accounting record data
type RecordWriterSvc interface {
	// CreateRecord persists a new draft accounting record.
	CreateRecord(ctx context.Context, activityID string, req dto.CreateRecordRequest, creatorUserID string) (*domain.AccountingRecord, error)

	// UpdateRecord updates a draft record's details.
	UpdateRecord(ctx context.Context, activityID string, recordID string, req dto.UpdateRecordRequest, requestingUserID string) (*domain.AccountingRecord, error)

	// DeleteRecord removes a draft record.
	DeleteRecord(ctx context.Context, activityID string, recordID string, requestingUserID string) error
}

// RecordLifecycleSvc defines status transitions for accounting records
type RecordLifecycleSvc interface {
	// ConfirmRecord moves a draft record to confirmed.
	ConfirmRecord(ctx context.Context, activityID string, recordID string, requestingUserID string) (*domain.AccountingRecord, error)

	// CancelRecord moves a draft or confirmed record to cancelled.
	CancelRecord(ctx context.Context, activityID string, recordID string, requestingUserID string) (*domain.AccountingRecord, error)
}

// RecordSvcFacade combines all record-related service interfaces
// This is a facade for clients that need access to all operations
type RecordSvcFacade interface {
	RecordReaderSvc
	RecordWriterSvc
	RecordLifecycleSvc
}
