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
)

// recordService provides accounting record operations for an activity.
type recordService struct {
	recordRepo portsrepo.RecordRepositoryFacade
}

// NewRecordService creates a new RecordService.
func NewRecordService(recordRepo portsrepo.RecordRepositoryFacade) portssvc.RecordSvcFacade {
	return &recordService{recordRepo: recordRepo}
}

// Ensure recordService implements the portssvc.RecordSvcFacade interface
var _ portssvc.RecordSvcFacade = (*recordService)(nil)

// validateAmount enforces the sign rules per record type. Expense and reserve
// amounts must be strictly positive; adjustments carry a signed amount but
// must not be zero.
func validateAmount(recordType domain.RecordType, amount decimal.Decimal) error {
	switch recordType {
	case domain.RecordTypeExpense, domain.RecordTypeReserve:
		if !amount.IsPositive() {
			return fmt.Errorf("%w: %s amount must be positive, got %s", apperrors.ErrValidation, recordType, amount.String())
		}
	case domain.RecordTypeAdjustment:
		if amount.IsZero() {
			return fmt.Errorf("%w: adjustment amount must not be zero", apperrors.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown record type %q", apperrors.ErrValidation, recordType)
	}
	return nil
}

// CreateRecord persists a new draft accounting record.
func (s *recordService) CreateRecord(ctx context.Context, activityID string, req dto.CreateRecordRequest, creatorUserID string) (*domain.AccountingRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmount(req.RecordType, req.Amount); err != nil {
		return nil, err
	}

	now := time.Now()
	record := domain.AccountingRecord{
		RecordID:    uuid.NewString(),
		ActivityID:  activityID,
		RecordType:  req.RecordType,
		Amount:      req.Amount,
		Status:      domain.RecordStatusDraft,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		RecordDate:  req.RecordDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.recordRepo.SaveRecord(ctx, record); err != nil {
		logger.Error("Failed to save accounting record", slog.String("activity_id", activityID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save record: %w", err)
	}

	logger.Info("Accounting record created", slog.String("record_id", record.RecordID), slog.String("activity_id", activityID), slog.String("record_type", string(record.RecordType)))
	return &record, nil
}

// GetRecordByID retrieves a record and verifies it belongs to the activity.
func (s *recordService) GetRecordByID(ctx context.Context, activityID string, recordID string) (*domain.AccountingRecord, error) {
	record, err := s.recordRepo.FindRecordByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.ActivityID != activityID {
		return nil, apperrors.ErrNotFound
	}
	return record, nil
}

// ListRecords retrieves a paginated list of records in an activity.
func (s *recordService) ListRecords(ctx context.Context, activityID string, params dto.ListRecordsParams) (*dto.ListRecordsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	records, nextToken, err := s.recordRepo.ListRecordsByActivity(ctx, activityID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	return &dto.ListRecordsResponse{
		Records:   dto.ToRecordResponses(records),
		NextToken: nextToken,
	}, nil
}

// ListCategories retrieves all expense categories.
func (s *recordService) ListCategories(ctx context.Context) ([]domain.ExpenseCategory, error) {
	return s.recordRepo.ListCategories(ctx)
}

// UpdateRecord updates a draft record's details. Confirmed and cancelled
// records are immutable.
func (s *recordService) UpdateRecord(ctx context.Context, activityID string, recordID string, req dto.UpdateRecordRequest, requestingUserID string) (*domain.AccountingRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	record, err := s.GetRecordByID(ctx, activityID, recordID)
	if err != nil {
		return nil, err
	}
	if record.Status != domain.RecordStatusDraft {
		return nil, fmt.Errorf("%w: cannot update a %s record", apperrors.ErrInvalidState, record.Status)
	}

	if req.Amount != nil {
		if err := validateAmount(record.RecordType, *req.Amount); err != nil {
			return nil, err
		}
		record.Amount = *req.Amount
	}
	if req.CategoryID != nil {
		record.CategoryID = req.CategoryID
	}
	if req.Description != nil {
		record.Description = *req.Description
	}
	if req.RecordDate != nil {
		record.RecordDate = *req.RecordDate
	}
	record.LastUpdatedAt = time.Now()
	record.LastUpdatedBy = requestingUserID

	if err := s.recordRepo.UpdateRecord(ctx, *record); err != nil {
		logger.Error("Failed to update accounting record", slog.String("record_id", recordID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update record: %w", err)
	}
	return record, nil
}

// DeleteRecord removes a draft record permanently.
func (s *recordService) DeleteRecord(ctx context.Context, activityID string, recordID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	record, err := s.GetRecordByID(ctx, activityID, recordID)
	if err != nil {
		return err
	}
	if record.Status != domain.RecordStatusDraft {
		return fmt.Errorf("%w: cannot delete a %s record", apperrors.ErrInvalidState, record.Status)
	}

	if err := s.recordRepo.DeleteRecord(ctx, recordID); err != nil {
		logger.Error("Failed to delete accounting record", slog.String("record_id", recordID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete record: %w", err)
	}
	logger.Info("Accounting record deleted", slog.String("record_id", recordID), slog.String("deleted_by", requestingUserID))
	return nil
}

// ConfirmRecord moves a draft record to confirmed.
func (s *recordService) ConfirmRecord(ctx context.Context, activityID string, recordID string, requestingUserID string) (*domain.AccountingRecord, error) {
	return s.transitionRecord(ctx, activityID, recordID, requestingUserID, domain.RecordStatusConfirmed)
}

// CancelRecord moves a draft or confirmed record to cancelled.
func (s *recordService) CancelRecord(ctx context.Context, activityID string, recordID string, requestingUserID string) (*domain.AccountingRecord, error) {
	return s.transitionRecord(ctx, activityID, recordID, requestingUserID, domain.RecordStatusCancelled)
}

func (s *recordService) transitionRecord(ctx context.Context, activityID string, recordID string, requestingUserID string, target domain.RecordStatus) (*domain.AccountingRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	record, err := s.GetRecordByID(ctx, activityID, recordID)
	if err != nil {
		return nil, err
	}

	if !isValidRecordTransition(record.Status, target) {
		return nil, fmt.Errorf("%w: cannot move record from %s to %s", apperrors.ErrInvalidState, record.Status, target)
	}

	now := time.Now()
	if err := s.recordRepo.UpdateRecordStatus(ctx, recordID, target, requestingUserID, now); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		logger.Error("Failed to update record status", slog.String("record_id", recordID), slog.String("target_status", string(target)), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update record status: %w", err)
	}

	record.Status = target
	record.LastUpdatedAt = now
	record.LastUpdatedBy = requestingUserID
	logger.Info("Record status updated", slog.String("record_id", recordID), slog.String("status", string(target)))
	return record, nil
}

// isValidRecordTransition encodes the record status machine: drafts may be
// confirmed or cancelled, confirmed records may only be cancelled, and
// cancelled is terminal.
func isValidRecordTransition(from, to domain.RecordStatus) bool {
	switch from {
	case domain.RecordStatusDraft:
		return to == domain.RecordStatusConfirmed || to == domain.RecordStatusCancelled
	case domain.RecordStatusConfirmed:
		return to == domain.RecordStatusCancelled
	default:
		return false
	}
}
