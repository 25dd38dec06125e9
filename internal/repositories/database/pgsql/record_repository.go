package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/activity_settlement_app/internal/apperrors"
	"github.com/SscSPs/activity_settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/activity_settlement_app/internal/core/ports/repositories"
	"github.com/SscSPs/activity_settlement_app/internal/models"
	"github.com/SscSPs/activity_settlement_app/internal/utils/mapping"
	"github.com/SscSPs/activity_settlement_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const recordColumns = `record_id, activity_id, record_type, amount, status, category_id, description, record_date, created_at, created_by, last_updated_at, last_updated_by`

type PgxRecordRepository struct {
	BaseRepository
}

// newPgxRecordRepository creates a new repository for accounting record data.
func newPgxRecordRepository(pool *pgxpool.Pool) portsrepo.RecordRepositoryWithTx {
	return &PgxRecordRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxRecordRepository implements portsrepo.RecordRepositoryWithTx
var _ portsrepo.RecordRepositoryWithTx = (*PgxRecordRepository)(nil)

func (r *PgxRecordRepository) SaveRecord(ctx context.Context, record domain.AccountingRecord) error {
	modelRecord := mapping.ToModelRecord(record)
	query := `
		INSERT INTO accounting_records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelRecord.RecordID,
		modelRecord.ActivityID,
		modelRecord.RecordType,
		modelRecord.Amount,
		modelRecord.Status,
		modelRecord.CategoryID,
		modelRecord.Description,
		modelRecord.RecordDate,
		modelRecord.CreatedAt,
		modelRecord.CreatedBy,
		modelRecord.LastUpdatedAt,
		modelRecord.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewConflictError(fmt.Sprintf("record %s already exists", record.RecordID))
		}
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

func (r *PgxRecordRepository) FindRecordByID(ctx context.Context, recordID string) (*domain.AccountingRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM accounting_records WHERE record_id = $1;`
	rows, err := r.Pool.Query(ctx, query, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to query record %s: %w", recordID, err)
	}

	modelRecord, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.AccountingRecord])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find record %s: %w", recordID, err)
	}

	domainRecord := mapping.ToDomainRecord(modelRecord)
	return &domainRecord, nil
}

// FindRecordsByActivity returns the complete record set of an activity,
// oldest record date first. Allocation math needs all rows, so no pagination.
func (r *PgxRecordRepository) FindRecordsByActivity(ctx context.Context, activityID string) ([]domain.AccountingRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM accounting_records
		WHERE activity_id = $1
		ORDER BY record_date ASC, created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records for activity %s: %w", activityID, err)
	}

	modelRecords, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.AccountingRecord])
	if err != nil {
		return nil, fmt.Errorf("failed to collect records for activity %s: %w", activityID, err)
	}

	return mapping.ToDomainRecords(modelRecords), nil
}

// ListRecordsByActivity retrieves a paginated list of records for an activity
// using token-based pagination, newest record date first.
func (r *PgxRecordRepository) ListRecordsByActivity(ctx context.Context, activityID string, limit int, nextToken *string) ([]domain.AccountingRecord, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT ` + recordColumns + `
		FROM accounting_records
		WHERE activity_id = $1
	`
	args := []interface{}{activityID}

	if nextToken != nil && *nextToken != "" {
		lastRecordDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, decodeErr)
		}
		query += ` AND (record_date, created_at) < ($2, $3)`
		args = append(args, lastRecordDate, lastCreatedAt)
	}

	query += fmt.Sprintf(` ORDER BY record_date DESC, created_at DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1) // Fetch one extra to detect the next page

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list records for activity %s: %w", activityID, err)
	}

	modelRecords, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.AccountingRecord])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to collect records for activity %s: %w", activityID, err)
	}

	var newToken *string
	if len(modelRecords) > limit {
		modelRecords = modelRecords[:limit]
		last := modelRecords[len(modelRecords)-1]
		token := pagination.EncodeToken(last.RecordDate, last.CreatedAt)
		newToken = &token
	}

	return mapping.ToDomainRecords(modelRecords), newToken, nil
}

func (r *PgxRecordRepository) UpdateRecord(ctx context.Context, record domain.AccountingRecord) error {
	modelRecord := mapping.ToModelRecord(record)
	query := `
		UPDATE accounting_records
		SET amount = $2, category_id = $3, description = $4, record_date = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE record_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		modelRecord.RecordID,
		modelRecord.Amount,
		modelRecord.CategoryID,
		modelRecord.Description,
		modelRecord.RecordDate,
		modelRecord.LastUpdatedAt,
		modelRecord.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update record %s: %w", record.RecordID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxRecordRepository) UpdateRecordStatus(ctx context.Context, recordID string, status domain.RecordStatus, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE accounting_records
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE record_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, recordID, string(status), updatedAt, updatedByUserID)
	if err != nil {
		return fmt.Errorf("failed to update status of record %s: %w", recordID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxRecordRepository) DeleteRecord(ctx context.Context, recordID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM accounting_records WHERE record_id = $1;`, recordID)
	if err != nil {
		return fmt.Errorf("failed to delete record %s: %w", recordID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxRecordRepository) ListCategories(ctx context.Context) ([]domain.ExpenseCategory, error) {
	query := `SELECT category_id, name, sort_order FROM expense_categories ORDER BY sort_order ASC;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense categories: %w", err)
	}

	modelCategories, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ExpenseCategory])
	if err != nil {
		return nil, fmt.Errorf("failed to collect expense categories: %w", err)
	}

	categories := make([]domain.ExpenseCategory, len(modelCategories))
	for i, m := range modelCategories {
		categories[i] = mapping.ToDomainCategory(m)
	}
	return categories, nil
}
