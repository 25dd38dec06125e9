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
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const settlementColumns = `settlement_id, activity_id, settlement_number, sequence_no, status, total_expense, total_reserve, net_expense, per_person_cost, participant_count, notes, finalized_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxSettlementRepository struct {
	BaseRepository
}

// newPgxSettlementRepository creates a new repository for settlement data.
func newPgxSettlementRepository(pool *pgxpool.Pool) portsrepo.SettlementRepositoryWithTx {
	return &PgxSettlementRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxSettlementRepository implements portsrepo.SettlementRepositoryWithTx
var _ portsrepo.SettlementRepositoryWithTx = (*PgxSettlementRepository)(nil)

// SaveSettlement persists a draft settlement and its breakdown lines in one
// transaction. The settlement number is assigned here from the activity's
// sequence; the unique constraint on (activity_id, sequence_no) turns a
// concurrent assignment race into ErrConcurrencyConflict.
func (r *PgxSettlementRepository) SaveSettlement(ctx context.Context, settlement *domain.Settlement) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var nextSeq int64
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(sequence_no), 0) + 1 FROM settlements WHERE activity_id = $1;`,
		settlement.ActivityID,
	).Scan(&nextSeq)
	if err != nil {
		return fmt.Errorf("failed to compute next settlement sequence: %w", err)
	}

	settlement.SequenceNo = nextSeq
	settlement.SettlementNumber = fmt.Sprintf("AA-%04d", nextSeq)

	modelSettlement := mapping.ToModelSettlement(*settlement)
	query := `
		INSERT INTO settlements (` + settlementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = tx.Exec(ctx, query,
		modelSettlement.SettlementID,
		modelSettlement.ActivityID,
		modelSettlement.SettlementNumber,
		modelSettlement.SequenceNo,
		modelSettlement.Status,
		modelSettlement.TotalExpense,
		modelSettlement.TotalReserve,
		modelSettlement.NetExpense,
		modelSettlement.PerPersonCost,
		modelSettlement.ParticipantCount,
		modelSettlement.Notes,
		modelSettlement.FinalizedAt,
		modelSettlement.CreatedAt,
		modelSettlement.CreatedBy,
		modelSettlement.LastUpdatedAt,
		modelSettlement.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation on (activity_id, sequence_no)
			return apperrors.ErrConcurrencyConflict
		}
		return fmt.Errorf("failed to save settlement: %w", err)
	}

	items := mapping.ToModelSettlementItems(settlement.SettlementID, settlement.Breakdown)
	itemQuery := `
		INSERT INTO settlement_items (item_id, settlement_id, participant_id, participant_name, weight, share_amount, is_exempt, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, item := range items {
		if _, err := tx.Exec(ctx, itemQuery,
			uuid.NewString(),
			item.SettlementID,
			item.ParticipantID,
			item.ParticipantName,
			item.Weight,
			item.ShareAmount,
			item.IsExempt,
			item.SortOrder,
		); err != nil {
			return fmt.Errorf("failed to save settlement item for participant %s: %w", item.ParticipantID, err)
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxSettlementRepository) FindSettlementByID(ctx context.Context, settlementID string) (*domain.Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE settlement_id = $1;`
	rows, err := r.Pool.Query(ctx, query, settlementID)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlement %s: %w", settlementID, err)
	}

	modelSettlement, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Settlement])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find settlement %s: %w", settlementID, err)
	}

	settlement := mapping.ToDomainSettlement(modelSettlement)
	breakdown, err := r.findSettlementItems(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	settlement.Breakdown = breakdown
	return &settlement, nil
}

func (r *PgxSettlementRepository) findSettlementItems(ctx context.Context, settlementID string) ([]domain.AllocationLine, error) {
	query := `
		SELECT item_id, settlement_id, participant_id, participant_name, weight, share_amount, is_exempt, sort_order
		FROM settlement_items
		WHERE settlement_id = $1
		ORDER BY sort_order ASC;
	`
	rows, err := r.Pool.Query(ctx, query, settlementID)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlement items for %s: %w", settlementID, err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.SettlementItem])
	if err != nil {
		return nil, fmt.Errorf("failed to collect settlement items for %s: %w", settlementID, err)
	}

	return mapping.ToDomainAllocationLines(items), nil
}

// ListSettlementsByActivity retrieves a paginated list of settlements for an
// activity, newest first. Breakdown lines are not loaded for list views.
func (r *PgxSettlementRepository) ListSettlementsByActivity(ctx context.Context, activityID string, limit int, nextToken *string) ([]domain.Settlement, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT ` + settlementColumns + `
		FROM settlements
		WHERE activity_id = $1
	`
	args := []interface{}{activityID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, decodeErr := pagination.DecodeDateBasedToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, decodeErr)
		}
		query += ` AND created_at < $2`
		args = append(args, lastCreatedAt)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1) // Fetch one extra to detect the next page

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list settlements for activity %s: %w", activityID, err)
	}

	modelSettlements, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Settlement])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to collect settlements for activity %s: %w", activityID, err)
	}

	var newToken *string
	if len(modelSettlements) > limit {
		modelSettlements = modelSettlements[:limit]
		token := pagination.EncodeDateBasedToken(modelSettlements[len(modelSettlements)-1].CreatedAt)
		newToken = &token
	}

	return mapping.ToDomainSettlements(modelSettlements), newToken, nil
}

// FinalizeSettlement promotes a draft settlement to finalized and supersedes
// any previously finalized settlement of the same activity within one
// transaction. The promotion is a compare-and-swap on the draft status; a
// concurrent writer that got there first leaves zero rows to update and the
// caller gets ErrConcurrencyConflict.
func (r *PgxSettlementRepository) FinalizeSettlement(ctx context.Context, settlementID string, finalizedByUserID string, finalizedAt time.Time) (*domain.Settlement, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	var activityID string
	err = tx.QueryRow(ctx,
		`SELECT activity_id FROM settlements WHERE settlement_id = $1 FOR UPDATE;`,
		settlementID,
	).Scan(&activityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock settlement %s: %w", settlementID, err)
	}

	// Retire the currently finalized settlement first so the partial unique
	// index on finalized settlements per activity is never violated.
	_, err = tx.Exec(ctx, `
		UPDATE settlements
		SET status = 'superseded', last_updated_at = $2, last_updated_by = $3
		WHERE activity_id = $1 AND status = 'finalized';
	`, activityID, finalizedAt, finalizedByUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to supersede previous settlement for activity %s: %w", activityID, err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE settlements
		SET status = 'finalized', finalized_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE settlement_id = $1 AND status = 'draft';
	`, settlementID, finalizedAt, finalizedByUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to finalize settlement %s: %w", settlementID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.ErrConcurrencyConflict
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	return r.FindSettlementByID(ctx, settlementID)
}
