package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/activity_settlement_app/internal/apperrors"
	"github.com/SscSPs/activity_settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/activity_settlement_app/internal/core/ports/repositories"
	"github.com/SscSPs/activity_settlement_app/internal/models"
	"github.com/SscSPs/activity_settlement_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const participantColumns = `participant_id, activity_id, user_id, display_name, status, joined_at`

type PgxParticipantRepository struct {
	BaseRepository
}

// newPgxParticipantRepository creates a new repository for activity participant data.
func newPgxParticipantRepository(pool *pgxpool.Pool) portsrepo.ParticipantRepositoryFacade {
	return &PgxParticipantRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxParticipantRepository implements portsrepo.ParticipantRepositoryFacade
var _ portsrepo.ParticipantRepositoryFacade = (*PgxParticipantRepository)(nil)

func (r *PgxParticipantRepository) SaveParticipant(ctx context.Context, participant domain.Participant) error {
	query := `
		INSERT INTO activity_participants (` + participantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query,
		participant.ParticipantID,
		participant.ActivityID,
		participant.UserID,
		participant.DisplayName,
		string(participant.Status),
		participant.JoinedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewConflictError(fmt.Sprintf("user %s is already a participant of activity %s", participant.UserID, participant.ActivityID))
		}
		return fmt.Errorf("failed to save participant: %w", err)
	}
	return nil
}

func (r *PgxParticipantRepository) FindParticipantByID(ctx context.Context, participantID string) (*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM activity_participants WHERE participant_id = $1;`
	rows, err := r.Pool.Query(ctx, query, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participant %s: %w", participantID, err)
	}

	modelParticipant, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Participant])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find participant %s: %w", participantID, err)
	}

	domainParticipant := mapping.ToDomainParticipant(modelParticipant)
	return &domainParticipant, nil
}

func (r *PgxParticipantRepository) ListParticipantsByActivity(ctx context.Context, activityID string) ([]domain.Participant, error) {
	query := `
		SELECT ` + participantColumns + `
		FROM activity_participants
		WHERE activity_id = $1
		ORDER BY participant_id ASC;
	`
	return r.collectParticipants(ctx, query, activityID)
}

// ListApprovedParticipants returns the allocation roster, ordered by
// participant ID so share distribution stays deterministic.
func (r *PgxParticipantRepository) ListApprovedParticipants(ctx context.Context, activityID string) ([]domain.Participant, error) {
	query := `
		SELECT ` + participantColumns + `
		FROM activity_participants
		WHERE activity_id = $1 AND status = 'approved'
		ORDER BY participant_id ASC;
	`
	return r.collectParticipants(ctx, query, activityID)
}

func (r *PgxParticipantRepository) collectParticipants(ctx context.Context, query string, activityID string) ([]domain.Participant, error) {
	rows, err := r.Pool.Query(ctx, query, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants for activity %s: %w", activityID, err)
	}

	modelParticipants, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Participant])
	if err != nil {
		return nil, fmt.Errorf("failed to collect participants for activity %s: %w", activityID, err)
	}

	return mapping.ToDomainParticipants(modelParticipants), nil
}

func (r *PgxParticipantRepository) UpdateParticipantStatus(ctx context.Context, participantID string, status domain.ParticipantStatus) error {
	query := `UPDATE activity_participants SET status = $2 WHERE participant_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, participantID, string(status))
	if err != nil {
		return fmt.Errorf("failed to update status of participant %s: %w", participantID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
