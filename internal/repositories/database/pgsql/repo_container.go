package pgsql

import (
	portsrepo "github.com/SscSPs/activity_settlement_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RecordRepo:      newPgxRecordRepository(dbPool),
		ParticipantRepo: newPgxParticipantRepository(dbPool),
		SettlementRepo:  newPgxSettlementRepository(dbPool),
		UserRepo:        newPgxUserRepository(dbPool),
	}
}
