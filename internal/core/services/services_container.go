package services

import (
	portsrepo "github.com/SscSPs/activity_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/activity_settlement_app/internal/core/ports/services"
	"github.com/SscSPs/activity_settlement_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Record = NewRecordService(repos.RecordRepo)
	container.Participant = NewParticipantService(repos.ParticipantRepo)
	container.Simulation = NewSimulationService(repos.RecordRepo, repos.ParticipantRepo)
	container.Settlement = NewSettlementService(repos.SettlementRepo, repos.RecordRepo, repos.ParticipantRepo)
	container.User = NewUserService(repos.UserRepo)

	// Token and OAuth services sit on top of the user service.
	container.TokenService = NewTokenService(cfg, container.User)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.RecordSvcFacade      = (*recordService)(nil)
	_ portssvc.SettlementSvcFacade  = (*settlementService)(nil)
	_ portssvc.SimulationSvcFacade  = (*simulationService)(nil)
	_ portssvc.ParticipantSvcFacade = (*participantService)(nil)
	_ portssvc.UserSvcFacade        = (*userService)(nil)
)
