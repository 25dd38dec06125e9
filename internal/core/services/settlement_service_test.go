package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/activity_settlement_app/internal/apperrors"
	"github.com/SscSPs/activity_settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/activity_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/activity_settlement_app/internal/core/ports/services"
	"github.com/SscSPs/activity_settlement_app/internal/core/services"
	"github.com/SscSPs/activity_settlement_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock SettlementRepository ---
type MockSettlementRepository struct {
	mock.Mock
}

// Ensure MockSettlementRepository implements portsrepo.SettlementRepositoryFacade
var _ portsrepo.SettlementRepositoryFacade = (*MockSettlementRepository)(nil)

func (m *MockSettlementRepository) FindSettlementByID(ctx context.Context, settlementID string) (*domain.Settlement, error) {
	args := m.Called(ctx, settlementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) ListSettlementsByActivity(ctx context.Context, activityID string, limit int, nextToken *string) ([]domain.Settlement, *string, error) {
	args := m.Called(ctx, activityID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Settlement), returnedNextToken, args.Error(2)
}

func (m *MockSettlementRepository) SaveSettlement(ctx context.Context, settlement *domain.Settlement) error {
	args := m.Called(ctx, settlement)
	return args.Error(0)
}

func (m *MockSettlementRepository) FinalizeSettlement(ctx context.Context, settlementID string, finalizedByUserID string, finalizedAt time.Time) (*domain.Settlement, error) {
	args := m.Called(ctx, settlementID, finalizedByUserID, finalizedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}

// --- Test Suite Setup ---
type SettlementServiceTestSuite struct {
	suite.Suite
	mockSettlementRepo  *MockSettlementRepository
	mockRecordRepo      *MockRecordReader
	mockParticipantRepo *MockParticipantReader
	service             portssvc.SettlementSvcFacade
	activityID          string
	userID              string
}

func (suite *SettlementServiceTestSuite) SetupTest() {
	suite.mockSettlementRepo = new(MockSettlementRepository)
	suite.mockRecordRepo = new(MockRecordReader)
	suite.mockParticipantRepo = new(MockParticipantReader)
	suite.service = services.NewSettlementService(suite.mockSettlementRepo, suite.mockRecordRepo, suite.mockParticipantRepo)
	suite.activityID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *SettlementServiceTestSuite) approvedParticipant(id, name string) domain.Participant {
	return domain.Participant{
		ParticipantID: id,
		ActivityID:    suite.activityID,
		UserID:        uuid.NewString(),
		DisplayName:   name,
		Status:        domain.ParticipantStatusApproved,
	}
}

func (suite *SettlementServiceTestSuite) draftSettlement() *domain.Settlement {
	return &domain.Settlement{
		SettlementID:     uuid.NewString(),
		ActivityID:       suite.activityID,
		SettlementNumber: "AA-0003",
		SequenceNo:       3,
		Status:           domain.SettlementStatusDraft,
		NetExpense:       decimal.NewFromInt(100),
		ParticipantCount: 2,
	}
}

// validSnapshot builds a simulation result matching a two person roster with
// an even 100 split.
func validSnapshot() *dto.AllocationResponse {
	return &dto.AllocationResponse{
		TotalExpense:     decimal.NewFromInt(100),
		TotalReserve:     decimal.Zero,
		NetExpense:       decimal.NewFromInt(100),
		PerPersonCost:    decimal.NewFromInt(50),
		ParticipantCount: 2,
		Breakdown: []dto.AllocationLineResponse{
			{ParticipantID: "p1", ParticipantName: "Ana", Weight: decimal.NewFromInt(1), ShareAmount: decimal.NewFromInt(50)},
			{ParticipantID: "p2", ParticipantName: "Ben", Weight: decimal.NewFromInt(1), ShareAmount: decimal.NewFromInt(50)},
		},
	}
}

// --- Test Cases ---

func (suite *SettlementServiceTestSuite) TestCreateSettlement_FromSnapshot() {
	ctx := context.Background()
	participants := []domain.Participant{
		suite.approvedParticipant("p1", "Ana"),
		suite.approvedParticipant("p2", "Ben"),
	}
	req := dto.CreateSettlementRequest{SimulationResult: validSnapshot(), Notes: "June session"}

	suite.mockParticipantRepo.On("ListApprovedParticipants", ctx, suite.activityID).Return(participants, nil).Once()
	suite.mockSettlementRepo.On("SaveSettlement", ctx, mock.AnythingOfType("*domain.Settlement")).Run(func(args mock.Arguments) {
		s := args.Get(1).(*domain.Settlement)
		s.SequenceNo = 1
		s.SettlementNumber = "AA-0001"
	}).Return(nil).Once()

	created, err := suite.service.CreateSettlement(ctx, suite.activityID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.Equal(domain.SettlementStatusDraft, created.Status)
	suite.Equal("AA-0001", created.SettlementNumber)
	suite.Equal("June session", created.Notes)
	suite.Equal(suite.userID, created.CreatedBy)
	suite.True(created.NetExpense.Equal(decimal.NewFromInt(100)))
	suite.Len(created.Breakdown, 2)
	suite.mockSettlementRepo.AssertExpectations(suite.T())
	suite.mockParticipantRepo.AssertExpectations(suite.T())
	suite.mockRecordRepo.AssertNotCalled(suite.T(), "FindRecordsByActivity", mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestCreateSettlement_StaleRoster() {
	ctx := context.Background()
	// Roster has grown since the snapshot was taken.
	participants := []domain.Participant{
		suite.approvedParticipant("p1", "Ana"),
		suite.approvedParticipant("p2", "Ben"),
		suite.approvedParticipant("p3", "Caro"),
	}
	req := dto.CreateSettlementRequest{SimulationResult: validSnapshot()}

	suite.mockParticipantRepo.On("ListApprovedParticipants", ctx, suite.activityID).Return(participants, nil).Once()

	_, err := suite.service.CreateSettlement(ctx, suite.activityID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "SaveSettlement", mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestCreateSettlement_SwappedParticipant() {
	ctx := context.Background()
	participants := []domain.Participant{
		suite.approvedParticipant("p1", "Ana"),
		suite.approvedParticipant("p9", "Zoe"), // p2 replaced since the snapshot
	}
	req := dto.CreateSettlementRequest{SimulationResult: validSnapshot()}

	suite.mockParticipantRepo.On("ListApprovedParticipants", ctx, suite.activityID).Return(participants, nil).Once()

	_, err := suite.service.CreateSettlement(ctx, suite.activityID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *SettlementServiceTestSuite) TestCreateSettlement_SnapshotDoesNotConserve() {
	ctx := context.Background()
	participants := []domain.Participant{
		suite.approvedParticipant("p1", "Ana"),
		suite.approvedParticipant("p2", "Ben"),
	}
	snapshot := validSnapshot()
	snapshot.Breakdown[1].ShareAmount = decimal.NewFromInt(49) // sums to 99, not 100
	req := dto.CreateSettlementRequest{SimulationResult: snapshot}

	suite.mockParticipantRepo.On("ListApprovedParticipants", ctx, suite.activityID).Return(participants, nil).Once()

	_, err := suite.service.CreateSettlement(ctx, suite.activityID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "SaveSettlement", mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestCreateSettlement_RecomputesWhenNoSnapshot() {
	ctx := context.Background()
	records := []domain.AccountingRecord{
		{
			RecordID:   uuid.NewString(),
			ActivityID: suite.activityID,
			RecordType: domain.RecordTypeExpense,
			Amount:     decimal.NewFromInt(80),
			Status:     domain.RecordStatusConfirmed,
			RecordDate: time.Now(),
		},
		{
			RecordID:   uuid.NewString(),
			ActivityID: suite.activityID,
			RecordType: domain.RecordTypeReserve,
			Amount:     decimal.NewFromInt(20),
			Status:     domain.RecordStatusConfirmed,
			RecordDate: time.Now(),
		},
	}
	participants := []domain.Participant{
		suite.approvedParticipant("p1", "Ana"),
		suite.approvedParticipant("p2", "Ben"),
	}

	suite.mockRecordRepo.On("FindRecordsByActivity", ctx, suite.activityID).Return(records, nil).Once()
	suite.mockParticipantRepo.On("ListApprovedParticipants", ctx, suite.activityID).Return(participants, nil).Once()
	suite.mockSettlementRepo.On("SaveSettlement", ctx, mock.AnythingOfType("*domain.Settlement")).Return(nil).Once()

	created, err := suite.service.CreateSettlement(ctx, suite.activityID, dto.CreateSettlementRequest{}, suite.userID)

	suite.Require().NoError(err)
	// Team fund is deducted by default: 80 expense - 20 reserve.
	suite.True(created.NetExpense.Equal(decimal.NewFromInt(60)))
	suite.Equal(2, created.ParticipantCount)
	suite.mockSettlementRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestFinalizeSettlement_Success() {
	ctx := context.Background()
	settlement := suite.draftSettlement()
	finalizedAt := time.Now()
	finalized := *settlement
	finalized.Status = domain.SettlementStatusFinalized
	finalized.FinalizedAt = &finalizedAt

	suite.mockSettlementRepo.On("FindSettlementByID", ctx, settlement.SettlementID).Return(settlement, nil).Once()
	suite.mockSettlementRepo.On("FinalizeSettlement", ctx, settlement.SettlementID, suite.userID, mock.AnythingOfType("time.Time")).Return(&finalized, nil).Once()

	result, err := suite.service.FinalizeSettlement(ctx, suite.activityID, settlement.SettlementID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.SettlementStatusFinalized, result.Status)
	suite.NotNil(result.FinalizedAt)
	suite.mockSettlementRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestFinalizeSettlement_NotDraft() {
	ctx := context.Background()
	settlement := suite.draftSettlement()
	settlement.Status = domain.SettlementStatusSuperseded

	suite.mockSettlementRepo.On("FindSettlementByID", ctx, settlement.SettlementID).Return(settlement, nil).Once()

	_, err := suite.service.FinalizeSettlement(ctx, suite.activityID, settlement.SettlementID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "FinalizeSettlement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestFinalizeSettlement_LostRace() {
	ctx := context.Background()
	settlement := suite.draftSettlement()

	suite.mockSettlementRepo.On("FindSettlementByID", ctx, settlement.SettlementID).Return(settlement, nil).Once()
	suite.mockSettlementRepo.On("FinalizeSettlement", ctx, settlement.SettlementID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrConcurrencyConflict).Once()

	_, err := suite.service.FinalizeSettlement(ctx, suite.activityID, settlement.SettlementID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConcurrencyConflict)
}

func (suite *SettlementServiceTestSuite) TestGetSettlementByID_WrongActivity() {
	ctx := context.Background()
	settlement := suite.draftSettlement()
	settlement.ActivityID = uuid.NewString()

	suite.mockSettlementRepo.On("FindSettlementByID", ctx, settlement.SettlementID).Return(settlement, nil).Once()

	_, err := suite.service.GetSettlementByID(ctx, suite.activityID, settlement.SettlementID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *SettlementServiceTestSuite) TestListSettlements_PassesToken() {
	ctx := context.Background()
	token := "opaque-token"
	settlements := []domain.Settlement{*suite.draftSettlement()}

	suite.mockSettlementRepo.On("ListSettlementsByActivity", ctx, suite.activityID, 10, &token).Return(settlements, "next-token", nil).Once()

	resp, err := suite.service.ListSettlements(ctx, suite.activityID, dto.ListSettlementsParams{Limit: 10, NextToken: &token})

	suite.Require().NoError(err)
	suite.Len(resp.Settlements, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("next-token", *resp.NextToken)
	suite.mockSettlementRepo.AssertExpectations(suite.T())
}

func TestSettlementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}
