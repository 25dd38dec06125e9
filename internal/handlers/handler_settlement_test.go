package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/activity_settlement_app/internal/apperrors"
	"github.com/SscSPs/activity_settlement_app/internal/core/domain"
	portssvc "github.com/SscSPs/activity_settlement_app/internal/core/ports/services"
	"github.com/SscSPs/activity_settlement_app/internal/dto"
	"github.com/SscSPs/activity_settlement_app/internal/handlers"
	"github.com/SscSPs/activity_settlement_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock SettlementService ---
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) CreateSettlement(ctx context.Context, activityID string, req dto.CreateSettlementRequest, creatorUserID string) (*domain.Settlement, error) {
	args := m.Called(ctx, activityID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}

func (m *MockSettlementService) GetSettlementByID(ctx context.Context, activityID string, settlementID string) (*domain.Settlement, error) {
	args := m.Called(ctx, activityID, settlementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}

func (m *MockSettlementService) ListSettlements(ctx context.Context, activityID string, params dto.ListSettlementsParams) (*dto.ListSettlementsResponse, error) {
	args := m.Called(ctx, activityID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListSettlementsResponse), args.Error(1)
}

func (m *MockSettlementService) FinalizeSettlement(ctx context.Context, activityID string, settlementID string, requestingUserID string) (*domain.Settlement, error) {
	args := m.Called(ctx, activityID, settlementID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}

var _ portssvc.SettlementSvcFacade = (*MockSettlementService)(nil)

// --- Mock SimulationService ---
type MockSimulationService struct {
	mock.Mock
}

func (m *MockSimulationService) SimulateSettlement(ctx context.Context, activityID string, req dto.SimulateSettlementRequest, requestingUserID string) (*dto.AllocationResponse, error) {
	args := m.Called(ctx, activityID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AllocationResponse), args.Error(1)
}

var _ portssvc.SimulationSvcFacade = (*MockSimulationService)(nil)

// --- Test Suite ---
type SettlementHandlerTestSuite struct {
	suite.Suite
	router                *gin.Engine
	mockSettlementService *MockSettlementService
	mockSimulationService *MockSimulationService
	jwtSecret             string
	activityID            string
	userID                string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *SettlementHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "asa-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signedString
}

func (suite *SettlementHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.activityID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockSettlementService = new(MockSettlementService)
	suite.mockSimulationService = new(MockSimulationService)

	activity := suite.router.Group("/api/v1/activities/:activity_id")
	handlers.RegisterSettlementRoutes(activity, suite.mockSettlementService, suite.mockSimulationService)
}

func (suite *SettlementHandlerTestSuite) doRequest(method, url string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *SettlementHandlerTestSuite) TestSimulateSettlement_Success() {
	expected := &dto.AllocationResponse{
		TotalExpense:     decimal.NewFromInt(100),
		TotalReserve:     decimal.NewFromInt(20),
		NetExpense:       decimal.NewFromInt(80),
		PerPersonCost:    decimal.NewFromInt(40),
		ParticipantCount: 2,
		Breakdown: []dto.AllocationLineResponse{
			{ParticipantID: "p1", ParticipantName: "Alice", Weight: decimal.NewFromInt(1), ShareAmount: decimal.NewFromInt(40)},
			{ParticipantID: "p2", ParticipantName: "Bob", Weight: decimal.NewFromInt(1), ShareAmount: decimal.NewFromInt(40)},
		},
	}

	suite.mockSimulationService.On("SimulateSettlement",
		mock.Anything,
		suite.activityID,
		mock.MatchedBy(func(req dto.SimulateSettlementRequest) bool {
			return req.IncludeTeamFund && !req.IncludeUnconfirmedRecords
		}),
		suite.userID,
	).Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/activities/%s/settlements/simulate", suite.activityID)
	w := suite.doRequest(http.MethodPost, url, dto.SimulateSettlementRequest{IncludeTeamFund: true})

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.AllocationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.NetExpense.Equal(decimal.NewFromInt(80)))
	suite.Len(resp.Breakdown, 2)
	suite.mockSimulationService.AssertExpectations(suite.T())
	suite.mockSettlementService.AssertNotCalled(suite.T(), "CreateSettlement")
}

func (suite *SettlementHandlerTestSuite) TestSimulateSettlement_Unauthorized() {
	url := fmt.Sprintf("/api/v1/activities/%s/settlements/simulate", suite.activityID)
	body, _ := json.Marshal(dto.SimulateSettlementRequest{})
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	// No Authorization header

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockSimulationService.AssertNotCalled(suite.T(), "SimulateSettlement")
}

func (suite *SettlementHandlerTestSuite) TestCreateSettlement_Success() {
	settlementID := uuid.NewString()
	expected := &domain.Settlement{
		SettlementID:     settlementID,
		ActivityID:       suite.activityID,
		SettlementNumber: "AA-0001",
		SequenceNo:       1,
		Status:           domain.SettlementStatusDraft,
		TotalExpense:     decimal.NewFromInt(100),
		NetExpense:       decimal.NewFromInt(100),
		PerPersonCost:    decimal.NewFromInt(50),
		ParticipantCount: 2,
	}

	suite.mockSettlementService.On("CreateSettlement",
		mock.Anything,
		suite.activityID,
		mock.AnythingOfType("dto.CreateSettlementRequest"),
		suite.userID,
	).Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/activities/%s/settlements", suite.activityID)
	w := suite.doRequest(http.MethodPost, url, dto.CreateSettlementRequest{Notes: "season wrap-up"})

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.SettlementResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(settlementID, resp.SettlementID)
	suite.Equal("AA-0001", resp.SettlementNumber)
	suite.Equal("draft", resp.Status)
	suite.mockSettlementService.AssertExpectations(suite.T())
}

func (suite *SettlementHandlerTestSuite) TestCreateSettlement_StaleSimulation() {
	suite.mockSettlementService.On("CreateSettlement",
		mock.Anything,
		suite.activityID,
		mock.AnythingOfType("dto.CreateSettlementRequest"),
		suite.userID,
	).Return(nil, fmt.Errorf("%w: simulation is stale, roster changed", apperrors.ErrInvalidState)).Once()

	url := fmt.Sprintf("/api/v1/activities/%s/settlements", suite.activityID)
	w := suite.doRequest(http.MethodPost, url, dto.CreateSettlementRequest{})

	suite.Equal(http.StatusConflict, w.Code)

	var resp handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Contains(resp.Error, "stale")
}

func (suite *SettlementHandlerTestSuite) TestGetSettlement_NotFound() {
	settlementID := uuid.NewString()

	suite.mockSettlementService.On("GetSettlementByID",
		mock.Anything, suite.activityID, settlementID,
	).Return(nil, apperrors.ErrNotFound).Once()

	url := fmt.Sprintf("/api/v1/activities/%s/settlements/%s", suite.activityID, settlementID)
	w := suite.doRequest(http.MethodGet, url, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *SettlementHandlerTestSuite) TestListSettlements_Success() {
	expected := &dto.ListSettlementsResponse{
		Settlements: []dto.SettlementResponse{
			{SettlementID: uuid.NewString(), ActivityID: suite.activityID, SettlementNumber: "AA-0002", Status: "draft"},
			{SettlementID: uuid.NewString(), ActivityID: suite.activityID, SettlementNumber: "AA-0001", Status: "finalized"},
		},
	}

	suite.mockSettlementService.On("ListSettlements",
		mock.Anything,
		suite.activityID,
		mock.MatchedBy(func(p dto.ListSettlementsParams) bool {
			return p.Limit == 5 && p.NextToken == nil
		}),
	).Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/activities/%s/settlements?limit=5", suite.activityID)
	w := suite.doRequest(http.MethodGet, url, nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListSettlementsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Settlements, 2)
	suite.Equal("AA-0002", resp.Settlements[0].SettlementNumber)
	suite.mockSettlementService.AssertExpectations(suite.T())
}

func (suite *SettlementHandlerTestSuite) TestFinalizeSettlement_Success() {
	settlementID := uuid.NewString()
	finalizedAt := time.Now()
	expected := &domain.Settlement{
		SettlementID:     settlementID,
		ActivityID:       suite.activityID,
		SettlementNumber: "AA-0001",
		SequenceNo:       1,
		Status:           domain.SettlementStatusFinalized,
		FinalizedAt:      &finalizedAt,
	}

	suite.mockSettlementService.On("FinalizeSettlement",
		mock.Anything, suite.activityID, settlementID, suite.userID,
	).Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/activities/%s/settlements/%s/finalize", suite.activityID, settlementID)
	w := suite.doRequest(http.MethodPost, url, nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.SettlementResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("finalized", resp.Status)
	suite.NotNil(resp.FinalizedAt)
	suite.mockSettlementService.AssertExpectations(suite.T())
}

func (suite *SettlementHandlerTestSuite) TestFinalizeSettlement_ConcurrentConflict() {
	settlementID := uuid.NewString()

	suite.mockSettlementService.On("FinalizeSettlement",
		mock.Anything, suite.activityID, settlementID, suite.userID,
	).Return(nil, apperrors.ErrConcurrencyConflict).Once()

	url := fmt.Sprintf("/api/v1/activities/%s/settlements/%s/finalize", suite.activityID, settlementID)
	w := suite.doRequest(http.MethodPost, url, nil)

	suite.Equal(http.StatusConflict, w.Code)

	var resp handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Contains(resp.Error, "retry")
}

func TestSettlementHandlerSuite(t *testing.T) {
	suite.Run(t, new(SettlementHandlerTestSuite))
}
