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
	"github.com/SscSPs/activity_settlement_app/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockUserRepository is a mock implementation of portsrepo.UserRepositoryFacade.
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
	userID       string
}

func (s *UserServiceTestSuite) SetupTest() {
	s.mockUserRepo = new(MockUserRepository)
	s.service = services.NewUserService(s.mockUserRepo)
	s.userID = uuid.NewString()
}

func (s *UserServiceTestSuite) localUser(password string) *domain.User {
	hash, err := utils.HashPassword(password)
	s.Require().NoError(err)
	return &domain.User{
		UserID:       s.userID,
		Username:     "alice",
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
		AuthProvider: domain.ProviderLocal,
	}
}

func (s *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Username: "alice",
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "a-strong-password",
	}

	s.mockUserRepo.On("FindUserByUsername", ctx, "alice").Return(nil, apperrors.ErrNotFound).Once()
	s.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(nil).Once()

	user, err := s.service.CreateUser(ctx, req)

	s.Require().NoError(err)
	s.Require().NotNil(user)
	s.Equal("alice", user.Username)
	s.Equal(domain.ProviderLocal, user.AuthProvider)
	s.NotEmpty(user.UserID)
	s.NotEmpty(user.PasswordHash)
	s.NotEqual(req.Password, user.PasswordHash)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestCreateUser_UsernameTaken() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Username: "alice",
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "a-strong-password",
	}

	s.mockUserRepo.On("FindUserByUsername", ctx, "alice").Return(s.localUser("other"), nil).Once()

	user, err := s.service.CreateUser(ctx, req)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.Nil(user)
	s.mockUserRepo.AssertNotCalled(s.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (s *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	existing := s.localUser("correct-horse")

	s.mockUserRepo.On("FindUserByUsername", ctx, "alice").Return(existing, nil).Once()

	user, err := s.service.AuthenticateUser(ctx, "alice", "correct-horse")

	s.Require().NoError(err)
	s.Equal(s.userID, user.UserID)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	existing := s.localUser("correct-horse")

	s.mockUserRepo.On("FindUserByUsername", ctx, "alice").Return(existing, nil).Once()

	user, err := s.service.AuthenticateUser(ctx, "alice", "battery-staple")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
	s.Nil(user)
}

func (s *UserServiceTestSuite) TestAuthenticateUser_UnknownUser() {
	ctx := context.Background()

	s.mockUserRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	user, err := s.service.AuthenticateUser(ctx, "ghost", "whatever")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
	s.Nil(user)
}

func (s *UserServiceTestSuite) TestAuthenticateUser_OAuthUserHasNoPassword() {
	ctx := context.Background()
	existing := &domain.User{
		UserID:       s.userID,
		Username:     "bob@example.com",
		Email:        "bob@example.com",
		AuthProvider: domain.ProviderGoogle,
	}

	s.mockUserRepo.On("FindUserByUsername", ctx, "bob@example.com").Return(existing, nil).Once()

	user, err := s.service.AuthenticateUser(ctx, "bob@example.com", "anything")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
	s.Nil(user)
}

func (s *UserServiceTestSuite) TestCreateOAuthUser_ReusesExistingAccount() {
	ctx := context.Background()
	existing := s.localUser("correct-horse")

	s.mockUserRepo.On("FindUserByEmail", ctx, "alice@example.com").Return(existing, nil).Once()

	user, err := s.service.CreateOAuthUser(ctx, "Alice", "alice@example.com", "GOOGLE", "google-sub-123", true)

	s.Require().NoError(err)
	s.Equal(existing.UserID, user.UserID)
	s.mockUserRepo.AssertNotCalled(s.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (s *UserServiceTestSuite) TestCreateOAuthUser_UnverifiedEmail() {
	ctx := context.Background()

	user, err := s.service.CreateOAuthUser(ctx, "Alice", "alice@example.com", "GOOGLE", "google-sub-123", false)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
	s.Nil(user)
	s.mockUserRepo.AssertNotCalled(s.T(), "FindUserByEmail", mock.Anything, mock.Anything)
}

func (s *UserServiceTestSuite) TestUpdateUser_SelfOnly() {
	ctx := context.Background()
	newName := "Mallory"

	user, err := s.service.UpdateUser(ctx, s.userID, dto.UpdateUserRequest{Name: &newName}, uuid.NewString())

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.Nil(user)
	s.mockUserRepo.AssertNotCalled(s.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (s *UserServiceTestSuite) TestUpdateUser_Success() {
	ctx := context.Background()
	existing := s.localUser("correct-horse")
	newName := "Alice B."

	s.mockUserRepo.On("FindUserByID", ctx, s.userID).Return(existing, nil).Once()
	s.mockUserRepo.On("UpdateUser", ctx, mock.AnythingOfType("domain.User")).Return(nil).Once()

	user, err := s.service.UpdateUser(ctx, s.userID, dto.UpdateUserRequest{Name: &newName}, s.userID)

	s.Require().NoError(err)
	s.Equal("Alice B.", user.Name)
	s.Equal(s.userID, user.LastUpdatedBy)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestDeleteUser_SelfOnly() {
	ctx := context.Background()

	err := s.service.DeleteUser(ctx, s.userID, uuid.NewString())

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.mockUserRepo.AssertNotCalled(s.T(), "MarkUserDeleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *UserServiceTestSuite) TestDeleteUser_Success() {
	ctx := context.Background()

	s.mockUserRepo.On("MarkUserDeleted", ctx, s.userID, mock.AnythingOfType("time.Time"), s.userID).Return(nil).Once()

	err := s.service.DeleteUser(ctx, s.userID, s.userID)

	s.Require().NoError(err)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestUpdateRefreshToken_PersistsHashAndExpiry() {
	ctx := context.Background()
	existing := s.localUser("correct-horse")
	expiry := time.Now().Add(24 * time.Hour)

	s.mockUserRepo.On("FindUserByID", ctx, s.userID).Return(existing, nil).Once()
	s.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.RefreshTokenHash == "token-hash" && u.RefreshTokenExpiryTime != nil && u.RefreshTokenExpiryTime.Equal(expiry)
	})).Return(nil).Once()

	err := s.service.UpdateRefreshToken(ctx, s.userID, "token-hash", expiry)

	s.Require().NoError(err)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestClearRefreshToken() {
	ctx := context.Background()
	existing := s.localUser("correct-horse")
	expiry := time.Now().Add(24 * time.Hour)
	existing.RefreshTokenHash = "token-hash"
	existing.RefreshTokenExpiryTime = &expiry

	s.mockUserRepo.On("FindUserByID", ctx, s.userID).Return(existing, nil).Once()
	s.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.RefreshTokenHash == "" && u.RefreshTokenExpiryTime == nil
	})).Return(nil).Once()

	err := s.service.ClearRefreshToken(ctx, s.userID)

	s.Require().NoError(err)
	s.mockUserRepo.AssertExpectations(s.T())
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
