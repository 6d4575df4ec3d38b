package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/streamnest/user-service/internal/domain/entity"
	domainErrors "github.com/streamnest/user-service/internal/domain/errors"
	"github.com/streamnest/user-service/internal/domain/models"
	domainService "github.com/streamnest/user-service/internal/domain/service"
	"github.com/streamnest/user-service/internal/events/kafka"
)

type AuthServiceTestSuite struct {
	suite.Suite
	mockUserRepo        *MockUserRepository
	mockPasswordService *MockPasswordService
	mockTokenManager    *MockTokenManager
	mockProducer        *MockEventProducer
	authService         *AuthService
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.mockUserRepo = new(MockUserRepository)
	s.mockPasswordService = new(MockPasswordService)
	s.mockTokenManager = new(MockTokenManager)
	s.mockProducer = new(MockEventProducer)
	s.authService = NewAuthService(
		s.mockUserRepo,
		s.mockPasswordService,
		s.mockTokenManager,
		s.mockProducer,
		zap.NewNop(),
	)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

// --- Register ---

func (s *AuthServiceTestSuite) TestRegister_Success() {
	ctx := context.Background()
	req := models.RegisterRequest{
		Username:  "NewUser",
		Email:     "New@Example.com",
		FullName:  "New User",
		Password:  "password123",
		AvatarURL: "https://cdn.example.com/avatar.png",
	}

	s.mockUserRepo.On("FindByUsernameOrEmail", ctx, "newuser", "new@example.com").
		Return(nil, domainErrors.ErrUserNotFound).Once()
	s.mockPasswordService.On("HashPassword", "password123").Return("hashed", nil).Once()
	s.mockUserRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).Return(nil).Once()
	s.mockProducer.On("PublishEvent", ctx, kafka.EventUserRegistered, mock.Anything, mock.Anything).
		Return(nil).Once()

	user, err := s.authService.Register(ctx, req)

	s.Require().NoError(err)
	s.Equal("newuser", user.Username)
	s.Equal("new@example.com", user.Email)
	s.Equal("hashed", user.PasswordHash)
	s.Nil(user.RefreshToken, "registration must not log the user in")
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestRegister_DuplicateUsername() {
	ctx := context.Background()
	existing := &entity.User{ID: uuid.New(), Username: "taken", Email: "other@example.com"}

	s.mockUserRepo.On("FindByUsernameOrEmail", ctx, "taken", "new@example.com").
		Return(existing, nil).Once()

	_, err := s.authService.Register(ctx, models.RegisterRequest{
		Username:  "taken",
		Email:     "new@example.com",
		FullName:  "Someone",
		Password:  "password123",
		AvatarURL: "https://cdn.example.com/avatar.png",
	})

	assert.ErrorIs(s.T(), err, domainErrors.ErrUsernameExists)
	s.mockUserRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestRegister_DuplicateEmail() {
	ctx := context.Background()
	existing := &entity.User{ID: uuid.New(), Username: "othername", Email: "taken@example.com"}

	s.mockUserRepo.On("FindByUsernameOrEmail", ctx, "newuser", "taken@example.com").
		Return(existing, nil).Once()

	_, err := s.authService.Register(ctx, models.RegisterRequest{
		Username:  "newuser",
		Email:     "taken@example.com",
		FullName:  "Someone",
		Password:  "password123",
		AvatarURL: "https://cdn.example.com/avatar.png",
	})

	assert.ErrorIs(s.T(), err, domainErrors.ErrEmailExists)
	s.mockUserRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestRegister_MissingFields() {
	_, err := s.authService.Register(context.Background(), models.RegisterRequest{
		Username: "newuser",
		Password: "password123",
	})

	assert.ErrorIs(s.T(), err, domainErrors.ErrInvalidRequest)
	s.mockUserRepo.AssertNotCalled(s.T(), "FindByUsernameOrEmail", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestRegister_MissingAvatar() {
	ctx := context.Background()
	s.mockUserRepo.On("FindByUsernameOrEmail", ctx, "newuser", "new@example.com").
		Return(nil, domainErrors.ErrUserNotFound).Once()

	_, err := s.authService.Register(ctx, models.RegisterRequest{
		Username: "newuser",
		Email:    "new@example.com",
		FullName: "Someone",
		Password: "password123",
	})

	assert.ErrorIs(s.T(), err, domainErrors.ErrAvatarRequired)
	s.mockUserRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

// --- Login ---

func (s *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com", PasswordHash: "hashed"}

	s.mockUserRepo.On("FindByUsernameOrEmail", ctx, "alice", "").Return(user, nil).Once()
	s.mockPasswordService.On("CheckPasswordHash", "password123", "hashed").Return(true, nil).Once()
	s.mockTokenManager.On("GenerateAccessToken", user).Return("access-token", nil).Once()
	s.mockTokenManager.On("GenerateRefreshToken", user.ID).Return("refresh-token", nil).Once()
	s.mockUserRepo.On("SetRefreshToken", ctx, user.ID, "refresh-token").Return(nil).Once()
	s.mockProducer.On("PublishEvent", ctx, kafka.EventUserLoggedIn, user.ID.String(), mock.Anything).
		Return(nil).Once()

	gotUser, pair, err := s.authService.Login(ctx, models.LoginRequest{Username: "alice", Password: "password123"})

	s.Require().NoError(err)
	s.Equal(user.ID, gotUser.ID)
	s.Equal("access-token", pair.AccessToken)
	s.Equal("refresh-token", pair.RefreshToken)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogin_ByEmail() {
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com", PasswordHash: "hashed"}

	s.mockUserRepo.On("FindByUsernameOrEmail", ctx, "", "alice@example.com").Return(user, nil).Once()
	s.mockPasswordService.On("CheckPasswordHash", "password123", "hashed").Return(true, nil).Once()
	s.mockTokenManager.On("GenerateAccessToken", user).Return("access-token", nil).Once()
	s.mockTokenManager.On("GenerateRefreshToken", user.ID).Return("refresh-token", nil).Once()
	s.mockUserRepo.On("SetRefreshToken", ctx, user.ID, "refresh-token").Return(nil).Once()
	s.mockProducer.On("PublishEvent", ctx, kafka.EventUserLoggedIn, user.ID.String(), mock.Anything).
		Return(nil).Once()

	_, _, err := s.authService.Login(ctx, models.LoginRequest{Email: "alice@example.com", Password: "password123"})
	s.Require().NoError(err)
}

func (s *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Username: "alice", PasswordHash: "hashed"}

	s.mockUserRepo.On("FindByUsernameOrEmail", ctx, "alice", "").Return(user, nil).Once()
	s.mockPasswordService.On("CheckPasswordHash", "wrong", "hashed").Return(false, nil).Once()

	_, _, err := s.authService.Login(ctx, models.LoginRequest{Username: "alice", Password: "wrong"})

	assert.ErrorIs(s.T(), err, domainErrors.ErrInvalidCredentials)
	// A failed login must not disturb the stored session state.
	s.mockUserRepo.AssertNotCalled(s.T(), "SetRefreshToken", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_UnknownUser() {
	ctx := context.Background()
	s.mockUserRepo.On("FindByUsernameOrEmail", ctx, "ghost", "").
		Return(nil, domainErrors.ErrUserNotFound).Once()

	_, _, err := s.authService.Login(ctx, models.LoginRequest{Username: "ghost", Password: "password123"})

	assert.ErrorIs(s.T(), err, domainErrors.ErrUserNotFound)
}

func (s *AuthServiceTestSuite) TestLogin_MissingIdentifier() {
	_, _, err := s.authService.Login(context.Background(), models.LoginRequest{Password: "password123"})
	assert.ErrorIs(s.T(), err, domainErrors.ErrInvalidRequest)
}

// --- Refresh ---

func (s *AuthServiceTestSuite) TestRefresh_RotatesPair() {
	ctx := context.Background()
	userID := uuid.New()
	oldToken := "old-refresh-token"
	user := &entity.User{ID: userID, Username: "alice", RefreshToken: &oldToken}

	s.mockTokenManager.On("ParseRefreshToken", oldToken).
		Return(&domainService.RefreshTokenClaims{UserID: userID.String()}, nil).Once()
	s.mockUserRepo.On("FindByID", ctx, userID).Return(user, nil).Once()
	s.mockTokenManager.On("GenerateAccessToken", user).Return("new-access", nil).Once()
	s.mockTokenManager.On("GenerateRefreshToken", userID).Return("new-refresh", nil).Once()
	s.mockUserRepo.On("RotateRefreshToken", ctx, userID, oldToken, "new-refresh").Return(nil).Once()

	pair, err := s.authService.Refresh(ctx, oldToken)

	s.Require().NoError(err)
	s.Equal("new-access", pair.AccessToken)
	s.NotEqual(oldToken, pair.RefreshToken)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestRefresh_SupersededToken() {
	ctx := context.Background()
	userID := uuid.New()
	current := "current-refresh-token"
	user := &entity.User{ID: userID, RefreshToken: &current}

	s.mockTokenManager.On("ParseRefreshToken", "stale-token").
		Return(&domainService.RefreshTokenClaims{UserID: userID.String()}, nil).Once()
	s.mockUserRepo.On("FindByID", ctx, userID).Return(user, nil).Once()

	_, err := s.authService.Refresh(ctx, "stale-token")

	assert.ErrorIs(s.T(), err, domainErrors.ErrRefreshTokenUsed)
	s.mockUserRepo.AssertNotCalled(s.T(), "RotateRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestRefresh_AfterLogout() {
	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{ID: userID, RefreshToken: nil}

	s.mockTokenManager.On("ParseRefreshToken", "orphan-token").
		Return(&domainService.RefreshTokenClaims{UserID: userID.String()}, nil).Once()
	s.mockUserRepo.On("FindByID", ctx, userID).Return(user, nil).Once()

	_, err := s.authService.Refresh(ctx, "orphan-token")

	assert.ErrorIs(s.T(), err, domainErrors.ErrRefreshTokenUsed)
}

func (s *AuthServiceTestSuite) TestRefresh_ConcurrentRotationLosesRace() {
	ctx := context.Background()
	userID := uuid.New()
	oldToken := "old-refresh-token"
	user := &entity.User{ID: userID, RefreshToken: &oldToken}

	s.mockTokenManager.On("ParseRefreshToken", oldToken).
		Return(&domainService.RefreshTokenClaims{UserID: userID.String()}, nil).Once()
	s.mockUserRepo.On("FindByID", ctx, userID).Return(user, nil).Once()
	s.mockTokenManager.On("GenerateAccessToken", user).Return("new-access", nil).Once()
	s.mockTokenManager.On("GenerateRefreshToken", userID).Return("new-refresh", nil).Once()
	s.mockUserRepo.On("RotateRefreshToken", ctx, userID, oldToken, "new-refresh").
		Return(domainErrors.ErrRefreshTokenUsed).Once()

	_, err := s.authService.Refresh(ctx, oldToken)

	assert.ErrorIs(s.T(), err, domainErrors.ErrRefreshTokenUsed)
}

func (s *AuthServiceTestSuite) TestRefresh_InvalidSignature() {
	s.mockTokenManager.On("ParseRefreshToken", "garbage").
		Return(nil, domainErrors.ErrInvalidToken).Once()

	_, err := s.authService.Refresh(context.Background(), "garbage")

	assert.ErrorIs(s.T(), err, domainErrors.ErrInvalidRefreshToken)
	s.mockUserRepo.AssertNotCalled(s.T(), "FindByID", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestRefresh_EmptyToken() {
	_, err := s.authService.Refresh(context.Background(), "")
	assert.ErrorIs(s.T(), err, domainErrors.ErrUnauthorized)
}

func (s *AuthServiceTestSuite) TestRefresh_UnknownUser() {
	ctx := context.Background()
	userID := uuid.New()

	s.mockTokenManager.On("ParseRefreshToken", "valid-but-orphaned").
		Return(&domainService.RefreshTokenClaims{UserID: userID.String()}, nil).Once()
	s.mockUserRepo.On("FindByID", ctx, userID).Return(nil, domainErrors.ErrUserNotFound).Once()

	_, err := s.authService.Refresh(ctx, "valid-but-orphaned")

	assert.ErrorIs(s.T(), err, domainErrors.ErrInvalidRefreshToken)
}

// --- Logout ---

func (s *AuthServiceTestSuite) TestLogout_ClearsRefreshToken() {
	ctx := context.Background()
	userID := uuid.New()

	s.mockUserRepo.On("ClearRefreshToken", ctx, userID).Return(nil).Once()
	s.mockProducer.On("PublishEvent", ctx, kafka.EventUserLoggedOut, userID.String(), mock.Anything).
		Return(nil).Once()

	err := s.authService.Logout(ctx, userID)

	s.Require().NoError(err)
	s.mockUserRepo.AssertExpectations(s.T())
}

// --- ChangePassword ---

func (s *AuthServiceTestSuite) TestChangePassword_Success() {
	ctx := context.Background()
	userID := uuid.New()
	stored := "current-refresh"
	user := &entity.User{ID: userID, PasswordHash: "old-hash", RefreshToken: &stored}

	s.mockUserRepo.On("FindByID", ctx, userID).Return(user, nil).Once()
	s.mockPasswordService.On("CheckPasswordHash", "old-pass", "old-hash").Return(true, nil).Once()
	s.mockPasswordService.On("HashPassword", "new-pass").Return("new-hash", nil).Once()
	s.mockUserRepo.On("UpdatePassword", ctx, userID, "new-hash").Return(nil).Once()
	s.mockProducer.On("PublishEvent", ctx, kafka.EventUserPasswordChanged, userID.String(), mock.Anything).
		Return(nil).Once()

	err := s.authService.ChangePassword(ctx, userID, "old-pass", "new-pass")

	s.Require().NoError(err)
	// Changing the password keeps the current session alive.
	s.mockUserRepo.AssertNotCalled(s.T(), "ClearRefreshToken", mock.Anything, mock.Anything)
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestChangePassword_WrongOldPassword() {
	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{ID: userID, PasswordHash: "old-hash"}

	s.mockUserRepo.On("FindByID", ctx, userID).Return(user, nil).Once()
	s.mockPasswordService.On("CheckPasswordHash", "wrong", "old-hash").Return(false, nil).Once()

	err := s.authService.ChangePassword(ctx, userID, "wrong", "new-pass")

	assert.ErrorIs(s.T(), err, domainErrors.ErrInvalidPassword)
	s.mockUserRepo.AssertNotCalled(s.T(), "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestChangePassword_EmptyNewPassword() {
	err := s.authService.ChangePassword(context.Background(), uuid.New(), "old-pass", "  ")
	assert.ErrorIs(s.T(), err, domainErrors.ErrInvalidRequest)
}

func (s *AuthServiceTestSuite) TestLogin_BrokerDownDoesNotFailLogin() {
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Username: "alice", PasswordHash: "hashed"}

	s.mockUserRepo.On("FindByUsernameOrEmail", ctx, "alice", "").Return(user, nil).Once()
	s.mockPasswordService.On("CheckPasswordHash", "password123", "hashed").Return(true, nil).Once()
	s.mockTokenManager.On("GenerateAccessToken", user).Return("access-token", nil).Once()
	s.mockTokenManager.On("GenerateRefreshToken", user.ID).Return("refresh-token", nil).Once()
	s.mockUserRepo.On("SetRefreshToken", ctx, user.ID, "refresh-token").Return(nil).Once()
	s.mockProducer.On("PublishEvent", ctx, kafka.EventUserLoggedIn, user.ID.String(), mock.Anything).
		Return(assert.AnError).Once()

	_, _, err := s.authService.Login(ctx, models.LoginRequest{Username: "alice", Password: "password123"})

	s.Require().NoError(err)
}
