package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/streamnest/user-service/internal/domain/entity"
	domainErrors "github.com/streamnest/user-service/internal/domain/errors"
	"github.com/streamnest/user-service/internal/domain/models"
	"github.com/streamnest/user-service/internal/domain/repository"
	domainService "github.com/streamnest/user-service/internal/domain/service"
	"github.com/streamnest/user-service/internal/events/kafka"
)

// AuthService orchestrates the session-token lifecycle: registration, login,
// refresh rotation, logout and password change. The account's refresh_token
// column is the entire session state; at most one refresh token is valid per
// account at any time.
type AuthService struct {
	userRepo        repository.UserRepository
	passwordService domainService.PasswordService
	tokenManager    domainService.TokenManager
	producer        kafka.EventProducer
	logger          *zap.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	passwordService domainService.PasswordService,
	tokenManager domainService.TokenManager,
	producer kafka.EventProducer,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		passwordService: passwordService,
		tokenManager:    tokenManager,
		producer:        producer,
		logger:          logger.Named("auth_service"),
	}
}

// Register creates a new account. No tokens are issued; registration does
// not log the user in.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*entity.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	fullName := strings.TrimSpace(req.FullName)

	if username == "" || email == "" || fullName == "" || strings.TrimSpace(req.Password) == "" {
		return nil, fmt.Errorf("%w: all fields are required", domainErrors.ErrInvalidRequest)
	}

	existing, err := s.userRepo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil && !domainErrors.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		if existing.Username == username {
			return nil, domainErrors.ErrUsernameExists
		}
		return nil, domainErrors.ErrEmailExists
	}

	if req.AvatarURL == "" {
		return nil, domainErrors.ErrAvatarRequired
	}

	hash, err := s.passwordService.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		AvatarURL:    req.AvatarURL,
	}
	if req.CoverImageURL != "" {
		user.CoverImageURL = &req.CoverImageURL
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventUserRegistered, user.ID, map[string]string{
		"username": user.Username,
		"email":    user.Email,
	})
	return user, nil
}

// Login verifies credentials and installs a fresh token pair. The new
// refresh token overwrites whatever was stored before, so a second login
// silently invalidates the first session.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*entity.User, models.TokenPair, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if username == "" && email == "" {
		return nil, models.TokenPair{}, fmt.Errorf("%w: username or email is required", domainErrors.ErrInvalidRequest)
	}

	user, err := s.userRepo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, models.TokenPair{}, err
	}

	ok, err := s.passwordService.CheckPasswordHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, models.TokenPair{}, err
	}
	if !ok {
		return nil, models.TokenPair{}, domainErrors.ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, models.TokenPair{}, err
	}

	s.publish(ctx, kafka.EventUserLoggedIn, user.ID, map[string]string{"username": user.Username})
	return user, pair, nil
}

// Refresh rotates the token pair. The presented token must match the stored
// one exactly; a superseded token is rejected even while its signature is
// still cryptographically valid.
func (s *AuthService) Refresh(ctx context.Context, presentedToken string) (models.TokenPair, error) {
	if presentedToken == "" {
		return models.TokenPair{}, domainErrors.ErrUnauthorized
	}

	claims, err := s.tokenManager.ParseRefreshToken(presentedToken)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%w: %v", domainErrors.ErrInvalidRefreshToken, err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return models.TokenPair{}, domainErrors.ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if domainErrors.IsNotFound(err) {
			return models.TokenPair{}, domainErrors.ErrInvalidRefreshToken
		}
		return models.TokenPair{}, err
	}

	if user.RefreshToken == nil || *user.RefreshToken != presentedToken {
		return models.TokenPair{}, domainErrors.ErrRefreshTokenUsed
	}

	accessToken, err := s.tokenManager.GenerateAccessToken(user)
	if err != nil {
		return models.TokenPair{}, err
	}
	refreshToken, err := s.tokenManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return models.TokenPair{}, err
	}

	// Conditional swap: if another refresh won the race since the read above,
	// the store rejects the rotation and the caller gets the reuse error.
	if err := s.userRepo.RotateRefreshToken(ctx, user.ID, presentedToken, refreshToken); err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout clears the stored refresh token. Identity was already established
// upstream by the access-token middleware; no verification happens here.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		return err
	}
	s.publish(ctx, kafka.EventUserLoggedOut, userID, nil)
	return nil
}

// ChangePassword rehashes the credential after verifying the old one. The
// current refresh token is deliberately left in place.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("%w: new password is required", domainErrors.ErrInvalidRequest)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := s.passwordService.CheckPasswordHash(oldPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return domainErrors.ErrInvalidPassword
	}

	hash, err := s.passwordService.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	s.publish(ctx, kafka.EventUserPasswordChanged, userID, nil)
	return nil
}

// issueTokenPair mints both tokens and persists the refresh token as the
// account's current session state.
func (s *AuthService) issueTokenPair(ctx context.Context, user *entity.User) (models.TokenPair, error) {
	accessToken, err := s.tokenManager.GenerateAccessToken(user)
	if err != nil {
		return models.TokenPair{}, err
	}
	refreshToken, err := s.tokenManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return models.TokenPair{}, err
	}
	if err := s.userRepo.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return models.TokenPair{}, err
	}
	return models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// publish emits a domain event; broker failures never fail the operation.
func (s *AuthService) publish(ctx context.Context, eventType string, userID uuid.UUID, data map[string]string) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishEvent(ctx, eventType, userID.String(), data); err != nil {
		s.logger.Warn("Failed to publish event", zap.String("event_type", eventType), zap.Error(err))
	}
}
