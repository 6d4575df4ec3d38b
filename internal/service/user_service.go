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
	"github.com/streamnest/user-service/internal/events/kafka"
	"github.com/streamnest/user-service/internal/infrastructure/client/s3"
	redisrepo "github.com/streamnest/user-service/internal/infrastructure/repository/redis"
)

const defaultPageSize = 20

// UserService covers everything about an account that is not the token
// lifecycle: profile reads and mutations, media references, the channel view
// and watch history.
type UserService struct {
	userRepo     repository.UserRepository
	subsRepo     repository.SubscriptionRepository
	historyRepo  repository.WatchHistoryRepository
	profileCache *redisrepo.ProfileCache
	media        s3.MediaStorage
	producer     kafka.EventProducer
	logger       *zap.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	subsRepo repository.SubscriptionRepository,
	historyRepo repository.WatchHistoryRepository,
	profileCache *redisrepo.ProfileCache,
	media s3.MediaStorage,
	producer kafka.EventProducer,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:     userRepo,
		subsRepo:     subsRepo,
		historyRepo:  historyRepo,
		profileCache: profileCache,
		media:        media,
		producer:     producer,
		logger:       logger.Named("user_service"),
	}
}

// CurrentUser returns the authenticated account.
func (s *UserService) CurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// UpdateAccountDetails mutates the display fields. All three are required;
// username and email stay normalized to lowercase.
func (s *UserService) UpdateAccountDetails(ctx context.Context, userID uuid.UUID, req models.UpdateAccountRequest) (*entity.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.ToLower(strings.TrimSpace(req.Username))

	if fullName == "" || email == "" || username == "" {
		return nil, fmt.Errorf("%w: all fields are required", domainErrors.ErrInvalidRequest)
	}

	prior, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.UpdateAccountDetails(ctx, userID, fullName, email, username)
	if err != nil {
		return nil, err
	}

	s.invalidateProfile(ctx, prior.Username)
	if user.Username != prior.Username {
		s.invalidateProfile(ctx, user.Username)
	}
	s.publish(ctx, kafka.EventUserProfileUpdated, userID)
	return user, nil
}

// UpdateAvatar uploads the new avatar and swaps the stored reference.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uuid.UUID, data []byte, contentType string) (*entity.User, error) {
	if len(data) == 0 {
		return nil, domainErrors.ErrAvatarRequired
	}

	url, err := s.media.Upload(ctx, userID, "avatar", data, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrUploadFailed, err)
	}

	user, err := s.userRepo.UpdateAvatar(ctx, userID, url)
	if err != nil {
		return nil, err
	}

	s.invalidateProfile(ctx, user.Username)
	s.publish(ctx, kafka.EventUserAvatarUpdated, userID)
	return user, nil
}

// UpdateCoverImage uploads the new cover image and swaps the stored
// reference.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID uuid.UUID, data []byte, contentType string) (*entity.User, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: cover image file is missing", domainErrors.ErrInvalidRequest)
	}

	url, err := s.media.Upload(ctx, userID, "cover", data, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrUploadFailed, err)
	}

	user, err := s.userRepo.UpdateCoverImage(ctx, userID, url)
	if err != nil {
		return nil, err
	}

	s.invalidateProfile(ctx, user.Username)
	return user, nil
}

// GetChannelProfile returns the public channel view. Anonymous views are
// served from cache; viewer-specific views bypass it because IsSubscribed
// depends on the viewer.
func (s *UserService) GetChannelProfile(ctx context.Context, username string, viewerID *uuid.UUID) (*entity.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, fmt.Errorf("%w: username is missing", domainErrors.ErrInvalidRequest)
	}

	if viewerID == nil && s.profileCache != nil {
		cached, err := s.profileCache.Get(ctx, username)
		if err != nil {
			s.logger.Warn("Profile cache read failed", zap.String("username", username), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	profile, err := s.subsRepo.GetChannelProfile(ctx, username, viewerID)
	if err != nil {
		return nil, err
	}

	if viewerID == nil && s.profileCache != nil {
		if err := s.profileCache.Set(ctx, username, profile); err != nil {
			s.logger.Warn("Profile cache write failed", zap.String("username", username), zap.Error(err))
		}
	}
	return profile, nil
}

// Subscribe adds the subscriber edge. Subscribing to yourself is rejected.
func (s *UserService) Subscribe(ctx context.Context, subscriberID, channelID uuid.UUID) error {
	if subscriberID == channelID {
		return fmt.Errorf("%w: cannot subscribe to your own channel", domainErrors.ErrInvalidRequest)
	}

	channel, err := s.userRepo.FindByID(ctx, channelID)
	if err != nil {
		if domainErrors.IsNotFound(err) {
			return domainErrors.ErrChannelNotFound
		}
		return err
	}

	if err := s.subsRepo.Subscribe(ctx, subscriberID, channelID); err != nil {
		return err
	}
	s.invalidateProfile(ctx, channel.Username)
	return nil
}

// Unsubscribe removes the subscriber edge; removing an absent edge is a
// no-op.
func (s *UserService) Unsubscribe(ctx context.Context, subscriberID, channelID uuid.UUID) error {
	channel, err := s.userRepo.FindByID(ctx, channelID)
	if err != nil {
		if domainErrors.IsNotFound(err) {
			return domainErrors.ErrChannelNotFound
		}
		return err
	}

	if err := s.subsRepo.Unsubscribe(ctx, subscriberID, channelID); err != nil {
		return err
	}
	s.invalidateProfile(ctx, channel.Username)
	return nil
}

// GetWatchHistory returns the joined watch-history view, newest first.
func (s *UserService) GetWatchHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.WatchHistoryEntry, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.historyRepo.ListByUser(ctx, userID, limit, offset)
}

// AddToWatchHistory appends a watched video to the account's history.
func (s *UserService) AddToWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error {
	return s.historyRepo.Append(ctx, userID, videoID)
}

func (s *UserService) invalidateProfile(ctx context.Context, username string) {
	if s.profileCache == nil {
		return
	}
	if err := s.profileCache.Invalidate(ctx, username); err != nil {
		s.logger.Warn("Profile cache invalidation failed", zap.String("username", username), zap.Error(err))
	}
}

func (s *UserService) publish(ctx context.Context, eventType string, userID uuid.UUID) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishEvent(ctx, eventType, userID.String(), nil); err != nil {
		s.logger.Warn("Failed to publish event", zap.String("event_type", eventType), zap.Error(err))
	}
}
