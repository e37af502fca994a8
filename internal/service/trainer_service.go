package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Barry4747/ZnanyByk-sub001/internal/domain"
	"github.com/Barry4747/ZnanyByk-sub001/internal/repository"
	"github.com/Barry4747/ZnanyByk-sub001/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var ErrInvalidBounds = errors.New("invalid map bounds")

const trainerCachePrefix = "trainers:"

// Cache is the subset of the Redis cache used by services. *cache.Cache satisfies it.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// TrainerProfileUpdate carries the fields a trainer may change. Nil fields are left as they are.
type TrainerProfileUpdate struct {
	Name            *string
	Specialization  *string
	Description     *string
	PricePerSession *int64
	Latitude        *float64
	Longitude       *float64
}

// TrainerDetails is a trainer profile with a short-lived photo link.
type TrainerDetails struct {
	domain.Trainer
	PhotoURL string `json:"photoUrl,omitempty"`
}

type TrainerService interface {
	// ListTrainers returns all trainers, or only those inside bounds when it is non-nil.
	ListTrainers(ctx context.Context, bounds *domain.GeoBounds) ([]domain.Trainer, error)
	GetTrainer(ctx context.Context, trainerID primitive.ObjectID) (*TrainerDetails, error)
	UpdateProfile(ctx context.Context, trainerID primitive.ObjectID, upd TrainerProfileUpdate) (*domain.Trainer, error)
	SetPhotoKey(ctx context.Context, trainerID primitive.ObjectID, key string) error
}

type trainerService struct {
	trainerRepo repository.TrainerRepository
	fileStorage storage.FileStorage
	cache       Cache
	cacheTTL    time.Duration
	log         *zap.Logger
}

// NewTrainerService builds the directory service. cache may be nil, which
// sends every read straight to the repository.
func NewTrainerService(
	trainerRepo repository.TrainerRepository,
	fileStorage storage.FileStorage,
	cache Cache,
	cacheTTL time.Duration,
	log *zap.Logger,
) TrainerService {
	return &trainerService{
		trainerRepo: trainerRepo,
		fileStorage: fileStorage,
		cache:       cache,
		cacheTTL:    cacheTTL,
		log:         log,
	}
}

func trainerListKey(bounds *domain.GeoBounds) string {
	if bounds == nil {
		return trainerCachePrefix + "all"
	}
	return fmt.Sprintf("%sbounds:%g:%g:%g:%g", trainerCachePrefix, bounds.MinLat, bounds.MaxLat, bounds.MinLng, bounds.MaxLng)
}

func (s *trainerService) ListTrainers(ctx context.Context, bounds *domain.GeoBounds) ([]domain.Trainer, error) {
	const op = "service.ListTrainers"
	if bounds != nil && !bounds.Valid() {
		return nil, ErrInvalidBounds
	}

	key := trainerListKey(bounds)
	if s.cache != nil {
		var cached []domain.Trainer
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("trainer cache read failed", zap.String("key", key), zap.Error(err))
		} else if found {
			return cached, nil
		}
	}

	trainers, err := s.trainerRepo.List(ctx, bounds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, trainers, s.cacheTTL); err != nil {
			s.log.Warn("trainer cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return trainers, nil
}

func (s *trainerService) GetTrainer(ctx context.Context, trainerID primitive.ObjectID) (*TrainerDetails, error) {
	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, fmt.Errorf("service.GetTrainer: %w", err)
	}

	details := &TrainerDetails{Trainer: *trainer}
	if trainer.PhotoKey != "" && s.fileStorage != nil {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, trainer.PhotoKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			// The profile is still useful without its picture.
			s.log.Warn("failed to presign trainer photo", zap.String("trainer_id", trainerID.Hex()), zap.Error(err))
		} else {
			details.PhotoURL = url
		}
	}
	return details, nil
}

func (s *trainerService) UpdateProfile(ctx context.Context, trainerID primitive.ObjectID, upd TrainerProfileUpdate) (*domain.Trainer, error) {
	const op = "service.UpdateTrainerProfile"

	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		trainer.Name = name
	}
	if upd.Specialization != nil {
		trainer.Specialization = strings.TrimSpace(*upd.Specialization)
	}
	if upd.Description != nil {
		trainer.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.PricePerSession != nil {
		if *upd.PricePerSession < 0 {
			return nil, fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
		}
		trainer.PricePerSession = *upd.PricePerSession
	}
	if upd.Latitude != nil {
		if *upd.Latitude < -90 || *upd.Latitude > 90 {
			return nil, fmt.Errorf("%w: latitude out of range", ErrInvalidInput)
		}
		trainer.Latitude = *upd.Latitude
	}
	if upd.Longitude != nil {
		if *upd.Longitude < -180 || *upd.Longitude > 180 {
			return nil, fmt.Errorf("%w: longitude out of range", ErrInvalidInput)
		}
		trainer.Longitude = *upd.Longitude
	}

	if err := s.trainerRepo.Upsert(ctx, trainer); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx)
	return trainer, nil
}

func (s *trainerService) SetPhotoKey(ctx context.Context, trainerID primitive.ObjectID, key string) error {
	const op = "service.SetTrainerPhoto"
	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTrainerNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	trainer.PhotoKey = key
	if err := s.trainerRepo.Upsert(ctx, trainer); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx)
	return nil
}

// invalidate drops every cached trainer list. Stale entries otherwise expire with the TTL.
func (s *trainerService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePrefix(ctx, trainerCachePrefix); err != nil {
		s.log.Warn("trainer cache invalidation failed", zap.Error(err))
	}
}
