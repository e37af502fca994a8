package service

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/Barry4747/ZnanyByk-sub001/internal/domain"
	"github.com/Barry4747/ZnanyByk-sub001/internal/repository"
	"github.com/Barry4747/ZnanyByk-sub001/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrUnsupportedPhotoType = errors.New("photo must be an image")
	ErrPhotoNotUploaded     = errors.New("photo has not been uploaded")
	ErrPhotoKeyForeign      = errors.New("photo key does not belong to this user")
	ErrNoPhoto              = errors.New("user has no profile photo")
)

const maxPhotoSize = 10 << 20

// BirthDateError reports a rejected birth date. Its message is shown to the user as is.
type BirthDateError struct {
	Err error
}

func (e *BirthDateError) Error() string {
	return "birth date: " + e.Err.Error()
}

func (e *BirthDateError) Unwrap() error {
	return e.Err
}

// PhotoUpload is what a client needs to PUT a picture straight to object storage.
type PhotoUpload struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	// UpdateProfile sets the name and the birth date typed as dd/MM/yyyy. A blank
	// birth date clears the stored one.
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, name, birthDate string) (*domain.User, error)
	RequestPhotoUpload(ctx context.Context, userID primitive.ObjectID, fileName, contentType string) (*PhotoUpload, error)
	ConfirmPhoto(ctx context.Context, userID primitive.ObjectID, objectKey, fileName, contentType string, size int64) (*domain.Upload, error)
	GetPhotoURL(ctx context.Context, userID primitive.ObjectID) (string, error)
}

type profileService struct {
	userRepo    repository.UserRepository
	uploadRepo  repository.UploadRepository
	trainers    TrainerService
	fileStorage storage.FileStorage
	loc         *time.Location
	log         *zap.Logger
	now         func() time.Time
}

func NewProfileService(
	userRepo repository.UserRepository,
	uploadRepo repository.UploadRepository,
	trainers TrainerService,
	fileStorage storage.FileStorage,
	loc *time.Location,
	log *zap.Logger,
) ProfileService {
	if loc == nil {
		loc = time.UTC
	}
	return &profileService{
		userRepo:    userRepo,
		uploadRepo:  uploadRepo,
		trainers:    trainers,
		fileStorage: fileStorage,
		loc:         loc,
		log:         log,
		now:         time.Now,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("service.GetProfile: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, name, birthDate string) (*domain.User, error) {
	const op = "service.UpdateProfile"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
	}
	date, err := domain.ParseBirthDate(birthDate, s.now(), s.loc)
	if err != nil {
		return nil, &BirthDateError{Err: err}
	}
	if date != nil {
		// Stored as a calendar day so it reads back the same in any zone.
		day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
		date = &day
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, name, date); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.GetProfile(ctx, userID)
}

func (s *profileService) RequestPhotoUpload(ctx context.Context, userID primitive.ObjectID, fileName, contentType string) (*PhotoUpload, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrUnsupportedPhotoType
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	key := photoKeyPrefix(userID) + uuid.NewString() + ext

	url, err := s.fileStorage.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("service.RequestPhotoUpload: %w", err)
	}
	return &PhotoUpload{UploadURL: url, ObjectKey: key}, nil
}

// ConfirmPhoto records an uploaded picture as the user's current photo and
// removes the previous one.
func (s *profileService) ConfirmPhoto(ctx context.Context, userID primitive.ObjectID, objectKey, fileName, contentType string, size int64) (*domain.Upload, error) {
	const op = "service.ConfirmPhoto"

	if !strings.HasPrefix(objectKey, photoKeyPrefix(userID)) {
		return nil, ErrPhotoKeyForeign
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrUnsupportedPhotoType
	}
	if size <= 0 || size > maxPhotoSize {
		return nil, fmt.Errorf("%w: photo size must be between 1 byte and %d bytes", ErrInvalidInput, maxPhotoSize)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := s.fileStorage.ObjectExists(ctx, objectKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, ErrPhotoNotUploaded
	}

	upload := &domain.Upload{
		OwnerID:     userID,
		S3ObjectKey: objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
	}
	id, err := s.uploadRepo.Create(ctx, upload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	upload.ID = id

	if err := s.userRepo.SetPhotoKey(ctx, userID, objectKey); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user.IsTrainer() {
		if err := s.trainers.SetPhotoKey(ctx, userID, objectKey); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if old := user.PhotoKey; old != "" && old != objectKey {
		s.removeObject(ctx, old)
	}
	return upload, nil
}

// removeObject deletes a replaced photo. Failures only leave an orphaned object behind.
func (s *profileService) removeObject(ctx context.Context, key string) {
	if err := s.fileStorage.DeleteObject(ctx, key); err != nil {
		s.log.Warn("failed to delete replaced photo", zap.String("key", key), zap.Error(err))
	}
	if err := s.uploadRepo.DeleteByObjectKey(ctx, key); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("failed to delete upload record", zap.String("key", key), zap.Error(err))
	}
}

func (s *profileService) GetPhotoURL(ctx context.Context, userID primitive.ObjectID) (string, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.PhotoKey == "" {
		return "", ErrNoPhoto
	}
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, user.PhotoKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", fmt.Errorf("service.GetPhotoURL: %w", err)
	}
	return url, nil
}

func photoKeyPrefix(userID primitive.ObjectID) string {
	return "users/" + userID.Hex() + "/"
}
