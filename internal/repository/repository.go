package repository

import (
	"context"
	"time"

	"github.com/Barry4747/ZnanyByk-sub001/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
	ErrDuplicate    = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// UpdateProfile sets name and birth date; a nil birthDate clears the stored one.
	UpdateProfile(ctx context.Context, id primitive.ObjectID, name string, birthDate *time.Time) error
	SetPhotoKey(ctx context.Context, id primitive.ObjectID, key string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// TrainerRepository stores the public trainer profiles.
type TrainerRepository interface {
	Upsert(ctx context.Context, trainer *domain.Trainer) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error)
	// List returns every trainer, or only those inside bounds when it is non-nil.
	List(ctx context.Context, bounds *domain.GeoBounds) ([]domain.Trainer, error)
}

// ScheduleRepository stores one WeeklySchedule document per trainer.
// Save replaces the whole document; concurrent writers race and the last one wins.
type ScheduleRepository interface {
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) (*domain.WeeklySchedule, error)
	Save(ctx context.Context, schedule *domain.WeeklySchedule) error
}

// AppointmentRepository defines the interface for interacting with appointment data.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Appointment, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Appointment, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Appointment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ChatRepository stores chats and their messages.
type ChatRepository interface {
	// Touch creates the chat if needed and records its latest message preview.
	Touch(ctx context.Context, chat *domain.Chat) error
	GetByID(ctx context.Context, id string) (*domain.Chat, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Chat, error)
	AddMessage(ctx context.Context, msg *domain.Message) (primitive.ObjectID, error)
	// Messages returns the chat's messages ordered by timestamp ascending.
	Messages(ctx context.Context, chatID string) ([]domain.Message, error)
	MarkSeen(ctx context.Context, chatID string, receiverID primitive.ObjectID) (int64, error)
}

// PaymentRepository defines the interface for interacting with payment data.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Payment, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Payment, error)
	// UpdateStatus writes next only while the stored status still equals from.
	UpdateStatus(ctx context.Context, payment *domain.Payment, from domain.PaymentStatus) error
}

// UploadRepository defines the interface for interacting with upload metadata.
type UploadRepository interface {
	Create(ctx context.Context, upload *domain.Upload) (primitive.ObjectID, error)
	GetByObjectKey(ctx context.Context, key string) (*domain.Upload, error)
	DeleteByObjectKey(ctx context.Context, key string) error
}
