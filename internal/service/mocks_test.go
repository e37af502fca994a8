package service

import (
	"context"
	"time"

	"github.com/Barry4747/ZnanyByk-sub001/internal/domain"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newNoopLogger() *zap.Logger {
	return zap.NewNop()
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, name string, birthDate *time.Time) error {
	args := m.Called(ctx, id, name, birthDate)
	return args.Error(0)
}

func (m *MockUserRepository) SetPhotoKey(ctx context.Context, id primitive.ObjectID, key string) error {
	args := m.Called(ctx, id, key)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTrainerRepository struct {
	mock.Mock
}

func (m *MockTrainerRepository) Upsert(ctx context.Context, trainer *domain.Trainer) error {
	args := m.Called(ctx, trainer)
	return args.Error(0)
}

func (m *MockTrainerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	args := m.Called(ctx, id)
	trainer, _ := args.Get(0).(*domain.Trainer)
	return trainer, args.Error(1)
}

func (m *MockTrainerRepository) List(ctx context.Context, bounds *domain.GeoBounds) ([]domain.Trainer, error) {
	args := m.Called(ctx, bounds)
	trainers, _ := args.Get(0).([]domain.Trainer)
	return trainers, args.Error(1)
}

type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) (*domain.WeeklySchedule, error) {
	args := m.Called(ctx, trainerID)
	schedule, _ := args.Get(0).(*domain.WeeklySchedule)
	return schedule, args.Error(1)
}

func (m *MockScheduleRepository) Save(ctx context.Context, schedule *domain.WeeklySchedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, appointment *domain.Appointment) (primitive.ObjectID, error) {
	args := m.Called(ctx, appointment)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Appointment, error) {
	args := m.Called(ctx, id)
	appointment, _ := args.Get(0).(*domain.Appointment)
	return appointment, args.Error(1)
}

func (m *MockAppointmentRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Appointment, error) {
	args := m.Called(ctx, trainerID)
	appointments, _ := args.Get(0).([]domain.Appointment)
	return appointments, args.Error(1)
}

func (m *MockAppointmentRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Appointment, error) {
	args := m.Called(ctx, clientID)
	appointments, _ := args.Get(0).([]domain.Appointment)
	return appointments, args.Error(1)
}

func (m *MockAppointmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) Touch(ctx context.Context, chat *domain.Chat) error {
	args := m.Called(ctx, chat)
	return args.Error(0)
}

func (m *MockChatRepository) GetByID(ctx context.Context, id string) (*domain.Chat, error) {
	args := m.Called(ctx, id)
	chat, _ := args.Get(0).(*domain.Chat)
	return chat, args.Error(1)
}

func (m *MockChatRepository) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Chat, error) {
	args := m.Called(ctx, userID)
	chats, _ := args.Get(0).([]domain.Chat)
	return chats, args.Error(1)
}

func (m *MockChatRepository) AddMessage(ctx context.Context, msg *domain.Message) (primitive.ObjectID, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockChatRepository) Messages(ctx context.Context, chatID string) ([]domain.Message, error) {
	args := m.Called(ctx, chatID)
	msgs, _ := args.Get(0).([]domain.Message)
	return msgs, args.Error(1)
}

func (m *MockChatRepository) MarkSeen(ctx context.Context, chatID string, receiverID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, chatID, receiverID)
	return args.Get(0).(int64), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) (primitive.ObjectID, error) {
	args := m.Called(ctx, payment)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	payment, _ := args.Get(0).(*domain.Payment)
	return payment, args.Error(1)
}

func (m *MockPaymentRepository) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Payment, error) {
	args := m.Called(ctx, userID)
	payments, _ := args.Get(0).([]domain.Payment)
	return payments, args.Error(1)
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, payment *domain.Payment, from domain.PaymentStatus) error {
	args := m.Called(ctx, payment, from)
	return args.Error(0)
}

type MockUploadRepository struct {
	mock.Mock
}

func (m *MockUploadRepository) Create(ctx context.Context, upload *domain.Upload) (primitive.ObjectID, error) {
	args := m.Called(ctx, upload)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockUploadRepository) GetByObjectKey(ctx context.Context, key string) (*domain.Upload, error) {
	args := m.Called(ctx, key)
	upload, _ := args.Get(0).(*domain.Upload)
	return upload, args.Error(1)
}

func (m *MockUploadRepository) DeleteByObjectKey(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, contentType, expires)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expires)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) ObjectExists(ctx context.Context, objectKey string) (bool, error) {
	args := m.Called(ctx, objectKey)
	return args.Bool(0), args.Error(1)
}

func (m *MockFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	args := m.Called(ctx, objectKey)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

type MockTrainerService struct {
	mock.Mock
}

func (m *MockTrainerService) ListTrainers(ctx context.Context, bounds *domain.GeoBounds) ([]domain.Trainer, error) {
	args := m.Called(ctx, bounds)
	trainers, _ := args.Get(0).([]domain.Trainer)
	return trainers, args.Error(1)
}

func (m *MockTrainerService) GetTrainer(ctx context.Context, trainerID primitive.ObjectID) (*TrainerDetails, error) {
	args := m.Called(ctx, trainerID)
	details, _ := args.Get(0).(*TrainerDetails)
	return details, args.Error(1)
}

func (m *MockTrainerService) UpdateProfile(ctx context.Context, trainerID primitive.ObjectID, upd TrainerProfileUpdate) (*domain.Trainer, error) {
	args := m.Called(ctx, trainerID, upd)
	trainer, _ := args.Get(0).(*domain.Trainer)
	return trainer, args.Error(1)
}

func (m *MockTrainerService) SetPhotoKey(ctx context.Context, trainerID primitive.ObjectID, key string) error {
	args := m.Called(ctx, trainerID, key)
	return args.Error(0)
}
