package api

import (
	"context"

	"github.com/Barry4747/ZnanyByk-sub001/internal/domain"
	"github.com/Barry4747/ZnanyByk-sub001/internal/service"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	args := m.Called(ctx, name, email, password, role)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(1).(*domain.User)
	return args.String(0), user, args.Error(2)
}

func (m *MockAuthService) ParseToken(token string) (*service.Claims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(*service.Claims)
	return claims, args.Error(1)
}

type MockProfileService struct{ mock.Mock }

func (m *MockProfileService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, name, birthDate string) (*domain.User, error) {
	args := m.Called(ctx, userID, name, birthDate)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockProfileService) RequestPhotoUpload(ctx context.Context, userID primitive.ObjectID, fileName, contentType string) (*service.PhotoUpload, error) {
	args := m.Called(ctx, userID, fileName, contentType)
	upload, _ := args.Get(0).(*service.PhotoUpload)
	return upload, args.Error(1)
}

func (m *MockProfileService) ConfirmPhoto(ctx context.Context, userID primitive.ObjectID, objectKey, fileName, contentType string, size int64) (*domain.Upload, error) {
	args := m.Called(ctx, userID, objectKey, fileName, contentType, size)
	upload, _ := args.Get(0).(*domain.Upload)
	return upload, args.Error(1)
}

func (m *MockProfileService) GetPhotoURL(ctx context.Context, userID primitive.ObjectID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

type MockTrainerService struct{ mock.Mock }

func (m *MockTrainerService) ListTrainers(ctx context.Context, bounds *domain.GeoBounds) ([]domain.Trainer, error) {
	args := m.Called(ctx, bounds)
	trainers, _ := args.Get(0).([]domain.Trainer)
	return trainers, args.Error(1)
}

func (m *MockTrainerService) GetTrainer(ctx context.Context, trainerID primitive.ObjectID) (*service.TrainerDetails, error) {
	args := m.Called(ctx, trainerID)
	details, _ := args.Get(0).(*service.TrainerDetails)
	return details, args.Error(1)
}

func (m *MockTrainerService) UpdateProfile(ctx context.Context, trainerID primitive.ObjectID, upd service.TrainerProfileUpdate) (*domain.Trainer, error) {
	args := m.Called(ctx, trainerID, upd)
	trainer, _ := args.Get(0).(*domain.Trainer)
	return trainer, args.Error(1)
}

func (m *MockTrainerService) SetPhotoKey(ctx context.Context, trainerID primitive.ObjectID, key string) error {
	return m.Called(ctx, trainerID, key).Error(0)
}

type MockScheduleService struct{ mock.Mock }

func (m *MockScheduleService) GetSchedule(ctx context.Context, trainerID primitive.ObjectID) (*domain.WeeklySchedule, error) {
	args := m.Called(ctx, trainerID)
	schedule, _ := args.Get(0).(*domain.WeeklySchedule)
	return schedule, args.Error(1)
}

func (m *MockScheduleService) AddSlot(ctx context.Context, trainerID primitive.ObjectID, day domain.Weekday, slot domain.TrainingSlot) (*domain.WeeklySchedule, error) {
	args := m.Called(ctx, trainerID, day, slot)
	schedule, _ := args.Get(0).(*domain.WeeklySchedule)
	return schedule, args.Error(1)
}

func (m *MockScheduleService) RemoveSlot(ctx context.Context, trainerID primitive.ObjectID, day domain.Weekday, slot domain.TrainingSlot) (*domain.WeeklySchedule, error) {
	args := m.Called(ctx, trainerID, day, slot)
	schedule, _ := args.Get(0).(*domain.WeeklySchedule)
	return schedule, args.Error(1)
}

type MockAppointmentService struct{ mock.Mock }

func (m *MockAppointmentService) Book(ctx context.Context, clientID primitive.ObjectID, req service.BookingRequest) (*domain.Appointment, error) {
	args := m.Called(ctx, clientID, req)
	appointment, _ := args.Get(0).(*domain.Appointment)
	return appointment, args.Error(1)
}

func (m *MockAppointmentService) ListForTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]service.AppointmentView, error) {
	args := m.Called(ctx, trainerID)
	views, _ := args.Get(0).([]service.AppointmentView)
	return views, args.Error(1)
}

func (m *MockAppointmentService) ListForClient(ctx context.Context, clientID primitive.ObjectID) ([]service.AppointmentView, error) {
	args := m.Called(ctx, clientID)
	views, _ := args.Get(0).([]service.AppointmentView)
	return views, args.Error(1)
}

func (m *MockAppointmentService) Cancel(ctx context.Context, userID, appointmentID primitive.ObjectID) error {
	return m.Called(ctx, userID, appointmentID).Error(0)
}

type MockChatService struct{ mock.Mock }

func (m *MockChatService) SendMessage(ctx context.Context, senderID, receiverID primitive.ObjectID, text string) (*domain.Message, error) {
	args := m.Called(ctx, senderID, receiverID, text)
	msg, _ := args.Get(0).(*domain.Message)
	return msg, args.Error(1)
}

func (m *MockChatService) ListChats(ctx context.Context, userID primitive.ObjectID) ([]domain.Chat, error) {
	args := m.Called(ctx, userID)
	chats, _ := args.Get(0).([]domain.Chat)
	return chats, args.Error(1)
}

func (m *MockChatService) GetThread(ctx context.Context, chatID string, userID primitive.ObjectID) ([]service.ThreadMessage, error) {
	args := m.Called(ctx, chatID, userID)
	thread, _ := args.Get(0).([]service.ThreadMessage)
	return thread, args.Error(1)
}

func (m *MockChatService) MarkSeen(ctx context.Context, chatID string, userID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, chatID, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockPaymentService struct{ mock.Mock }

func (m *MockPaymentService) Create(ctx context.Context, clientID, appointmentID primitive.ObjectID, amount int64, method domain.PaymentMethod) (*domain.Payment, error) {
	args := m.Called(ctx, clientID, appointmentID, amount, method)
	payment, _ := args.Get(0).(*domain.Payment)
	return payment, args.Error(1)
}

func (m *MockPaymentService) Complete(ctx context.Context, userID, paymentID primitive.ObjectID) (*domain.Payment, error) {
	args := m.Called(ctx, userID, paymentID)
	payment, _ := args.Get(0).(*domain.Payment)
	return payment, args.Error(1)
}

func (m *MockPaymentService) Fail(ctx context.Context, userID, paymentID primitive.ObjectID) (*domain.Payment, error) {
	args := m.Called(ctx, userID, paymentID)
	payment, _ := args.Get(0).(*domain.Payment)
	return payment, args.Error(1)
}

func (m *MockPaymentService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Payment, error) {
	args := m.Called(ctx, userID)
	payments, _ := args.Get(0).([]domain.Payment)
	return payments, args.Error(1)
}
