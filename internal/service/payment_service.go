package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Barry4747/ZnanyByk-sub001/internal/domain"
	"github.com/Barry4747/ZnanyByk-sub001/internal/notify"
	"github.com/Barry4747/ZnanyByk-sub001/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPaymentAccessDenied  = errors.New("access denied to this payment")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidPaymentMethod = errors.New("payment method must be CARD, CASH or TRANSFER")
	ErrPaymentStateChanged  = errors.New("payment status changed concurrently")
	ErrPaymentConfirmDenied = errors.New("only the trainer can confirm a payment")
)

type PaymentService interface {
	// Create opens a PENDING payment for one of the client's appointments.
	Create(ctx context.Context, clientID, appointmentID primitive.ObjectID, amount int64, method domain.PaymentMethod) (*domain.Payment, error)
	// Complete marks a payment as received. Only the payee trainer may do it.
	Complete(ctx context.Context, userID, paymentID primitive.ObjectID) (*domain.Payment, error)
	// Fail may be called by either participant.
	Fail(ctx context.Context, userID, paymentID primitive.ObjectID) (*domain.Payment, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Payment, error)
}

type paymentService struct {
	paymentRepo     repository.PaymentRepository
	appointmentRepo repository.AppointmentRepository
	publisher       notify.Publisher
	log             *zap.Logger
	now             func() time.Time
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	appointmentRepo repository.AppointmentRepository,
	publisher notify.Publisher,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		paymentRepo:     paymentRepo,
		appointmentRepo: appointmentRepo,
		publisher:       publisher,
		log:             log,
		now:             time.Now,
	}
}

func (s *paymentService) Create(ctx context.Context, clientID, appointmentID primitive.ObjectID, amount int64, method domain.PaymentMethod) (*domain.Payment, error) {
	const op = "service.CreatePayment"

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if appointment.ClientID != clientID {
		return nil, ErrAppointmentAccessDenied
	}

	payment := &domain.Payment{
		TrainingsID: appointment.ID,
		Amount:      amount,
		Status:      domain.PaymentPending,
		ClientID:    clientID,
		TrainerID:   appointment.TrainerID,
		Method:      method,
	}
	id, err := s.paymentRepo.Create(ctx, payment)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	payment.ID = id
	return payment, nil
}

func (s *paymentService) Complete(ctx context.Context, userID, paymentID primitive.ObjectID) (*domain.Payment, error) {
	return s.transition(ctx, userID, paymentID, domain.PaymentCompleted, true)
}

func (s *paymentService) Fail(ctx context.Context, userID, paymentID primitive.ObjectID) (*domain.Payment, error) {
	return s.transition(ctx, userID, paymentID, domain.PaymentFailed, false)
}

func (s *paymentService) transition(ctx context.Context, userID, paymentID primitive.ObjectID, next domain.PaymentStatus, payeeOnly bool) (*domain.Payment, error) {
	const op = "service.PaymentTransition"

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if payment.ClientID != userID && payment.TrainerID != userID {
		return nil, ErrPaymentAccessDenied
	}
	if payeeOnly && payment.TrainerID != userID {
		return nil, ErrPaymentConfirmDenied
	}

	from := payment.Status
	if err := payment.Transition(next, s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.UpdateStatus(ctx, payment, from); err != nil {
		if errors.Is(err, repository.ErrUpdateFailed) {
			return nil, ErrPaymentStateChanged
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	event := notify.PaymentEvent{
		PaymentID: payment.ID.Hex(),
		ClientID:  payment.ClientID.Hex(),
		TrainerID: payment.TrainerID.Hex(),
		Amount:    payment.Amount,
		Status:    string(payment.Status),
	}
	if err := s.publisher.Publish(ctx, notify.PaymentUpdated, event); err != nil {
		s.log.Warn("failed to publish payment event", zap.String("payment_id", payment.ID.Hex()), zap.Error(err))
	}
	return payment, nil
}

func (s *paymentService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Payment, error) {
	payments, err := s.paymentRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.ListPayments: %w", err)
	}
	return payments, nil
}
