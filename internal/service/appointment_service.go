package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Barry4747/ZnanyByk-sub001/internal/domain"
	"github.com/Barry4747/ZnanyByk-sub001/internal/notify"
	"github.com/Barry4747/ZnanyByk-sub001/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrAppointmentAccessDenied = errors.New("access denied to this appointment")
	ErrAppointmentInPast       = errors.New("appointment is already over")
	ErrSelfBooking             = errors.New("cannot book an appointment with yourself")
)

// BookingRequest describes an appointment a client asks for.
type BookingRequest struct {
	TrainerID primitive.ObjectID
	Date      time.Time // only year, month and day are used
	Time      string    // "HH:MM"
	Duration  int       // minutes
	Title     string
}

// AppointmentView is an appointment with its status relative to now.
type AppointmentView struct {
	domain.Appointment
	IsPast  bool `json:"isPast"`
	IsToday bool `json:"isToday"`
}

type AppointmentService interface {
	Book(ctx context.Context, clientID primitive.ObjectID, req BookingRequest) (*domain.Appointment, error)
	ListForTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]AppointmentView, error)
	ListForClient(ctx context.Context, clientID primitive.ObjectID) ([]AppointmentView, error)
	// Cancel deletes an upcoming appointment. Only its trainer or client may cancel it.
	Cancel(ctx context.Context, userID, appointmentID primitive.ObjectID) error
}

type appointmentService struct {
	appointmentRepo repository.AppointmentRepository
	trainerRepo     repository.TrainerRepository
	publisher       notify.Publisher
	loc             *time.Location
	log             *zap.Logger
	now             func() time.Time
}

func NewAppointmentService(
	appointmentRepo repository.AppointmentRepository,
	trainerRepo repository.TrainerRepository,
	publisher notify.Publisher,
	loc *time.Location,
	log *zap.Logger,
) AppointmentService {
	if loc == nil {
		loc = time.UTC
	}
	return &appointmentService{
		appointmentRepo: appointmentRepo,
		trainerRepo:     trainerRepo,
		publisher:       publisher,
		loc:             loc,
		log:             log,
		now:             time.Now,
	}
}

// Book stores the appointment as requested. Overlapping bookings are not rejected.
func (s *appointmentService) Book(ctx context.Context, clientID primitive.ObjectID, req BookingRequest) (*domain.Appointment, error) {
	const op = "service.Book"

	if req.TrainerID == clientID {
		return nil, ErrSelfBooking
	}
	if !domain.ValidClock(req.Time) || req.Duration <= 0 || req.Duration > maxSlotMinutes {
		return nil, ErrInvalidSlot
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if _, err := s.trainerRepo.GetByID(ctx, req.TrainerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	y, m, d := req.Date.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	appointment := &domain.Appointment{
		TrainerID: req.TrainerID,
		ClientID:  clientID,
		Date:      &date,
		DayOfWeek: domain.WeekdayOf(date),
		Time:      req.Time,
		Duration:  req.Duration,
		Title:     strings.TrimSpace(req.Title),
	}
	if isPast, _ := domain.DeriveStatus(*appointment, s.now(), s.loc); isPast {
		return nil, ErrAppointmentInPast
	}

	id, err := s.appointmentRepo.Create(ctx, appointment)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	appointment.ID = id

	s.publish(ctx, notify.AppointmentBooked, appointment)
	return appointment, nil
}

func (s *appointmentService) ListForTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]AppointmentView, error) {
	appointments, err := s.appointmentRepo.GetByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, fmt.Errorf("service.ListForTrainer: %w", err)
	}
	return s.views(appointments), nil
}

func (s *appointmentService) ListForClient(ctx context.Context, clientID primitive.ObjectID) ([]AppointmentView, error) {
	appointments, err := s.appointmentRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("service.ListForClient: %w", err)
	}
	return s.views(appointments), nil
}

func (s *appointmentService) views(appointments []domain.Appointment) []AppointmentView {
	now := s.now()
	views := make([]AppointmentView, 0, len(appointments))
	for _, a := range appointments {
		isPast, isToday := domain.DeriveStatus(a, now, s.loc)
		views = append(views, AppointmentView{Appointment: a, IsPast: isPast, IsToday: isToday})
	}
	return views
}

func (s *appointmentService) Cancel(ctx context.Context, userID, appointmentID primitive.ObjectID) error {
	const op = "service.CancelAppointment"

	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAppointmentNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if appointment.ClientID != userID && appointment.TrainerID != userID {
		return ErrAppointmentAccessDenied
	}
	if isPast, _ := domain.DeriveStatus(*appointment, s.now(), s.loc); isPast {
		return ErrAppointmentInPast
	}

	if err := s.appointmentRepo.Delete(ctx, appointmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAppointmentNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.publish(ctx, notify.AppointmentCanceled, appointment)
	return nil
}

func (s *appointmentService) publish(ctx context.Context, routingKey string, a *domain.Appointment) {
	event := notify.AppointmentEvent{
		AppointmentID: a.ID.Hex(),
		TrainerID:     a.TrainerID.Hex(),
		ClientID:      a.ClientID.Hex(),
		Time:          a.Time,
		Duration:      a.Duration,
	}
	if a.Date != nil {
		event.Date = *a.Date
	}
	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		s.log.Warn("failed to publish appointment event",
			zap.String("routing_key", routingKey),
			zap.String("appointment_id", a.ID.Hex()),
			zap.Error(err))
	}
}
