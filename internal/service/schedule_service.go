package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Barry4747/ZnanyByk-sub001/internal/domain"
	"github.com/Barry4747/ZnanyByk-sub001/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrInvalidWeekday = errors.New("invalid weekday")
	ErrInvalidSlot    = errors.New("slot needs an HH:MM time and a duration between 1 and 1440 minutes")
)

const maxSlotMinutes = 24 * 60

type ScheduleService interface {
	// GetSchedule returns the trainer's weekly schedule. A trainer that never
	// saved one gets an empty schedule.
	GetSchedule(ctx context.Context, trainerID primitive.ObjectID) (*domain.WeeklySchedule, error)
	AddSlot(ctx context.Context, trainerID primitive.ObjectID, day domain.Weekday, slot domain.TrainingSlot) (*domain.WeeklySchedule, error)
	RemoveSlot(ctx context.Context, trainerID primitive.ObjectID, day domain.Weekday, slot domain.TrainingSlot) (*domain.WeeklySchedule, error)
}

type scheduleService struct {
	scheduleRepo repository.ScheduleRepository
	trainerRepo  repository.TrainerRepository
	log          *zap.Logger
	now          func() time.Time
}

func NewScheduleService(scheduleRepo repository.ScheduleRepository, trainerRepo repository.TrainerRepository, log *zap.Logger) ScheduleService {
	return &scheduleService{
		scheduleRepo: scheduleRepo,
		trainerRepo:  trainerRepo,
		log:          log,
		now:          time.Now,
	}
}

func (s *scheduleService) GetSchedule(ctx context.Context, trainerID primitive.ObjectID) (*domain.WeeklySchedule, error) {
	const op = "service.GetSchedule"
	if _, err := s.trainerRepo.GetByID(ctx, trainerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.load(ctx, trainerID)
}

func (s *scheduleService) load(ctx context.Context, trainerID primitive.ObjectID) (*domain.WeeklySchedule, error) {
	schedule, err := s.scheduleRepo.GetByTrainerID(ctx, trainerID)
	if errors.Is(err, repository.ErrNotFound) {
		empty := domain.NewWeeklySchedule(trainerID)
		return &empty, nil
	}
	if err != nil {
		return nil, fmt.Errorf("service.loadSchedule: %w", err)
	}
	return schedule, nil
}

func (s *scheduleService) AddSlot(ctx context.Context, trainerID primitive.ObjectID, day domain.Weekday, slot domain.TrainingSlot) (*domain.WeeklySchedule, error) {
	if !day.Valid() {
		return nil, ErrInvalidWeekday
	}
	if !domain.ValidClock(slot.Time) || slot.Duration <= 0 || slot.Duration > maxSlotMinutes {
		return nil, ErrInvalidSlot
	}
	return s.mutate(ctx, trainerID, func(ws domain.WeeklySchedule) domain.WeeklySchedule {
		return domain.AddSlot(ws, day, slot)
	})
}

func (s *scheduleService) RemoveSlot(ctx context.Context, trainerID primitive.ObjectID, day domain.Weekday, slot domain.TrainingSlot) (*domain.WeeklySchedule, error) {
	if !day.Valid() {
		return nil, ErrInvalidWeekday
	}
	return s.mutate(ctx, trainerID, func(ws domain.WeeklySchedule) domain.WeeklySchedule {
		return domain.RemoveSlot(ws, day, slot)
	})
}

// mutate loads the schedule, applies fn and writes the whole document back.
// Two concurrent edits of the same trainer race and the later write wins.
func (s *scheduleService) mutate(ctx context.Context, trainerID primitive.ObjectID, fn func(domain.WeeklySchedule) domain.WeeklySchedule) (*domain.WeeklySchedule, error) {
	const op = "service.mutateSchedule"

	current, err := s.load(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	updated := fn(*current)
	updated.UpdatedAt = s.now().UTC()
	if err := s.scheduleRepo.Save(ctx, &updated); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Debug("schedule saved", zap.String("trainer_id", trainerID.Hex()))
	return &updated, nil
}
