package services

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
)

type RoutineService struct {
	repo     domain.RoutineRepository
	lifts    domain.MeasurementRepository
	notifier ChangeNotifier
	today    Clock
}

func NewRoutineService(repo domain.RoutineRepository, lifts domain.MeasurementRepository, notifier ChangeNotifier, today Clock) *RoutineService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &RoutineService{
		repo:     repo,
		lifts:    lifts,
		notifier: notifier,
		today:    today,
	}
}

type RoutineInput struct {
	ID     string
	UserID string
	Name   string
	Lifts  []domain.RoutineLift
}

// LoggedSet is one filled-in slot of a routine.
type LoggedSet struct {
	Name     string
	SetIndex int
	Weight   float64
	Reps     float64
}

type LogRoutineInput struct {
	RoutineID string
	UserID    string
	Date      *domain.Date
	Sets      []LoggedSet
}

func (s *RoutineService) Create(ctx context.Context, input RoutineInput) (*domain.Routine, error) {
	r, err := domain.NewRoutine(input.UserID, input.Name, input.Lifts)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RoutineService) Get(ctx context.Context, id, userID string) (*domain.Routine, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return r, nil
}

func (s *RoutineService) List(ctx context.Context, userID string) ([]*domain.Routine, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// Update renames the routine and replaces its whole lift list.
func (s *RoutineService) Update(ctx context.Context, input RoutineInput) (*domain.Routine, error) {
	r, err := s.Get(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := r.Replace(input.Name, input.Lifts); err != nil {
		return nil, err
	}

	if err := s.repo.Replace(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RoutineService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id, userID)
}

// Slots lists the empty sets a client has to fill in to log the routine.
func (s *RoutineService) Slots(ctx context.Context, id, userID string) ([]domain.SetSlot, error) {
	r, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return r.SetSlots(), nil
}

// LogRoutine records every slot of the routine as a lift set. Each slot
// must be filled exactly once with a positive weight and reps; sets that
// do not match a slot are rejected. Nothing is stored unless everything is
// valid.
func (s *RoutineService) LogRoutine(ctx context.Context, input LogRoutineInput) ([]*domain.Measurement, error) {
	if len(input.Sets) == 0 {
		return nil, domain.ErrNoSetsToLog
	}

	r, err := s.Get(ctx, input.RoutineID, input.UserID)
	if err != nil {
		return nil, err
	}

	date := s.today()
	if input.Date != nil {
		date = *input.Date
	}

	filled := make(map[domain.SetSlot]LoggedSet, len(input.Sets))
	for _, set := range input.Sets {
		slot := domain.SetSlot{Name: domain.NormalizeName(set.Name), SetIndex: set.SetIndex}
		if !r.Has(slot.Name) {
			return nil, fmt.Errorf("%w: %q", domain.ErrLiftNotInRoutine, set.Name)
		}
		if !r.HasSlot(slot) {
			return nil, fmt.Errorf("%w: %s set %d", domain.ErrSetNotInRoutine, slot.Name, slot.SetIndex)
		}
		if _, dup := filled[slot]; dup {
			return nil, fmt.Errorf("%w: %s set %d", domain.ErrDuplicateSet, slot.Name, slot.SetIndex)
		}
		filled[slot] = set
	}

	slots := r.SetSlots()
	ms := make([]*domain.Measurement, 0, len(slots))
	for _, slot := range slots {
		set, ok := filled[slot]
		if !ok || set.Weight <= 0 || set.Reps <= 0 {
			return nil, fmt.Errorf("%w: %s set %d", domain.ErrIncompleteSets, slot.Name, slot.SetIndex)
		}

		m, err := domain.NewLift(input.UserID, slot.Name, set.Weight, set.Reps, date)
		if err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}

	if err := s.lifts.CreateBatch(ctx, ms); err != nil {
		return nil, err
	}

	s.notifier.LiftsChanged(ctx, input.UserID)
	return ms, nil
}
