package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRoutineNameEmpty   = errors.New("routine name cannot be empty")
	ErrRoutineNameTooLong = errors.New("routine name is too long (max 100 chars)")
	ErrRoutineNoLifts     = errors.New("routine needs at least one lift")
	ErrRoutineNoOwner     = errors.New("routine must belong to a user")
	ErrRoutineNotFound    = errors.New("routine not found")
	ErrLiftNotInRoutine   = errors.New("lift is not part of this routine")
	ErrSetNotInRoutine    = errors.New("set is not part of this routine")
	ErrDuplicateSet       = errors.New("set was submitted more than once")
	ErrIncompleteSets     = errors.New("every set needs weight and reps")
	ErrNoSetsToLog        = errors.New("no sets to log")
)

const (
	MaxRoutineNameLen      = 100
	DefaultRoutineSetCount = 1
)

type RoutineLift struct {
	Name       string `json:"name" db:"name"`
	TargetSets int    `json:"target_sets" db:"target_sets"`
}

// Routine is a reusable, named list of lifts with a target set count each.
type Routine struct {
	ID        string        `json:"id" db:"id"`
	UserID    string        `json:"user_id" db:"user_id"`
	Name      string        `json:"name" db:"name"`
	Lifts     []RoutineLift `json:"lifts" db:"-"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// SetSlot is one empty set to fill in when logging a routine.
type SetSlot struct {
	Name     string `json:"name"`
	SetIndex int    `json:"set_index"`
}

func NewRoutine(userID, name string, lifts []RoutineLift) (*Routine, error) {
	if userID == "" {
		return nil, ErrRoutineNoOwner
	}

	cleanName, cleanLifts, err := validateRoutine(name, lifts)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Routine{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      cleanName,
		Lifts:     cleanLifts,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Replace renames the routine and swaps its whole lift list.
// Lifts are never merged with the previous list.
func (r *Routine) Replace(name string, lifts []RoutineLift) error {
	cleanName, cleanLifts, err := validateRoutine(name, lifts)
	if err != nil {
		return err
	}

	r.Name = cleanName
	r.Lifts = cleanLifts
	r.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *Routine) Has(liftName string) bool {
	name := NormalizeName(liftName)
	for _, l := range r.Lifts {
		if l.Name == name {
			return true
		}
	}
	return false
}

// HasSlot reports whether the template has the given set of a lift.
func (r *Routine) HasSlot(slot SetSlot) bool {
	name := NormalizeName(slot.Name)
	for _, l := range r.Lifts {
		if l.Name == name {
			return slot.SetIndex >= 1 && slot.SetIndex <= l.TargetSets
		}
	}
	return false
}

func (r *Routine) TotalSets() int {
	total := 0
	for _, l := range r.Lifts {
		total += l.TargetSets
	}
	return total
}

// SetSlots expands the template into one slot per target set, in lift order.
func (r *Routine) SetSlots() []SetSlot {
	slots := make([]SetSlot, 0, r.TotalSets())
	for _, l := range r.Lifts {
		for i := 1; i <= l.TargetSets; i++ {
			slots = append(slots, SetSlot{Name: l.Name, SetIndex: i})
		}
	}
	return slots
}

func (r *Routine) Clone() *Routine {
	c := *r
	c.Lifts = append([]RoutineLift(nil), r.Lifts...)
	return &c
}

func validateRoutine(name string, lifts []RoutineLift) (string, []RoutineLift, error) {
	cleanName := NormalizeName(name)
	if cleanName == "" {
		return "", nil, ErrRoutineNameEmpty
	}
	if len(cleanName) > MaxRoutineNameLen {
		return "", nil, ErrRoutineNameTooLong
	}

	cleanLifts := make([]RoutineLift, 0, len(lifts))
	for _, l := range lifts {
		liftName := NormalizeName(l.Name)
		if liftName == "" {
			continue
		}
		if len(liftName) > MaxSeriesNameLen {
			return "", nil, ErrSeriesNameTooLong
		}
		sets := l.TargetSets
		if sets < DefaultRoutineSetCount {
			sets = DefaultRoutineSetCount
		}
		cleanLifts = append(cleanLifts, RoutineLift{Name: liftName, TargetSets: sets})
	}

	if len(cleanLifts) == 0 {
		return "", nil, ErrRoutineNoLifts
	}
	return cleanName, cleanLifts, nil
}
