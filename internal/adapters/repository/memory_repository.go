package repository

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
)

var (
	_ domain.MeasurementRepository = (*InMemoryMeasurementRepository)(nil)
	_ domain.RoutineRepository     = (*InMemoryRoutineRepository)(nil)
	_ domain.UserRepository        = (*InMemoryUserRepository)(nil)
	_ domain.ProfileRepository     = (*InMemoryProfileRepository)(nil)
)

type storedMeasurement struct {
	m   *domain.Measurement
	seq int64
}

// InMemoryMeasurementRepository keeps measurements in insertion order.
// Values are copied on the way in and out so callers never share state
// with the store.
type InMemoryMeasurementRepository struct {
	store map[string]*storedMeasurement
	seq   int64

	mu sync.RWMutex
}

func NewInMemoryMeasurementRepository() *InMemoryMeasurementRepository {
	return &InMemoryMeasurementRepository{
		store: make(map[string]*storedMeasurement),
	}
}

func (r *InMemoryMeasurementRepository) Create(ctx context.Context, m *domain.Measurement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[m.ID]; ok {
		return domain.ErrMeasurementConflict
	}
	r.insert(m)
	return nil
}

func (r *InMemoryMeasurementRepository) CreateBatch(ctx context.Context, ms []*domain.Measurement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range ms {
		if _, ok := r.store[m.ID]; ok {
			return domain.ErrMeasurementConflict
		}
	}
	for _, m := range ms {
		r.insert(m)
	}
	return nil
}

func (r *InMemoryMeasurementRepository) insert(m *domain.Measurement) {
	r.seq++
	m.Version = 1
	r.store[m.ID] = &storedMeasurement{m: m.Clone(), seq: r.seq}
}

func (r *InMemoryMeasurementRepository) GetByID(ctx context.Context, id string) (*domain.Measurement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.store[id]
	if !ok {
		return nil, domain.ErrMeasurementNotFound
	}
	return s.m.Clone(), nil
}

func (r *InMemoryMeasurementRepository) Update(ctx context.Context, m *domain.Measurement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.store[m.ID]
	if !ok || s.m.UserID != m.UserID {
		return domain.ErrMeasurementNotFound
	}
	if s.m.Version != m.Version {
		return domain.ErrMeasurementConflict
	}

	m.Version++
	s.m = m.Clone()
	return nil
}

func (r *InMemoryMeasurementRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.store[id]
	if !ok || s.m.UserID != userID {
		return domain.ErrMeasurementNotFound
	}

	delete(r.store, id)
	return nil
}

func (r *InMemoryMeasurementRepository) List(ctx context.Context, userID, kind string, filter domain.MeasurementFilter) ([]*domain.Measurement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*storedMeasurement, 0)
	for _, s := range r.store {
		if s.m.UserID != userID || s.m.Kind != kind {
			continue
		}
		if len(filter.Series) > 0 && !slices.Contains(filter.Series, s.m.SeriesName) {
			continue
		}
		if filter.From != nil && s.m.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && s.m.Date.After(*filter.To) {
			continue
		}
		matched = append(matched, s)
	}

	sort.Slice(matched, func(i, j int) bool {
		if c := matched[i].m.Date.Compare(matched[j].m.Date); c != 0 {
			return c < 0
		}
		return matched[i].seq < matched[j].seq
	})

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[len(matched)-filter.Limit:]
	}
	if filter.Newest {
		slices.Reverse(matched)
	}

	out := make([]*domain.Measurement, len(matched))
	for i, s := range matched {
		out[i] = s.m.Clone()
	}
	return out, nil
}

func (r *InMemoryMeasurementRepository) ListSeriesNames(ctx context.Context, userID, kind string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	first := make(map[string]int64)
	for _, s := range r.store {
		if s.m.UserID != userID || s.m.Kind != kind {
			continue
		}
		if seq, ok := first[s.m.SeriesName]; !ok || s.seq < seq {
			first[s.m.SeriesName] = s.seq
		}
	}

	names := make([]string, 0, len(first))
	for name := range first {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return first[names[i]] < first[names[j]]
	})
	return names, nil
}

func (r *InMemoryMeasurementRepository) UpsertByDate(ctx context.Context, m *domain.Measurement) error {
	if m.Kind != domain.KindBodyweight {
		return domain.ErrInvalidKind
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.store {
		if s.m.UserID == m.UserID && s.m.Kind == m.Kind && s.m.Date == m.Date {
			m.ID = s.m.ID
			m.CreatedAt = s.m.CreatedAt
			m.Version = s.m.Version + 1
			s.m = m.Clone()
			return nil
		}
	}

	r.insert(m)
	return nil
}

type InMemoryRoutineRepository struct {
	store map[string]*domain.Routine

	mu sync.RWMutex
}

func NewInMemoryRoutineRepository() *InMemoryRoutineRepository {
	return &InMemoryRoutineRepository{
		store: make(map[string]*domain.Routine),
	}
}

func (r *InMemoryRoutineRepository) Create(ctx context.Context, rt *domain.Routine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[rt.ID] = rt.Clone()
	return nil
}

func (r *InMemoryRoutineRepository) GetByID(ctx context.Context, id string) (*domain.Routine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.store[id]
	if !ok {
		return nil, domain.ErrRoutineNotFound
	}
	return rt.Clone(), nil
}

func (r *InMemoryRoutineRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Routine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	routines := make([]*domain.Routine, 0)
	for _, rt := range r.store {
		if rt.UserID == userID {
			routines = append(routines, rt.Clone())
		}
	}

	sort.Slice(routines, func(i, j int) bool {
		if !routines[i].CreatedAt.Equal(routines[j].CreatedAt) {
			return routines[i].CreatedAt.Before(routines[j].CreatedAt)
		}
		return routines[i].Name < routines[j].Name
	})

	return routines, nil
}

func (r *InMemoryRoutineRepository) Replace(ctx context.Context, rt *domain.Routine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[rt.ID]
	if !ok || existing.UserID != rt.UserID {
		return domain.ErrRoutineNotFound
	}

	r.store[rt.ID] = rt.Clone()
	return nil
}

func (r *InMemoryRoutineRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, ok := r.store[id]
	if !ok || rt.UserID != userID {
		return domain.ErrRoutineNotFound
	}

	delete(r.store, id)
	return nil
}

type InMemoryUserRepository struct {
	store map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.store {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}

	u := *user
	r.store[user.ID] = &u
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *InMemoryUserRepository) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	for id, u := range r.store {
		if id != user.ID && u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}

	u := *user
	r.store[user.ID] = &u
	return nil
}

type InMemoryProfileRepository struct {
	store map[string]*domain.Profile

	mu sync.RWMutex
}

func NewInMemoryProfileRepository() *InMemoryProfileRepository {
	return &InMemoryProfileRepository{
		store: make(map[string]*domain.Profile),
	}
}

func (r *InMemoryProfileRepository) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.store[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	c := *p
	return &c, nil
}

func (r *InMemoryProfileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.Username != nil {
		for id, other := range r.store {
			if id != p.UserID && other.Username != nil && *other.Username == *p.Username {
				return domain.ErrUsernameTaken
			}
		}
	}

	c := *p
	r.store[p.UserID] = &c
	return nil
}

func (r *InMemoryProfileRepository) UsernameTaken(ctx context.Context, username, exceptUserID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, p := range r.store {
		if id != exceptUserID && p.Username != nil && *p.Username == username {
			return true, nil
		}
	}
	return false, nil
}
