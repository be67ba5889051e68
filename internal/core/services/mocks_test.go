package services

import (
	"context"
	"sync"
	"time"

	"github.com/comitanigiacomo/liftbook/internal/core/aggregate"
	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/comitanigiacomo/liftbook/internal/core/session"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

type MockMeasurementRepo struct {
	mock.Mock
}

func (m *MockMeasurementRepo) Create(ctx context.Context, ms *domain.Measurement) error {
	return m.Called(ctx, ms).Error(0)
}

func (m *MockMeasurementRepo) CreateBatch(ctx context.Context, ms []*domain.Measurement) error {
	return m.Called(ctx, ms).Error(0)
}

func (m *MockMeasurementRepo) GetByID(ctx context.Context, id string) (*domain.Measurement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Measurement), args.Error(1)
}

func (m *MockMeasurementRepo) Update(ctx context.Context, ms *domain.Measurement) error {
	return m.Called(ctx, ms).Error(0)
}

func (m *MockMeasurementRepo) Delete(ctx context.Context, id string, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockMeasurementRepo) List(ctx context.Context, userID, kind string, filter domain.MeasurementFilter) ([]*domain.Measurement, error) {
	args := m.Called(ctx, userID, kind, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Measurement), args.Error(1)
}

func (m *MockMeasurementRepo) ListSeriesNames(ctx context.Context, userID, kind string) ([]string, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockMeasurementRepo) UpsertByDate(ctx context.Context, ms *domain.Measurement) error {
	return m.Called(ctx, ms).Error(0)
}

type MockRoutineRepo struct {
	mock.Mock
}

func (m *MockRoutineRepo) Create(ctx context.Context, r *domain.Routine) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRoutineRepo) GetByID(ctx context.Context, id string) (*domain.Routine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Routine), args.Error(1)
}

func (m *MockRoutineRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Routine, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Routine), args.Error(1)
}

func (m *MockRoutineRepo) Replace(ctx context.Context, r *domain.Routine) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRoutineRepo) Delete(ctx context.Context, id string, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) Upsert(ctx context.Context, p *domain.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileRepo) UsernameTaken(ctx context.Context, username, exceptUserID string) (bool, error) {
	args := m.Called(ctx, username, exceptUserID)
	return args.Bool(0), args.Error(1)
}

type MockDenylist struct {
	mock.Mock
}

func (m *MockDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return m.Called(ctx, tokenID, ttl).Error(0)
}

func (m *MockDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

type MockSummaryCache struct {
	mock.Mock
}

func (m *MockSummaryCache) Get(ctx context.Context, userID string) (*aggregate.Summary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*aggregate.Summary), args.Error(1)
}

func (m *MockSummaryCache) Set(ctx context.Context, userID string, s *aggregate.Summary) error {
	return m.Called(ctx, userID, s).Error(0)
}

func (m *MockSummaryCache) Invalidate(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// recordingNotifier collects the user IDs it is told about, either as a
// ChangeNotifier or as a RefreshQueue.
type recordingNotifier struct {
	mu    sync.Mutex
	users []string
}

func (n *recordingNotifier) LiftsChanged(_ context.Context, userID string) {
	n.Enqueue(userID)
}

func (n *recordingNotifier) Enqueue(userID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, userID)
}

func (n *recordingNotifier) Users() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.users...)
}

// memorySummaryCache is a map-backed SummaryCache.
type memorySummaryCache struct {
	mu        sync.Mutex
	summaries map[string]aggregate.Summary
}

func newMemorySummaryCache() *memorySummaryCache {
	return &memorySummaryCache{summaries: make(map[string]aggregate.Summary)}
}

func (c *memorySummaryCache) Get(_ context.Context, userID string) (*aggregate.Summary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.summaries[userID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (c *memorySummaryCache) Set(_ context.Context, userID string, s *aggregate.Summary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summaries[userID] = *s
	return nil
}

func (c *memorySummaryCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.summaries, userID)
	return nil
}

func (c *memorySummaryCache) Has(userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.summaries[userID]
	return ok
}

// recordEvents subscribes to hub and returns the received events.
func recordEvents(hub *session.Hub) *[]session.Event {
	var events []session.Event
	hub.Subscribe(func(e session.Event) { events = append(events, e) })
	return &events
}

func fixedClock(s string) Clock {
	d := domain.MustParseDate(s)
	return func() domain.Date { return d }
}

func datePtr(s string) *domain.Date {
	d := domain.MustParseDate(s)
	return &d
}

func lift(userID, name string, weight, reps float64, date string) *domain.Measurement {
	m, err := domain.NewLift(userID, name, weight, reps, domain.MustParseDate(date))
	if err != nil {
		panic(err)
	}
	return m
}
