package intake_service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/clinic-intake-router/internal/core/domain"
	"github.com/suchimauz/clinic-intake-router/internal/core/json_types"
	"github.com/suchimauz/clinic-intake-router/internal/core/ports/out"
)

var errStoreWrite = errors.New("session store write failed")

type MockClinicPort struct {
	mock.Mock
}

func (m *MockClinicPort) Login(ctx context.Context, username, password string) (*domain.UserProfile, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockClinicPort) GetAppointments(ctx context.Context, path string) ([]domain.AppointmentRecord, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AppointmentRecord), args.Error(1)
}

// fakeSessionStore хранилище сессии в памяти для тестов.
// Запись ключа failSetKey через Set завершается ошибкой.
type fakeSessionStore struct {
	mu         sync.Mutex
	data       map[string]string
	failSetKey string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{data: make(map[string]string)}
}

func (f *fakeSessionStore) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	value, ok := f.data[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return value, nil
}

func (f *fakeSessionStore) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values := make(map[string]string, len(keys))
	for _, k := range keys {
		if value, ok := f.data[k]; ok {
			values[k] = value
		}
	}
	return values, nil
}

func (f *fakeSessionStore) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if key == f.failSetKey {
		return errStoreWrite
	}
	f.data[key] = value
	return nil
}

func (f *fakeSessionStore) SetExclusive(ctx context.Context, key, value string, exclusive ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, k := range exclusive {
		delete(f.data, k)
	}
	f.data[key] = value
	return nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeSessionStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.data[key]
	return ok
}

func (f *fakeSessionStore) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.data)
}

// fakeCache кэш списков без вытеснения
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]domain.AppointmentRecord
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]domain.AppointmentRecord)}
}

func (f *fakeCache) GetAppointments(ctx context.Context, path string) ([]domain.AppointmentRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, ok := f.data[path]
	return records, ok
}

func (f *fakeCache) StoreAppointments(ctx context.Context, path string, records []domain.AppointmentRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.data[path] = records
}

func (f *fakeCache) InvalidateAppointments(ctx context.Context, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.data, path)
}

func (f *fakeCache) InvalidateAllAppointments(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.data = make(map[string][]domain.AppointmentRecord)
}

type recordingMetrics struct {
	mu      sync.Mutex
	screens []domain.ScreenName
	fetches map[domain.AppointmentType][]bool
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{fetches: make(map[domain.AppointmentType][]bool)}
}

func (m *recordingMetrics) RouteDecided(screen domain.ScreenName) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.screens = append(m.screens, screen)
}

func (m *recordingMetrics) BackendFetched(collection domain.AppointmentType, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches[collection] = append(m.fetches[collection], ok)
}

type nopLogger struct{}

func (nopLogger) Debug(string, out.LogFields) {}
func (nopLogger) Info(string, out.LogFields)  {}
func (nopLogger) Warn(string, out.LogFields)  {}
func (nopLogger) Error(string, out.LogFields) {}

func (l nopLogger) WithFields(out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(string) out.LoggerPort        { return l }

type testEnv struct {
	service *IntakeService
	clinic  *MockClinicPort
	store   *fakeSessionStore
	cache   *fakeCache
	metrics *recordingMetrics
}

func newTestEnv(withCache bool) *testEnv {
	env := &testEnv{
		clinic:  &MockClinicPort{},
		store:   newFakeSessionStore(),
		metrics: newRecordingMetrics(),
	}

	var cachePort out.CachePort
	if withCache {
		env.cache = newFakeCache()
		cachePort = env.cache
	}

	env.service = NewIntakeService(env.clinic, cachePort, env.store, env.metrics, nopLogger{})
	return env
}

// login заводит сессию пользователя с указанной ролью
func (e *testEnv) login(t *testing.T, roleID string) *domain.Session {
	t.Helper()

	profile := &domain.UserProfile{
		UserID:           "u-1",
		UserName:         "jane",
		RoleID:           json_types.ID(roleID),
		BranchEmployeeID: "emp-7",
		SupervisorSmid:   "sup-3",
		BranchID:         "b-1",
	}
	e.clinic.On("Login", mock.Anything, "jane", "secret").Return(profile, nil).Once()

	session, err := e.service.StartSession(context.Background(), "jane", "secret")
	require.NoError(t, err)
	return session
}

// recordFromJSON разбирает запись так же, как она приходит от сервера
func recordFromJSON(t *testing.T, raw string) domain.AppointmentRecord {
	t.Helper()

	var record domain.AppointmentRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &record))
	return record
}
