package testutil

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"sbbd/internal/models"
	"sbbd/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockPersister implements interfaces.PersisterInterface and counts calls.
type MockPersister struct {
	mu       sync.Mutex
	Calls    int
	FailWith error
}

func (m *MockPersister) Persist() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	return m.FailWith
}

func (m *MockPersister) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// MockCompressor is an identity compressor for persistence tests.
type MockCompressor struct {
	Closed bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error)   { return val, nil }
func (m *MockCompressor) Decompress(val []byte) ([]byte, error) { return val, nil }
func (m *MockCompressor) Close()                                { m.Closed = true }

// MockMetrics implements providers.MetricsProviderInterface and counts
// persistence observations.
type MockMetrics struct {
	mu               sync.Mutex
	PersistenceObs   int
	RequestsRecorded int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestsRecorded++
}

func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncCacheHits()   {}
func (m *MockMetrics) IncCacheMisses() {}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceObs++
}

// MockBoardService implements services.BoardServiceInterface for controller
// and route tests.
type MockBoardService struct {
	mu             sync.Mutex
	CreateCalls    []*models.CreateMessage
	UpdateCalls    []uuid.UUID
	DeleteCalls    []uuid.UUID
	ToggleCalls    []uuid.UUID
	UpsertCalls    []*models.ClientStatus
	OfflineCalls   []string
	MessagesData   []*models.Message
	ActiveData     []*models.Message
	PaginatedData  *models.PaginatedMessages
	MessageData    *models.Message
	MessageFound   bool
	ClientsData    []*models.ClientStatus
	OnlineData     []*models.ClientStatus
	StatsData      *models.DataStats
	OfflineChanged bool
	Err            error
}

func (m *MockBoardService) CreateMessage(payload *models.CreateMessage) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, payload)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.MessageData, nil
}

func (m *MockBoardService) GetMessage(_ uuid.UUID) (*models.Message, bool) {
	return m.MessageData, m.MessageFound
}

func (m *MockBoardService) Messages() []*models.Message       { return m.MessagesData }
func (m *MockBoardService) ActiveMessages() []*models.Message { return m.ActiveData }

func (m *MockBoardService) ActiveMessagesPaginated(_, _ int) *models.PaginatedMessages {
	return m.PaginatedData
}

func (m *MockBoardService) UpdateMessage(id uuid.UUID, _ *models.UpdateMessage) (*models.Message, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls = append(m.UpdateCalls, id)
	return m.MessageData, m.MessageFound, m.Err
}

func (m *MockBoardService) ToggleMessage(id uuid.UUID) (*models.Message, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ToggleCalls = append(m.ToggleCalls, id)
	return m.MessageData, m.MessageFound, m.Err
}

func (m *MockBoardService) DeleteMessage(id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, id)
	return m.MessageFound, m.Err
}

func (m *MockBoardService) Clients() []*models.ClientStatus       { return m.ClientsData }
func (m *MockBoardService) OnlineClients() []*models.ClientStatus { return m.OnlineData }

func (m *MockBoardService) UpsertClient(client *models.ClientStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls = append(m.UpsertCalls, client)
	return m.Err
}

func (m *MockBoardService) MarkClientOffline(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OfflineCalls = append(m.OfflineCalls, id)
	return m.OfflineChanged, m.Err
}

func (m *MockBoardService) Stats() *models.DataStats { return m.StatsData }
func (m *MockBoardService) MessageCount() int        { return len(m.MessagesData) }
func (m *MockBoardService) ClientCount() int         { return len(m.ClientsData) }

// MockCache implements providers.CacheProviderInterface over a plain map.
type MockCache struct {
	Data   map[string][]byte
	Purges int
}

func NewMockCache() *MockCache { return &MockCache{Data: make(map[string][]byte)} }

func (m *MockCache) Get(key string) ([]byte, bool) { v, ok := m.Data[key]; return v, ok }
func (m *MockCache) Set(key string, value []byte)  { m.Data[key] = value }
func (m *MockCache) Purge() {
	m.Data = make(map[string][]byte)
	m.Purges++
}
