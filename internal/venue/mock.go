package venue

import (
	"context"
	"fmt"
	"sync"

	"github.com/ibgate/ibgate/internal/domain"
)

// MockVenue is an in-memory Venue for testing. Call counts and error
// injection let tests assert which transport calls happened (or that none
// did).
type MockVenue struct {
	mu sync.Mutex

	connected bool
	clientID  int
	nextID    int

	// Canned response data
	PositionsResponse []domain.Position
	SummaryResponse   []domain.AccountValue
	AckStatus         string

	// Call tracking
	Calls map[string]int

	// Error injection: the named call fails once with the given error.
	ErrorOnNext map[string]error
}

// NewMockVenue creates a mock venue in disconnected state.
func NewMockVenue() *MockVenue {
	return &MockVenue{
		nextID:      1,
		AckStatus:   "Submitted",
		Calls:       make(map[string]int),
		ErrorOnNext: make(map[string]error),
	}
}

func (m *MockVenue) trackCall(name string) error {
	m.Calls[name]++
	if err, ok := m.ErrorOnNext[name]; ok {
		delete(m.ErrorOnNext, name)
		return err
	}
	return nil
}

func (m *MockVenue) Connect(_ context.Context, _ string, _ int, clientID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.trackCall("Connect"); err != nil {
		return err
	}
	m.connected = true
	m.clientID = clientID
	return nil
}

func (m *MockVenue) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.trackCall("Disconnect"); err != nil {
		return err
	}
	m.connected = false
	return nil
}

func (m *MockVenue) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *MockVenue) PlaceOrder(_ context.Context, _ domain.Instrument, _ domain.OrderSpec) (*Ack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.trackCall("PlaceOrder"); err != nil {
		return nil, err
	}
	if !m.connected {
		return nil, ErrNotConnected
	}
	id := m.nextID
	m.nextID++
	return &Ack{OrderID: fmt.Sprintf("%d", id), Status: m.AckStatus}, nil
}

func (m *MockVenue) Positions(_ context.Context) ([]domain.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.trackCall("Positions"); err != nil {
		return nil, err
	}
	if !m.connected {
		return nil, ErrNotConnected
	}
	if m.PositionsResponse == nil {
		return []domain.Position{}, nil
	}
	return m.PositionsResponse, nil
}

func (m *MockVenue) AccountSummary(_ context.Context) ([]domain.AccountValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.trackCall("AccountSummary"); err != nil {
		return nil, err
	}
	if !m.connected {
		return nil, ErrNotConnected
	}
	return m.SummaryResponse, nil
}

// CallCount returns how many times the named call was made.
func (m *MockVenue) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[name]
}
