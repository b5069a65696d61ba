// Package session owns the single process-wide brokerage session. All
// connection-state transitions go through the Manager so concurrent HTTP
// requests cannot race on connect/disconnect.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ibgate/ibgate/internal/metrics"
	"github.com/ibgate/ibgate/internal/venue"
)

var log = logrus.WithField("component", "session")

// Status is the connection-status wire shape.
type Status struct {
	Connected bool   `json:"connected"`
	Message   string `json:"message"`
	ClientID  *int   `json:"clientId,omitempty"`
}

// Manager guards one venue handle. Connect and Disconnect are mutually
// exclusive; Status and the venue's read-only queries may run concurrently
// once the session is up.
type Manager struct {
	mu sync.Mutex

	v        venue.Venue
	host     string
	port     int
	clientID int
}

// NewManager creates a manager for the given venue and endpoint settings.
// The session starts disconnected.
func NewManager(v venue.Venue, host string, port, clientID int) *Manager {
	return &Manager{v: v, host: host, port: port, clientID: clientID}
}

// Venue exposes the managed handle for the trading and portfolio services.
func (m *Manager) Venue() venue.Venue {
	return m.v
}

// Connect opens the session. Idempotent: when already connected it reports
// success with the current client id and touches nothing. A single attempt,
// no retry; on failure the session stays disconnected and the error is
// returned alongside the structured status.
func (m *Manager) Connect(ctx context.Context) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.v.IsConnected() {
		log.Info("connect requested but session already up")
		id := m.clientID
		return Status{
			Connected: true,
			Message:   "Already connected to the brokerage endpoint",
			ClientID:  &id,
		}, nil
	}

	log.Infof("connecting to %s:%d clientID=%d", m.host, m.port, m.clientID)
	if err := m.v.Connect(ctx, m.host, m.port, m.clientID); err != nil {
		log.Errorf("connect failed: %v", err)
		return Status{
			Connected: false,
			Message:   fmt.Sprintf("Connection failed: %v", err),
		}, err
	}

	id := m.clientID
	metrics.SessionConnects.Add(1)
	log.Info("session connected")
	return Status{
		Connected: true,
		Message:   "Connected to the brokerage endpoint",
		ClientID:  &id,
	}, nil
}

// Disconnect closes the session. When already disconnected it is a no-op
// reporting connected=false without error.
func (m *Manager) Disconnect() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.v.IsConnected() {
		return Status{Connected: false, Message: "Not connected to the brokerage endpoint"}
	}
	if err := m.v.Disconnect(); err != nil {
		log.Warnf("disconnect: %v", err)
		return Status{Connected: false, Message: fmt.Sprintf("Disconnected with error: %v", err)}
	}
	metrics.SessionDisconnects.Add(1)
	log.Info("session disconnected")
	return Status{Connected: false, Message: "Disconnected from the brokerage endpoint"}
}

// Status is a pure read of the current state; it never mutates the session.
func (m *Manager) Status() Status {
	if m.v.IsConnected() {
		id := m.clientID
		return Status{
			Connected: true,
			Message:   "Connected to the brokerage endpoint",
			ClientID:  &id,
		}
	}
	return Status{Connected: false, Message: "Not connected to the brokerage endpoint"}
}

// Shutdown is the best-effort cleanup hook for process termination: if the
// session is up it is closed, and failures are only logged.
func (m *Manager) Shutdown(_ context.Context, _ *sync.WaitGroup) {
	if m.v.IsConnected() {
		log.Info("closing session on shutdown")
		_ = m.Disconnect()
	}
}
