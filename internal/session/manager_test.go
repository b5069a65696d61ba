package session

import (
	"context"
	"errors"
	"testing"

	"github.com/ibgate/ibgate/internal/venue"
)

func TestConnect_Idempotent(t *testing.T) {
	mock := venue.NewMockVenue()
	mgr := NewManager(mock, "127.0.0.1", 7497, 1)

	first, err := mgr.Connect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Connected || first.ClientID == nil || *first.ClientID != 1 {
		t.Fatalf("unexpected status: %+v", first)
	}

	second, err := mgr.Connect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Connected || second.ClientID == nil || *second.ClientID != 1 {
		t.Fatalf("unexpected status: %+v", second)
	}

	// Second connect must not open a second session.
	if got := mock.CallCount("Connect"); got != 1 {
		t.Fatalf("expected 1 transport connect, got %d", got)
	}
}

func TestConnect_FailureLeavesDisconnected(t *testing.T) {
	mock := venue.NewMockVenue()
	mock.ErrorOnNext["Connect"] = venue.ErrConnectionFailure

	mgr := NewManager(mock, "127.0.0.1", 7497, 1)
	status, err := mgr.Connect(context.Background())
	if !errors.Is(err, venue.ErrConnectionFailure) {
		t.Fatalf("expected connection failure, got %v", err)
	}
	if status.Connected {
		t.Fatal("status should report disconnected")
	}
	if mgr.Status().Connected {
		t.Fatal("session must stay disconnected after a failed connect")
	}

	// A single attempt per call, no retry.
	if got := mock.CallCount("Connect"); got != 1 {
		t.Fatalf("expected 1 transport connect, got %d", got)
	}
}

func TestDisconnect_WhenDisconnectedIsNoOp(t *testing.T) {
	mock := venue.NewMockVenue()
	mgr := NewManager(mock, "127.0.0.1", 7497, 1)

	status := mgr.Disconnect()
	if status.Connected {
		t.Fatal("expected connected=false")
	}
	if got := mock.CallCount("Disconnect"); got != 0 {
		t.Fatalf("expected no transport disconnect, got %d", got)
	}
}

func TestDisconnect_ClosesSession(t *testing.T) {
	mock := venue.NewMockVenue()
	mgr := NewManager(mock, "127.0.0.1", 7497, 1)

	if _, err := mgr.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	status := mgr.Disconnect()
	if status.Connected {
		t.Fatal("expected connected=false after disconnect")
	}
	if mgr.Status().Connected {
		t.Fatal("status should read disconnected")
	}
}

func TestStatus_PureRead(t *testing.T) {
	mock := venue.NewMockVenue()
	mgr := NewManager(mock, "127.0.0.1", 7497, 7)

	if st := mgr.Status(); st.Connected || st.ClientID != nil {
		t.Fatalf("unexpected status: %+v", st)
	}
	if _, err := mgr.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	st := mgr.Status()
	if !st.Connected || st.ClientID == nil || *st.ClientID != 7 {
		t.Fatalf("unexpected status: %+v", st)
	}
	// Status never mutates: still exactly one transport connect.
	if got := mock.CallCount("Connect"); got != 1 {
		t.Fatalf("expected 1 transport connect, got %d", got)
	}
}
