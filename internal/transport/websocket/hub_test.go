package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

type stubTokens struct {
	principals map[string]domain.Principal
}

func (s stubTokens) ParseToken(_ context.Context, token string) (domain.Principal, error) {
	p, ok := s.principals[token]
	if !ok {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return p, nil
}

type stubAuthorizer struct {
	owners map[uuid.UUID]uuid.UUID
}

func (s stubAuthorizer) Authorize(_ context.Context, p domain.Principal, id uuid.UUID) (*domain.Establishment, error) {
	owner, ok := s.owners[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if owner != p.UserID {
		return nil, domain.ErrForbidden
	}
	return &domain.Establishment{ID: id, OwnerID: owner}, nil
}

type hubFixture struct {
	hub             *Hub
	server          *httptest.Server
	establishmentID uuid.UUID
	other           uuid.UUID
}

func newHubFixture(t *testing.T) *hubFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	owner := uuid.New()
	stranger := uuid.New()
	establishmentID := uuid.New()

	hub := NewHub(
		stubTokens{principals: map[string]domain.Principal{
			"owner":    {UserID: owner, Role: domain.UserRoleOwner},
			"stranger": {UserID: stranger, Role: domain.UserRoleOwner},
		}},
		stubAuthorizer{owners: map[uuid.UUID]uuid.UUID{establishmentID: owner}},
		zap.NewNop(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	router := gin.New()
	router.GET("/ws/establishments/:id", hub.HandleWebSocket)
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		cancel()
	})

	return &hubFixture{hub: hub, server: server, establishmentID: establishmentID, other: uuid.New()}
}

func (f *hubFixture) url(id uuid.UUID, token string) string {
	return "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws/establishments/" + id.String() + "?token=" + token
}

func (f *hubFixture) dial(t *testing.T, id uuid.UUID, token string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(f.url(id, token), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func (f *hubFixture) waitForClients(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if f.hub.Stats().Clients == n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("clients: want %d, got %d", n, f.hub.Stats().Clients)
}

func TestHub_DeliversEventsToSubscribers(t *testing.T) {
	f := newHubFixture(t)
	conn := f.dial(t, f.establishmentID, "owner")
	f.waitForClients(t, 1)

	employeeID := uuid.New()
	f.hub.Publish(domain.AvailabilityChanged{
		EstablishmentID: f.establishmentID,
		EmployeeID:      employeeID,
		Date:            "2026-10-19",
		Reason:          domain.ReasonAppointmentCreated,
		Timestamp:       time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["type"] != MessageTypeAvailabilityChanged {
		t.Errorf("type: got %v", got["type"])
	}
	if got["employee_id"] != employeeID.String() {
		t.Errorf("employee_id: got %v", got["employee_id"])
	}
	if got["date"] != "2026-10-19" {
		t.Errorf("date: got %v", got["date"])
	}
	if got["reason"] != domain.ReasonAppointmentCreated {
		t.Errorf("reason: got %v", got["reason"])
	}
}

func TestHub_IgnoresOtherEstablishments(t *testing.T) {
	f := newHubFixture(t)
	conn := f.dial(t, f.establishmentID, "owner")
	f.waitForClients(t, 1)

	f.hub.Publish(domain.AvailabilityChanged{EstablishmentID: f.other, Reason: domain.ReasonBlockCreated})
	f.hub.Publish(domain.AvailabilityChanged{EstablishmentID: f.establishmentID, Reason: domain.ReasonBlockDeleted})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var got Message
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Reason != domain.ReasonBlockDeleted {
		t.Errorf("first delivered event must belong to the subscribed establishment, got %q", got.Reason)
	}
}

func TestHub_UnregistersOnClose(t *testing.T) {
	f := newHubFixture(t)
	conn := f.dial(t, f.establishmentID, "owner")
	f.waitForClients(t, 1)

	conn.Close()
	f.waitForClients(t, 0)

	if got := f.hub.Stats().Establishments; got != 0 {
		t.Errorf("establishments: want 0, got %d", got)
	}
}

func TestHub_RejectsHandshake(t *testing.T) {
	f := newHubFixture(t)

	tests := []struct {
		name   string
		id     string
		token  string
		status int
	}{
		{name: "missing token", id: f.establishmentID.String(), token: "", status: http.StatusUnauthorized},
		{name: "bad token", id: f.establishmentID.String(), token: "forged", status: http.StatusUnauthorized},
		{name: "not the owner", id: f.establishmentID.String(), token: "stranger", status: http.StatusForbidden},
		{name: "unknown establishment", id: f.other.String(), token: "owner", status: http.StatusNotFound},
		{name: "malformed id", id: "nope", token: "owner", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws/establishments/" + tt.id + "?token=" + tt.token
			_, resp, err := websocket.DefaultDialer.Dial(url, nil)
			if err == nil {
				t.Fatal("want handshake error")
			}
			if resp == nil {
				t.Fatalf("want HTTP response, got %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status: want %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}

	if got := f.hub.Stats().Clients; got != 0 {
		t.Errorf("clients: want 0, got %d", got)
	}
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	hub := NewHub(stubTokens{}, stubAuthorizer{}, zap.NewNop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Publish(domain.AvailabilityChanged{EstablishmentID: uuid.New()})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked without a running hub")
	}
}
