package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kpalsson/brewbracket/internal/logger"
	"github.com/kpalsson/brewbracket/internal/models"
	"github.com/kpalsson/brewbracket/internal/services"
)

// mockSettingsService implements services.SettingsServicer for testing
type mockSettingsService struct {
	mu          sync.Mutex
	judgingOpen bool
	settings    map[string]string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{
		judgingOpen: true,
		settings:    make(map[string]string),
	}
}

func (m *mockSettingsService) IsJudgingOpen(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.judgingOpen, nil
}

func (m *mockSettingsService) SetJudgingOpen(ctx context.Context, open bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.judgingOpen = open
	return nil
}

func (m *mockSettingsService) GetSetting(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings[key], nil
}

func (m *mockSettingsService) SetSetting(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = value
	return nil
}

// Unused interface methods
func (m *mockSettingsService) GetBaseURL(ctx context.Context) (string, error)     { return "", nil }
func (m *mockSettingsService) SetBaseURL(ctx context.Context, url string) error   { return nil }
func (m *mockSettingsService) GetTimerEndTime(ctx context.Context) (int64, error) { return 0, nil }
func (m *mockSettingsService) SetTimerEndTime(ctx context.Context, t int64) error { return nil }
func (m *mockSettingsService) ClearTimer(ctx context.Context) error               { return nil }
func (m *mockSettingsService) AllSettings(ctx context.Context) (map[string]interface{}, error) {
	return nil, nil
}
func (m *mockSettingsService) OpenJudging(ctx context.Context) error  { return nil }
func (m *mockSettingsService) CloseJudging(ctx context.Context) error { return nil }
func (m *mockSettingsService) StartJudgingTimer(ctx context.Context, min int) (string, error) {
	return "", nil
}
func (m *mockSettingsService) UpdateSettings(ctx context.Context, s services.Settings) error {
	return nil
}
func (m *mockSettingsService) ResetTables(ctx context.Context, t []string) (*services.ResetTablesResult, error) {
	return nil, nil
}
func (m *mockSettingsService) GetStats(ctx context.Context) (map[string]interface{}, error) {
	return nil, nil
}
func (m *mockSettingsService) SetBroadcaster(b services.Broadcaster) {}

func TestNew_CreatesHubWithDependencies(t *testing.T) {
	log := logger.New()
	settings := newMockSettingsService()

	hub := New(log, settings)

	if hub == nil {
		t.Fatal("expected hub to be created")
	}
	if hub.log == nil {
		t.Error("expected logger to be set")
	}
	if hub.settings == nil {
		t.Error("expected settings to be set")
	}
	if hub.clients == nil {
		t.Error("expected clients map to be initialized")
	}
	if hub.broadcast == nil {
		t.Error("expected broadcast channel to be initialized")
	}
}

func TestHub_BroadcastMessage(t *testing.T) {
	log := logger.New()
	settings := newMockSettingsService()
	hub := New(log, settings)
	hub.Start()

	// Give hub time to start
	time.Sleep(10 * time.Millisecond)

	// BroadcastMessage should not block even with no clients
	done := make(chan bool)
	go func() {
		hub.BroadcastMessage("test", map[string]string{"key": "value"})
		done <- true
	}()

	select {
	case <-done:
		// Success - didn't block
	case <-time.After(100 * time.Millisecond):
		t.Error("BroadcastMessage blocked with no clients")
	}
}

func TestHub_BroadcasterMethods(t *testing.T) {
	log := logger.New()
	settings := newMockSettingsService()
	hub := New(log, settings)
	hub.Start()

	time.Sleep(10 * time.Millisecond)

	done := make(chan bool)
	go func() {
		hub.BroadcastJudgingStatus(true, "2026-09-01T12:00:00Z")
		hub.BroadcastHeatUpdate(&models.Heat{ID: 1, Status: models.HeatRunning})
		hub.BroadcastStandingsChanged(1)
		done <- true
	}()

	select {
	case <-done:
		// Success
	case <-time.After(100 * time.Millisecond):
		t.Error("broadcaster methods blocked")
	}
}

func TestHub_StartJudgingCountdown_ContextCancellation(t *testing.T) {
	log := logger.New()
	settings := newMockSettingsService()
	hub := New(log, settings)
	hub.Start()

	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan bool)
	stopped := make(chan bool)

	go func() {
		started <- true
		hub.StartJudgingCountdown(ctx)
		stopped <- true
	}()

	<-started
	time.Sleep(50 * time.Millisecond)

	cancel()

	select {
	case <-stopped:
		// Success - countdown stopped when context cancelled
	case <-time.After(500 * time.Millisecond):
		t.Error("countdown did not stop when context was cancelled")
	}
}

func TestCountdown_ExpiryDoesNotCloseJudging(t *testing.T) {
	log := logger.New()
	settings := newMockSettingsService()
	settings.judgingOpen = true
	// Close time already passed
	settings.settings["judging_close_time"] = time.Now().Add(-1 * time.Second).Format(time.RFC3339)

	hub := New(log, settings)
	hub.Start()

	time.Sleep(50 * time.Millisecond)

	hub.broadcastCountdown()

	time.Sleep(100 * time.Millisecond)

	// The countdown is display only: judging stays open until the head
	// judge closes it
	settings.mu.Lock()
	open := settings.judgingOpen
	closeTime := settings.settings["judging_close_time"]
	settings.mu.Unlock()

	if !open {
		t.Error("countdown expiry must not close judging")
	}
	if closeTime != "" {
		t.Error("expired close time should be cleared")
	}
}

func TestCountdown_InvalidOrEmptyCloseTime(t *testing.T) {
	log := logger.New()
	settings := newMockSettingsService()
	hub := New(log, settings)
	hub.Start()

	// Neither should panic
	settings.settings["judging_close_time"] = ""
	hub.broadcastCountdown()

	settings.settings["judging_close_time"] = "invalid-time"
	hub.broadcastCountdown()
}

func TestHub_ClientRegistration(t *testing.T) {
	log := logger.New()
	settings := newMockSettingsService()
	hub := New(log, settings)
	hub.Start()

	time.Sleep(10 * time.Millisecond)

	client := &Client{
		hub:  hub,
		send: make(chan models.WSMessage, 256),
	}

	hub.register <- client
	time.Sleep(50 * time.Millisecond)

	hub.mutex.RLock()
	_, exists := hub.clients[client]
	hub.mutex.RUnlock()

	if !exists {
		t.Error("expected client to be registered")
	}

	hub.unregister <- client
	time.Sleep(50 * time.Millisecond)

	hub.mutex.RLock()
	_, exists = hub.clients[client]
	hub.mutex.RUnlock()

	if exists {
		t.Error("expected client to be unregistered")
	}
}

// ==================== WebSocket Integration Tests ====================

func TestServeWs_ClientConnection(t *testing.T) {
	log := logger.New()
	settings := newMockSettingsService()
	hub := New(log, settings)
	hub.Start()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	// Convert http://... to ws://...
	url := "ws" + server.URL[4:]

	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer ws.Close()

	// Give server time to register client
	time.Sleep(100 * time.Millisecond)

	hub.mutex.RLock()
	clientCount := len(hub.clients)
	hub.mutex.RUnlock()

	if clientCount != 1 {
		t.Errorf("expected 1 client, got %d", clientCount)
	}

	// New clients get the current judging status first
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read initial judging_status: %v", err)
	}
	var msg models.WSMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		t.Fatalf("failed to unmarshal message: %v", err)
	}
	if msg.Type != "judging_status" {
		t.Errorf("expected type 'judging_status', got %s", msg.Type)
	}
}

func TestServeWs_BroadcastToClient(t *testing.T) {
	log := logger.New()
	settings := newMockSettingsService()
	hub := New(log, settings)
	hub.Start()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	url := "ws" + server.URL[4:]
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer ws.Close()

	time.Sleep(100 * time.Millisecond)

	// Read and discard the initial judging_status message
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := ws.ReadMessage(); err != nil {
		t.Fatalf("failed to read initial judging_status: %v", err)
	}

	hub.BroadcastHeatUpdate(&models.Heat{ID: 7, Status: models.HeatRunning})

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}

	var msg models.WSMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		t.Fatalf("failed to unmarshal message: %v", err)
	}

	if msg.Type != "heat_update" {
		t.Errorf("expected type 'heat_update', got %s", msg.Type)
	}
}

func TestServeWs_ClientDisconnect(t *testing.T) {
	log := logger.New()
	settings := newMockSettingsService()
	hub := New(log, settings)
	hub.Start()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	url := "ws" + server.URL[4:]
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	ws.Close()

	// Give server time to unregister client
	time.Sleep(200 * time.Millisecond)

	hub.mutex.RLock()
	clientCount := len(hub.clients)
	hub.mutex.RUnlock()

	if clientCount != 0 {
		t.Errorf("expected 0 clients after disconnect, got %d", clientCount)
	}
}

func TestServeWs_MultipleClients(t *testing.T) {
	log := logger.New()
	settings := newMockSettingsService()
	hub := New(log, settings)
	hub.Start()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	url := "ws" + server.URL[4:]

	conns := make([]*websocket.Conn, 0, 3)
	for i := 0; i < 3; i++ {
		ws, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("failed to connect client %d: %v", i+1, err)
		}
		defer ws.Close()
		conns = append(conns, ws)
	}

	time.Sleep(200 * time.Millisecond)

	// Discard initial judging_status messages from all clients
	for i, ws := range conns {
		ws.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, _, err := ws.ReadMessage(); err != nil {
			t.Errorf("client %d failed to read initial judging_status: %v", i+1, err)
		}
	}

	hub.mutex.RLock()
	clientCount := len(hub.clients)
	hub.mutex.RUnlock()

	if clientCount != 3 {
		t.Errorf("expected 3 clients, got %d", clientCount)
	}

	hub.BroadcastStandingsChanged(42)

	for i, ws := range conns {
		ws.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, message, err := ws.ReadMessage()
		if err != nil {
			t.Errorf("client %d failed to read message: %v", i+1, err)
			continue
		}

		var msg models.WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			t.Errorf("client %d failed to unmarshal: %v", i+1, err)
			continue
		}

		if msg.Type != "standings_changed" {
			t.Errorf("client %d got wrong type: %s", i+1, msg.Type)
		}
	}
}

func TestCountdown_SendsRemainingSeconds(t *testing.T) {
	log := logger.New()
	settings := newMockSettingsService()
	// Close time 5 seconds out
	settings.settings["judging_close_time"] = time.Now().Add(5 * time.Second).Format(time.RFC3339)

	hub := New(log, settings)
	hub.Start()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	url := "ws" + server.URL[4:]
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer ws.Close()

	time.Sleep(100 * time.Millisecond)

	// Read and discard the initial judging_status message
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := ws.ReadMessage(); err != nil {
		t.Fatalf("failed to read initial judging_status: %v", err)
	}

	hub.broadcastCountdown()

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}

	var msg models.WSMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		t.Fatalf("failed to unmarshal message: %v", err)
	}

	if msg.Type != "countdown" {
		t.Errorf("expected type 'countdown', got %s", msg.Type)
	}
}

func TestServeWs_UpgradeError(t *testing.T) {
	log := logger.New()
	settings := newMockSettingsService()
	hub := New(log, settings)
	hub.Start()

	// Request without upgrade headers fails the handshake
	req := httptest.NewRequest("GET", "/ws", nil)
	w := httptest.NewRecorder()

	hub.ServeWs(w, req)
}

func TestWritePump_WriteError(t *testing.T) {
	log := logger.New()
	settings := newMockSettingsService()
	hub := New(log, settings)
	hub.Start()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	url := "ws" + server.URL[4:]
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	ws.ReadMessage()

	// Close from the client side, then broadcast into the dead connection
	ws.Close()
	time.Sleep(50 * time.Millisecond)

	hub.BroadcastMessage("test", map[string]string{"key": "value"})

	time.Sleep(200 * time.Millisecond)

	hub.mutex.RLock()
	clientCount := len(hub.clients)
	hub.mutex.RUnlock()

	if clientCount != 0 {
		t.Errorf("expected 0 clients after write error, got %d", clientCount)
	}
}
