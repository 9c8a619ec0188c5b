package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dafibh/finboard/finboard-backend/internal/websocket"
)

// stubTokenValidator is a test double for bearer token validation
type stubTokenValidator struct {
	subject string
	err     error
}

func (s *stubTokenValidator) ValidateToken(ctx context.Context, token string) (string, error) {
	return s.subject, s.err
}

var testAllowedOrigins = []string{"http://localhost:3000", "https://finboard.app"}

func TestWebSocketHandler_HandleWS_MissingToken(t *testing.T) {
	h := NewWebSocketHandler(websocket.NewHub(), &stubTokenValidator{subject: "auth0|1"}, testAllowedOrigins)
	c, rec := newContext(http.MethodGet, "/ws", "")

	err := h.HandleWS(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebSocketHandler_HandleWS_InvalidToken(t *testing.T) {
	h := NewWebSocketHandler(websocket.NewHub(), &stubTokenValidator{err: errors.New("expired")}, testAllowedOrigins)
	c, rec := newContext(http.MethodGet, "/ws?token=invalid-jwt", "")

	err := h.HandleWS(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp, _ := decodeResponse(t, rec)
	assert.Equal(t, "invalid token", resp.Details)
}

func TestWebSocketHandler_HandleWS_ValidToken_NoUpgrade(t *testing.T) {
	h := NewWebSocketHandler(websocket.NewHub(), &stubTokenValidator{subject: "auth0|1"}, testAllowedOrigins)
	c, rec := newContext(http.MethodGet, "/ws?token=valid-jwt", "")

	err := h.HandleWS(c)

	// Auth passes; the upgrade fails without upgrade headers
	assert.Error(t, err)
	assert.NotEqual(t, http.StatusUnauthorized, rec.Code)
}

func TestWebSocketHandler_HandleWS_AuthDisabledConnects(t *testing.T) {
	hub := websocket.NewHub()
	h := NewWebSocketHandler(hub, nil, testAllowedOrigins)

	e := echo.New()
	e.GET("/ws", h.HandleWS)
	server := httptest.NewServer(e)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestWebSocketHandler_HandleWS_UnknownEntity(t *testing.T) {
	h := NewWebSocketHandler(websocket.NewHub(), nil, testAllowedOrigins)
	c, rec := newContext(http.MethodGet, "/ws?entities=budget,loan", "")

	require.NoError(t, h.HandleWS(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp, _ := decodeResponse(t, rec)
	assert.Equal(t, []string{"entities"}, fieldsOf(resp.Errors))
}

func dialFeed(t *testing.T, hub *websocket.Hub, query string) *ws.Conn {
	t.Helper()
	h := NewWebSocketHandler(hub, nil, testAllowedOrigins)
	e := echo.New()
	e.GET("/ws", h.HandleWS)
	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws" + query
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	return conn
}

func readFrame(t *testing.T, conn *ws.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var frame map[string]interface{}
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func TestWebSocketHandler_FeedFiltersByEntities(t *testing.T) {
	hub := websocket.NewHub()
	conn := dialFeed(t, hub, "?entities=budget")

	hub.Broadcast(websocket.Deleted(websocket.EntityTypeTransaction, 1))
	hub.Broadcast(websocket.Deleted(websocket.EntityTypeBudget, 2))

	frame := readFrame(t, conn)
	assert.Equal(t, "budget.deleted", frame["type"])
}

func TestWebSocketHandler_SubscribeFrame(t *testing.T) {
	hub := websocket.NewHub()
	conn := dialFeed(t, hub, "")

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"action":   "subscribe",
		"entities": []string{"monthly_summary"},
	}))
	ack := readFrame(t, conn)
	assert.Equal(t, "subscribed", ack["type"])
	assert.Equal(t, []interface{}{"monthly_summary"}, ack["entities"])

	hub.Broadcast(websocket.Deleted(websocket.EntityTypeCategory, 3))
	hub.Broadcast(websocket.Deleted(websocket.EntityTypeMonthlySummary, 4))

	frame := readFrame(t, conn)
	assert.Equal(t, "monthly_summary.deleted", frame["type"])
}

func TestWebSocketHandler_CheckOrigin(t *testing.T) {
	h := NewWebSocketHandler(websocket.NewHub(), nil, testAllowedOrigins)

	tests := []struct {
		name     string
		origin   string
		expected bool
	}{
		{"allowed origin", "http://localhost:3000", true},
		{"allowed origin https", "https://finboard.app", true},
		{"disallowed origin", "https://evil.com", false},
		{"empty origin", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.expected, h.checkOrigin(req))
		})
	}
}
