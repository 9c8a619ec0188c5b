package handler

import (
	"net/http"
	"strings"

	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/dafibh/finboard/finboard-backend/internal/middleware"
	"github.com/dafibh/finboard/finboard-backend/internal/websocket"
)

// AnonymousSubject identifies websocket clients when authentication is disabled
const AnonymousSubject = "anonymous"

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub            *websocket.Hub
	validator      middleware.TokenValidator
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler. A nil validator accepts
// every connection.
func NewWebSocketHandler(hub *websocket.Hub, validator middleware.TokenValidator, allowedOrigins []string) *WebSocketHandler {
	originMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originMap[origin] = true
	}

	h := &WebSocketHandler{
		hub:            hub,
		validator:      validator,
		allowedOrigins: originMap,
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin validates the request origin against allowed origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Non-browser clients send no Origin
		return true
	}

	if h.allowedOrigins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS handles WebSocket connection requests at GET /ws. With a validator
// the bearer token is read from the token query parameter. An optional
// entities parameter (comma separated) limits the feed from the start;
// clients change it later with a subscribe frame.
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	subject := AnonymousSubject
	if h.validator != nil {
		token := c.QueryParam("token")
		if token == "" {
			log.Debug().Msg("WebSocket connection rejected: missing token")
			return respondError(c, http.StatusUnauthorized, "Unauthorized", "missing token")
		}

		var err error
		subject, err = h.validator.ValidateToken(c.Request().Context(), token)
		if err != nil {
			log.Debug().Err(err).Msg("WebSocket connection rejected: invalid token")
			return respondError(c, http.StatusUnauthorized, "Unauthorized", "invalid token")
		}
	}

	var subscription websocket.Subscription
	if raw := c.QueryParam("entities"); raw != "" {
		var err error
		subscription, err = websocket.ParseSubscription(strings.Split(raw, ","))
		if err != nil {
			return NewValidationError(c, "Invalid query parameters", []ValidationError{
				{Field: "entities", Message: err.Error()},
			})
		}
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	client := websocket.NewClient(conn, subject, h.hub)
	client.Subscribe(subscription)
	h.hub.Register(client)

	log.Info().
		Str("subject", subject).
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")

	go client.WritePump()
	go client.ReadPump()

	return nil
}
