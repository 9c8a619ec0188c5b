package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	// pingInterval stays below pongTimeout so a live peer never times out.
	pingInterval = pongTimeout * 9 / 10
	maxFrameSize = 1024
	sendBuffer   = 256
)

// Frame actions accepted from dashboard clients.
const (
	ActionSubscribe = "subscribe"
	ActionPing      = "ping"
)

// controlFrame is a message from a dashboard client, e.g.
// {"action":"subscribe","entities":["budget","transaction"]}.
type controlFrame struct {
	Action   string   `json:"action"`
	Entities []string `json:"entities"`
}

// controlReply answers a controlFrame. Entities is empty when the client
// follows every entity.
type controlReply struct {
	Type     string       `json:"type"`
	Entities []EntityType `json:"entities,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// Client is one dashboard connection to the change feed.
type Client struct {
	id      string
	subject string
	conn    *websocket.Conn
	hub     *Hub
	send    chan []byte

	mu           sync.RWMutex
	subscription Subscription
	closed       bool
	closeOnce    sync.Once
}

// NewClient wraps conn for hub. subject is the authenticated user, or
// "anonymous" when auth is disabled. The client starts subscribed to every
// entity.
func NewClient(conn *websocket.Conn, subject string, hub *Hub) *Client {
	return &Client{
		id:      uuid.New().String(),
		subject: subject,
		conn:    conn,
		hub:     hub,
		send:    make(chan []byte, sendBuffer),
	}
}

func (c *Client) ID() string      { return c.id }
func (c *Client) Subject() string { return c.subject }

// Subscribe replaces the set of entities the client receives events for.
func (c *Client) Subscribe(sub Subscription) {
	c.mu.Lock()
	c.subscription = sub
	c.mu.Unlock()
}

// Wants reports whether an event about entity should reach this client.
func (c *Client) Wants(entity EntityType) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.subscription.Includes(entity)
}

// Send queues data for the write pump. A full queue means the client cannot
// keep up and counts as closed.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.send <- data:
		return nil
	default:
		return ErrClientClosed
	}
}

// Close shuts the send queue and the connection once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()
		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}

// IsClosed reports whether Close has run.
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// handleFrame applies one inbound text frame and queues the reply.
func (c *Client) handleFrame(data []byte) {
	var frame controlFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		c.reply(controlReply{Type: "error", Error: "malformed frame"})
		return
	}

	switch frame.Action {
	case ActionSubscribe:
		sub, err := ParseSubscription(frame.Entities)
		if err != nil {
			c.reply(controlReply{Type: "error", Error: err.Error()})
			return
		}
		c.Subscribe(sub)
		log.Debug().
			Str("client_id", c.id).
			Interface("entities", sub.Entities()).
			Msg("WebSocket subscription changed")
		c.reply(controlReply{Type: "subscribed", Entities: sub.Entities()})
	case ActionPing:
		c.reply(controlReply{Type: "pong"})
	default:
		c.reply(controlReply{Type: "error", Error: "unknown action " + frame.Action})
	}
}

func (c *Client) reply(r controlReply) {
	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := c.Send(data); err != nil {
		log.Debug().Err(err).Str("client_id", c.id).Msg("WebSocket reply dropped")
	}
}

// ReadPump reads control frames until the connection fails, then
// unregisters the client. Run it in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client_id", c.id).Msg("WebSocket unexpected close")
			}
			return
		}
		if kind == websocket.TextMessage {
			c.handleFrame(data)
		}
	}
}

// WritePump drains the send queue onto the connection and keeps it alive
// with pings. Run it in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("client_id", c.id).Msg("WebSocket write error")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
