package services

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"smartnotes/smartnotes/broker"
	"smartnotes/smartnotes/models"
	"smartnotes/smartnotes/utils/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	clientSendBuffer = 64
	pongWait         = 60 * time.Second
	pingPeriod       = 30 * time.Second
	writeWait        = 10 * time.Second
)

type NotificationHubInterface interface {
	Run(ctx context.Context, messages <-chan broker.Message)
	Deliver(userID string, message []byte) int
	ServeWS(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error
	ConnectionCount() int
}

type hubClient struct {
	id     string
	userID string
	hub    *NotificationHub
	conn   *websocket.Conn
	send   chan []byte
}

// NotificationHub pushes broker events to the WebSocket connections of the
// user named as the event's recipient.
type NotificationHub struct {
	mu       sync.RWMutex
	clients  map[string]map[string]*hubClient
	upgrader websocket.Upgrader
}

func NewNotificationHub() *NotificationHub {
	return &NotificationHub{
		clients: make(map[string]map[string]*hubClient),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run routes messages until ctx is cancelled or the channel closes.
func (h *NotificationHub) Run(ctx context.Context, messages <-chan broker.Message) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			h.route(msg)
		}
	}
}

func (h *NotificationHub) route(msg broker.Message) {
	var envelope broker.Envelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		logger.Log.Warn().Err(err).Str("subject", msg.Subject).Msg("Dropping malformed event")
		return
	}

	recipient := envelope.Payload.Recipient()
	if recipient == "" {
		return
	}
	if envelope.Type == "" {
		envelope.Type = broker.EventTypeFromSubject(msg.Subject)
	}

	frame, err := json.Marshal(models.NewPushMessage(models.EventMessage, envelope.Type, envelope.Payload))
	if err != nil {
		logger.Log.Error().Err(err).Msg("Error serializing push message")
		return
	}

	n := h.Deliver(recipient, frame)
	logger.Log.Debug().Str("event", envelope.Type).Str("user_id", recipient).Int("connections", n).Msg("Pushed event")
}

// Deliver queues a frame on every connection of the user and returns how
// many accepted it. Connections with a full buffer are dropped.
func (h *NotificationHub) Deliver(userID string, message []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for id, client := range h.clients[userID] {
		select {
		case client.send <- message:
			delivered++
		default:
			logger.Log.Warn().Str("client_id", id).Msg("Client send buffer full, disconnecting")
			h.removeLocked(client)
		}
	}
	return delivered
}

func (h *NotificationHub) ServeWS(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &hubClient{
		id:     uuid.New().String(),
		userID: userID.String(),
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, clientSendBuffer),
	}
	h.register(client)

	go client.writePump()
	go client.readPump()
	return nil
}

func (h *NotificationHub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, conns := range h.clients {
		count += len(conns)
	}
	return count
}

func (h *NotificationHub) register(c *hubClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[string]*hubClient)
	}
	h.clients[c.userID][c.id] = c
	logger.Log.Info().Str("client_id", c.id).Str("user_id", c.userID).Msg("Client connected")
}

func (h *NotificationHub) unregister(c *hubClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *NotificationHub) removeLocked(c *hubClient) {
	conns, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := conns[c.id]; !ok {
		return
	}
	delete(conns, c.id)
	if len(conns) == 0 {
		delete(h.clients, c.userID)
	}
	close(c.send)
	logger.Log.Info().Str("client_id", c.id).Msg("Client disconnected")
}

func (h *NotificationHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, conns := range h.clients {
		for _, c := range conns {
			h.removeLocked(c)
		}
	}
}

// reply queues a frame for one connection if it is still registered.
func (h *NotificationHub) reply(c *hubClient, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.userID][c.id]; !ok {
		return
	}
	select {
	case c.send <- message:
	default:
	}
}

// readPump consumes control frames. Clients do not send commands; any data
// frame is answered with an error frame.
func (c *hubClient) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Warn().Err(err).Str("client_id", c.id).Msg("Error reading from WebSocket")
			}
			return
		}
		if frame, err := json.Marshal(models.NewPushMessage(models.ErrorMessage, "", "notification channel is receive-only")); err == nil {
			c.hub.reply(c, frame)
		}
	}
}

func (c *hubClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
