package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	accessapp "github.com/storefront/backend/internal/application/access"
	"github.com/storefront/backend/internal/application/notify"
	"github.com/storefront/backend/internal/domain/order"
)

// The hub is the session transport behind the notifier
var _ notify.SessionTransport = (*EventStreamHandler)(nil)

// StreamClient represents one connected event stream session. A session
// always receives the user channel; shop channels are opt-in and
// access-checked at connect time.
type StreamClient struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Shops  map[uuid.UUID]bool
	Chan   chan SSEMessage
	Done   chan struct{}
}

// SSEMessage represents a message to be sent to stream clients
type SSEMessage struct {
	Event string
	Data  string
	ID    string
}

// EventStreamHandler is the SSE hub for order status changes. It is the
// session transport behind the notifier: SendToUser and SendToShop fan a
// change out to connected sessions, at most once per session.
type EventStreamHandler struct {
	BaseHandler
	access     *accessapp.Service
	logger     *zap.Logger
	clients    sync.Map // map[uuid.UUID]*StreamClient
	ctx        context.Context
	cancel     context.CancelFunc
	heartbeat  time.Duration
	buffer     int
	maxClients int
	started    bool
	startMu    sync.Mutex
}

// EventStreamOption is a functional option for configuring the handler
type EventStreamOption func(*EventStreamHandler)

// WithStreamLogger sets the logger for the handler
func WithStreamLogger(logger *zap.Logger) EventStreamOption {
	return func(h *EventStreamHandler) {
		h.logger = logger
	}
}

// WithStreamHeartbeat sets the heartbeat interval
func WithStreamHeartbeat(interval time.Duration) EventStreamOption {
	return func(h *EventStreamHandler) {
		if interval > 0 {
			h.heartbeat = interval
		}
	}
}

// WithStreamClientBuffer sets the per-client message buffer
func WithStreamClientBuffer(size int) EventStreamOption {
	return func(h *EventStreamHandler) {
		if size > 0 {
			h.buffer = size
		}
	}
}

// WithStreamMaxClients sets the maximum number of concurrent sessions
func WithStreamMaxClients(max int) EventStreamOption {
	return func(h *EventStreamHandler) {
		h.maxClients = max
	}
}

// NewEventStreamHandler creates a new SSE hub for order status changes
func NewEventStreamHandler(access *accessapp.Service, opts ...EventStreamOption) *EventStreamHandler {
	ctx, cancel := context.WithCancel(context.Background())
	h := &EventStreamHandler{
		access:     access,
		logger:     zap.NewNop(),
		ctx:        ctx,
		cancel:     cancel,
		heartbeat:  30 * time.Second,
		buffer:     64,
		maxClients: 10000,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Start begins the heartbeat loop
func (h *EventStreamHandler) Start() error {
	h.startMu.Lock()
	defer h.startMu.Unlock()

	if h.started {
		return fmt.Errorf("event stream handler already started")
	}

	go h.sendHeartbeats()

	h.started = true
	h.logger.Info("event stream handler started")
	return nil
}

// Stop disconnects every session
func (h *EventStreamHandler) Stop() {
	h.cancel()

	h.clients.Range(func(key, value any) bool {
		if client, ok := value.(*StreamClient); ok {
			close(client.Done)
		}
		return true
	})

	h.logger.Info("event stream handler stopped")
}

// SendToUser delivers the change to every session authenticated as the user
func (h *EventStreamHandler) SendToUser(userID uuid.UUID, change order.StatusChange) {
	msg, ok := changeMessage(change)
	if !ok {
		return
	}
	h.clients.Range(func(_, value any) bool {
		client, ok := value.(*StreamClient)
		if !ok || client.UserID != userID {
			return true
		}
		h.deliver(client, msg)
		return true
	})
}

// SendToShop delivers the change to every session subscribed to the shop
// channel. Sessions belonging to the order's buyer are skipped; they
// already received the change on the user channel.
func (h *EventStreamHandler) SendToShop(shopID uuid.UUID, change order.StatusChange) {
	msg, ok := changeMessage(change)
	if !ok {
		return
	}
	h.clients.Range(func(_, value any) bool {
		client, ok := value.(*StreamClient)
		if !ok || !client.Shops[shopID] {
			return true
		}
		if client.UserID == change.BuyerID {
			return true
		}
		h.deliver(client, msg)
		return true
	})
}

// deliver pushes a message without blocking; a slow session loses the
// message, never stalls the publisher
func (h *EventStreamHandler) deliver(client *StreamClient, msg SSEMessage) {
	select {
	case client.Chan <- msg:
	default:
		h.logger.Warn("stream client buffer full, dropping message",
			zap.String("client_id", client.ID.String()),
			zap.String("user_id", client.UserID.String()),
		)
	}
}

// changeMessage renders a status change as an SSE message
func changeMessage(change order.StatusChange) (SSEMessage, bool) {
	data, err := json.Marshal(change)
	if err != nil {
		return SSEMessage{}, false
	}
	return SSEMessage{
		Event: "order_status",
		Data:  string(data),
		ID:    change.EventID.String(),
	}, true
}

// sendHeartbeats periodically pings every session to keep connections alive
func (h *EventStreamHandler) sendHeartbeats() {
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.C:
			msg := SSEMessage{
				Event: "heartbeat",
				Data:  fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()),
			}
			h.clients.Range(func(_, value any) bool {
				if client, ok := value.(*StreamClient); ok {
					h.deliver(client, msg)
				}
				return true
			})
		}
	}
}

// Stream handles GET /events/stream. The session always receives changes
// for the user's own purchases; shop_id query parameters additionally
// subscribe it to shop channels the user can access.
func (h *EventStreamHandler) Stream(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if h.maxClients > 0 && h.ClientCount() >= h.maxClients {
		c.JSON(503, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MAX_CONNECTIONS_REACHED",
				"message": "Maximum number of stream connections reached",
			},
		})
		return
	}

	shops := make(map[uuid.UUID]bool)
	for _, raw := range c.QueryArray("shop_id") {
		shopID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid shop_id: "+raw)
			return
		}
		ok, err := h.access.HasAccess(c.Request.Context(), userID, shopID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		if !ok {
			h.Forbidden(c, "No access to shop "+raw)
			return
		}
		shops[shopID] = true
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	client := &StreamClient{
		ID:     uuid.New(),
		UserID: userID,
		Shops:  shops,
		Chan:   make(chan SSEMessage, h.buffer),
		Done:   make(chan struct{}),
	}

	// The channel is never closed: a concurrent deliver may still hold a
	// reference after disconnect, and sending to a closed channel panics.
	// Removal from the map is enough; the channel is collected with the client.
	h.clients.Store(client.ID, client)
	defer h.clients.Delete(client.ID)

	h.logger.Info("stream client connected",
		zap.String("client_id", client.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("shop_channels", len(shops)),
	)

	sendEvent(c.Writer, SSEMessage{
		Event: "connected",
		Data:  fmt.Sprintf(`{"client_id":"%s","timestamp":%d}`, client.ID, time.Now().Unix()),
	})
	c.Writer.Flush()

	reqCtx := c.Request.Context()
	for {
		select {
		case <-reqCtx.Done():
			h.logger.Debug("stream client disconnected",
				zap.String("client_id", client.ID.String()))
			return
		case <-client.Done:
			return
		case <-h.ctx.Done():
			return
		case msg := <-client.Chan:
			sendEvent(c.Writer, msg)
			c.Writer.Flush()
		}
	}
}

// sendEvent writes an SSE event to the response writer
func sendEvent(w io.Writer, msg SSEMessage) {
	if msg.Event != "" {
		fmt.Fprintf(w, "event: %s\n", msg.Event)
	}
	if msg.ID != "" {
		fmt.Fprintf(w, "id: %s\n", msg.ID)
	}
	fmt.Fprintf(w, "data: %s\n\n", msg.Data)
}

// ClientCount returns the number of connected sessions
func (h *EventStreamHandler) ClientCount() int {
	count := 0
	h.clients.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
