package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/types"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/utils"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second

	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = utils.MaxContextSize + 4096

	// Frames queued per connection before a slow client is dropped.
	sendBuffer = 256
)

// Frame types sent to clients
const (
	FrameSnapshot = "snapshot"
	FrameEvent    = "event"
	FramePong     = "pong"
	FrameError    = "error"
)

// Frame is one server-to-client message
type Frame struct {
	Type      string           `json:"type"`
	Snapshot  *types.Snapshot  `json:"snapshot,omitempty"`
	Event     *workspace.Event `json:"event,omitempty"`
	Message   string           `json:"message,omitempty"`
	Timestamp int64            `json:"timestamp"`
}

// Handler streams workspace events to WebSocket clients
type Handler struct {
	store    *workspace.Store
	upgrader websocket.Upgrader
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(store *workspace.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store: store,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// WithMetrics records connections and frames
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// HandleConnection upgrades the request, sends a snapshot and then one frame per store event
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{
		conn:    conn,
		send:    make(chan Frame, sendBuffer),
		done:    make(chan struct{}),
		metrics: h.metrics,
		logger:  h.logger.With(zap.String("remote", conn.RemoteAddr().String())),
	}

	// Events are held back until the snapshot is queued. An event that raced
	// the snapshot carries a Seq at or below Snapshot.Seq and is dropped.
	cl.gate.Lock()
	unsubscribe := h.store.Subscribe(func(ev workspace.Event) {
		cl.gate.Lock()
		defer cl.gate.Unlock()
		if ev.Seq <= cl.seen {
			return
		}
		cl.enqueue(Frame{Type: FrameEvent, Event: &ev})
	})
	initial := h.snapshotFrame()
	cl.seen = initial.Snapshot.Seq
	cl.enqueue(initial)
	cl.gate.Unlock()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
	}
	cl.logger.Debug("websocket connected")

	go cl.writePump()
	cl.readPump(h)

	unsubscribe()
	cl.close()
	if h.metrics != nil {
		h.metrics.DecWSConnections()
	}
	cl.logger.Debug("websocket disconnected")
}

func (h *Handler) snapshotFrame() Frame {
	snap := h.store.Snapshot()
	return Frame{Type: FrameSnapshot, Snapshot: &snap}
}

// handleMessage answers one client message
func (h *Handler) handleMessage(cl *client, msg types.WSMessage) {
	if cl.metrics != nil {
		cl.metrics.RecordWSMessage("in", msg.Type)
	}

	if len(msg.Context) > 0 {
		if err := utils.ValidateContext(msg.Context); err != nil {
			cl.enqueue(Frame{Type: FrameError, Message: "context too large"})
			return
		}
	}

	switch msg.Type {
	case "ping":
		cl.enqueue(Frame{Type: FramePong})
	case "snapshot":
		cl.enqueue(h.snapshotFrame())
	default:
		cl.enqueue(Frame{Type: FrameError, Message: "unknown message type"})
	}
}

type client struct {
	conn    *websocket.Conn
	send    chan Frame
	done    chan struct{}
	once    sync.Once
	gate    sync.Mutex
	seen    uint64 // Protected by gate, Seq of the initial snapshot
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// enqueue never blocks; a client that cannot keep up is disconnected
func (cl *client) enqueue(f Frame) {
	if f.Timestamp == 0 {
		f.Timestamp = time.Now().Unix()
	}
	select {
	case <-cl.done:
	case cl.send <- f:
	default:
		cl.logger.Warn("websocket send buffer full, closing connection")
		cl.close()
	}
}

func (cl *client) close() {
	cl.once.Do(func() {
		close(cl.done)
		_ = cl.conn.Close()
	})
}

func (cl *client) readPump(h *Handler) {
	cl.conn.SetReadLimit(maxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				cl.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}

		var msg types.WSMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			cl.enqueue(Frame{Type: FrameError, Message: "malformed message"})
			continue
		}
		h.handleMessage(cl, msg)
	}
}

func (cl *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.close()
	}()

	for {
		select {
		case <-cl.done:
			return

		case f := <-cl.send:
			data, err := sonic.Marshal(f)
			if err != nil {
				cl.logger.Error("failed to encode frame", zap.String("type", f.Type), zap.Error(err))
				continue
			}
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
			if cl.metrics != nil {
				cl.metrics.RecordWSMessage("out", f.Type)
			}

		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
