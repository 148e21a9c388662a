package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"studytrack-backend/internal/live"
	"studytrack-backend/internal/models"
	"studytrack-backend/internal/services"
	"studytrack-backend/internal/stats"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const writeWait = 5 * time.Second

type tokenParser interface {
	ParseUserID(tokenStr string) (uuid.UUID, error)
}

type activeSessions interface {
	Active(ctx context.Context, userID uuid.UUID) (*models.ActiveSessionView, error)
}

// Hub serves the live timer view. A connection keeps a snapshot of the user's
// active session, reloaded on session events from Redis, and renders it once
// per tick.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID][]*client
	redisClient *redis.Client
	auth        tokenParser
	sessions    activeSessions
	cancelFuncs map[uuid.UUID]context.CancelFunc

	tickInterval time.Duration
	now          func() time.Time
}

func NewHub(redisClient *redis.Client, auth tokenParser, sessions activeSessions) *Hub {
	return &Hub{
		connections:  make(map[uuid.UUID][]*client),
		redisClient:  redisClient,
		auth:         auth,
		sessions:     sessions,
		cancelFuncs:  make(map[uuid.UUID]context.CancelFunc),
		tickInterval: time.Second,
		now:          time.Now,
	}
}

type client struct {
	userID uuid.UUID
	conn   *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
	task   *live.Task[*models.ActiveSessionView]

	writeMu sync.Mutex

	mu     sync.Mutex
	active *models.StudySession
	idle   bool // timer_idle already sent for the current idle stretch
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Authenticate via token query param
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := h.auth.ParseUserID(tokenStr)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &client{
		userID: userID,
		conn:   conn,
		ctx:    ctx,
		cancel: cancel,
		task:   live.NewTask[*models.ActiveSessionView](ctx),
	}

	h.registerConnection(c)
	h.refresh(c)
	go live.Tick(ctx, h.tickInterval, func(now time.Time) { h.render(c, now) })

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregisterConnection(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (h *Hub) registerConnection(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[c.userID] = append(h.connections[c.userID], c)

	// Start pub/sub subscription if this is the first connection for this user
	if len(h.connections[c.userID]) == 1 && h.redisClient != nil {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[c.userID] = cancel
		go h.subscribeToPubSub(ctx, c.userID)
	}

	log.Printf("WebSocket connected: user %s (total: %d)", c.userID, len(h.connections[c.userID]))
}

func (h *Hub) unregisterConnection(c *client) {
	c.task.Close()
	c.cancel()
	c.conn.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.connections[c.userID]
	for i, existing := range conns {
		if existing == c {
			h.connections[c.userID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	// If no more connections, cancel pub/sub
	if len(h.connections[c.userID]) == 0 {
		delete(h.connections, c.userID)
		if cancel, ok := h.cancelFuncs[c.userID]; ok {
			cancel()
			delete(h.cancelFuncs, c.userID)
		}
	}

	log.Printf("WebSocket disconnected: user %s", c.userID)
}

// refresh reloads the active session for one connection. A reload that is
// overtaken by a newer one, or finishes after disconnect, is dropped.
func (h *Hub) refresh(c *client) {
	c.task.Run(func(ctx context.Context) (*models.ActiveSessionView, error) {
		return h.sessions.Active(ctx, c.userID)
	}, func(view *models.ActiveSessionView, err error) {
		if err != nil {
			log.Printf("websocket: load active session for user %s: %v", c.userID, err)
			return
		}
		c.mu.Lock()
		if view == nil {
			c.active = nil
		} else {
			c.active = view.Session
		}
		c.mu.Unlock()
	})
}

func (h *Hub) render(c *client, now time.Time) {
	c.mu.Lock()
	active := c.active
	sendIdle := active == nil && !c.idle
	c.idle = active == nil
	c.mu.Unlock()

	switch {
	case active != nil:
		c.write(timerMessage(active, now))
	case sendIdle:
		c.write(models.WSMessage{Type: models.WSTimerIdle})
	}
}

func timerMessage(s *models.StudySession, now time.Time) models.WSMessage {
	seconds := int(now.Sub(s.StartTime) / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	minutes := stats.ElapsedMinutes(s.StartTime, now)
	return models.WSMessage{
		Type: models.WSTimerTick,
		Payload: models.TimerTick{
			SessionID:      s.ID,
			SubjectID:      s.SubjectID,
			StartTime:      s.StartTime,
			ElapsedMinutes: minutes,
			ElapsedSeconds: seconds,
			Display:        stats.FormatDuration(minutes),
		},
	}
}

func (h *Hub) subscribeToPubSub(ctx context.Context, userID uuid.UUID) {
	pubsub := h.redisClient.Subscribe(ctx, services.UserChannel(userID))
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.deliver(userID, []byte(msg.Payload))
		}
	}
}

// deliver forwards a published event and, for session events, reloads the
// timer state of every connection the user has open.
func (h *Hub) deliver(userID uuid.UUID, data []byte) {
	var msg models.WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("websocket: bad event for user %s: %v", userID, err)
		return
	}

	h.mu.RLock()
	clients := append([]*client(nil), h.connections[userID]...)
	h.mu.RUnlock()

	for _, c := range clients {
		c.writeRaw(data)
		if msg.Type == models.WSSessionStarted || msg.Type == models.WSSessionEnded {
			h.refresh(c)
		}
	}
}

// SendToUser sends a message directly to a user (for use outside pub/sub)
func (h *Hub) SendToUser(userID uuid.UUID, msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.RLock()
	clients := append([]*client(nil), h.connections[userID]...)
	h.mu.RUnlock()

	for _, c := range clients {
		c.writeRaw(data)
	}
}

func (c *client) write(msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.writeRaw(data)
}

func (c *client) writeRaw(data []byte) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.cancel()
	}
}
