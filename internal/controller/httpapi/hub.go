package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 16
)

// client подключение живой ленты. В conn пишет только writePump.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub держит подключения живой ленты журнала и рассылает им новые записи
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  logger,
	}
}

// OnActivity ставит запись в очередь каждого клиента и не ждёт отправки.
// Клиент с заполненной очередью отключается.
func (h *Hub) OnActivity(_ context.Context, activity *model.Activity) error {
	payload, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("encode activity: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			h.logger.Debug("Dropping slow websocket client")
			h.removeLocked(c)
		}
	}
	return nil
}

// Clients число подключений
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Upgrade пропускает только websocket запросы
func (h *Hub) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler обработчик /api/activities/ws, входящие сообщения игнорируются
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
		h.register(c)

		done := make(chan struct{})
		go func() {
			defer close(done)
			h.writePump(c)
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		h.unregister(c)
		// conn возвращается в пул fiber после выхода из обработчика
		<-done
	})
}

// writePump отправляет очередь клиента. После выхода соединение закрыто,
// поэтому чтение в обработчике тоже завершается.
func (h *Hub) writePump(c *client) {
	defer func() {
		_ = c.conn.Close()
		h.unregister(c)
	}()

	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Debug("Websocket write failed", zap.Error(err))
			return
		}
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("Websocket client connected", zap.Int("clients", n))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// Close отключает всех клиентов
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		h.removeLocked(c)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}
}
