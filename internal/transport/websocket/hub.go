package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

const MessageTypeAvailabilityChanged = "availability.changed"

// Message is the frame sent to dashboards. It only tells them to query
// availability again.
type Message struct {
	Type string `json:"type"`
	domain.AvailabilityChanged
}

type TokenParser interface {
	ParseToken(ctx context.Context, token string) (domain.Principal, error)
}

type EstablishmentAuthorizer interface {
	Authorize(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Establishment, error)
}

type Stats struct {
	Clients        int `json:"clients"`
	Establishments int `json:"establishments"`
}

// Hub fans availability events out to the dashboards subscribed to an
// establishment.
type Hub struct {
	clients map[uuid.UUID]map[*Client]struct{}

	broadcast  chan domain.AvailabilityChanged
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	tokens     TokenParser
	authorizer EstablishmentAuthorizer
	logger     *zap.Logger

	mutex sync.RWMutex
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// доступ проверяется по токену
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func NewHub(tokens TokenParser, authorizer EstablishmentAuthorizer, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		broadcast:  make(chan domain.AvailabilityChanged, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		tokens:     tokens,
		authorizer: authorizer,
		logger:     logger,
	}
}

// Run serves register, unregister and broadcast requests until ctx is
// done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return

		case client := <-h.register:
			h.mutex.Lock()
			set, ok := h.clients[client.EstablishmentID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.EstablishmentID] = set
			}
			set[client] = struct{}{}
			h.mutex.Unlock()
			h.logger.Info("клиент подключен",
				zap.String("establishment_id", client.EstablishmentID.String()),
				zap.String("user_id", client.UserID.String()))

		case client := <-h.unregister:
			h.mutex.Lock()
			h.remove(client)
			h.mutex.Unlock()
			h.logger.Info("клиент отключен",
				zap.String("establishment_id", client.EstablishmentID.String()),
				zap.String("user_id", client.UserID.String()))

		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

// Publish queues event for delivery. It never blocks the caller: when
// the queue is full the event is dropped.
func (h *Hub) Publish(event domain.AvailabilityChanged) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("очередь событий переполнена, событие отброшено",
			zap.String("establishment_id", event.EstablishmentID.String()),
			zap.String("reason", event.Reason))
	}
}

func (h *Hub) Stats() Stats {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	stats := Stats{Establishments: len(h.clients)}
	for _, set := range h.clients {
		stats.Clients += len(set)
	}
	return stats
}

func (h *Hub) deliver(event domain.AvailabilityChanged) {
	payload, err := json.Marshal(Message{Type: MessageTypeAvailabilityChanged, AvailabilityChanged: event})
	if err != nil {
		h.logger.Error("ошибка сериализации события", zap.Error(err))
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients[event.EstablishmentID] {
		select {
		case client.send <- payload:
		default:
			h.logger.Warn("клиент не успевает читать, соединение закрыто",
				zap.String("user_id", client.UserID.String()))
			h.remove(client)
		}
	}
}

// remove must be called with mutex held.
func (h *Hub) remove(client *Client) {
	set, ok := h.clients[client.EstablishmentID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.EstablishmentID)
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for _, set := range h.clients {
		for client := range set {
			h.remove(client)
		}
	}
}

// HandleWebSocket subscribes the caller to the establishment in the :id
// path parameter. The access token comes from the token query parameter
// because browsers cannot set headers on a websocket handshake.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	establishmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "неверный формат ID"})
		return
	}

	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "требуется авторизация"})
		return
	}

	principal, err := h.tokens.ParseToken(c.Request.Context(), token)
	if err != nil {
		h.logger.Debug("токен отклонен", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "недействительный токен"})
		return
	}

	if _, err := h.authorizer.Authorize(c.Request.Context(), principal, establishmentID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "заведение не найдено"})
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"status": "error", "message": "доступ запрещен"})
		default:
			h.logger.Error("ошибка проверки доступа к заведению", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "внутренняя ошибка сервера"})
		}
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("ошибка установки websocket соединения", zap.Error(err))
		return
	}

	client := &Client{
		EstablishmentID: establishmentID,
		UserID:          principal.UserID,
		conn:            conn,
		send:            make(chan []byte, 64),
		hub:             h,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
