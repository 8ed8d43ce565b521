package websocket

import (
	"encoding/json"
	"sync"

	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/shopzone/shopzone-backend/pkg/logger"
)

// Client is one connected socket for one user. A user may hold several
// clients at once (multiple tabs or devices).
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte

	closeOnce sync.Once
}

// closeSend shuts the channel at most once. A slow-client drop and a
// ReadPump disconnect can both unregister the same client.
func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}

// OrderStatusEvent is the payload pushed when an order changes state.
type OrderStatusEvent struct {
	Type        string            `json:"type"`
	OrderID     uint              `json:"order_id"`
	Status      model.OrderStatus `json:"status"`
	TotalAmount float64           `json:"total_amount"`
}

type userMessage struct {
	userID  uint
	payload []byte
}

// Hub tracks connected clients and fans order events out to every
// session a user has open.
type Hub struct {
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client
	send       chan *userMessage

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		send:       make(chan *userMessage, 1024),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":  client.UserID,
				"sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if list, ok := h.clients[client.UserID]; ok {
				remaining := make([]*Client, 0, len(list))
				found := false
				for _, c := range list {
					if c == client {
						found = true
						continue
					}
					remaining = append(remaining, c)
				}
				if found {
					if len(remaining) == 0 {
						delete(h.clients, client.UserID)
					} else {
						h.clients[client.UserID] = remaining
					}
					client.closeSend()
				}
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id": client.UserID,
			})

		case message := <-h.send:
			h.mu.RLock()
			for _, client := range h.clients[message.userID] {
				select {
				case client.Send <- message.payload:
				default:
					// Send buffer full, drop the slow session.
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"user_id": message.userID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// SendToUser queues a payload for every session of one user. Delivery
// is best effort: when the queue is full the event is dropped rather
// than blocking the caller.
func (h *Hub) SendToUser(userID uint, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal websocket message", err)
		return err
	}

	select {
	case h.send <- &userMessage{userID: userID, payload: data}:
		return nil
	default:
		logger.Warn("WebSocket send channel full, message dropped", map[string]interface{}{
			"user_id": userID,
		})
		return nil
	}
}

// NotifyOrderStatus satisfies the order service's notifier.
func (h *Hub) NotifyOrderStatus(userID, orderID uint, status model.OrderStatus, totalAmount float64) {
	_ = h.SendToUser(userID, OrderStatusEvent{
		Type:        "order_status",
		OrderID:     orderID,
		Status:      status,
		TotalAmount: totalAmount,
	})
}
