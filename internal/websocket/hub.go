package notifyws

import (
	"encoding/json"
	"log"
	"strconv"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
)

// Event types pushed over the notification socket. Delivery is advisory
// only: every derived flag is recomputed from stored state on the next
// read, never from a received event.
const (
	EventBothAttended          = "session.both_attended"
	EventCancellationRequested = "cancellation.requested"
	EventCancellationResolved  = "cancellation.resolved"
	EventHomeworkAssigned      = "homework.assigned"
	EventHomeworkSubmitted     = "homework.submitted"
	EventHomeworkGraded        = "homework.graded"
)

type Event struct {
	Type          string `json:"type"`
	ClassID       int64  `json:"class_id,omitempty"`
	SessionNumber int    `json:"session_number,omitempty"`
	AssignmentID  int64  `json:"assignment_id,omitempty"`
	Message       string `json:"message,omitempty"`
	Timestamp     string `json:"timestamp"`
}

type delivery struct {
	event      Event
	recipients []string
}

type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan delivery
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan delivery, 64),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.userID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				close(client.send)
			}
			if len(set) == 0 {
				delete(h.clients, client.userID)
			}
		case d := <-h.broadcast:
			h.deliver(d)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Notify fans the event out to the given users. Disconnected users are
// skipped; the hub never blocks a request on a slow socket.
func (h *Hub) Notify(event Event, userIDs ...int64) {
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	recipients := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		recipients = append(recipients, strconv.FormatInt(id, 10))
	}
	select {
	case h.broadcast <- delivery{event: event, recipients: recipients}:
	default:
		log.Printf("notification hub: dropping %s event, broadcast queue full", event.Type)
	}
}

func (h *Hub) deliver(d delivery) {
	encoded, err := json.Marshal(d.event)
	if err != nil {
		log.Printf("notification hub encode event: %v", err)
		return
	}
	for _, userID := range d.recipients {
		h.sendToUser(userID, encoded)
	}
}

func (h *Hub) sendToUser(userID string, payload []byte) {
	set, ok := h.clients[userID]
	if !ok {
		return
	}

	for client := range set {
		select {
		case client.send <- payload:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, userID)
	}
}

// ReadPump drains the connection until it closes. The socket is
// push-only; client frames are discarded.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
