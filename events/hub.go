package events

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/canteen-app/models"
)

// Event types yang disiarkan ke dashboard admin dan layar dapur.
const (
	EventOrderCreated    = "order:created"
	EventOrderCancelled  = "order:cancelled"
	EventOrderCheckin    = "order:checkin"
	EventOrderNoShow     = "order:noshow"
	EventOrderBulk       = "order:bulk_created"
	EventUserBlacklisted = "user:blacklisted"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung semua client websocket (kitchen, admin) untuk broadcast.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient menambahkan connection ke set dengan role-nya.
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient melepaskan connection.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

func BroadcastOrderCreated(order models.Order) {
	broadcast(Message{Event: EventOrderCreated, Data: order})
}

func BroadcastOrderCancelled(order models.Order) {
	broadcast(Message{Event: EventOrderCancelled, Data: order})
}

func BroadcastOrderCheckin(order models.Order) {
	broadcast(Message{Event: EventOrderCheckin, Data: order})
}

type NoShowPayload struct {
	OrderID     uint   `json:"order_id"`
	UserID      uint   `json:"user_id"`
	UserName    string `json:"user_name"`
	NoShowCount int    `json:"no_show_count"`
}

func BroadcastOrderNoShow(payload NoShowPayload) {
	broadcast(Message{Event: EventOrderNoShow, Data: payload})
}

type BulkCreatedPayload struct {
	Count  int  `json:"count"`
	UserID uint `json:"user_id"`
}

func BroadcastBulkCreated(count int, userID uint) {
	broadcast(Message{Event: EventOrderBulk, Data: BulkCreatedPayload{Count: count, UserID: userID}})
}

type BlacklistedPayload struct {
	UserID      uint   `json:"user_id"`
	UserName    string `json:"user_name"`
	NoShowCount int    `json:"no_show_count"`
}

func BroadcastUserBlacklisted(payload BlacklistedPayload) {
	broadcast(Message{Event: EventUserBlacklisted, Data: payload})
}

// broadcast mengirim pesan ke semua client. Fire-and-forget: client yang
// gagal ditulisi dilewati saja, tidak ada jaminan delivery.
func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling event %s: %v", msg.Event, err)
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending %s to client: %v", msg.Event, err)
			continue
		}
	}
}
