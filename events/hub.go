package events

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/restaurant-table-service/models"
	"github.com/yeremiapane/restaurant-table-service/utils"
)

// Event types pushed to staff dashboards.
const (
	EventTableCreate  = "table_create"
	EventTableUpdate  = "table_update"
	EventTableDelete  = "table_delete"
	EventSessionOpen  = "session_open"
	EventSessionClose = "session_close"
	EventAreaUpdate   = "area_update"
	EventStatsUpdate  = "stats_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected dashboard client (cashier terminals, waiter
// tablets) and fans table lifecycle events out to them.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection with its staff role.
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient drops and closes a connection.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

func BroadcastTableCreate(table models.Table) {
	broadcast(Message{Event: EventTableCreate, Data: table})
}

func BroadcastTableUpdate(table models.Table) {
	broadcast(Message{Event: EventTableUpdate, Data: table})
}

func BroadcastTableDelete(tableID uint) {
	broadcast(Message{Event: EventTableDelete, Data: map[string]interface{}{"table_id": tableID}})
}

func BroadcastSessionOpen(session models.UsageSession) {
	broadcast(Message{Event: EventSessionOpen, Data: session})
}

func BroadcastSessionClose(session models.UsageSession) {
	broadcast(Message{Event: EventSessionClose, Data: session})
}

func BroadcastAreaUpdate(areas []models.AreaOption) {
	broadcast(Message{Event: EventAreaUpdate, Data: areas})
}

func BroadcastStats(stats interface{}) {
	broadcast(Message{Event: EventStatsUpdate, Data: stats})
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling event: %v", err)
		return
	}

	for conn, role := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending event to %s client: %v", role, err)
		}
	}
}
