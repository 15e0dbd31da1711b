package realtime

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks live websocket connections for drivers and customers. Delivery
// is best-effort: a disconnected peer simply misses the event.
type Hub struct {
	mu         sync.RWMutex
	byDriver   map[string]*wsConn
	byCustomer map[string]*wsConn
}

func NewHub() *Hub {
	return &Hub{byDriver: make(map[string]*wsConn), byCustomer: make(map[string]*wsConn)}
}

// wsConn wraps a websocket connection with a write mutex to serialize writes.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (h *Hub) RegisterDriver(driverID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.byDriver[driverID]; ok {
		old.conn.Close()
	}
	h.byDriver[driverID] = &wsConn{conn: conn}
}

func (h *Hub) UnregisterDriver(driverID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.byDriver[driverID]; ok {
		c.conn.Close()
		delete(h.byDriver, driverID)
	}
}

func (h *Hub) RegisterCustomer(customerID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.byCustomer[customerID]; ok {
		old.conn.Close()
	}
	h.byCustomer[customerID] = &wsConn{conn: conn}
}

func (h *Hub) UnregisterCustomer(customerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.byCustomer[customerID]; ok {
		c.conn.Close()
		delete(h.byCustomer, customerID)
	}
}

// NotifyDriver sends a typed event payload to the driver if connected.
func (h *Hub) NotifyDriver(driverID string, event string, payload any) error {
	h.mu.RLock()
	wc, ok := h.byDriver[driverID]
	h.mu.RUnlock()
	if !ok {
		log.Printf("ws: driver %s not connected; drop event %s", driverID, event)
		return nil
	}
	return wc.write(event, payload)
}

// NotifyCustomer sends an event to the customer if connected.
func (h *Hub) NotifyCustomer(customerID string, event string, payload any) error {
	h.mu.RLock()
	wc, ok := h.byCustomer[customerID]
	h.mu.RUnlock()
	if !ok {
		log.Printf("ws: customer %s not connected; drop event %s", customerID, event)
		return nil
	}
	return wc.write(event, payload)
}

func (c *wsConn) write(event string, payload any) error {
	msg := map[string]any{"event": event, "data": payload}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteJSON(msg); err != nil {
		log.Printf("ws: write failed for event %s: %v", event, err)
		return err
	}
	return nil
}

// ParcelStatusPayload is sent to customers on parcel status changes.
type ParcelStatusPayload struct {
	ParcelID   string `json:"parcel_id"`
	TrackingID string `json:"tracking_id"`
	Status     string `json:"status"`
}

// AssignmentPayload is sent to a driver when a parcel lands on them.
type AssignmentPayload struct {
	ParcelID      string `json:"parcel_id"`
	TrackingID    string `json:"tracking_id"`
	PickupAddress string `json:"pickup_address"`
}
