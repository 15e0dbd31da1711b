package api

import (
	"encoding/json"
	"net/http"

	"github.com/Klainnoble1/backend-logistics/realtime"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type WSHandler struct {
	hub              *realtime.Hub
	onDriverLocation func(driverID string, lat, lng float64)
}

func NewWSHandler(hub *realtime.Hub) *WSHandler { return &WSHandler{hub: hub} }

// WithDriverLocationHandler wires location updates received over the socket
// into the driver service.
func (h *WSHandler) WithDriverLocationHandler(fn func(driverID string, lat, lng float64)) *WSHandler {
	h.onDriverLocation = fn
	return h
}

// DriverSocket upgrades to WS and registers the driver connection.
func (h *WSHandler) DriverSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		// auth + role middleware run before this handler
		driverID := c.GetString("driver_id")
		if driverID == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "driver_id missing in context"})
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		h.hub.RegisterDriver(driverID, conn)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				h.hub.UnregisterDriver(driverID)
				break
			}
			var msg struct {
				Event string          `json:"event"`
				Data  json.RawMessage `json:"data"`
			}
			if err := json.Unmarshal(data, &msg); err != nil {
				continue
			}
			switch msg.Event {
			case "location.update":
				var p struct {
					Latitude  *float64 `json:"latitude"`
					Longitude *float64 `json:"longitude"`
				}
				if err := json.Unmarshal(msg.Data, &p); err == nil &&
					p.Latitude != nil && p.Longitude != nil && h.onDriverLocation != nil {
					h.onDriverLocation(driverID, *p.Latitude, *p.Longitude)
				}
			default:
				// ignore
			}
		}
	}
}

// CustomerSocket upgrades to WS and registers the customer connection for
// parcel status pushes.
func (h *WSHandler) CustomerSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "user_id missing in context"})
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		h.hub.RegisterCustomer(userID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.hub.UnregisterCustomer(userID)
				break
			}
		}
	}
}
