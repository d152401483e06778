package handlers

import (
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/baanlist-dev/baanlist/internal/types"
)

// dashboardClient wraps a connection with a write lock. Broadcasts run
// on request goroutines and pings on a per-connection goroutine; the
// connection allows only one writer at a time.
type dashboardClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *dashboardClient) writeJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return c.conn.WriteJSON(v)
}

func (c *dashboardClient) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

var (
	dashboardClients   = make(map[*dashboardClient]bool)
	dashboardClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// BroadcastRefresh tells every connected dashboard that the property
// set changed so it should refetch.
func BroadcastRefresh(event string, propertyID uint) {
	dashboardClientsMu.RLock()
	if len(dashboardClients) == 0 {
		dashboardClientsMu.RUnlock()
		return
	}

	clientsCopy := make([]*dashboardClient, 0, len(dashboardClients))
	for client := range dashboardClients {
		clientsCopy = append(clientsCopy, client)
	}
	dashboardClientsMu.RUnlock()

	for _, client := range clientsCopy {
		err := client.writeJSON(map[string]string{
			"type":        "refresh",
			"event":       event,
			"property_id": strconv.FormatUint(uint64(propertyID), 10),
		})

		if err != nil {
			log.Printf("Failed to broadcast refresh to client: %v", err)
			dashboardClientsMu.Lock()
			delete(dashboardClients, client)
			dashboardClientsMu.Unlock()
			client.conn.Close()
		}
	}
}

// DashboardSocket keeps an authenticated dashboard session informed of
// property creations and deletions.
func DashboardSocket(c *gin.Context) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	client := &dashboardClient{conn: conn}

	dashboardClientsMu.Lock()
	dashboardClients[client] = true
	dashboardClientsMu.Unlock()

	done := make(chan struct{})

	defer func() {
		close(done)

		dashboardClientsMu.Lock()
		delete(dashboardClients, client)
		dashboardClientsMu.Unlock()
		conn.Close()

		log.Println("Dashboard WebSocket connection closed")
	}()

	err = client.writeJSON(map[string]string{
		"type":    "connected",
		"message": "WebSocket connection established",
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := client.ping(); err != nil {
					log.Printf("Ping failed: %v", err)
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline: %v", err)
			break
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Dashboard WebSocket error: %v", err)
			}
			break
		}
	}
}
