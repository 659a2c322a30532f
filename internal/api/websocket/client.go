package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/KevinKickass/OpenMDIB/internal/auth"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Time allowed for the auth message
	authWait = 10 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	// Send channel buffer size
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client represents a WebSocket client connection
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	logger    *zap.Logger
	principal auth.Principal

	mu sync.Mutex
	// filter holds the subscribed report types; empty means all.
	filter map[model.ReportType]bool
}

func (c *Client) remoteAddr() string {
	return c.conn.RemoteAddr().String()
}

func (c *Client) wants(t model.ReportType) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.filter) == 0 || c.filter[t]
}

// readPump handles reading messages from the WebSocket connection
func (c *Client) readPump() {
	registered := false
	defer func() {
		if registered {
			select {
			case c.hub.unregister <- c:
			case <-c.hub.stop:
			}
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(authWait))

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				c.logger.Warn("WebSocket read error",
					zap.Error(err),
					zap.String("remote_addr", c.remoteAddr()))
			}
			return
		}

		// First message MUST be authentication
		if !registered {
			if msg.Type != MessageTypeAuth || msg.Token == "" {
				c.reject("First message must be an auth message with a token")
				return
			}
			principal, err := c.hub.authService.Authenticate(msg.Token, c.remoteAddr())
			if err != nil {
				c.reject("Invalid or expired token")
				return
			}
			if !principal.Can(auth.PermRead) {
				c.reject("Missing permission " + string(auth.PermRead))
				return
			}
			c.principal = principal

			c.conn.SetReadDeadline(time.Now().Add(pongWait))
			c.conn.SetPongHandler(func(string) error {
				c.conn.SetReadDeadline(time.Now().Add(pongWait))
				return nil
			})

			c.sendMessage(NewMessage(MessageTypeAuthSuccess, AuthData{
				Principal:   principal.Name,
				Permissions: permissionNames(principal.Permissions),
			}))
			select {
			case c.hub.register <- c:
				registered = true
			case <-c.hub.stop:
				return
			}
			go c.writePump()
			continue
		}

		c.handleMessage(msg)
	}
}

func permissionNames(perms []auth.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

// reject writes the failure directly; the write pump is not running yet.
func (c *Client) reject(reason string) {
	c.logger.Warn("WebSocket authentication failed",
		zap.String("remote_addr", c.remoteAddr()),
		zap.String("reason", reason))
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteJSON(NewMessage(MessageTypeAuthFailed, AuthData{Reason: reason}))
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason))
}

// sendMessage queues a message before the client is registered.
func (c *Client) sendMessage(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.send <- data
}

func (c *Client) handleMessage(msg ClientMessage) {
	switch msg.Type {
	case MessageTypeSubscribe:
		filter := make(map[model.ReportType]bool, len(msg.Actions))
		for _, name := range msg.Actions {
			t, err := model.ParseReportType(name)
			if err != nil {
				c.logger.Debug("Unknown report type in subscription",
					zap.String("remote_addr", c.remoteAddr()),
					zap.String("action", name))
				continue
			}
			filter[t] = true
		}
		c.mu.Lock()
		c.filter = filter
		c.mu.Unlock()
		c.logger.Debug("WebSocket subscription changed",
			zap.String("remote_addr", c.remoteAddr()),
			zap.Strings("actions", msg.Actions))
	default:
		c.logger.Debug("Ignoring client message",
			zap.String("remote_addr", c.remoteAddr()),
			zap.String("type", string(msg.Type)))
	}
}

// writePump handles writing messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs upgrades the request. The client has to authenticate with its
// first message before it receives anything.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Error("WebSocket upgrade error",
			zap.Error(err),
			zap.String("remote_addr", r.RemoteAddr))
		return
	}

	client := &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		logger: hub.logger,
	}
	go client.readPump()
}
