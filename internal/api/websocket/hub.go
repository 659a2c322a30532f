package websocket

import (
	"encoding/json"
	"sync"

	"github.com/KevinKickass/OpenMDIB/internal/auth"
	"github.com/KevinKickass/OpenMDIB/internal/mapping"
	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protojson"
)

type outgoing struct {
	data   []byte
	report *mdib.ChangeSet
}

// Hub maintains authenticated WebSocket clients and broadcasts MDIB change
// reports and system messages to them.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Committed MDIB changes waiting to be encoded
	changes chan mdib.ChangeSet

	// Other messages to broadcast
	broadcast chan Message

	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	stopOnce   sync.Once

	mu sync.RWMutex

	logger      *zap.Logger
	authService *auth.AuthService
	mapper      *mapping.Mapper
}

func NewHub(logger *zap.Logger, authService *auth.AuthService, mapper *mapping.Mapper) *Hub {
	return &Hub{
		changes:     make(chan mdib.ChangeSet, 256),
		broadcast:   make(chan Message, 256),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		stop:        make(chan struct{}),
		clients:     make(map[*Client]bool),
		logger:      logger,
		authService: authService,
		mapper:      mapper,
	}
}

// Attach forwards every change of m to the clients. The returned function
// detaches.
func (h *Hub) Attach(m *mdib.Mdib) func() {
	return m.Subscribe(h.Observe)
}

// Observe is an mdib.Observer. It never blocks; when the hub falls behind
// the change is dropped for every client.
func (h *Hub) Observe(cs mdib.ChangeSet) {
	select {
	case h.changes <- cs:
	default:
		h.logger.Warn("Hub change queue full, report dropped",
			zap.Stringer("report_type", cs.Type),
			zap.Uint64("mdib_version", cs.Version.MdibVersion))
	}
}

// Run starts the hub's main event loop. It returns after Stop.
func (h *Hub) Run() {
	h.logger.Info("WebSocket Hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("WebSocket client registered",
				zap.String("remote_addr", client.remoteAddr()),
				zap.String("principal", client.principal.Name),
				zap.Int("total_clients", total))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Info("WebSocket client unregistered",
					zap.String("remote_addr", client.remoteAddr()),
					zap.Int("total_clients", len(h.clients)))
			}
			h.mu.Unlock()

		case cs := <-h.changes:
			data, err := h.encodeReport(cs)
			if err != nil {
				h.logger.Error("Failed to encode report",
					zap.Stringer("report_type", cs.Type),
					zap.Uint64("mdib_version", cs.Version.MdibVersion),
					zap.Error(err))
				continue
			}
			h.deliver(outgoing{data: data, report: &cs})

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				h.logger.Error("Failed to marshal broadcast message",
					zap.Error(err))
				continue
			}
			h.deliver(outgoing{data: data})

		case <-h.stop:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("WebSocket Hub stopped")
			return
		}
	}
}

func (h *Hub) deliver(msg outgoing) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if msg.report != nil && !client.wants(msg.report.Type) {
			continue
		}
		select {
		case client.send <- msg.data:
		default:
			// Client send channel full - unregister slow/dead client
			close(client.send)
			delete(h.clients, client)
			h.logger.Warn("Client send buffer full, unregistering",
				zap.String("remote_addr", client.remoteAddr()))
		}
	}
}

func (h *Hub) encodeReport(cs mdib.ChangeSet) ([]byte, error) {
	msg, err := h.mapper.EncodeReport(cs.Report)
	if err != nil {
		return nil, err
	}
	raw, err := protojson.MarshalOptions{UseProtoNames: true}.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return json.Marshal(NewMessage(MessageTypeReport, ReportData{
		ReportType:  cs.Type.String(),
		MdibVersion: cs.Version.MdibVersion,
		SequenceID:  cs.Version.SequenceID,
		Handles:     cs.Handles,
		Report:      raw,
	}))
}

// Broadcast sends a message to all connected clients
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("Hub broadcast channel full, message dropped",
			zap.String("message_type", string(msg.Type)))
	}
}

// Stop ends Run and closes every client.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
