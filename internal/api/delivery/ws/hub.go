package ws

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"finos-server/internal/api/dto"
	"finos-server/pkg/logger"
	"finos-server/pkg/utils"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 32
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub tracks connected stream clients and fans quote updates out to the ones
// subscribed to the update's symbol.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	logger  *logger.Logger
}

type client struct {
	conn    *websocket.Conn
	send    chan dto.QuoteUpdate
	mu      sync.RWMutex
	symbols map[string]struct{}
}

// NewHub creates a new websocket hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  log,
	}
}

// Broadcast delivers an update to every client subscribed to its symbol.
// Clients with a full send buffer miss the update instead of blocking the
// refresh cycle.
func (h *Hub) Broadcast(update dto.QuoteUpdate) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if !c.subscribed(update.Symbol) {
			continue
		}
		select {
		case c.send <- update:
		default:
		}
	}
}

// HandleStream upgrades the request to a websocket and serves quote updates
// until the client disconnects. The client selects symbols by sending
// subscribe messages at any time.
func (h *Hub) HandleStream(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", logger.ErrorField(err))
		return err
	}

	cl := &client{
		conn:    conn,
		send:    make(chan dto.QuoteUpdate, sendBufferSize),
		symbols: make(map[string]struct{}),
	}
	h.register(cl)
	h.logger.Debug("Stream client connected")

	utils.GoSafe(func() { h.writeLoop(cl) })
	h.readLoop(cl)

	h.unregister(cl)
	h.logger.Debug("Stream client disconnected")
	return nil
}

func (h *Hub) register(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[cl] = struct{}{}
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}

// readLoop consumes subscribe messages until the connection drops.
func (h *Hub) readLoop(cl *client) {
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		cl.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var req dto.StreamSubscribeRequest
		if err := cl.conn.ReadJSON(&req); err != nil {
			return
		}
		cl.subscribe(req.Symbols)
	}
}

// writeLoop pushes buffered updates and keepalive pings to the client.
func (h *Hub) writeLoop(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case update, ok := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteJSON(update); err != nil {
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) subscribe(symbols []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.symbols = make(map[string]struct{}, len(symbols))
	for _, symbol := range symbols {
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol != "" {
			c.symbols[symbol] = struct{}{}
		}
	}
}

func (c *client) subscribed(symbol string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.symbols) == 0 {
		return false
	}
	_, ok := c.symbols[strings.ToUpper(symbol)]
	return ok
}
