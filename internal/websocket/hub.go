package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"flowsync/pkg/logger"
	"flowsync/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

const (
	broadcastBuffer = 256
	clientBuffer    = 32
	writeWait       = 10 * time.Second
)

// conn adalah bagian dari *websocket.Conn yang dipakai hub.
type conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Client merepresentasikan klien WebSocket. Pesan ditulis oleh goroutine
// writer milik klien sendiri lewat channel send.
type Client struct {
	conn      conn
	send      chan []byte
	closeOnce sync.Once
}

func (c *Client) close() {
	c.closeOnce.Do(func() { _ = c.conn.Close() })
}

// writer menulis pesan satu per satu sampai send ditutup hub atau
// penulisan gagal.
func (c *Client) writer(h *Hub) {
	defer c.close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.SystemLogger.Info("Websocket write failed", zap.Error(err))
			h.Unregister(c)
			return
		}
	}
}

type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub mengelola koneksi WebSocket dan menyiarkan activity log ke semua klien.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run menjalankan loop Hub sampai Stop dipanggil. Loop ini tidak pernah
// menulis ke koneksi, jadi klien yang lambat tidak bisa menahannya.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			metrics.WebsocketClients.Set(float64(len(h.clients)))
		case client := <-h.unregister:
			h.remove(client)
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// buffer penuh: klien dianggap mati
					logger.SystemLogger.Warn("Dropping slow websocket client")
					h.remove(client)
				}
			}
		case <-h.done:
			for client := range h.clients {
				h.remove(client)
			}
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	// menutup koneksi juga melepas writer yang sedang tertahan di WriteMessage
	client.close()
	metrics.WebsocketClients.Set(float64(len(h.clients)))
}

// Stop menghentikan Run dan menutup semua klien. Aman dipanggil berulang.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Publish mengantrekan v untuk semua klien tanpa blocking. Kalau buffer
// penuh, pesan dibuang.
func (h *Hub) Publish(v any) {
	msg, err := json.Marshal(envelope{Type: "activity", Data: v})
	if err != nil {
		logger.ErrorLogger.Error("Cannot encode websocket message", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		logger.SystemLogger.Warn("Websocket broadcast buffer full, dropping message")
	}
}

func (h *Hub) Register(c conn) *Client {
	client := &Client{conn: c, send: make(chan []byte, clientBuffer)}
	select {
	case h.register <- client:
		go client.writer(h)
	case <-h.done:
		client.close()
	}
	return client
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Handler melayani feed activity. Klien hanya mendengarkan; pesan yang
// mereka kirim dibuang.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		client := h.Register(c)
		defer h.Unregister(client)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	})
}

// RequireUpgrade menolak request HTTP biasa ke route websocket.
func RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}
