package websocket

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Время, которое разрешено писать сообщение клиенту
	writeWait = 10 * time.Second

	// Время ожидания pong-ответа от клиента
	pongWait = 30 * time.Second

	// Периодичность отправки ping-сообщений клиенту
	pingPeriod = (pongWait * 9) / 10

	// Клиент только слушает: входящие сообщения не обрабатываются
	maxMessageSize = 512

	// Размер буфера канала исходящих сообщений
	clientBufferSize = 64
)

// Client является посредником между WebSocket соединением и трансляцией
// событий сессии. Клиент только получает события, ничего не отправляя.
type Client struct {
	// Уникальный ID соединения
	ConnectionID string

	// ID сессии, события которой слушает клиент
	SessionID string

	conn *websocket.Conn

	// Буферизованный канал исходящих сообщений
	send chan []byte

	// Флаг закрытия канала send (для предотвращения panic при двойном закрытии)
	sendClosed atomic.Bool

	hub *Hub
}

// NewClient создает клиента поверх установленного соединения
func NewClient(hub *Hub, sessionID string, conn *websocket.Conn) *Client {
	return &Client{
		ConnectionID: uuid.NewString(),
		SessionID:    sessionID,
		conn:         conn,
		send:         make(chan []byte, clientBufferSize),
		hub:          hub,
	}
}

// Serve запускает насосы чтения и записи. Блокируется до закрытия
// соединения любой из сторон.
func (c *Client) Serve() {
	go c.writePump()
	c.readPump()
}

// enqueue кладет сообщение в буфер клиента.
// Возвращает false, если буфер переполнен и клиента пора отключать.
func (c *Client) enqueue(message []byte) bool {
	if c.sendClosed.Load() {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		log.Printf("[WebSocket] Буфер клиента %s переполнен, отключение", c.ConnectionID)
		return false
	}
}

// closeSend закрывает канал исходящих сообщений ровно один раз
func (c *Client) closeSend() {
	if c.sendClosed.CompareAndSwap(false, true) {
		close(c.send)
	}
}

// readPump вычитывает входящий поток ради обработки pong и закрытия.
// Любое содержательное сообщение от клиента игнорируется.
func (c *Client) readPump() {
	defer func() {
		c.hub.unsubscribe(c)
		if err := c.conn.Close(); err != nil {
			log.Printf("[WebSocket] Ошибка закрытия соединения %s: %v", c.ConnectionID, err)
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WebSocket] Неожиданное закрытие соединения %s: %v", c.ConnectionID, err)
			}
			return
		}
	}
}

// writePump пишет сообщения из буфера в соединение и поддерживает ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
