package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/yourusername/quizplay-api/internal/service/session"
)

// Hub транслирует события сессий подключенным клиентам.
// На каждую сессию заводится один насос, вычитывающий канал событий
// движка и рассылающий их всем подписчикам. Насос завершается на
// терминальном событии сессии.
type Hub struct {
	mu    sync.Mutex
	feeds map[string]*sessionFeed
}

type sessionFeed struct {
	subscribers map[*Client]struct{}
}

// NewHub создает пустой хаб
func NewHub() *Hub {
	return &Hub{
		feeds: make(map[string]*sessionFeed),
	}
}

// Attach начинает трансляцию событий сессии. Повторный вызов для той же
// сессии игнорируется: насос уже работает.
func (h *Hub) Attach(sessionID string, events <-chan session.Event) {
	h.mu.Lock()
	if _, ok := h.feeds[sessionID]; ok {
		h.mu.Unlock()
		return
	}
	h.feeds[sessionID] = &sessionFeed{subscribers: make(map[*Client]struct{})}
	h.mu.Unlock()

	go h.pump(sessionID, events)
	log.Printf("[WebSocketHub] Трансляция сессии %s запущена", sessionID)
}

// Subscribe подключает клиента к трансляции его сессии.
// Возвращает false, если трансляция не ведется.
func (h *Hub) Subscribe(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	feed, ok := h.feeds[client.SessionID]
	if !ok {
		return false
	}
	feed.subscribers[client] = struct{}{}
	return true
}

// unsubscribe отключает клиента от трансляции
func (h *Hub) unsubscribe(client *Client) {
	h.mu.Lock()
	if feed, ok := h.feeds[client.SessionID]; ok {
		delete(feed.subscribers, client)
	}
	h.mu.Unlock()
	client.closeSend()
}

// pump пересылает события сессии подписчикам до терминального события
func (h *Hub) pump(sessionID string, events <-chan session.Event) {
	for ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			log.Printf("[WebSocketHub] Ошибка сериализации события %s: %v", ev.Type, err)
			continue
		}

		h.broadcast(sessionID, payload)

		if ev.Type == session.EventCompleted || ev.Type == session.EventCancelled {
			h.closeFeed(sessionID)
			return
		}
	}
}

// broadcast рассылает сообщение подписчикам сессии.
// Клиент с переполненным буфером отключается.
func (h *Hub) broadcast(sessionID string, payload []byte) {
	h.mu.Lock()
	feed, ok := h.feeds[sessionID]
	if !ok {
		h.mu.Unlock()
		return
	}
	var stalled []*Client
	for client := range feed.subscribers {
		if !client.enqueue(payload) {
			stalled = append(stalled, client)
		}
	}
	for _, client := range stalled {
		delete(feed.subscribers, client)
	}
	h.mu.Unlock()

	for _, client := range stalled {
		client.closeSend()
	}
}

// closeFeed завершает трансляцию и отключает всех подписчиков
func (h *Hub) closeFeed(sessionID string) {
	h.mu.Lock()
	feed, ok := h.feeds[sessionID]
	if ok {
		delete(h.feeds, sessionID)
	}
	h.mu.Unlock()
	if !ok {
		return
	}

	for client := range feed.subscribers {
		client.closeSend()
	}
	log.Printf("[WebSocketHub] Трансляция сессии %s завершена", sessionID)
}
