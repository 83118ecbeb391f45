package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/yourusername/quizplay-api/internal/service"
	"github.com/yourusername/quizplay-api/internal/websocket"
)

// WSHandler обрабатывает WebSocket подключения к трансляциям сессий
type WSHandler struct {
	sessionService *service.SessionService
	hub            *websocket.Hub
	allowedOrigins []string
}

// NewWSHandler создает новый обработчик WebSocket
func NewWSHandler(sessionService *service.SessionService, hub *websocket.Hub, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		sessionService: sessionService,
		hub:            hub,
		allowedOrigins: allowedOrigins,
	}
}

func (h *WSHandler) upgrader() gorillaws.Upgrader {
	return gorillaws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			// Пустой Origin - не браузерный клиент (curl, мобильное приложение)
			if origin == "" {
				return true
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			log.Printf("[WSHandler] Отклонен origin: %s", origin)
			return false
		},
	}
}

// HandleConnection подключает клиента к трансляции событий сессии.
// Трансляция начинается с запуска сессии; подключаться можно и раньше,
// но события пойдут только после старта.
func (h *WSHandler) HandleConnection(c *gin.Context) {
	sessionID := c.Param("id")

	// Сессия должна существовать
	if _, err := h.sessionService.GetSnapshot(sessionID); err != nil {
		respondError(c, err)
		return
	}

	// Если сессия еще не запущена, насос подключаем заранее
	if events, err := h.sessionService.Subscribe(sessionID); err == nil {
		h.hub.Attach(sessionID, events)
	}

	upgrader := h.upgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WSHandler] Ошибка при upgrade соединения: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, sessionID, conn)
	if !h.hub.Subscribe(client) {
		log.Printf("[WSHandler] Трансляция сессии %s недоступна", sessionID)
		_ = conn.Close()
		return
	}

	log.Printf("[WSHandler] Клиент %s подключен к сессии %s", client.ConnectionID, sessionID)
	go client.Serve()
}
