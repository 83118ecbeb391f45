package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizplay-api/internal/domain/entity"
	"github.com/yourusername/quizplay-api/internal/handler/dto"
	apperrors "github.com/yourusername/quizplay-api/internal/pkg/errors"
	"github.com/yourusername/quizplay-api/internal/service"
	"github.com/yourusername/quizplay-api/internal/service/session"
	"github.com/yourusername/quizplay-api/internal/websocket"
)

// SessionHandler обрабатывает запросы жизненного цикла сессий прохождения
type SessionHandler struct {
	sessionService *service.SessionService
	hub            *websocket.Hub
}

// NewSessionHandler создает новый обработчик сессий
func NewSessionHandler(sessionService *service.SessionService, hub *websocket.Hub) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		hub:            hub,
	}
}

// CreateSessionRequest представляет запрос на подключение к викторине
type CreateSessionRequest struct {
	TakerID  uint   `json:"taker_id" binding:"required"`
	JoinCode string `json:"join_code" binding:"required,min=4,max=12"`
}

// CreateSession создает сессию прохождения по коду подключения
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.sessionService.CreateSession(req.TakerID, req.JoinCode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, snapshot)
}

// StartSession запускает сессию и обратный отсчет первого вопроса
func (h *SessionHandler) StartSession(c *gin.Context) {
	sessionID := c.Param("id")

	// Подписка на события должна быть готова до первого события
	events, err := h.sessionService.Subscribe(sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.hub.Attach(sessionID, events)

	snapshot, err := h.sessionService.StartSession(sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// AnswerRequest представляет выбор участника для текущего вопроса
type AnswerRequest struct {
	Kind string `json:"kind" binding:"required,oneof=single multiple truefalse"`
	// Ровно одно из полей должно соответствовать типу
	Option  *int  `json:"option,omitempty"`
	Options []int `json:"options,omitempty"`
	Literal *bool `json:"literal,omitempty"`
}

// toAnswer собирает доменный ответ из запроса
func (r *AnswerRequest) toAnswer() (*entity.Answer, error) {
	switch r.Kind {
	case entity.QuestionKindSingle:
		if r.Option == nil {
			return nil, fmt.Errorf("%w: поле option обязательно для одиночного выбора", apperrors.ErrInvalidAnswerShape)
		}
		return entity.NewSingleChoiceAnswer(*r.Option), nil
	case entity.QuestionKindMultiple:
		return entity.NewMultiChoiceAnswer(r.Options), nil
	case entity.QuestionKindTrueFalse:
		if r.Literal == nil {
			return nil, fmt.Errorf("%w: поле literal обязательно для верно/неверно", apperrors.ErrInvalidAnswerShape)
		}
		return entity.NewTrueFalseAnswer(*r.Literal), nil
	}
	return nil, fmt.Errorf("%w: неизвестный тип ответа %q", apperrors.ErrInvalidAnswerShape, r.Kind)
}

// SubmitAnswer запоминает выбор участника для текущего вопроса.
// Повторная отправка перезаписывает предыдущий выбор.
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	sessionID := c.Param("id")

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := req.toAnswer()
	if err != nil {
		respondError(c, err)
		return
	}

	snapshot, err := h.sessionService.SubmitAnswer(sessionID, answer)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// AdvanceSession переходит к следующему вопросу.
// Если сессия на этом завершилась, в ответ включается итог.
func (h *SessionHandler) AdvanceSession(c *gin.Context) {
	sessionID := c.Param("id")

	snapshot, result, err := h.sessionService.AdvanceSession(sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	if result != nil {
		c.JSON(http.StatusOK, gin.H{"session": snapshot, "result": sessionResultResponse(result)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": snapshot})
}

// CancelSession отменяет сессию без сохранения результата
func (h *SessionHandler) CancelSession(c *gin.Context) {
	sessionID := c.Param("id")

	if err := h.sessionService.CancelSession(sessionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Сессия отменена"})
}

// GetSession возвращает снимок состояния сессии.
// Для активной сессии добавляется текущий вопрос без правильного ответа.
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("id")

	snapshot, err := h.sessionService.GetSnapshot(sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	if snapshot.State == session.StateInProgress.String() {
		question, _, err := h.sessionService.GetCurrentQuestion(sessionID)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"session": snapshot, "question": dto.NewQuestionResponse(question)})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"session": snapshot})
}

// GetResult возвращает итог завершенной сессии
func (h *SessionHandler) GetResult(c *gin.Context) {
	sessionID := c.Param("id")

	result, err := h.sessionService.GetResult(sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionResultResponse(result))
}

// sessionResultResponse собирает тело ответа для итога сессии.
// Сбой записи не скрывает результат, но виден клиенту.
func sessionResultResponse(result *service.SessionResult) gin.H {
	body := gin.H{
		"attempt": dto.NewAttemptResponse(result.Attempt, true),
		"saved":   result.Saved,
	}
	if result.SaveError != "" {
		body["save_error"] = result.SaveError
	}
	return body
}
