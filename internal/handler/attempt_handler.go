package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizplay-api/internal/handler/dto"
	"github.com/yourusername/quizplay-api/internal/service"
)

// AttemptHandler обрабатывает запросы истории попыток
type AttemptHandler struct {
	attemptService *service.AttemptService
}

// NewAttemptHandler создает новый обработчик попыток
func NewAttemptHandler(attemptService *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

// GetTakerAttempts возвращает историю попыток участника.
// Параметр quiz_id сужает выборку до одной викторины.
func (h *AttemptHandler) GetTakerAttempts(c *gin.Context) {
	takerID := c.MustGet("takerID").(uint)

	if quizID := queryInt(c, "quiz_id", 0); quizID > 0 {
		attempts, err := h.attemptService.GetTakerQuizAttempts(takerID, uint(quizID))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewListAttemptResponse(attempts))
		return
	}

	attempts, err := h.attemptService.GetTakerAttempts(takerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListAttemptResponse(attempts))
}
