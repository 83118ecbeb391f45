package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizplay-api/internal/service"
)

// UserHandler обрабатывает запросы справочника участников
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler создает новый обработчик участников
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterTakerRequest представляет запрос на регистрацию участника
type RegisterTakerRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Email string `json:"email" binding:"required,email"`
}

// RegisterTaker заводит участника в справочнике
func (h *UserHandler) RegisterTaker(c *gin.Context) {
	var req RegisterTakerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.RegisterTaker(req.Name, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetTaker возвращает запись участника
func (h *UserHandler) GetTaker(c *gin.Context) {
	takerID := c.MustGet("takerID").(uint)

	user, err := h.userService.GetUser(takerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
