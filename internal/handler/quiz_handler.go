package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizplay-api/internal/domain/entity"
	"github.com/yourusername/quizplay-api/internal/handler/dto"
	"github.com/yourusername/quizplay-api/internal/service"
)

// QuizHandler обрабатывает запросы, связанные с викторинами
type QuizHandler struct {
	quizService        *service.QuizService
	attemptService     *service.AttemptService
	leaderboardService *service.LeaderboardService
}

// NewQuizHandler создает новый обработчик викторин
func NewQuizHandler(
	quizService *service.QuizService,
	attemptService *service.AttemptService,
	leaderboardService *service.LeaderboardService,
) *QuizHandler {
	return &QuizHandler{
		quizService:        quizService,
		attemptService:     attemptService,
		leaderboardService: leaderboardService,
	}
}

// CreateQuestionRequest представляет вопрос в запросе на создание викторины
type CreateQuestionRequest struct {
	Text string `json:"text" binding:"required,min=3,max=500"`
	Kind string `json:"kind" binding:"required,oneof=single multiple truefalse"`
	// Для single и multiple; для truefalse варианты фиксированы
	Options        []string `json:"options" binding:"omitempty,max=6"`
	CorrectOption  *int     `json:"correct_option,omitempty"`
	CorrectOptions []int    `json:"correct_options,omitempty"`
	CorrectAnswer  *bool    `json:"correct_answer,omitempty"`
}

// CreateQuizRequest представляет запрос на создание викторины
type CreateQuizRequest struct {
	Title              string                  `json:"title" binding:"required,min=3,max=100"`
	Subject            string                  `json:"subject" binding:"omitempty,max=100"`
	JoinCode           string                  `json:"join_code" binding:"omitempty,min=4,max=12"`
	SecondsPerQuestion int                     `json:"seconds_per_question" binding:"required,min=1,max=600"`
	AuthorID           uint                    `json:"author_id" binding:"required"`
	Questions          []CreateQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// toEntity собирает сущность вопроса из запроса
func (r *CreateQuestionRequest) toEntity() entity.Question {
	question := entity.Question{
		Text:    r.Text,
		Kind:    r.Kind,
		Options: entity.StringArray(r.Options),
	}
	switch r.Kind {
	case entity.QuestionKindSingle:
		if r.CorrectOption != nil {
			question.CorrectOption = *r.CorrectOption
		}
	case entity.QuestionKindMultiple:
		question.CorrectOptions = entity.IntArray(r.CorrectOptions)
	case entity.QuestionKindTrueFalse:
		question.Options = entity.TrueFalseOptions()
		if r.CorrectAnswer != nil {
			if *r.CorrectAnswer {
				question.CorrectLiteral = entity.TrueLiteral
			} else {
				question.CorrectLiteral = entity.FalseLiteral
			}
		}
	}
	return question
}

// CreateQuiz обрабатывает запрос на создание викторины
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	questions := make([]entity.Question, 0, len(req.Questions))
	for i := range req.Questions {
		questions = append(questions, req.Questions[i].toEntity())
	}

	quiz := &entity.Quiz{
		Title:              req.Title,
		Subject:            req.Subject,
		JoinCode:           req.JoinCode,
		SecondsPerQuestion: req.SecondsPerQuestion,
		AuthorID:           req.AuthorID,
		Questions:          questions,
	}

	created, err := h.quizService.CreateQuiz(quiz)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuizResponse(created, false))
}

// GetQuiz возвращает информацию о викторине без вопросов
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint) // Получаем из контекста

	quiz, err := h.quizService.GetQuiz(quizID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz, false))
}

// GetQuizWithQuestions возвращает викторину вместе с вопросами.
// Правильные ответы в ответ не попадают.
func (h *QuizHandler) GetQuizWithQuestions(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	quiz, err := h.quizService.GetQuizWithQuestions(quizID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz, true))
}

// GetQuizByCode возвращает викторину по коду подключения
func (h *QuizHandler) GetQuizByCode(c *gin.Context) {
	code := c.Param("code")

	quiz, err := h.quizService.GetQuizByCode(code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz, true))
}

// ListQuizzes возвращает список викторин с пагинацией
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 10)

	quizzes, err := h.quizService.ListQuizzes(page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListQuizResponse(quizzes))
}

// DeleteQuiz удаляет викторину вместе с вопросами
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	if err := h.quizService.DeleteQuiz(quizID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Викторина удалена"})
}

// GetLeaderboard возвращает таблицу лидеров викторины
func (h *QuizHandler) GetLeaderboard(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	entries, err := h.leaderboardService.GetLeaderboard(quizID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quiz_id": quizID, "entries": entries})
}

// GetQuizStats возвращает сводную статистику викторины для автора
func (h *QuizHandler) GetQuizStats(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	stats, err := h.attemptService.GetQuizStats(quizID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quiz_id": quizID, "stats": stats})
}

// GetQuizAttempts возвращает все попытки по викторине
func (h *QuizHandler) GetQuizAttempts(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	attempts, err := h.attemptService.GetQuizAttempts(quizID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListAttemptResponse(attempts))
}
