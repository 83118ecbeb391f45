package dto

import (
	"time"

	"github.com/yourusername/quizplay-api/internal/domain/entity"
	"github.com/yourusername/quizplay-api/internal/handler/helper"
)

// QuestionResponse представляет вопрос в формате для ответа клиенту.
// Правильные ответы в DTO не попадают: участник видит только варианты.
type QuestionResponse struct {
	ID        uint                    `json:"id"`
	QuizID    uint                    `json:"quiz_id"`
	Position  int                     `json:"position"`
	Text      string                  `json:"text"`
	Kind      string                  `json:"kind"`
	Options   []helper.QuestionOption `json:"options"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// QuizResponse представляет викторину в формате для ответа клиенту
type QuizResponse struct {
	ID                 uint               `json:"id"`
	Title              string             `json:"title"`
	Subject            string             `json:"subject,omitempty"`
	JoinCode           string             `json:"join_code"`
	SecondsPerQuestion int                `json:"seconds_per_question"`
	QuestionCount      int                `json:"question_count"`
	Questions          []QuestionResponse `json:"questions,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// NewQuestionResponse создает DTO для вопроса
func NewQuestionResponse(q *entity.Question) QuestionResponse {
	return QuestionResponse{
		ID:        q.ID,
		QuizID:    q.QuizID,
		Position:  q.Position,
		Text:      q.Text,
		Kind:      q.Kind,
		Options:   helper.ConvertOptionsToObjects(q.Options),
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}

// NewQuizResponse создает DTO для викторины.
// withQuestions определяет, включать ли вопросы в ответ.
func NewQuizResponse(quiz *entity.Quiz, withQuestions bool) *QuizResponse {
	resp := &QuizResponse{
		ID:                 quiz.ID,
		Title:              quiz.Title,
		Subject:            quiz.Subject,
		JoinCode:           quiz.JoinCode,
		SecondsPerQuestion: quiz.SecondsPerQuestion,
		QuestionCount:      quiz.QuestionCount(),
		CreatedAt:          quiz.CreatedAt,
		UpdatedAt:          quiz.UpdatedAt,
	}
	if withQuestions {
		resp.Questions = make([]QuestionResponse, 0, len(quiz.Questions))
		for i := range quiz.Questions {
			resp.Questions = append(resp.Questions, NewQuestionResponse(&quiz.Questions[i]))
		}
	}
	return resp
}

// NewListQuizResponse создает DTO для списка викторин без вопросов
func NewListQuizResponse(quizzes []entity.Quiz) []*QuizResponse {
	responses := make([]*QuizResponse, 0, len(quizzes))
	for i := range quizzes {
		responses = append(responses, NewQuizResponse(&quizzes[i], false))
	}
	return responses
}
