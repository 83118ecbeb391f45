package dto

import (
	"time"

	"github.com/yourusername/quizplay-api/internal/domain/entity"
)

// OutcomeResponse представляет исход одного вопроса в завершенной попытке.
// Здесь правильный ответ уже виден: попытка закончена.
type OutcomeResponse struct {
	QuestionIndex  int            `json:"question_index"`
	Given          *entity.Answer `json:"given,omitempty"`
	Correct        *entity.Answer `json:"correct"`
	IsCorrect      bool           `json:"is_correct"`
	SecondsElapsed int            `json:"seconds_elapsed"`
}

// AttemptResponse представляет попытку прохождения в формате для клиента
type AttemptResponse struct {
	ID             uint              `json:"id"`
	TakerID        uint              `json:"taker_id"`
	QuizID         uint              `json:"quiz_id"`
	QuizTitle      string            `json:"quiz_title"`
	Score          int               `json:"score"`
	TotalQuestions int               `json:"total_questions"`
	Percentage     float64           `json:"percentage"`
	Outcomes       []OutcomeResponse `json:"outcomes,omitempty"`
	CompletedAt    time.Time         `json:"completed_at"`
}

// NewAttemptResponse создает DTO для попытки.
// withOutcomes определяет, включать ли поквестионную разбивку.
func NewAttemptResponse(attempt *entity.Attempt, withOutcomes bool) *AttemptResponse {
	resp := &AttemptResponse{
		ID:             attempt.ID,
		TakerID:        attempt.TakerID,
		QuizID:         attempt.QuizID,
		QuizTitle:      attempt.QuizTitle,
		Score:          attempt.Score,
		TotalQuestions: attempt.TotalQuestions,
		Percentage:     attempt.Percentage(),
		CompletedAt:    attempt.CompletedAt,
	}
	if withOutcomes {
		resp.Outcomes = make([]OutcomeResponse, 0, len(attempt.Outcomes))
		for _, outcome := range attempt.Outcomes {
			resp.Outcomes = append(resp.Outcomes, OutcomeResponse{
				QuestionIndex:  outcome.QuestionIndex,
				Given:          outcome.Given,
				Correct:        outcome.Correct,
				IsCorrect:      outcome.IsCorrect,
				SecondsElapsed: outcome.SecondsElapsed,
			})
		}
	}
	return resp
}

// NewListAttemptResponse создает DTO для списка попыток без разбивки
func NewListAttemptResponse(attempts []entity.Attempt) []*AttemptResponse {
	responses := make([]*AttemptResponse, 0, len(attempts))
	for i := range attempts {
		responses = append(responses, NewAttemptResponse(&attempts[i], false))
	}
	return responses
}
