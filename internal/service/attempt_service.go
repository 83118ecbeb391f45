package service

import (
	"fmt"
	"log"
	"time"

	"github.com/yourusername/quizplay-api/internal/domain/entity"
	"github.com/yourusername/quizplay-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizplay-api/internal/pkg/errors"
)

// AttemptService предоставляет методы для работы с попытками прохождения
type AttemptService struct {
	attemptRepo repository.AttemptRepository
	quizRepo    repository.QuizRepository
}

// NewAttemptService создает новый сервис попыток
func NewAttemptService(attemptRepo repository.AttemptRepository, quizRepo repository.QuizRepository) *AttemptService {
	return &AttemptService{
		attemptRepo: attemptRepo,
		quizRepo:    quizRepo,
	}
}

// BuildAttempt формирует попытку из исходов завершенной сессии.
// Счет равен числу верных исходов, итоговый процент не хранится,
// а выводится из счета и числа вопросов.
func BuildAttempt(takerID uint, quiz *entity.Quiz, outcomes []entity.QuestionOutcome, completedAt time.Time) *entity.Attempt {
	score := 0
	for _, outcome := range outcomes {
		if outcome.IsCorrect {
			score++
		}
	}
	return &entity.Attempt{
		TakerID:        takerID,
		QuizID:         quiz.ID,
		QuizTitle:      quiz.Title,
		Score:          score,
		TotalQuestions: quiz.QuestionCount(),
		Outcomes:       outcomes,
		CompletedAt:    completedAt,
	}
}

// SaveAttempt сохраняет попытку. История попыток не ограничена:
// каждое прохождение добавляет новую запись, старые не перезаписываются.
func (s *AttemptService) SaveAttempt(attempt *entity.Attempt) error {
	if attempt == nil {
		return fmt.Errorf("%w: попытка не указана", apperrors.ErrValidation)
	}
	if len(attempt.Outcomes) != attempt.TotalQuestions {
		return fmt.Errorf("%w: число исходов (%d) не совпадает с числом вопросов (%d)",
			apperrors.ErrValidation, len(attempt.Outcomes), attempt.TotalQuestions)
	}

	if err := s.attemptRepo.Save(attempt); err != nil {
		return fmt.Errorf("ошибка сохранения попытки: %w", err)
	}
	log.Printf("[AttemptService] Попытка %d сохранена: участник %d, викторина %d, счет %d/%d",
		attempt.ID, attempt.TakerID, attempt.QuizID, attempt.Score, attempt.TotalQuestions)
	return nil
}

// GetQuizAttempts возвращает все попытки по викторине
func (s *AttemptService) GetQuizAttempts(quizID uint) ([]entity.Attempt, error) {
	if _, err := s.quizRepo.GetByID(quizID); err != nil {
		return nil, err
	}
	return s.attemptRepo.GetByQuiz(quizID)
}

// GetQuizStats строит сводную статистику викторины для автора:
// число попыток, число уникальных участников, средний, лучший и
// худший проценты. Викторина без попыток дает нулевую статистику.
func (s *AttemptService) GetQuizStats(quizID uint) (*entity.QuizStats, error) {
	if _, err := s.quizRepo.GetByID(quizID); err != nil {
		return nil, err
	}
	attempts, err := s.attemptRepo.GetByQuiz(quizID)
	if err != nil {
		return nil, err
	}

	stats := &entity.QuizStats{TotalAttempts: len(attempts)}
	if len(attempts) == 0 {
		return stats, nil
	}

	takers := make(map[uint]struct{}, len(attempts))
	totalScore, totalQuestions := 0, 0
	for i, attempt := range attempts {
		takers[attempt.TakerID] = struct{}{}
		totalScore += attempt.Score
		totalQuestions += attempt.TotalQuestions

		pct := attempt.Percentage()
		if i == 0 || pct > stats.HighestPercentage {
			stats.HighestPercentage = pct
		}
		if i == 0 || pct < stats.LowestPercentage {
			stats.LowestPercentage = pct
		}
	}
	stats.UniqueTakers = len(takers)
	if totalQuestions > 0 {
		stats.AveragePercentage = float64(totalScore) / float64(totalQuestions) * 100
	}
	return stats, nil
}

// GetTakerAttempts возвращает историю попыток участника
func (s *AttemptService) GetTakerAttempts(takerID uint) ([]entity.Attempt, error) {
	return s.attemptRepo.GetByTaker(takerID)
}

// GetTakerQuizAttempts возвращает попытки участника по конкретной викторине
func (s *AttemptService) GetTakerQuizAttempts(takerID, quizID uint) ([]entity.Attempt, error) {
	return s.attemptRepo.GetByTakerAndQuiz(takerID, quizID)
}
