package repository

import (
	"github.com/yourusername/quizplay-api/internal/domain/entity"
)

// AttemptRepository определяет методы для работы с попытками прохождения.
// Хранилище append-only: попытки никогда не обновляются и не удаляются движком.
type AttemptRepository interface {
	// Save добавляет одну завершенную попытку
	Save(attempt *entity.Attempt) error
	// GetByQuiz возвращает все попытки для викторины
	GetByQuiz(quizID uint) ([]entity.Attempt, error)
	// GetByTaker возвращает все попытки участника (история результатов)
	GetByTaker(takerID uint) ([]entity.Attempt, error)
	// GetByTakerAndQuiz возвращает попытки участника в конкретной викторине.
	// Используется внешней политикой повторных попыток; само ядро
	// не ограничивает количество попыток.
	GetByTakerAndQuiz(takerID, quizID uint) ([]entity.Attempt, error)
}
