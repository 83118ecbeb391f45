package repository

import (
	"github.com/yourusername/quizplay-api/internal/domain/entity"
)

// QuizRepository определяет методы для работы с викторинами
type QuizRepository interface {
	Create(quiz *entity.Quiz) error
	GetByID(id uint) (*entity.Quiz, error)
	GetWithQuestions(id uint) (*entity.Quiz, error)
	// GetByJoinCode возвращает викторину с вопросами по коду подключения.
	// Поиск регистронезависимый.
	GetByJoinCode(code string) (*entity.Quiz, error)
	List(limit, offset int) ([]entity.Quiz, error)
	Delete(id uint) error
}
