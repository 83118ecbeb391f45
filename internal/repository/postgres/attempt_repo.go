package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/quizplay-api/internal/domain/entity"
)

// AttemptRepo реализует repository.AttemptRepository
type AttemptRepo struct {
	db *gorm.DB
}

// NewAttemptRepo создает новый репозиторий попыток
func NewAttemptRepo(db *gorm.DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

// Save добавляет завершенную попытку. Только insert, без update.
func (r *AttemptRepo) Save(attempt *entity.Attempt) error {
	return r.db.Create(attempt).Error
}

// GetByQuiz возвращает все попытки для викторины.
// Порядок стабильный (completed_at, id), чтобы агрегация лидерборда
// не зависела от порядка выдачи базы.
func (r *AttemptRepo) GetByQuiz(quizID uint) ([]entity.Attempt, error) {
	var attempts []entity.Attempt
	err := r.db.Where("quiz_id = ?", quizID).
		Order("completed_at ASC, id ASC").
		Find(&attempts).Error
	return attempts, err
}

// GetByTaker возвращает историю попыток участника, последние первыми
func (r *AttemptRepo) GetByTaker(takerID uint) ([]entity.Attempt, error) {
	var attempts []entity.Attempt
	err := r.db.Where("taker_id = ?", takerID).
		Order("completed_at DESC").
		Find(&attempts).Error
	return attempts, err
}

// GetByTakerAndQuiz возвращает попытки участника в конкретной викторине
func (r *AttemptRepo) GetByTakerAndQuiz(takerID, quizID uint) ([]entity.Attempt, error) {
	var attempts []entity.Attempt
	err := r.db.Where("taker_id = ? AND quiz_id = ?", takerID, quizID).
		Order("completed_at ASC").
		Find(&attempts).Error
	return attempts, err
}
