package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/yourusername/quizplay-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizplay-api/internal/pkg/errors"
)

// QuizRepo реализует repository.QuizRepository
type QuizRepo struct {
	db *gorm.DB
}

// NewQuizRepo создает новый репозиторий викторин
func NewQuizRepo(db *gorm.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

// Create создает новую викторину вместе с вопросами.
// Дубликат кода подключения (unique index на join_code) возвращается как ErrConflict.
func (r *QuizRepo) Create(quiz *entity.Quiz) error {
	if err := r.db.Create(quiz).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: join code %q is already taken", apperrors.ErrConflict, quiz.JoinCode)
		}
		return err
	}
	return nil
}

// GetByID возвращает викторину по ID без вопросов
func (r *QuizRepo) GetByID(id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// GetWithQuestions возвращает викторину вместе с вопросами в порядке position
func (r *QuizRepo) GetWithQuestions(id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.position ASC")
	}).First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// GetByJoinCode возвращает викторину с вопросами по коду подключения.
// Код хранится в верхнем регистре, вход нормализуется, поэтому
// поиск регистронезависимый.
func (r *QuizRepo) GetByJoinCode(code string) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.position ASC")
	}).Where("join_code = ?", entity.NormalizeJoinCode(code)).First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// List возвращает викторины с пагинацией
func (r *QuizRepo) List(limit, offset int) ([]entity.Quiz, error) {
	var quizzes []entity.Quiz
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&quizzes).Error
	return quizzes, err
}

// Delete удаляет викторину и ее вопросы
func (r *QuizRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&entity.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Quiz{}, id).Error
	})
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
