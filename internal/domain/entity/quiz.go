package entity

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/yourusername/quizplay-api/internal/pkg/errors"
)

// Quiz представляет викторину: упорядоченный список вопросов плюс параметры сессии.
// Викторина неизменяема во время прохождения; редактирование выполняется внешним
// авторским контуром и никогда не затрагивает идущую сессию.
type Quiz struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	Title              string     `gorm:"size:100;not null" json:"title"`
	Subject            string     `gorm:"size:100;not null;default:''" json:"subject"`
	JoinCode           string     `gorm:"size:12;not null;uniqueIndex" json:"join_code"`
	SecondsPerQuestion int        `gorm:"not null;default:10" json:"seconds_per_question"`
	AuthorID           uint       `gorm:"not null;index;default:0" json:"author_id"`
	Questions          []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Quiz) TableName() string {
	return "quizzes"
}

// NormalizeJoinCode приводит код подключения к каноническому виду.
// Поиск по коду регистронезависимый, в базе код хранится в верхнем регистре.
func NormalizeJoinCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// QuestionCount возвращает количество вопросов
func (q *Quiz) QuestionCount() int {
	return len(q.Questions)
}

// Validate проверяет конфигурацию викторины перед стартом сессии.
// Викторина без вопросов или с некорректным вопросом непригодна для игры.
func (q *Quiz) Validate() error {
	if strings.TrimSpace(q.Title) == "" {
		return fmt.Errorf("%w: quiz title is blank", apperrors.ErrConfiguration)
	}
	if q.SecondsPerQuestion <= 0 {
		return fmt.Errorf("%w: seconds per question must be positive, got %d",
			apperrors.ErrConfiguration, q.SecondsPerQuestion)
	}
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w: quiz has no questions", apperrors.ErrConfiguration)
	}
	for i := range q.Questions {
		if err := q.Questions[i].Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}
