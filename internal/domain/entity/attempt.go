package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// QuestionOutcome представляет зафиксированный, оцененный исход одного вопроса сессии.
// Given == nil означает, что время вышло без единого выбора.
type QuestionOutcome struct {
	QuestionIndex  int     `json:"question_index"`
	Given          *Answer `json:"given,omitempty"`
	Correct        *Answer `json:"correct"`
	IsCorrect      bool    `json:"is_correct"`
	SecondsElapsed int     `json:"seconds_elapsed"`
}

// OutcomeList - пользовательский тип для хранения исходов вопросов в JSONB
type OutcomeList []QuestionOutcome

// Scan реализует интерфейс sql.Scanner для OutcomeList
func (o *OutcomeList) Scan(value interface{}) error {
	if value == nil {
		*o = OutcomeList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*o = OutcomeList{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для OutcomeList
func (o OutcomeList) Value() (driver.Value, error) {
	if o == nil || len(o) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// Attempt представляет одно завершенное прохождение викторины одним участником.
// Запись неизменяема после сохранения; хранилище попыток append-only,
// движок никогда не обновляет и не удаляет попытки.
type Attempt struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	TakerID        uint        `gorm:"not null;index" json:"taker_id"`
	QuizID         uint        `gorm:"not null;index" json:"quiz_id"`
	QuizTitle      string      `gorm:"size:100;not null" json:"quiz_title"` // Снимок на момент прохождения
	Score          int         `gorm:"not null;default:0" json:"score"`
	TotalQuestions int         `gorm:"not null;default:0" json:"total_questions"`
	Outcomes       OutcomeList `gorm:"type:jsonb;not null" json:"outcomes"`
	CompletedAt    time.Time   `gorm:"not null;index" json:"completed_at"`
	CreatedAt      time.Time   `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Attempt) TableName() string {
	return "attempts"
}

// Percentage возвращает процент правильных ответов.
// Процент всегда вычисляется на чтении и никогда не хранится,
// чтобы исключить устаревшие или округленные персистентные значения.
func (a *Attempt) Percentage() float64 {
	if a.TotalQuestions == 0 {
		return 0
	}
	return float64(a.Score) / float64(a.TotalQuestions) * 100
}

// QuizStats представляет сводную статистику викторины по всем попыткам.
// Средний процент взвешен по числу вопросов: суммарный счет делится
// на суммарное число вопросов, а не усредняются проценты попыток.
type QuizStats struct {
	TotalAttempts     int     `json:"total_attempts"`
	UniqueTakers      int     `json:"unique_takers"`
	AveragePercentage float64 `json:"average_percentage"`
	HighestPercentage float64 `json:"highest_percentage"`
	LowestPercentage  float64 `json:"lowest_percentage"`
}
