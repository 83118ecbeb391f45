package helper

import (
	"github.com/yourusername/quizplay-api/internal/domain/entity"
)

// QuestionOption представляет вариант ответа для фронтенда
type QuestionOption struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// ConvertOptionsToObjects преобразует массив строк в массив объектов с id и text.
// ID использует 0-based индексацию, совпадающую с индексами выбора в ответах.
func ConvertOptionsToObjects(options entity.StringArray) []QuestionOption {
	converted := make([]QuestionOption, len(options))
	for i, opt := range options {
		converted[i] = QuestionOption{ID: i, Text: opt}
	}
	return converted
}
