package entity

import (
	"time"
)

// LeaderboardEntry представляет строку таблицы лидеров викторины.
// Таблица строится из сохраненных попыток: для каждого участника
// берется его лучшая попытка.
type LeaderboardEntry struct {
	Rank           int       `json:"rank"`
	TakerID        uint      `json:"taker_id"`
	TakerName      string    `json:"taker_name"`
	TakerEmail     string    `json:"taker_email"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     float64   `json:"percentage"`
	CompletedAt    time.Time `json:"completed_at"`
}
