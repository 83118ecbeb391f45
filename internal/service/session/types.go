package session

import (
	"time"
)

// State представляет состояние сессии прохождения.
// Единственное поле состояния: недопустимые комбинации флагов
// (завершена и одновременно на середине викторины) непредставимы.
type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateCompleted
	StateCancelled
)

// String возвращает строковое представление состояния
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInProgress:
		return "in_progress"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Типы событий сессии, транслируемых подписчикам (WebSocket)
const (
	EventStarted   = "session:started"
	EventTimerTick = "session:timer"
	EventAdvanced  = "session:question"
	EventCompleted = "session:completed"
	EventCancelled = "session:cancelled"
)

// Event представляет событие жизненного цикла сессии
type Event struct {
	Type           string `json:"type"`
	SessionID      string `json:"session_id"`
	QuestionIndex  int    `json:"question_index"`
	SecondsLeft    int    `json:"seconds_left"`
	TotalQuestions int    `json:"total_questions"`
	Score          int    `json:"score,omitempty"` // Заполняется только для session:completed
}

// Config содержит настройки движка сессий
type Config struct {
	// TickInterval - длительность одной логической секунды обратного отсчета.
	// В продакшене всегда time.Second; в тестах сокращается.
	TickInterval time.Duration

	// EventBuffer - размер буфера канала событий сессии
	EventBuffer int
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		TickInterval: time.Second,
		EventBuffer:  16,
	}
}

// Snapshot представляет моментальный снимок состояния сессии для клиента
type Snapshot struct {
	ID             string `json:"id"`
	TakerID        uint   `json:"taker_id"`
	QuizID         uint   `json:"quiz_id"`
	QuizTitle      string `json:"quiz_title"`
	State          string `json:"state"`
	QuestionIndex  int    `json:"question_index"`
	SecondsLeft    int    `json:"seconds_left"`
	TotalQuestions int    `json:"total_questions"`
	AnswerSelected bool   `json:"answer_selected"`
	Score          int    `json:"score"` // Имеет смысл только для завершенной сессии
}
