package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quizplay-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizplay-api/internal/pkg/errors"
)

// ====================================================================
// Вспомогательные функции
// ====================================================================

// frozenConfig возвращает конфигурацию, при которой реальный таймер
// не успевает сработать: отсчет ведется вручную через tick
func frozenConfig() *Config {
	return &Config{
		TickInterval: time.Hour,
		EventBuffer:  64,
	}
}

func sessionQuiz() *entity.Quiz {
	return &entity.Quiz{
		ID:                 7,
		Title:              "Основы Go",
		Subject:            "Программирование",
		JoinCode:           "GOQUIZ",
		SecondsPerQuestion: 10,
		AuthorID:           1,
		Questions: []entity.Question{
			{
				ID:            1,
				Position:      0,
				Text:          "Какой тип возвращает make(chan int)?",
				Kind:          entity.QuestionKindSingle,
				Options:       entity.StringArray{"int", "chan int", "*chan int"},
				CorrectOption: 1,
			},
			{
				ID:             2,
				Position:       1,
				Text:           "Какие из функций входят в пакет sync?",
				Kind:           entity.QuestionKindMultiple,
				Options:        entity.StringArray{"Mutex", "Println", "WaitGroup"},
				CorrectOptions: entity.IntArray{0, 2},
			},
			{
				ID:             3,
				Position:       2,
				Text:           "Срез передается в функцию по значению заголовка",
				Kind:           entity.QuestionKindTrueFalse,
				Options:        entity.TrueFalseOptions(),
				CorrectLiteral: entity.TrueLiteral,
			},
		},
	}
}

func startedEngine(t *testing.T, quiz *entity.Quiz) *Engine {
	t.Helper()
	engine, err := NewEngine(42, quiz, frozenConfig())
	require.NoError(t, err)
	require.NoError(t, engine.Start(context.Background()))
	return engine
}

// currentGen читает актуальное поколение таймера под мьютексом
func currentGen(e *Engine) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.timerGen
}

// tickSeconds вручную продвигает обратный отсчет на n логических секунд
func tickSeconds(e *Engine, n int) {
	for i := 0; i < n; i++ {
		e.tick(currentGen(e))
	}
}

// drainEvents собирает все накопленные события из канала
func drainEvents(e *Engine) []Event {
	var events []Event
	for {
		select {
		case ev := <-e.Events():
			events = append(events, ev)
		default:
			return events
		}
	}
}

// ====================================================================
// Тесты создания и запуска
// ====================================================================

func TestNewEngine_RequiresQuestions(t *testing.T) {
	// Act
	_, errNil := NewEngine(1, nil, nil)
	_, errEmpty := NewEngine(1, &entity.Quiz{Title: "Пустая", SecondsPerQuestion: 10}, nil)

	// Assert: викторина без вопросов - ошибка конфигурации, не валидации
	assert.ErrorIs(t, errNil, apperrors.ErrConfiguration)
	assert.ErrorIs(t, errEmpty, apperrors.ErrConfiguration)
}

func TestEngine_Start(t *testing.T) {
	// Arrange
	engine, err := NewEngine(42, sessionQuiz(), frozenConfig())
	require.NoError(t, err)

	// Act
	err = engine.Start(context.Background())

	// Assert
	require.NoError(t, err)
	snap := engine.Snapshot()
	assert.Equal(t, "in_progress", snap.State)
	assert.Equal(t, 0, snap.QuestionIndex)
	assert.Equal(t, 10, snap.SecondsLeft)
	assert.Equal(t, 3, snap.TotalQuestions)
	assert.False(t, snap.AnswerSelected)

	events := drainEvents(engine)
	require.Len(t, events, 1)
	assert.Equal(t, EventStarted, events[0].Type)
}

func TestEngine_Start_SingleUse(t *testing.T) {
	// Arrange: сессия уже запущена
	engine := startedEngine(t, sessionQuiz())

	// Act: повторный запуск
	err := engine.Start(context.Background())

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

// ====================================================================
// Тесты полного прохождения
// ====================================================================

func TestEngine_FullFlow(t *testing.T) {
	// Arrange
	quiz := sessionQuiz()
	engine := startedEngine(t, quiz)

	// Act: вопрос 1 — ответ через 3 секунды, верный
	tickSeconds(engine, 3)
	require.NoError(t, engine.SelectAnswer(entity.NewSingleChoiceAnswer(1)))
	require.NoError(t, engine.Advance())

	// Вопрос 2 — время истекает без ответа
	tickSeconds(engine, 10)

	// Вопрос 3 — неверный ответ через 5 секунд
	tickSeconds(engine, 5)
	require.NoError(t, engine.SelectAnswer(entity.NewTrueFalseAnswer(false)))
	require.NoError(t, engine.Advance())

	// Assert: сессия завершена, исходов ровно столько же, сколько вопросов
	snap := engine.Snapshot()
	assert.Equal(t, "completed", snap.State)
	assert.Equal(t, 1, snap.Score)

	select {
	case <-engine.Done():
	default:
		t.Fatal("канал Done должен быть закрыт после завершения")
	}

	outcomes, completedAt, err := engine.Outcomes()
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	assert.False(t, completedAt.IsZero())

	assert.True(t, outcomes[0].IsCorrect)
	assert.Equal(t, 3, outcomes[0].SecondsElapsed)
	require.NotNil(t, outcomes[0].Given)
	assert.Equal(t, 1, outcomes[0].Given.SelectedOption)

	assert.False(t, outcomes[1].IsCorrect)
	assert.Nil(t, outcomes[1].Given)
	assert.Equal(t, 10, outcomes[1].SecondsElapsed)

	assert.False(t, outcomes[2].IsCorrect)
	assert.Equal(t, 5, outcomes[2].SecondsElapsed)
	require.NotNil(t, outcomes[2].Correct)
	assert.Equal(t, entity.TrueLiteral, outcomes[2].Correct.SelectedLiteral)
}

func TestEngine_TimeoutSubmitsPendingAnswer(t *testing.T) {
	// Arrange: участник выбрал верный ответ, но не нажал "далее"
	engine := startedEngine(t, sessionQuiz())
	require.NoError(t, engine.SelectAnswer(entity.NewSingleChoiceAnswer(1)))

	// Act: время истекает
	tickSeconds(engine, 10)

	// Assert: последний выбор зачтен принудительным переходом
	snap := engine.Snapshot()
	assert.Equal(t, 1, snap.QuestionIndex)
	assert.Equal(t, 1, snap.Score)
}

func TestEngine_AnswerOverwrite(t *testing.T) {
	// Arrange
	engine := startedEngine(t, sessionQuiz())

	// Act: выбор меняется, засчитывается последний
	require.NoError(t, engine.SelectAnswer(entity.NewSingleChoiceAnswer(0)))
	require.NoError(t, engine.SelectAnswer(entity.NewSingleChoiceAnswer(1)))
	require.NoError(t, engine.Advance())
	tickSeconds(engine, 10)
	require.NoError(t, engine.Advance())

	// Assert
	outcomes, _, err := engine.Outcomes()
	require.NoError(t, err)
	assert.True(t, outcomes[0].IsCorrect)
}

func TestEngine_AdvanceResetsCountdown(t *testing.T) {
	// Arrange
	engine := startedEngine(t, sessionQuiz())
	tickSeconds(engine, 7)

	// Act
	require.NoError(t, engine.Advance())

	// Assert: отсчет следующего вопроса начинается заново
	snap := engine.Snapshot()
	assert.Equal(t, 1, snap.QuestionIndex)
	assert.Equal(t, 10, snap.SecondsLeft)
	assert.False(t, snap.AnswerSelected)
}

// ====================================================================
// Тесты гонки таймера и ручного перехода
// ====================================================================

func TestEngine_StaleTickIgnored(t *testing.T) {
	// Arrange: поколение таймера зафиксировано до ручного перехода
	engine := startedEngine(t, sessionQuiz())
	staleGen := currentGen(engine)
	require.NoError(t, engine.Advance())

	// Act: отставший тик старого поколения
	expired := engine.tick(staleGen)

	// Assert: тик отвергнут, отсчет нового вопроса не тронут
	assert.True(t, expired)
	snap := engine.Snapshot()
	assert.Equal(t, 1, snap.QuestionIndex)
	assert.Equal(t, 10, snap.SecondsLeft)
}

func TestEngine_TickAfterCompletionIgnored(t *testing.T) {
	// Arrange: викторина из одного вопроса, сессия завершена
	quiz := sessionQuiz()
	quiz.Questions = quiz.Questions[:1]
	engine := startedEngine(t, quiz)
	require.NoError(t, engine.Advance())

	// Act
	expired := engine.tick(currentGen(engine))

	// Assert: исход ровно один
	assert.True(t, expired)
	outcomes, _, err := engine.Outcomes()
	require.NoError(t, err)
	assert.Len(t, outcomes, 1)
}

// ====================================================================
// Тесты валидации ответов
// ====================================================================

func TestEngine_SelectAnswer_ShapeMismatch(t *testing.T) {
	// Arrange: текущий вопрос одиночного выбора
	engine := startedEngine(t, sessionQuiz())

	testCases := []struct {
		name   string
		answer *entity.Answer
	}{
		{name: "Ответ другого типа", answer: entity.NewTrueFalseAnswer(true)},
		{name: "Множественный ответ на одиночный вопрос", answer: entity.NewMultiChoiceAnswer([]int{0, 1})},
		{name: "Вариант вне диапазона", answer: entity.NewSingleChoiceAnswer(5)},
		{name: "Отрицательный вариант", answer: entity.NewSingleChoiceAnswer(-1)},
		{name: "Пустой ответ", answer: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			err := engine.SelectAnswer(tc.answer)

			// Assert: ошибка формы, состояние сессии не изменилось
			assert.ErrorIs(t, err, apperrors.ErrInvalidAnswerShape)
			assert.False(t, engine.Snapshot().AnswerSelected)
		})
	}
}

func TestEngine_SelectAnswer_MultipleOutOfRange(t *testing.T) {
	// Arrange: переход ко второму вопросу (множественный выбор)
	engine := startedEngine(t, sessionQuiz())
	require.NoError(t, engine.Advance())

	// Act
	err := engine.SelectAnswer(entity.NewMultiChoiceAnswer([]int{0, 9}))

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrInvalidAnswerShape)
}

// ====================================================================
// Тесты недопустимых переходов
// ====================================================================

func TestEngine_OperationsBeforeStart(t *testing.T) {
	// Arrange
	engine, err := NewEngine(42, sessionQuiz(), frozenConfig())
	require.NoError(t, err)

	// Act & Assert
	assert.ErrorIs(t, engine.Advance(), apperrors.ErrInvalidTransition)
	assert.ErrorIs(t, engine.SelectAnswer(entity.NewSingleChoiceAnswer(0)), apperrors.ErrInvalidTransition)
	_, err = engine.CurrentQuestion()
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	_, _, err = engine.Outcomes()
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestEngine_OperationsAfterCompletion(t *testing.T) {
	// Arrange: завершенная сессия
	quiz := sessionQuiz()
	quiz.Questions = quiz.Questions[:1]
	engine := startedEngine(t, quiz)
	require.NoError(t, engine.Advance())

	// Act & Assert
	assert.ErrorIs(t, engine.Advance(), apperrors.ErrInvalidTransition)
	assert.ErrorIs(t, engine.SelectAnswer(entity.NewSingleChoiceAnswer(0)), apperrors.ErrInvalidTransition)
	assert.ErrorIs(t, engine.Start(context.Background()), apperrors.ErrInvalidTransition)
}

// ====================================================================
// Тесты отмены
// ====================================================================

func TestEngine_Cancel(t *testing.T) {
	// Arrange
	engine := startedEngine(t, sessionQuiz())
	require.NoError(t, engine.SelectAnswer(entity.NewSingleChoiceAnswer(1)))

	// Act
	cancelled := engine.Cancel()

	// Assert: исходы отброшены, попытка не формируется
	assert.True(t, cancelled)
	snap := engine.Snapshot()
	assert.Equal(t, "cancelled", snap.State)
	_, _, err := engine.Outcomes()
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.ErrorIs(t, engine.Advance(), apperrors.ErrInvalidTransition)

	// Повторная отмена безопасна и не считается отменой
	assert.False(t, engine.Cancel())
}

func TestEngine_CancelAfterCompletionIsNoop(t *testing.T) {
	// Arrange
	quiz := sessionQuiz()
	quiz.Questions = quiz.Questions[:1]
	engine := startedEngine(t, quiz)
	require.NoError(t, engine.SelectAnswer(entity.NewSingleChoiceAnswer(1)))
	require.NoError(t, engine.Advance())

	// Act
	cancelled := engine.Cancel()

	// Assert: завершенная сессия не отменяется, итоги сохранены
	assert.False(t, cancelled)
	assert.Equal(t, "completed", engine.Snapshot().State)
	outcomes, _, err := engine.Outcomes()
	require.NoError(t, err)
	assert.Len(t, outcomes, 1)
}

// ====================================================================
// Тесты событий
// ====================================================================

func TestEngine_Events(t *testing.T) {
	// Arrange
	quiz := sessionQuiz()
	quiz.Questions = quiz.Questions[:2]
	engine := startedEngine(t, quiz)

	// Act
	tickSeconds(engine, 2)
	require.NoError(t, engine.SelectAnswer(entity.NewSingleChoiceAnswer(1)))
	require.NoError(t, engine.Advance())
	require.NoError(t, engine.SelectAnswer(entity.NewMultiChoiceAnswer([]int{0, 2})))
	require.NoError(t, engine.Advance())

	// Assert
	events := drainEvents(engine)
	var types []string
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []string{EventStarted, EventTimerTick, EventTimerTick, EventAdvanced, EventCompleted}, types)

	last := events[len(events)-1]
	assert.Equal(t, 2, last.Score)
	assert.Equal(t, engine.ID(), last.SessionID)
}

// ====================================================================
// Тест реального таймера
// ====================================================================

func TestEngine_RealTimerCompletesSession(t *testing.T) {
	// Arrange: один вопрос на две "секунды" по 5 миллисекунд
	quiz := sessionQuiz()
	quiz.Questions = quiz.Questions[:1]
	quiz.SecondsPerQuestion = 2
	engine, err := NewEngine(42, quiz, &Config{TickInterval: 5 * time.Millisecond, EventBuffer: 64})
	require.NoError(t, err)

	// Act
	require.NoError(t, engine.Start(context.Background()))

	// Assert: таймер сам доводит сессию до завершения
	require.Eventually(t, func() bool {
		select {
		case <-engine.Done():
			return true
		default:
			return false
		}
	}, 2*time.Second, 5*time.Millisecond)

	outcomes, _, err := engine.Outcomes()
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Nil(t, outcomes[0].Given)
	assert.Equal(t, 2, outcomes[0].SecondsElapsed)
}

// ====================================================================
// Проверка сопоставления ошибок
// ====================================================================

func TestEngine_ErrorsAreDistinguishable(t *testing.T) {
	engine := startedEngine(t, sessionQuiz())

	shapeErr := engine.SelectAnswer(entity.NewTrueFalseAnswer(true))
	require.Error(t, shapeErr)
	assert.False(t, errors.Is(shapeErr, apperrors.ErrInvalidTransition))

	engine.Cancel()
	transitionErr := engine.Advance()
	require.Error(t, transitionErr)
	assert.False(t, errors.Is(transitionErr, apperrors.ErrInvalidAnswerShape))
}
