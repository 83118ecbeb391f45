package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/quizplay-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizplay-api/internal/pkg/errors"
)

// Engine управляет жизненным циклом одной сессии прохождения викторины.
// Все переходы состояния сериализуются одним мьютексом: ручные вызовы
// (SelectAnswer, Advance, Cancel) и тики таймера проходят через него,
// поэтому гонка "истечение времени против ручного перехода" всегда
// разрешается ровно в один переход.
type Engine struct {
	id      string
	takerID uint
	quiz    *entity.Quiz
	config  *Config

	mu          sync.Mutex
	state       State
	current     int
	secondsLeft int
	pending     *entity.Answer
	outcomes    []entity.QuestionOutcome
	completedAt time.Time

	// timerGen растет при каждой смене вопроса; тик с устаревшим
	// поколением игнорируется, так что отставший таймер не может
	// продвинуть уже сменившийся вопрос
	timerGen int

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	done   chan struct{}
}

// NewEngine создает движок сессии для указанного участника и викторины.
// Викторина должна быть загружена вместе с вопросами. Викторина без
// вопросов непригодна для игры и отклоняется как ошибка конфигурации.
func NewEngine(takerID uint, quiz *entity.Quiz, config *Config) (*Engine, error) {
	if quiz == nil || quiz.QuestionCount() == 0 {
		return nil, fmt.Errorf("%w: викторина не содержит вопросов", apperrors.ErrConfiguration)
	}
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{
		id:      uuid.NewString(),
		takerID: takerID,
		quiz:    quiz,
		config:  config,
		state:   StateNotStarted,
		events:  make(chan Event, config.EventBuffer),
		done:    make(chan struct{}),
	}, nil
}

// ID возвращает идентификатор сессии
func (e *Engine) ID() string {
	return e.id
}

// TakerID возвращает идентификатор участника сессии
func (e *Engine) TakerID() uint {
	return e.takerID
}

// Quiz возвращает викторину сессии
func (e *Engine) Quiz() *entity.Quiz {
	return e.quiz
}

// Events возвращает канал событий сессии.
// Медленный подписчик теряет промежуточные тики, но не блокирует движок.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Done возвращает канал, закрываемый при переходе сессии в терминальное
// состояние: завершение или отмену. Итоги есть только у завершенной.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Start запускает сессию: первый вопрос и обратный отсчет.
// Сессия одноразовая, повторный запуск невозможен.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateNotStarted {
		state := e.state
		e.mu.Unlock()
		return fmt.Errorf("%w: сессия в состоянии %s не может быть запущена", apperrors.ErrInvalidTransition, state)
	}
	e.state = StateInProgress
	e.current = 0
	e.secondsLeft = e.quiz.SecondsPerQuestion
	e.pending = nil
	e.ctx, e.cancel = context.WithCancel(ctx)
	e.timerGen++
	gen := e.timerGen
	ev := Event{
		Type:           EventStarted,
		SessionID:      e.id,
		QuestionIndex:  0,
		SecondsLeft:    e.secondsLeft,
		TotalQuestions: e.quiz.QuestionCount(),
	}
	e.mu.Unlock()

	go e.runCountdown(gen)
	e.emit(ev)
	log.Printf("[SessionEngine] Сессия %s запущена: викторина %d, вопросов %d", e.id, e.quiz.ID, e.quiz.QuestionCount())
	return nil
}

// SelectAnswer запоминает выбор участника для текущего вопроса.
// Повторный вызов перезаписывает предыдущий выбор; зафиксирован будет
// последний вариант на момент перехода к следующему вопросу.
func (e *Engine) SelectAnswer(answer *entity.Answer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateInProgress {
		return fmt.Errorf("%w: сессия в состоянии %s не принимает ответы", apperrors.ErrInvalidTransition, e.state)
	}
	if answer == nil {
		return fmt.Errorf("%w: ответ не указан", apperrors.ErrInvalidAnswerShape)
	}

	question := &e.quiz.Questions[e.current]
	if !answer.MatchesKind(question.Kind) {
		return fmt.Errorf("%w: ответ типа %s не подходит вопросу типа %s", apperrors.ErrInvalidAnswerShape, answer.Kind, question.Kind)
	}
	switch question.Kind {
	case entity.QuestionKindSingle:
		if !question.IsValidOption(answer.SelectedOption) {
			return fmt.Errorf("%w: вариант %d вне диапазона", apperrors.ErrInvalidAnswerShape, answer.SelectedOption)
		}
	case entity.QuestionKindMultiple:
		for _, idx := range answer.SelectedOptions {
			if !question.IsValidOption(idx) {
				return fmt.Errorf("%w: вариант %d вне диапазона", apperrors.ErrInvalidAnswerShape, idx)
			}
		}
	case entity.QuestionKindTrueFalse:
		if answer.SelectedLiteral != entity.TrueLiteral && answer.SelectedLiteral != entity.FalseLiteral {
			return fmt.Errorf("%w: недопустимый литерал %q", apperrors.ErrInvalidAnswerShape, answer.SelectedLiteral)
		}
	}

	e.pending = answer
	return nil
}

// Advance фиксирует исход текущего вопроса и переходит к следующему.
// На последнем вопросе завершает сессию.
func (e *Engine) Advance() error {
	e.mu.Lock()
	if e.state != StateInProgress {
		state := e.state
		e.mu.Unlock()
		return fmt.Errorf("%w: сессия в состоянии %s не может быть продвинута", apperrors.ErrInvalidTransition, state)
	}
	events := e.advanceLocked()
	e.mu.Unlock()

	for _, ev := range events {
		e.emit(ev)
	}
	return nil
}

// Cancel отменяет сессию. Исходы отбрасываются, попытка не формируется.
// Возвращает true, если сессия действительно перешла в отмененное
// состояние: уже завершенная или отмененная сессия не меняется, и
// вызывающий не должен отбрасывать ее итог.
func (e *Engine) Cancel() bool {
	e.mu.Lock()
	if e.state == StateCompleted || e.state == StateCancelled {
		e.mu.Unlock()
		return false
	}
	e.state = StateCancelled
	e.timerGen++
	if e.cancel != nil {
		e.cancel()
	}
	close(e.done)
	ev := Event{
		Type:           EventCancelled,
		SessionID:      e.id,
		QuestionIndex:  e.current,
		TotalQuestions: e.quiz.QuestionCount(),
	}
	e.mu.Unlock()

	e.emit(ev)
	log.Printf("[SessionEngine] Сессия %s отменена", e.id)
	return true
}

// Snapshot возвращает снимок текущего состояния сессии
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Snapshot{
		ID:             e.id,
		TakerID:        e.takerID,
		QuizID:         e.quiz.ID,
		QuizTitle:      e.quiz.Title,
		State:          e.state.String(),
		QuestionIndex:  e.current,
		SecondsLeft:    e.secondsLeft,
		TotalQuestions: e.quiz.QuestionCount(),
		AnswerSelected: e.pending != nil,
		Score:          e.scoreLocked(),
	}
}

// CurrentQuestion возвращает текущий вопрос активной сессии
func (e *Engine) CurrentQuestion() (*entity.Question, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateInProgress {
		return nil, fmt.Errorf("%w: сессия в состоянии %s не имеет текущего вопроса", apperrors.ErrInvalidTransition, e.state)
	}
	return &e.quiz.Questions[e.current], nil
}

// Outcomes возвращает зафиксированные исходы завершенной сессии.
// Число исходов всегда равно числу вопросов викторины.
func (e *Engine) Outcomes() ([]entity.QuestionOutcome, time.Time, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateCompleted {
		return nil, time.Time{}, fmt.Errorf("%w: сессия в состоянии %s не имеет итогов", apperrors.ErrInvalidTransition, e.state)
	}
	outcomes := make([]entity.QuestionOutcome, len(e.outcomes))
	copy(outcomes, e.outcomes)
	return outcomes, e.completedAt, nil
}

// runCountdown ведет обратный отсчет для одного вопроса.
// При смене вопроса запускается новая горутина с новым поколением,
// а эта завершается при первом же устаревшем тике.
func (e *Engine) runCountdown(gen int) {
	ticker := time.NewTicker(e.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if e.tick(gen) {
				return
			}
		case <-e.ctx.Done():
			return
		}
	}
}

// tick обрабатывает одну логическую секунду обратного отсчета.
// Возвращает true, когда таймер этого поколения больше не нужен.
func (e *Engine) tick(gen int) bool {
	e.mu.Lock()
	if e.state != StateInProgress || gen != e.timerGen {
		e.mu.Unlock()
		return true
	}

	e.secondsLeft--
	if e.secondsLeft > 0 {
		ev := Event{
			Type:           EventTimerTick,
			SessionID:      e.id,
			QuestionIndex:  e.current,
			SecondsLeft:    e.secondsLeft,
			TotalQuestions: e.quiz.QuestionCount(),
		}
		e.mu.Unlock()
		e.emit(ev)
		return false
	}

	// Время вышло: принудительный переход тем же путем, что и ручной.
	// Последний выбранный ответ (если был) засчитывается.
	e.secondsLeft = 0
	events := e.advanceLocked()
	e.mu.Unlock()

	for _, ev := range events {
		e.emit(ev)
	}
	return true
}

// advanceLocked фиксирует исход текущего вопроса и либо переключает
// сессию на следующий вопрос, либо завершает ее. Вызывается под mu.
func (e *Engine) advanceLocked() []Event {
	question := &e.quiz.Questions[e.current]
	elapsed := e.quiz.SecondsPerQuestion - e.secondsLeft
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > e.quiz.SecondsPerQuestion {
		elapsed = e.quiz.SecondsPerQuestion
	}

	e.outcomes = append(e.outcomes, entity.QuestionOutcome{
		QuestionIndex:  e.current,
		Given:          e.pending,
		Correct:        question.CorrectAnswer(),
		IsCorrect:      question.IsCorrect(e.pending),
		SecondsElapsed: elapsed,
	})
	e.timerGen++

	if e.current+1 < e.quiz.QuestionCount() {
		e.current++
		e.secondsLeft = e.quiz.SecondsPerQuestion
		e.pending = nil
		go e.runCountdown(e.timerGen)
		return []Event{{
			Type:           EventAdvanced,
			SessionID:      e.id,
			QuestionIndex:  e.current,
			SecondsLeft:    e.secondsLeft,
			TotalQuestions: e.quiz.QuestionCount(),
		}}
	}

	e.state = StateCompleted
	e.completedAt = time.Now()
	e.pending = nil
	if e.cancel != nil {
		e.cancel()
	}
	close(e.done)
	log.Printf("[SessionEngine] Сессия %s завершена: счет %d из %d", e.id, e.scoreLocked(), e.quiz.QuestionCount())
	return []Event{{
		Type:           EventCompleted,
		SessionID:      e.id,
		QuestionIndex:  e.current,
		TotalQuestions: e.quiz.QuestionCount(),
		Score:          e.scoreLocked(),
	}}
}

// scoreLocked подсчитывает число верных исходов. Вызывается под mu.
func (e *Engine) scoreLocked() int {
	score := 0
	for _, outcome := range e.outcomes {
		if outcome.IsCorrect {
			score++
		}
	}
	return score
}

// emit отправляет событие без блокировки движка
func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		log.Printf("[SessionEngine] Канал событий сессии %s переполнен, событие %s пропущено", e.id, ev.Type)
	}
}
