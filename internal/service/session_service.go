package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/yourusername/quizplay-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizplay-api/internal/pkg/errors"
	"github.com/yourusername/quizplay-api/internal/service/session"
)

// defaultResultRetention задает, как долго итог завершенной сессии
// доступен для повторного чтения после удаления движка из хранилища
const defaultResultRetention = time.Hour

// SessionResult представляет итог завершенной сессии.
// Результат отдается участнику даже при ошибке сохранения попытки:
// сбой записи не скрывает заработанный счет.
type SessionResult struct {
	Attempt   *entity.Attempt `json:"attempt"`
	Saved     bool            `json:"saved"`
	SaveError string          `json:"save_error,omitempty"`
}

// resultEntry хранит итог вместе с моментом фиксации для вытеснения по сроку
type resultEntry struct {
	result   *SessionResult
	storedAt time.Time
}

// SessionService управляет активными сессиями прохождения викторин.
// Движок живет в хранилище только пока сессия активна; по завершении
// движок удаляется, а итог удерживается ограниченное время для
// повторного чтения.
type SessionService struct {
	quizService    *QuizService
	attemptService *AttemptService
	store          *session.Store
	config         *session.Config

	mu              sync.Mutex
	onces           map[string]*sync.Once
	results         map[string]*resultEntry
	resultRetention time.Duration
}

// NewSessionService создает новый сервис сессий
func NewSessionService(
	quizService *QuizService,
	attemptService *AttemptService,
	store *session.Store,
	config *session.Config,
) *SessionService {
	if config == nil {
		config = session.DefaultConfig()
	}
	return &SessionService{
		quizService:     quizService,
		attemptService:  attemptService,
		store:           store,
		config:          config,
		onces:           make(map[string]*sync.Once),
		results:         make(map[string]*resultEntry),
		resultRetention: defaultResultRetention,
	}
}

// CreateSession создает сессию прохождения по коду подключения.
// Конфигурация викторины проверяется здесь, до регистрации движка:
// некорректная викторина не может начать ни одной сессии.
func (s *SessionService) CreateSession(takerID uint, joinCode string) (session.Snapshot, error) {
	quiz, err := s.quizService.GetQuizByCode(joinCode)
	if err != nil {
		return session.Snapshot{}, err
	}
	if err := quiz.Validate(); err != nil {
		return session.Snapshot{}, err
	}

	engine, err := session.NewEngine(takerID, quiz, s.config)
	if err != nil {
		return session.Snapshot{}, err
	}

	s.store.Put(engine)
	s.mu.Lock()
	s.sweepLocked()
	s.onces[engine.ID()] = &sync.Once{}
	s.mu.Unlock()

	log.Printf("[SessionService] Сессия %s создана: участник %d, викторина %d", engine.ID(), takerID, quiz.ID)
	return engine.Snapshot(), nil
}

// StartSession запускает сессию и обратный отсчет первого вопроса.
// Таймеры живут дольше HTTP-запроса, поэтому движку передается
// фоновый контекст, а не контекст запроса.
func (s *SessionService) StartSession(sessionID string) (session.Snapshot, error) {
	engine, err := s.engine(sessionID)
	if err != nil {
		return session.Snapshot{}, err
	}

	if err := engine.Start(context.Background()); err != nil {
		return session.Snapshot{}, err
	}

	// Наблюдатель закрывает сессию и по таймауту последнего вопроса,
	// когда ручного вызова не будет
	go func() {
		<-engine.Done()
		s.finalize(engine)
	}()

	return engine.Snapshot(), nil
}

// SubmitAnswer запоминает выбор участника для текущего вопроса
func (s *SessionService) SubmitAnswer(sessionID string, answer *entity.Answer) (session.Snapshot, error) {
	engine, err := s.engine(sessionID)
	if err != nil {
		return session.Snapshot{}, err
	}
	if err := engine.SelectAnswer(answer); err != nil {
		return session.Snapshot{}, err
	}
	return engine.Snapshot(), nil
}

// AdvanceSession переходит к следующему вопросу. Если сессия на этом
// завершилась, итог фиксируется немедленно и возвращается вместе со
// снимком состояния.
func (s *SessionService) AdvanceSession(sessionID string) (session.Snapshot, *SessionResult, error) {
	engine, err := s.engine(sessionID)
	if err != nil {
		return session.Snapshot{}, nil, err
	}

	if err := engine.Advance(); err != nil {
		return session.Snapshot{}, nil, err
	}

	snapshot := engine.Snapshot()
	if snapshot.State == session.StateCompleted.String() {
		return snapshot, s.finalize(engine), nil
	}
	return snapshot, nil, nil
}

// CancelSession отменяет сессию и удаляет ее из хранилища.
// Исходы отбрасываются, попытка не сохраняется. Сессия, успевшая
// завершиться к моменту отмены, не отменяется: ее итог уже
// зафиксирован или фиксируется наблюдателем.
func (s *SessionService) CancelSession(sessionID string) error {
	engine, err := s.engine(sessionID)
	if err != nil {
		if s.retainedResult(sessionID) != nil {
			return fmt.Errorf("%w: завершенную сессию нельзя отменить", apperrors.ErrInvalidTransition)
		}
		return err
	}

	if !engine.Cancel() {
		return fmt.Errorf("%w: завершенную сессию нельзя отменить", apperrors.ErrInvalidTransition)
	}

	s.forget(sessionID)
	return nil
}

// GetSnapshot возвращает снимок состояния активной сессии
func (s *SessionService) GetSnapshot(sessionID string) (session.Snapshot, error) {
	engine, err := s.engine(sessionID)
	if err != nil {
		return session.Snapshot{}, err
	}
	return engine.Snapshot(), nil
}

// GetCurrentQuestion возвращает текущий вопрос активной сессии
func (s *SessionService) GetCurrentQuestion(sessionID string) (*entity.Question, session.Snapshot, error) {
	engine, err := s.engine(sessionID)
	if err != nil {
		return nil, session.Snapshot{}, err
	}
	question, err := engine.CurrentQuestion()
	if err != nil {
		return nil, session.Snapshot{}, err
	}
	return question, engine.Snapshot(), nil
}

// GetResult возвращает итог завершенной сессии. Движок завершенной
// сессии уже удален из хранилища, поэтому итог читается из удержанных
// результатов; повторные запросы возвращают тот же итог.
func (s *SessionService) GetResult(sessionID string) (*SessionResult, error) {
	engine, err := s.engine(sessionID)
	if err != nil {
		if result := s.retainedResult(sessionID); result != nil {
			return result, nil
		}
		return nil, err
	}

	snapshot := engine.Snapshot()
	if snapshot.State != session.StateCompleted.String() {
		return nil, fmt.Errorf("%w: сессия в состоянии %s еще не имеет итога", apperrors.ErrInvalidTransition, snapshot.State)
	}
	return s.finalize(engine), nil
}

// Subscribe возвращает канал событий сессии для трансляции клиенту
func (s *SessionService) Subscribe(sessionID string) (<-chan session.Event, error) {
	engine, err := s.engine(sessionID)
	if err != nil {
		return nil, err
	}
	return engine.Events(), nil
}

// finalize строит и сохраняет попытку завершенной сессии ровно один раз,
// каким бы путем сессия ни завершилась: ручным переходом или таймаутом.
// Движок завершенной сессии удаляется из хранилища, итог удерживается
// до истечения срока хранения.
func (s *SessionService) finalize(engine *session.Engine) *SessionResult {
	id := engine.ID()

	s.mu.Lock()
	once := s.onces[id]
	s.mu.Unlock()
	if once == nil {
		// Сессия уже отменена и забыта
		return nil
	}

	once.Do(func() {
		outcomes, completedAt, err := engine.Outcomes()
		if err != nil {
			log.Printf("[SessionService] Сессия %s: итоги недоступны: %v", id, err)
			return
		}

		attempt := BuildAttempt(engine.TakerID(), engine.Quiz(), outcomes, completedAt)
		result := &SessionResult{Attempt: attempt, Saved: true}
		if saveErr := s.attemptService.SaveAttempt(attempt); saveErr != nil {
			// Результат показываем в любом случае
			log.Printf("[SessionService] Сессия %s: попытка не сохранена: %v", id, saveErr)
			result.Saved = false
			result.SaveError = saveErr.Error()
		}

		s.mu.Lock()
		s.results[id] = &resultEntry{result: result, storedAt: time.Now()}
		s.mu.Unlock()

		// Итог зафиксирован, движок больше не нужен
		s.store.Delete(id)
	})

	return s.retainedResult(id)
}

// retainedResult возвращает удержанный итог сессии или nil
func (s *SessionService) retainedResult(sessionID string) *SessionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	if entry, ok := s.results[sessionID]; ok {
		return entry.result
	}
	return nil
}

// sweepLocked вытесняет итоги с истекшим сроком хранения. Вызывается под mu.
func (s *SessionService) sweepLocked() {
	cutoff := time.Now().Add(-s.resultRetention)
	for id, entry := range s.results {
		if entry.storedAt.Before(cutoff) {
			delete(s.results, id)
			delete(s.onces, id)
		}
	}
}

// forget удаляет все следы сессии из памяти
func (s *SessionService) forget(sessionID string) {
	s.store.Delete(sessionID)
	s.mu.Lock()
	delete(s.onces, sessionID)
	delete(s.results, sessionID)
	s.mu.Unlock()
	log.Printf("[SessionService] Сессия %s удалена из хранилища", sessionID)
}

func (s *SessionService) engine(sessionID string) (*session.Engine, error) {
	engine, ok := s.store.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("сессия %s не найдена: %w", sessionID, apperrors.ErrNotFound)
	}
	return engine, nil
}
