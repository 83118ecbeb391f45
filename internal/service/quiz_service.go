package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/yourusername/quizplay-api/internal/domain/entity"
	"github.com/yourusername/quizplay-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizplay-api/internal/pkg/errors"
)

// Алфавит кодов подключения: без 0/O, 1/I/L, чтобы код легко диктовался
const joinCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const (
	joinCodeLength      = 6
	joinCodeMaxAttempts = 5
	quizCodeCacheTTL    = 10 * time.Minute
)

// QuizService предоставляет методы для работы с викторинами
type QuizService struct {
	quizRepo  repository.QuizRepository
	cacheRepo repository.CacheRepository
}

// NewQuizService создает новый сервис викторин
func NewQuizService(quizRepo repository.QuizRepository, cacheRepo repository.CacheRepository) *QuizService {
	return &QuizService{
		quizRepo:  quizRepo,
		cacheRepo: cacheRepo,
	}
}

// CreateQuiz проверяет и сохраняет викторину вместе с вопросами.
// Если код подключения не задан, генерируется случайный; при коллизии
// кода генерация повторяется.
func (s *QuizService) CreateQuiz(quiz *entity.Quiz) (*entity.Quiz, error) {
	if err := quiz.Validate(); err != nil {
		return nil, err
	}

	for i := 0; i < len(quiz.Questions); i++ {
		quiz.Questions[i].Position = i
	}

	explicitCode := quiz.JoinCode != ""
	for attempt := 0; attempt < joinCodeMaxAttempts; attempt++ {
		if !explicitCode {
			code, err := generateJoinCode()
			if err != nil {
				return nil, fmt.Errorf("ошибка генерации кода подключения: %w", err)
			}
			quiz.JoinCode = code
		} else {
			quiz.JoinCode = entity.NormalizeJoinCode(quiz.JoinCode)
		}

		err := s.quizRepo.Create(quiz)
		if err == nil {
			log.Printf("[QuizService] Викторина %d создана: %q, код %s, вопросов %d", quiz.ID, quiz.Title, quiz.JoinCode, quiz.QuestionCount())
			return quiz, nil
		}
		if explicitCode || !errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		log.Printf("[QuizService] Коллизия кода подключения %s, повторная генерация", quiz.JoinCode)
	}

	return nil, fmt.Errorf("%w: не удалось подобрать свободный код подключения", apperrors.ErrConflict)
}

// GetQuiz возвращает викторину по ID без вопросов
func (s *QuizService) GetQuiz(quizID uint) (*entity.Quiz, error) {
	return s.quizRepo.GetByID(quizID)
}

// GetQuizWithQuestions возвращает викторину с вопросами в порядке позиций
func (s *QuizService) GetQuizWithQuestions(quizID uint) (*entity.Quiz, error) {
	return s.quizRepo.GetWithQuestions(quizID)
}

// GetQuizByCode возвращает викторину с вопросами по коду подключения.
// Соответствие код -> ID кэшируется; сама викторина всегда читается из БД.
func (s *QuizService) GetQuizByCode(joinCode string) (*entity.Quiz, error) {
	code := entity.NormalizeJoinCode(joinCode)
	if code == "" {
		return nil, fmt.Errorf("%w: код подключения не указан", apperrors.ErrValidation)
	}

	cacheKey := quizCodeCacheKey(code)
	var cachedID uint
	if err := s.cacheRepo.GetJSON(cacheKey, &cachedID); err == nil {
		quiz, err := s.quizRepo.GetWithQuestions(cachedID)
		if err == nil {
			return quiz, nil
		}
		// Запись устарела (викторина удалена) - чистим и идем в БД
		if delErr := s.cacheRepo.Delete(cacheKey); delErr != nil {
			log.Printf("[QuizService] Не удалось удалить устаревший ключ %s: %v", cacheKey, delErr)
		}
	}

	quiz, err := s.quizRepo.GetByJoinCode(code)
	if err != nil {
		return nil, err
	}

	if err := s.cacheRepo.SetJSON(cacheKey, quiz.ID, quizCodeCacheTTL); err != nil {
		// Кэш не критичен для корректности
		log.Printf("[QuizService] Не удалось закэшировать код %s: %v", code, err)
	}

	return s.quizRepo.GetWithQuestions(quiz.ID)
}

// ListQuizzes возвращает список викторин с пагинацией
func (s *QuizService) ListQuizzes(page, pageSize int) ([]entity.Quiz, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize
	return s.quizRepo.List(pageSize, offset)
}

// DeleteQuiz удаляет викторину вместе с вопросами
func (s *QuizService) DeleteQuiz(quizID uint) error {
	quiz, err := s.quizRepo.GetByID(quizID)
	if err != nil {
		return err
	}

	if err := s.quizRepo.Delete(quizID); err != nil {
		return err
	}

	if err := s.cacheRepo.Delete(quizCodeCacheKey(quiz.JoinCode)); err != nil {
		log.Printf("[QuizService] Не удалось удалить кэш кода %s: %v", quiz.JoinCode, err)
	}
	log.Printf("[QuizService] Викторина %d удалена", quizID)
	return nil
}

func quizCodeCacheKey(code string) string {
	return "quiz:code:" + code
}

// generateJoinCode возвращает случайный код подключения
func generateJoinCode() (string, error) {
	code := make([]byte, joinCodeLength)
	max := big.NewInt(int64(len(joinCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = joinCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
