package service

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/quizplay-api/internal/domain/entity"
)

// ====================================================================
// Моки репозиториев
// ====================================================================

type MockQuizRepo struct {
	mock.Mock
}

func (m *MockQuizRepo) Create(quiz *entity.Quiz) error {
	args := m.Called(quiz)
	return args.Error(0)
}

func (m *MockQuizRepo) GetByID(id uint) (*entity.Quiz, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Quiz), args.Error(1)
}

func (m *MockQuizRepo) GetWithQuestions(id uint) (*entity.Quiz, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Quiz), args.Error(1)
}

func (m *MockQuizRepo) GetByJoinCode(code string) (*entity.Quiz, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Quiz), args.Error(1)
}

func (m *MockQuizRepo) List(limit, offset int) ([]entity.Quiz, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Quiz), args.Error(1)
}

func (m *MockQuizRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockAttemptRepo struct {
	mock.Mock
}

func (m *MockAttemptRepo) Save(attempt *entity.Attempt) error {
	args := m.Called(attempt)
	return args.Error(0)
}

func (m *MockAttemptRepo) GetByQuiz(quizID uint) ([]entity.Attempt, error) {
	args := m.Called(quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Attempt), args.Error(1)
}

func (m *MockAttemptRepo) GetByTaker(takerID uint) ([]entity.Attempt, error) {
	args := m.Called(takerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Attempt), args.Error(1)
}

func (m *MockAttemptRepo) GetByTakerAndQuiz(takerID, quizID uint) ([]entity.Attempt, error) {
	args := m.Called(takerID, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Attempt), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) GetByIDs(ids []uint) ([]entity.User, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

type MockCacheRepo struct {
	mock.Mock
}

func (m *MockCacheRepo) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepo) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func (m *MockCacheRepo) Exists(key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

// ====================================================================
// Общие фикстуры
// ====================================================================

func fixtureQuiz() *entity.Quiz {
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
				QuizID:        7,
				Position:      0,
				Text:          "Какой тип возвращает make(chan int)?",
				Kind:          entity.QuestionKindSingle,
				Options:       entity.StringArray{"int", "chan int", "*chan int"},
				CorrectOption: 1,
			},
			{
				ID:             2,
				QuizID:         7,
				Position:       1,
				Text:           "Какие из типов входят в пакет sync?",
				Kind:           entity.QuestionKindMultiple,
				Options:        entity.StringArray{"Mutex", "Println", "WaitGroup"},
				CorrectOptions: entity.IntArray{0, 2},
			},
			{
				ID:             3,
				QuizID:         7,
				Position:       2,
				Text:           "Срез передается в функцию по значению заголовка",
				Kind:           entity.QuestionKindTrueFalse,
				Options:        entity.TrueFalseOptions(),
				CorrectLiteral: entity.TrueLiteral,
			},
		},
	}
}
