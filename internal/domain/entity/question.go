package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "github.com/yourusername/quizplay-api/internal/pkg/errors"
)

// Типы вопросов. Закрытое множество: оценка ответа полиморфна по типу,
// добавление нового типа требует новой ветки в IsCorrect и Validate.
const (
	QuestionKindSingle    = "single"
	QuestionKindMultiple  = "multiple"
	QuestionKindTrueFalse = "truefalse"
)

// Канонические литералы для вопросов типа truefalse
const (
	TrueLiteral  = "True"
	FalseLiteral = "False"
)

// TrueFalseOptions - фиксированный список вариантов для truefalse вопросов
func TrueFalseOptions() StringArray {
	return StringArray{TrueLiteral, FalseLiteral}
}

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
// Используется GORM для чтения JSONB данных из базы
func (o *StringArray) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*o = StringArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	// Обработка пустого массива байтов
	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
// Используется GORM для записи StringArray в JSONB в базе
func (o StringArray) Value() (driver.Value, error) {
	if o == nil || len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// IntArray - пользовательский тип для хранения набора индексов в JSONB
type IntArray []int

// Scan реализует интерфейс sql.Scanner для IntArray
func (o *IntArray) Scan(value interface{}) error {
	if value == nil {
		*o = IntArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*o = IntArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для IntArray
func (o IntArray) Value() (driver.Value, error) {
	if o == nil || len(o) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// Question представляет один вопрос викторины.
// Ровно одно из полей CorrectOption/CorrectOptions/CorrectLiteral имеет смысл
// для конкретного Kind; остальные игнорируются. Вопрос неизменяем после старта сессии.
type Question struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	QuizID         uint        `gorm:"not null;index" json:"quiz_id"`
	Position       int         `gorm:"not null;default:0" json:"position"`
	Text           string      `gorm:"size:500;not null" json:"text"`
	Kind           string      `gorm:"size:20;not null;default:'single'" json:"kind"`
	Options        StringArray `gorm:"type:jsonb;not null" json:"options"`
	CorrectOption  int         `gorm:"not null;default:0" json:"-"` // Скрыто от клиента
	CorrectOptions IntArray    `gorm:"type:jsonb" json:"-"`         // Скрыто от клиента
	CorrectLiteral string      `gorm:"size:10;default:''" json:"-"` // Скрыто от клиента
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// Validate проверяет корректность конфигурации вопроса.
// Вызывается при загрузке викторины, до старта сессии. Все нарушения
// оборачивают apperrors.ErrConfiguration.
func (q *Question) Validate() error {
	if len(q.Options) == 0 {
		return fmt.Errorf("%w: question has no options", apperrors.ErrConfiguration)
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("%w: option %d is blank", apperrors.ErrConfiguration, i)
		}
	}

	switch q.Kind {
	case QuestionKindSingle:
		if !q.IsValidOption(q.CorrectOption) {
			return fmt.Errorf("%w: correct option %d is out of range [0, %d)",
				apperrors.ErrConfiguration, q.CorrectOption, len(q.Options))
		}
	case QuestionKindMultiple:
		if len(q.CorrectOptions) == 0 {
			return fmt.Errorf("%w: multiple choice question has empty correct set", apperrors.ErrConfiguration)
		}
		for _, idx := range q.CorrectOptions {
			if !q.IsValidOption(idx) {
				return fmt.Errorf("%w: correct option %d is out of range [0, %d)",
					apperrors.ErrConfiguration, idx, len(q.Options))
			}
		}
	case QuestionKindTrueFalse:
		if len(q.Options) != 2 || q.Options[0] != TrueLiteral || q.Options[1] != FalseLiteral {
			return fmt.Errorf("%w: truefalse question must have options [%q, %q]",
				apperrors.ErrConfiguration, TrueLiteral, FalseLiteral)
		}
		if q.CorrectLiteral != TrueLiteral && q.CorrectLiteral != FalseLiteral {
			return fmt.Errorf("%w: truefalse correct literal must be %q or %q, got %q",
				apperrors.ErrConfiguration, TrueLiteral, FalseLiteral, q.CorrectLiteral)
		}
	default:
		return fmt.Errorf("%w: unknown question kind %q", apperrors.ErrConfiguration, q.Kind)
	}

	return nil
}

// IsCorrect проверяет, является ли ответ правильным.
// Оценка никогда не возвращает ошибку: отсутствующий ответ или ответ
// несовпадающей формы просто считается неправильным.
func (q *Question) IsCorrect(answer *Answer) bool {
	if answer == nil || answer.Kind != q.Kind {
		return false
	}

	switch q.Kind {
	case QuestionKindSingle:
		return answer.SelectedOption == q.CorrectOption
	case QuestionKindMultiple:
		// Требуется точное совпадение множеств, порядок не важен
		return equalIndexSets(answer.SelectedOptions, q.CorrectOptions)
	case QuestionKindTrueFalse:
		return answer.SelectedLiteral == q.CorrectLiteral
	}
	return false
}

// CorrectAnswer возвращает канонический правильный ответ для записи в исход вопроса
func (q *Question) CorrectAnswer() *Answer {
	switch q.Kind {
	case QuestionKindSingle:
		return NewSingleChoiceAnswer(q.CorrectOption)
	case QuestionKindMultiple:
		return NewMultiChoiceAnswer(q.CorrectOptions)
	case QuestionKindTrueFalse:
		return NewTrueFalseAnswer(q.CorrectLiteral == TrueLiteral)
	}
	return nil
}

// OptionsCount возвращает количество вариантов ответа
func (q *Question) OptionsCount() int {
	return len(q.Options)
}

// IsValidOption проверяет, является ли индекс варианта допустимым
func (q *Question) IsValidOption(selectedOption int) bool {
	return selectedOption >= 0 && selectedOption < len(q.Options)
}

// equalIndexSets сравнивает два набора индексов как множества
func equalIndexSets(a []int, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]int(nil), a...)
	bs := append([]int(nil), b...)
	sort.Ints(as)
	sort.Ints(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
