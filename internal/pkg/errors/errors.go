package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены
	// (викторина по коду, попытка, участник в справочнике).
	ErrNotFound = errors.New("record not found")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConfiguration используется для некорректно сформированных данных викторины
	// (пустые варианты, индекс вне диапазона, пустой набор правильных ответов,
	// ноль вопросов). Обнаруживается при загрузке, до старта сессии.
	ErrConfiguration = errors.New("quiz configuration is invalid")

	// ErrInvalidTransition используется, когда вызван метод движка сессии,
	// недопустимый для текущего состояния (например, advance до start).
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrInvalidAnswerShape используется, когда форма ответа не соответствует
	// типу текущего вопроса.
	ErrInvalidAnswerShape = errors.New("answer shape does not match question kind")

	// ErrConflict используется для конфликтов состояния (например, дубликат кода викторины).
	ErrConflict = errors.New("resource state conflict")
)
