package entity

import "sort"

// Answer представляет текущий выбор участника для вопроса на экране.
// Эфемерный объект: живет только внутри сессии и внутри зафиксированного
// исхода вопроса; форма определяется полем Kind.
type Answer struct {
	Kind            string `json:"kind"`
	SelectedOption  int    `json:"selected_option,omitempty"`
	SelectedOptions []int  `json:"selected_options,omitempty"`
	SelectedLiteral string `json:"selected_literal,omitempty"`
}

// NewSingleChoiceAnswer создает ответ на вопрос с одним правильным вариантом
func NewSingleChoiceAnswer(option int) *Answer {
	return &Answer{
		Kind:           QuestionKindSingle,
		SelectedOption: option,
	}
}

// NewMultiChoiceAnswer создает ответ на вопрос с несколькими правильными вариантами.
// Дубликаты индексов удаляются, порядок нормализуется.
func NewMultiChoiceAnswer(options []int) *Answer {
	seen := make(map[int]struct{}, len(options))
	unique := make([]int, 0, len(options))
	for _, idx := range options {
		if _, ok := seen[idx]; ok {
			continue
		}
		seen[idx] = struct{}{}
		unique = append(unique, idx)
	}
	sort.Ints(unique)

	return &Answer{
		Kind:            QuestionKindMultiple,
		SelectedOptions: unique,
	}
}

// NewTrueFalseAnswer создает ответ на вопрос типа "верно/неверно"
func NewTrueFalseAnswer(value bool) *Answer {
	literal := FalseLiteral
	if value {
		literal = TrueLiteral
	}
	return &Answer{
		Kind:            QuestionKindTrueFalse,
		SelectedLiteral: literal,
	}
}

// MatchesKind проверяет, соответствует ли форма ответа типу вопроса
func (a *Answer) MatchesKind(kind string) bool {
	return a != nil && a.Kind == kind
}
