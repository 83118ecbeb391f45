package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/quizplay-api/internal/pkg/errors"
)

func validQuiz() *Quiz {
	return &Quiz{
		ID:                 1,
		Title:              "Основы Go",
		Subject:            "Программирование",
		JoinCode:           "GOQUIZ",
		SecondsPerQuestion: 10,
		Questions: []Question{
			{Kind: QuestionKindSingle, Text: "В1", Options: StringArray{"A", "B"}, CorrectOption: 0},
			{Kind: QuestionKindMultiple, Text: "В2", Options: StringArray{"A", "B", "C"}, CorrectOptions: IntArray{0, 2}},
			{Kind: QuestionKindTrueFalse, Text: "В3", Options: TrueFalseOptions(), CorrectLiteral: TrueLiteral},
		},
	}
}

func TestQuiz_Validate_Success(t *testing.T) {
	// Arrange
	quiz := validQuiz()

	// Act & Assert
	require.NoError(t, quiz.Validate())
}

func TestQuiz_Validate_NoQuestions(t *testing.T) {
	// Arrange
	quiz := validQuiz()
	quiz.Questions = nil

	// Act
	err := quiz.Validate()

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConfiguration, "Викторина без вопросов непригодна для игры")
}

func TestQuiz_Validate_NonPositiveSeconds(t *testing.T) {
	// Arrange
	quiz := validQuiz()
	quiz.SecondsPerQuestion = 0

	// Act & Assert
	assert.ErrorIs(t, quiz.Validate(), apperrors.ErrConfiguration)
}

func TestQuiz_Validate_PropagatesQuestionError(t *testing.T) {
	// Arrange: второй вопрос с пустым набором правильных ответов
	quiz := validQuiz()
	quiz.Questions[1].CorrectOptions = IntArray{}

	// Act & Assert
	assert.ErrorIs(t, quiz.Validate(), apperrors.ErrConfiguration)
}

func TestNormalizeJoinCode(t *testing.T) {
	// Act & Assert: поиск по коду регистронезависимый
	assert.Equal(t, "GOQUIZ", NormalizeJoinCode("goquiz"))
	assert.Equal(t, "GOQUIZ", NormalizeJoinCode("  GoQuiz  "))
}
