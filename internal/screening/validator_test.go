package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "recruiting-platform/internal/common/errors"
	"recruiting-platform/internal/models"
)

func questions() []models.ScreeningQuestion {
	return []models.ScreeningQuestion{
		{Question: "Possui experiência com Go?", Required: true},
		{Question: "Pretensão salarial", Required: false},
	}
}

func TestValidateAnswers_Valid(t *testing.T) {
	err := ValidateAnswers(questions(), map[string]string{
		"Possui experiência com Go?": "Sim, 5 anos",
		"Pretensão salarial":         "R$ 12.000",
	})
	assert.NoError(t, err)
}

func TestValidateAnswers_OptionalOmitted(t *testing.T) {
	err := ValidateAnswers(questions(), map[string]string{
		"Possui experiência com Go?": "Sim",
	})
	assert.NoError(t, err)
}

func TestValidateAnswers_MissingRequired(t *testing.T) {
	err := ValidateAnswers(questions(), map[string]string{
		"Pretensão salarial": "R$ 12.000",
	})
	require.Error(t, err)

	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeAnswersValidationFailed, stdErr.Code)
}

func TestValidateAnswers_EmptyRequiredAnswer(t *testing.T) {
	err := ValidateAnswers(questions(), map[string]string{
		"Possui experiência com Go?": "",
	})
	assert.Error(t, err)
}

func TestValidateAnswers_UnknownQuestion(t *testing.T) {
	err := ValidateAnswers(questions(), map[string]string{
		"Possui experiência com Go?": "Sim",
		"Pergunta inventada":         "resposta",
	})
	assert.Error(t, err)
}

func TestValidateAnswers_NoQuestions(t *testing.T) {
	assert.NoError(t, ValidateAnswers(nil, nil))
	assert.Error(t, ValidateAnswers(nil, map[string]string{"extra": "x"}))
}
