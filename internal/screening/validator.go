// Package screening validates candidate answers to a job's custom questions.
package screening

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "recruiting-platform/internal/common/errors"
	"recruiting-platform/internal/models"
)

// ValidateAnswers checks the submitted answers against the job's screening
// questions. Required questions must have a non-empty answer and answers to
// unknown questions are rejected.
func ValidateAnswers(questions []models.ScreeningQuestion, answers map[string]string) error {
	if len(questions) == 0 {
		if len(answers) > 0 {
			return apperrors.NewAnswersValidationFailedError("job has no screening questions")
		}
		return nil
	}

	schemaLoader := gojsonschema.NewGoLoader(buildSchema(questions))
	documentLoader := gojsonschema.NewGoLoader(answers)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return apperrors.NewAnswersValidationFailedError(fmt.Sprintf("schema validation error: %v", err))
	}

	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return apperrors.NewAnswersValidationFailedError(strings.Join(details, "; "))
	}
	return nil
}

// buildSchema derives a JSON schema from the question list. Each question
// becomes a string property; required questions get a minimum length of one
// and join the schema's required set.
func buildSchema(questions []models.ScreeningQuestion) map[string]interface{} {
	properties := make(map[string]interface{}, len(questions))
	var required []string

	for _, q := range questions {
		prop := map[string]interface{}{"type": "string"}
		if q.Required {
			prop["minLength"] = 1
			required = append(required, q.Question)
		}
		properties[q.Question] = prop
	}

	schema := map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
