// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	stderrors "mindline-backend/internal/common/errors"
	"mindline-backend/internal/models"
)

// utteranceSchema builds the JSON schema enforcing the utterance input
// contract. The text length limit is deployment configuration, so the
// schema is assembled per validator.
func utteranceSchema(maxChars int) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"text": map[string]interface{}{
				"type":      "string",
				"maxLength": maxChars,
			},
			"userId": map[string]interface{}{
				"type":      "string",
				"minLength": 1,
			},
			"sessionId": map[string]interface{}{
				"type": "string",
			},
		},
		"required":             []string{"text", "userId"},
		"additionalProperties": false,
	}
}

// UtteranceValidator checks inbound utterances against the contract.
// A violation is the one condition the pipeline surfaces as a hard error.
type UtteranceValidator struct {
	schema *gojsonschema.Schema
}

func NewUtteranceValidator(maxChars int) (*UtteranceValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(utteranceSchema(maxChars)))
	if err != nil {
		return nil, fmt.Errorf("compile utterance schema: %w", err)
	}
	return &UtteranceValidator{schema: schema}, nil
}

// Validate returns an INVALID_UTTERANCE StandardError describing every
// violated constraint, or nil.
func (v *UtteranceValidator) Validate(u models.Utterance) error {
	doc := map[string]interface{}{
		"text":   u.Text,
		"userId": u.UserID,
	}
	if u.SessionID != "" {
		doc["sessionId"] = u.SessionID
	}

	result, err := v.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return stderrors.NewInvalidUtteranceError(err.Error())
	}
	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, resErr := range result.Errors() {
		details = append(details, fmt.Sprintf("%s: %s", resErr.Field(), resErr.Description()))
	}
	return stderrors.NewInvalidUtteranceError(strings.Join(details, "; "))
}
