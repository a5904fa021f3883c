// internal/common/validation/schema_test.go
package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "mindline-backend/internal/common/errors"
	"mindline-backend/internal/models"
)

func TestValidateAcceptsWellFormedUtterance(t *testing.T) {
	v, err := NewUtteranceValidator(2000)
	require.NoError(t, err)

	assert.NoError(t, v.Validate(models.Utterance{
		Text:      "hello there",
		UserID:    "user-1",
		SessionID: "session-1",
	}))

	// Session is optional.
	assert.NoError(t, v.Validate(models.Utterance{Text: "hi", UserID: "user-1"}))
}

func TestValidateRejectsViolations(t *testing.T) {
	v, err := NewUtteranceValidator(10)
	require.NoError(t, err)

	tests := []struct {
		name      string
		utterance models.Utterance
	}{
		{"missing user id", models.Utterance{Text: "hello"}},
		{"oversized text", models.Utterance{Text: strings.Repeat("a", 11), UserID: "user-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.utterance)
			require.Error(t, err)

			stdErr, ok := err.(*stderrors.StandardError)
			require.True(t, ok)
			assert.Equal(t, stderrors.ErrCodeInvalidUtterance, stdErr.Code)
			assert.NotEmpty(t, stdErr.Details)
		})
	}
}
