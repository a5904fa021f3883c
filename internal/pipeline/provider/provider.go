// internal/pipeline/provider/provider.go
package provider

import (
	"context"
	"errors"

	"mindline-backend/internal/pipeline/prompt"
)

// ErrEmptyResponse marks an upstream reply with no usable text. An
// empty body is a provider failure and advances the chain.
var ErrEmptyResponse = errors.New("provider returned empty response")

// Client is one upstream AI tier. Generate returns the reply text or an
// error; it must respect ctx cancellation.
type Client interface {
	ID() string
	Generate(ctx context.Context, payload prompt.Payload) (string, error)
}

// FallbackProviderID is the reserved provider id reported when the
// static responder produces the reply.
const FallbackProviderID = "fallback"
