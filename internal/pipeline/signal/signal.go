// internal/pipeline/signal/signal.go
package signal

import "mindline-backend/pkg/lexicon"

// Hit is one piece of risk evidence produced by an extractor. Severity
// travels with the hit so nothing downstream inspects tag names.
type Hit struct {
	Tag      string
	Severity lexicon.Severity
	Weight   float64
}

// Extractor inspects raw text and emits zero or more weighted hits.
// Implementations are stateless, pure functions of the input and must
// scan the text in a single pass.
type Extractor interface {
	Name() string
	Extract(text string) ([]Hit, error)
}
