// internal/pipeline/provider/chain_test.go
package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindline-backend/internal/common/config"
	stderrors "mindline-backend/internal/common/errors"
	"mindline-backend/internal/common/logger"
	"mindline-backend/internal/models"
	"mindline-backend/internal/pipeline/prompt"
	"mindline-backend/pkg/lexicon"
)

// ==========================
// Test Helper Functions
// ==========================

func completionsServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(handler)
}

func replyWith(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": text}},
			},
		})
	}
}

func clientFor(id, baseURL string) *HTTPClient {
	return NewHTTPClient(config.ProviderConfig{
		ID:      id,
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "test-model",
	})
}

func testPayload(text string) prompt.Payload {
	return prompt.Payload{System: "system prompt", UserText: text}
}

func noCrisis() models.CrisisAssessment {
	return models.CrisisAssessment{Level: models.CrisisNone}
}

func highCrisis() models.CrisisAssessment {
	return models.CrisisAssessment{
		Detected: true,
		Level:    models.CrisisHigh,
		Triggers: []models.Trigger{{Tag: "suicidal-ideation", Severity: lexicon.SeverityHigh}},
	}
}

const testScript = "call or text 988 right now"

func newTestChain(t *testing.T) *Chain {
	return NewChain(NewStaticResponder(testScript), logger.NewTestLogger(t))
}

// ==========================
// HTTP Client
// ==========================

func TestHTTPClientParsesReply(t *testing.T) {
	srv := completionsServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.NotEmpty(t, req.Messages)
		assert.Equal(t, "system", req.Messages[0].Role)

		replyWith("a kind reply")(w, r)
	})
	defer srv.Close()

	text, err := clientFor("primary", srv.URL).Generate(context.Background(), testPayload("hello"))
	require.NoError(t, err)
	assert.Equal(t, "a kind reply", text)
}

func TestHTTPClientEmptyBodyIsFailure(t *testing.T) {
	srv := completionsServer(t, replyWith("   "))
	defer srv.Close()

	_, err := clientFor("primary", srv.URL).Generate(context.Background(), testPayload("hello"))
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestHTTPClientNon2xxIsFailure(t *testing.T) {
	srv := completionsServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})
	defer srv.Close()

	_, err := clientFor("primary", srv.URL).Generate(context.Background(), testPayload("hello"))
	assert.Error(t, err)
}

// ==========================
// Chain Fallback Order
// ==========================

func TestChainUsesPrimaryWhenHealthy(t *testing.T) {
	srv := completionsServer(t, replyWith("from primary"))
	defer srv.Close()

	chain := newTestChain(t)
	chain.AddTier(clientFor("primary", srv.URL), time.Second)

	resp := chain.Generate(context.Background(), testPayload("hello"), noCrisis(), models.SentimentAssessment{})

	assert.Equal(t, "primary", resp.ProviderID)
	assert.Equal(t, "from primary", resp.Text)
}

func TestChainAdvancesOnTimeout(t *testing.T) {
	slow := completionsServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		replyWith("too late")(w, r)
	})
	defer slow.Close()
	fast := completionsServer(t, replyWith("from secondary"))
	defer fast.Close()

	chain := newTestChain(t)
	chain.AddTier(clientFor("primary", slow.URL), 50*time.Millisecond)
	chain.AddTier(clientFor("secondary", fast.URL), time.Second)

	resp := chain.Generate(context.Background(), testPayload("hello"), noCrisis(), models.SentimentAssessment{})

	assert.Equal(t, "secondary", resp.ProviderID)
	assert.Equal(t, "from secondary", resp.Text)
}

func TestChainAdvancesOnEmptyBody(t *testing.T) {
	empty := completionsServer(t, replyWith(""))
	defer empty.Close()
	healthy := completionsServer(t, replyWith("real reply"))
	defer healthy.Close()

	chain := newTestChain(t)
	chain.AddTier(clientFor("primary", empty.URL), time.Second)
	chain.AddTier(clientFor("secondary", healthy.URL), time.Second)

	resp := chain.Generate(context.Background(), testPayload("hello"), noCrisis(), models.SentimentAssessment{})

	assert.Equal(t, "secondary", resp.ProviderID)
}

func TestChainFallsBackToStatic(t *testing.T) {
	broken := completionsServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	defer broken.Close()

	chain := newTestChain(t)
	chain.AddTier(clientFor("primary", broken.URL), time.Second)
	chain.AddTier(clientFor("secondary", broken.URL), time.Second)

	resp := chain.Generate(context.Background(), testPayload("hello"), noCrisis(), models.SentimentAssessment{})

	assert.Equal(t, FallbackProviderID, resp.ProviderID)
	assert.NotEmpty(t, resp.Text)
}

func TestChainWithNoTiersUsesStatic(t *testing.T) {
	chain := newTestChain(t)

	resp := chain.Generate(context.Background(), testPayload("hello"), noCrisis(), models.SentimentAssessment{})

	assert.Equal(t, FallbackProviderID, resp.ProviderID)
	assert.NotEmpty(t, resp.Text)
}

func TestChainCancelledContextSkipsProviders(t *testing.T) {
	var called bool
	srv := completionsServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		replyWith("should not happen")(w, r)
	})
	defer srv.Close()

	chain := newTestChain(t)
	chain.AddTier(clientFor("primary", srv.URL), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := chain.Generate(ctx, testPayload("hello"), noCrisis(), models.SentimentAssessment{})

	assert.False(t, called)
	assert.Equal(t, FallbackProviderID, resp.ProviderID)
	assert.NotEmpty(t, resp.Text)
}

func TestChainFailureLogsTaxonomyCodes(t *testing.T) {
	empty := completionsServer(t, replyWith(""))
	defer empty.Close()
	broken := completionsServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	defer broken.Close()

	log, logs := logger.NewObservedLogger()
	chain := NewChain(NewStaticResponder(testScript), log)
	chain.AddTier(clientFor("primary", empty.URL), time.Second)
	chain.AddTier(clientFor("secondary", broken.URL), time.Second)

	resp := chain.Generate(context.Background(), testPayload("hello"), noCrisis(), models.SentimentAssessment{})
	assert.Equal(t, FallbackProviderID, resp.ProviderID)

	failures := logs.FilterMessage("provider attempt failed, advancing chain").All()
	require.Len(t, failures, 2)
	assert.Contains(t, failures[0].ContextMap()["error"], string(stderrors.ErrCodeProviderEmptyResponse))
	assert.Contains(t, failures[1].ContextMap()["error"], string(stderrors.ErrCodeProviderError))

	exhausted := logs.FilterMessage("every configured provider failed, engaging static responder").All()
	require.Len(t, exhausted, 1)
	assert.Contains(t, exhausted[0].ContextMap()["error"], string(stderrors.ErrCodeAllProvidersExhausted))
}

func TestChainTimeoutLogsTaxonomyCode(t *testing.T) {
	slow := completionsServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		replyWith("too late")(w, r)
	})
	defer slow.Close()

	log, logs := logger.NewObservedLogger()
	chain := NewChain(NewStaticResponder(testScript), log)
	chain.AddTier(clientFor("primary", slow.URL), 50*time.Millisecond)

	chain.Generate(context.Background(), testPayload("hello"), noCrisis(), models.SentimentAssessment{})

	failures := logs.FilterMessage("provider attempt failed, advancing chain").All()
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].ContextMap()["error"], string(stderrors.ErrCodeProviderTimeout))
}

func TestChainNoTiersSkipsExhaustedLog(t *testing.T) {
	log, logs := logger.NewObservedLogger()
	chain := NewChain(NewStaticResponder(testScript), log)

	chain.Generate(context.Background(), testPayload("hello"), noCrisis(), models.SentimentAssessment{})

	assert.Empty(t, logs.FilterMessage("every configured provider failed, engaging static responder").All())
}

func TestChainStaticCarriesEmergencyScript(t *testing.T) {
	chain := newTestChain(t)

	resp := chain.Generate(context.Background(), testPayload("I can't do this anymore"), highCrisis(), models.SentimentAssessment{})

	assert.Equal(t, FallbackProviderID, resp.ProviderID)
	assert.Contains(t, resp.Text, testScript)
}
