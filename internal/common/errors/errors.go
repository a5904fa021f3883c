// Package errors provides standardized error handling for the chat turn
// pipeline.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Signal extraction: one scorer errored, recovered locally with zero
	// contribution.
	ErrCodeExtractorFailure ErrorCode = "EXTRACTOR_FAILURE"

	// Provider chain: all recovered locally by advancing to the next tier.
	ErrCodeProviderTimeout       ErrorCode = "PROVIDER_TIMEOUT"
	ErrCodeProviderError         ErrorCode = "PROVIDER_ERROR"
	ErrCodeProviderEmptyResponse ErrorCode = "PROVIDER_EMPTY_RESPONSE"

	// Expected terminal condition of the chain, resolved by the static
	// responder. Not a failure.
	ErrCodeAllProvidersExhausted ErrorCode = "ALL_PROVIDERS_EXHAUSTED"

	// Context store: recovered via the in-memory fallback.
	ErrCodeContextStoreUnavailable ErrorCode = "CONTEXT_STORE_UNAVAILABLE"

	// Turn-level: deadline exceeded degrades the turn, never fails it.
	ErrCodeDeadlineExceeded ErrorCode = "DEADLINE_EXCEEDED"

	// The only hard failure: a programming-contract violation by the host.
	ErrCodeInvalidUtterance ErrorCode = "INVALID_UTTERANCE"

	ErrCodeHistoryLookupFailed ErrorCode = "HISTORY_LOOKUP_FAILED"
	ErrCodeAlertSendFailed     ErrorCode = "ALERT_SEND_FAILED"
)

// StandardError represents a structured pipeline error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewExtractorFailureError records a failed signal extractor. Retryable
// only in the sense that the next turn runs it again.
func NewExtractorFailureError(extractor string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExtractorFailure,
		Message:   "Signal extractor failed, contribution treated as zero",
		Details:   fmt.Sprintf("extractor: %s, error: %s", extractor, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderTimeoutError creates a retryable provider timeout error.
func NewProviderTimeoutError(providerID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderTimeout,
		Message:   "Provider attempt exceeded its timeout",
		Details:   fmt.Sprintf("providerId: %s", providerID),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderError creates a retryable upstream provider error.
func NewProviderError(providerID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderError,
		Message:   "Provider request failed",
		Details:   fmt.Sprintf("providerId: %s, error: %s", providerID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderEmptyResponseError flags an empty upstream body, which is
// treated as a provider failure rather than a success.
func NewProviderEmptyResponseError(providerID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderEmptyResponse,
		Message:   "Provider returned an empty body",
		Details:   fmt.Sprintf("providerId: %s", providerID),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAllProvidersExhaustedError marks the expected terminal state of the
// chain before the static responder takes over.
func NewAllProvidersExhaustedError(attempted int) *StandardError {
	return &StandardError{
		Code:      ErrCodeAllProvidersExhausted,
		Message:   "Every configured provider failed, static fallback engaged",
		Details:   fmt.Sprintf("providersAttempted: %d", attempted),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewContextStoreUnavailableError creates a retryable store outage error.
func NewContextStoreUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeContextStoreUnavailable,
		Message:   "Durable context store unreachable, in-memory fallback active",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeadlineExceededError marks a turn that ran out of its overall budget.
func NewDeadlineExceededError(budget time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeDeadlineExceeded,
		Message:   "Turn deadline exceeded, degraded to static fallback",
		Details:   fmt.Sprintf("budget: %s", budget),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidUtteranceError creates the only error that propagates to the
// host as a hard failure.
func NewInvalidUtteranceError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidUtterance,
		Message:   "Utterance violates the input contract",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewHistoryLookupFailedError records a risk-history read failure; the
// turn proceeds without escalation input.
func NewHistoryLookupFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeHistoryLookupFailed,
		Message:   "Risk history lookup failed, escalation skipped",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAlertSendFailedError records a counselor alert delivery failure.
func NewAlertSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlertSendFailed,
		Message:   "Counselor alert delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
