package llm

import (
	"fmt"
	"net/http"
)

// ErrCompletionFailed indicates the provider call itself failed: network
// error, authentication error, quota, or a 5xx from the API.
type ErrCompletionFailed struct {
	Provider string

	// StatusCode is the HTTP status returned by the API, or 0 when the
	// request never got a response.
	StatusCode int
	Err        error
}

func (e *ErrCompletionFailed) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s completion failed (HTTP %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s completion failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s completion failed", e.Provider)
}

func (e *ErrCompletionFailed) Unwrap() error { return e.Err }

// RateLimited reports whether the provider rejected the call with 429.
// Nothing retries on it; it only changes how the failure is reported.
func (e *ErrCompletionFailed) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Text string
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// ErrEmptyResponse indicates the provider returned no text at all.
type ErrEmptyResponse struct {
	Model string
}

func (e *ErrEmptyResponse) Error() string {
	return fmt.Sprintf("LLM returned an empty response (model %s)", e.Model)
}
