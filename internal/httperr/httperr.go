// Package httperr defines the error shapes shared by the outbound HTTP
// client facades. Every upstream failure, whatever its transport cause,
// is normalized into one of two types so handlers can render a uniform
// text message without inspecting the wire.
package httperr

import "fmt"

// ConfigError reports a required credential or setting that is missing
// before any network call is attempted.
type ConfigError struct {
	Setting string
	Hint    string
}

func (e *ConfigError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("missing required configuration %s (%s)", e.Setting, e.Hint)
	}
	return fmt.Sprintf("missing required configuration %s", e.Setting)
}

// UpstreamError wraps a non-2xx response or a transport failure from one
// of the external APIs. Message carries the upstream error body when the
// API supplied one, else the transport error text. A timeout is not
// distinguished from any other upstream failure.
type UpstreamError struct {
	API        string // "cloud", "agent", "provider" or "wiki"
	StatusCode int    // 0 for transport failures
	Message    string
	Err        error // underlying transport error, if any
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s API request failed (HTTP %d): %s", e.API, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API request failed: %s", e.API, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
