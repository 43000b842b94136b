package interfaces

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned when a required identifier or credential is not configured.
	// It is fatal to the operation, not to the process.
	ErrConfiguration = errors.New("configuration error")

	// ErrExternalInvocation is returned when the contract-invocation process fails.
	ErrExternalInvocation = errors.New("contract invocation failed")

	// ErrUpstream is returned when the pinning service rejects a request.
	ErrUpstream = errors.New("upstream service error")

	// ErrAccessDenied is returned when the contract reports no access for a user.
	ErrAccessDenied = errors.New("user has no access to this content")

	// ErrKeyNotFound is returned when no key record exists for a content id.
	ErrKeyNotFound = errors.New("AES key not found for this content")

	// ErrMalformedUpstreamOutput is returned when the contract-invocation output
	// cannot be interpreted, e.g. a non-numeric content id.
	ErrMalformedUpstreamOutput = errors.New("unexpected contract output")

	// ErrInvalidLocationURI is returned when a secret store location URI is malformed or unsupported.
	ErrInvalidLocationURI = errors.New("invalid secret store location URI")
)

// InvocationError carries the diagnostic output of a failed contract invocation.
type InvocationError struct {
	Method   string
	ExitCode int
	// Output is the process's stderr, or its stdout when stderr was empty.
	Output string
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("Stellar CLI error: %s", e.Output)
}

func (e *InvocationError) Unwrap() error {
	return ErrExternalInvocation
}

// UpstreamError carries the response of a pinning service that rejected an upload.
type UpstreamError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("IPFS upload failed: %s", e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// ConfigurationErrorf formats a configuration error wrapping ErrConfiguration.
func ConfigurationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
