package player

import (
	"errors"
	"fmt"
)

// Load failures. Every LoadError wraps exactly one of these as its Kind.
var (
	// ErrUnknownSource is returned for an empty or unparseable source.
	ErrUnknownSource = errors.New("unknown source")

	// ErrDownloadFailed is returned when fetching remote bytes fails.
	ErrDownloadFailed = errors.New("download failed")

	// ErrDataParseFailed is returned when fetched bytes cannot be decoded.
	ErrDataParseFailed = errors.New("data parse failed")

	// ErrAssetParseFailed is returned when a bundled asset cannot be decoded.
	ErrAssetParseFailed = errors.New("asset parse failed")

	// ErrEntityInvalid is returned when a decoded entity cannot be played.
	ErrEntityInvalid = errors.New("entity invalid")
)

// ErrEmptyData is the cause reported when a fetch succeeds with no bytes.
var ErrEmptyData = errors.New("empty response")

// LoadError describes a terminal failure of one load attempt.
type LoadError struct {
	Kind   error    // One of the Err* sentinels above
	Source string   // Source identifier of the failed attempt
	Reason Validity // Set when Kind is ErrEntityInvalid
	Entity Entity   // Set when Kind is ErrEntityInvalid
	Cause  error    // Underlying error, if any
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%v: %q", e.Kind, e.Source)
	if errors.Is(e.Kind, ErrEntityInvalid) {
		msg += ": " + e.Reason.String()
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *LoadError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func newLoadError(kind error, source string, cause error) *LoadError {
	return &LoadError{Kind: kind, Source: source, Cause: cause}
}
