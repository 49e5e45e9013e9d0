package taxiload

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	_, err := loader.Load(ctx, cfg)
//	if errors.Is(err, taxiload.ErrFetchFailed) {
//	    // source URL unreachable
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrFetchFailed indicates the source file could not be retrieved.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrDecodeFailed indicates the source file is malformed or of an unexpected shape.
	ErrDecodeFailed = errors.New("decode failed")

	// ErrWriteFailed indicates a slice could not be written to the destination table.
	ErrWriteFailed = errors.New("write failed")

	// ErrVerificationFailed indicates a row count assertion did not hold.
	ErrVerificationFailed = errors.New("verification failed")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrUnsupportedSource indicates the source location scheme is not supported.
	ErrUnsupportedSource = errors.New("unsupported source")
)

// usageErrorPatterns are prefixes of errors produced by cobra/pflag argument handling.
var usageErrorPatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"required flag",
	"invalid argument",
	"flag needs an argument",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrUnsupportedAuthMethod), errors.Is(err, ErrUnsupportedSource):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrFetchFailed):
		return ExitFetchError
	case errors.Is(err, ErrDecodeFailed):
		return ExitDecodeError
	case errors.Is(err, ErrWriteFailed):
		return ExitWriteError
	case errors.Is(err, ErrVerificationFailed):
		return ExitVerificationFailed
	}

	errStr := err.Error()
	for _, pattern := range usageErrorPatterns {
		if strings.HasPrefix(errStr, pattern) {
			return ExitUsageError
		}
	}

	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
