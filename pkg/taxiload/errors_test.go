package taxiload_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/taxiload/taxiload/pkg/taxiload"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, taxiload.ExitSuccess},
		{"general error", errors.New("something went wrong"), taxiload.ExitGeneralError},
		{"unknown flag", errors.New("unknown flag: --foo"), taxiload.ExitUsageError},
		{"unknown shorthand flag", errors.New("unknown shorthand flag: 'x' in -x"), taxiload.ExitUsageError},
		{"invalid argument", errors.New("invalid argument \"abc\" for \"--pg-port\""), taxiload.ExitUsageError},
		{"invalid config", fmt.Errorf("chunk: %w", taxiload.ErrInvalidConfig), taxiload.ExitConfigError},
		{"unsupported auth", taxiload.ErrUnsupportedAuthMethod, taxiload.ExitConfigError},
		{"unsupported source", taxiload.ErrUnsupportedSource, taxiload.ExitConfigError},
		{"connection failed", taxiload.ErrConnectionFailed, taxiload.ExitConnectionError},
		{"connection refused text", errors.New("dial tcp: connection refused"), taxiload.ExitConnectionError},
		{"fetch failed", fmt.Errorf("GET x: %w", taxiload.ErrFetchFailed), taxiload.ExitFetchError},
		{"decode failed", taxiload.ErrDecodeFailed, taxiload.ExitDecodeError},
		{"write failed", fmt.Errorf("slice 3: %w", taxiload.ErrWriteFailed), taxiload.ExitWriteError},
		{"verification failed", taxiload.ErrVerificationFailed, taxiload.ExitVerificationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := taxiload.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
