// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"errors"
	"fmt"

	"github.com/palm-cli/palm/pkg/cmdfile"
)

var (
	// ErrCommandImport is returned when a command file cannot be parsed,
	// validated or bound to an action or runtime.
	ErrCommandImport = errors.New("command import failed")
	// ErrUsage is returned for invalid command-line options.
	ErrUsage = errors.New("invalid usage")
	// ErrCommandPanicked is returned when an action panics.
	ErrCommandPanicked = errors.New("command panicked")
)

type (
	// ImportError wraps ErrCommandImport.
	ImportError struct {
		Command cmdfile.Name
		Path    string
		Err     error
	}

	// UsageError wraps ErrUsage.
	UsageError struct {
		Command cmdfile.Name
		Err     error
	}

	// reportedError marks an error whose message was already written to the user.
	reportedError struct {
		err error
	}
)

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s (%s): %v", e.Command, e.Path, e.Err)
}

func (e *ImportError) Unwrap() []error { return []error{ErrCommandImport, e.Err} }

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *UsageError) Unwrap() error { return ErrUsage }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error { return &reportedError{err: err} }

// IsReported reports whether err was already printed by the dispatcher, in which
// case callers should only propagate the exit code.
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}
