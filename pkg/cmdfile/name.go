// SPDX-License-Identifier: MPL-2.0

package cmdfile

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// FilePrefix starts every command file name.
	FilePrefix = "cmd_"
	// FileExt ends every command file name.
	FileExt = ".cue"
)

// ErrInvalidCommandName is returned when a command name does not match NamePattern.
var (
	ErrInvalidCommandName = errors.New("invalid command name")

	namePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)
)

type (
	// Name is the identifier a user types after palm.
	Name string

	// InvalidCommandNameError wraps ErrInvalidCommandName.
	InvalidCommandNameError struct {
		Value Name
	}
)

func (e *InvalidCommandNameError) Error() string {
	return fmt.Sprintf("invalid command name %q (must match %s)", e.Value, namePattern)
}

func (e *InvalidCommandNameError) Unwrap() error { return ErrInvalidCommandName }

// IsValid reports whether n is a legal command name.
func (n Name) IsValid() (bool, []error) {
	if namePattern.MatchString(string(n)) {
		return true, nil
	}
	return false, []error{&InvalidCommandNameError{Value: n}}
}

func (n Name) String() string { return string(n) }

// FileName returns the file a command named n lives in.
func FileName(n Name) string {
	return FilePrefix + string(n) + FileExt
}

// ParseFileName extracts the command name from a directory entry. It reports false
// for anything that is not a command file, including files whose middle segment is
// not a valid name.
func ParseFileName(file string) (Name, bool) {
	if !strings.HasPrefix(file, FilePrefix) || !strings.HasSuffix(file, FileExt) {
		return "", false
	}
	n := Name(strings.TrimSuffix(strings.TrimPrefix(file, FilePrefix), FileExt))
	if ok, _ := n.IsValid(); !ok {
		return "", false
	}
	return n, true
}
