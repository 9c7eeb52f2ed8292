// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"strconv"
	"strings"

	"github.com/palm-cli/palm/pkg/cmdfile"
)

// Values holds the parsed option values of one invocation.
type Values struct {
	opts    map[string]cmdfile.Option
	raw     map[string][]string
	changed map[string]bool
}

func newValues() Values {
	return Values{
		opts:    make(map[string]cmdfile.Option),
		raw:     make(map[string][]string),
		changed: make(map[string]bool),
	}
}

// String returns the value of a single-valued option, or the last value of a
// repeated one.
func (v Values) String(name string) string {
	vals := v.raw[name]
	if len(vals) == 0 {
		return ""
	}
	return vals[len(vals)-1]
}

// Strings returns every value given for name.
func (v Values) Strings(name string) []string {
	return append([]string(nil), v.raw[name]...)
}

// Bool returns the value of a bool option.
func (v Values) Bool(name string) bool {
	b, _ := strconv.ParseBool(v.String(name))
	return b
}

// Int returns the value of an int option.
func (v Values) Int(name string) int {
	n, _ := strconv.Atoi(v.String(name))
	return n
}

// Changed reports whether the option was given on the command line.
func (v Values) Changed(name string) bool { return v.changed[name] }

// Env exports every option as PALM_OPT_<NAME>. Repeated values are joined with
// a single space.
func (v Values) Env() map[string]string {
	env := make(map[string]string, len(v.opts))
	for name, opt := range v.opts {
		env[opt.EnvName()] = strings.Join(v.raw[name], " ")
	}
	return env
}
