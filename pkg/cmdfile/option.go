// SPDX-License-Identifier: MPL-2.0

package cmdfile

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	OptionString OptionType = "string"
	OptionBool   OptionType = "bool"
	OptionInt    OptionType = "int"
)

type (
	// OptionType is the value type of an Option.
	OptionType string

	// Option is a named command-line flag declared by a command.
	Option struct {
		Name     string     `json:"name"`
		Short    string     `json:"short,omitempty"`
		Help     string     `json:"help"`
		Type     OptionType `json:"type"`
		Required bool       `json:"required"`
		// Multiple allows the flag to be repeated. Only string options support it.
		Multiple bool `json:"multiple"`
		Default  any  `json:"default,omitempty"`
	}
)

// EnvName is the variable a script reads the option value from.
func (o Option) EnvName() string {
	return "PALM_OPT_" + strings.ToUpper(strings.ReplaceAll(o.Name, "-", "_"))
}

// DefaultString renders Default as a flag value. Missing defaults yield the zero
// value of the option type.
func (o Option) DefaultString() string {
	if o.Default == nil {
		switch o.Type {
		case OptionBool:
			return "false"
		case OptionInt:
			return "0"
		default:
			return ""
		}
	}
	return fmt.Sprint(o.Default)
}

// Validate checks that the default matches the declared type.
func (o Option) Validate() error {
	if o.Multiple && o.Type != OptionString {
		return fmt.Errorf("option %q: only string options may be repeated", o.Name)
	}
	if o.Default == nil {
		return nil
	}
	def := fmt.Sprint(o.Default)
	switch o.Type {
	case OptionBool:
		if _, err := strconv.ParseBool(def); err != nil {
			return fmt.Errorf("option %q: default %q is not a bool", o.Name, def)
		}
	case OptionInt:
		if _, err := strconv.Atoi(def); err != nil {
			return fmt.Errorf("option %q: default %q is not an int", o.Name, def)
		}
	}
	return nil
}
