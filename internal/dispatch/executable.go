// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/palm-cli/palm/internal/runtime"
	"github.com/palm-cli/palm/internal/tui"
	"github.com/palm-cli/palm/pkg/cmdfile"
)

// ExitUsage is the exit status for invalid options.
const ExitUsage = 2

type (
	// Invocation is what an action receives.
	Invocation struct {
		Command *cmdfile.Command
		Plugin  string
		// Args are the positional arguments left after option parsing.
		Args   []string
		Values Values
		Stdout io.Writer
		Stderr io.Writer
	}

	// ActionFunc implements a built-in command and returns its exit status.
	ActionFunc func(ctx context.Context, inv *Invocation) (int, error)

	// Executable is a loaded command, ready to run.
	Executable struct {
		Command *cmdfile.Command
		Plugin  string
		// Path is the command file location, for messages.
		Path string

		action  ActionFunc
		runtime runtime.Runtime
		dir     string
		stdout  io.Writer
		stderr  io.Writer
	}
)

// Run parses args against the command's options and runs it.
func (e *Executable) Run(ctx context.Context, args []string) (code int, err error) {
	values, rest, err := e.parse(args)
	if errors.Is(err, pflag.ErrHelp) {
		fmt.Fprint(e.stdout, e.Usage())
		return 0, nil
	}
	if err != nil {
		fmt.Fprintln(e.stderr, tui.ErrorStyle.Render("Error: "+err.Error()))
		fmt.Fprint(e.stderr, e.Usage())
		return ExitUsage, reported(&UsageError{Command: e.Command.Name, Err: err})
	}

	if e.action != nil {
		defer func() {
			if r := recover(); r != nil {
				code, err = 1, fmt.Errorf("%w: %s: %v", ErrCommandPanicked, e.Command.Name, r)
			}
		}()
		return e.action(ctx, &Invocation{
			Command: e.Command,
			Plugin:  e.Plugin,
			Args:    rest,
			Values:  values,
			Stdout:  e.stdout,
			Stderr:  e.stderr,
		})
	}

	env := maps.Clone(e.Command.Env)
	if env == nil {
		env = make(map[string]string)
	}
	maps.Copy(env, values.Env())

	return e.runtime.Run(ctx, runtime.Request{
		Command:     e.Command.Name,
		Script:      e.Command.Script,
		Args:        rest,
		Env:         env,
		Dir:         e.dir,
		Interactive: e.Command.Interactive,
	})
}

// Usage renders the command's help page.
func (e *Executable) Usage() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s palm %s", tui.TitleStyle.Render("Usage:"), e.Command.Name)
	if len(e.Command.Options) > 0 {
		b.WriteString(" [OPTIONS]")
	}
	if e.Command.Usage != "" {
		b.WriteString(" " + e.Command.Usage)
	}
	b.WriteString("\n")

	if help := strings.TrimSpace(e.Command.Help); help != "" {
		b.WriteString("\n" + help + "\n")
	}

	fs := e.flagSet(newValues())
	b.WriteString("\n" + tui.TitleStyle.Render("Options:") + "\n")
	b.WriteString(fs.FlagUsages())
	return b.String()
}

// parse splits args into option values and positional arguments. Commands that
// declare no options receive every argument verbatim, unknown flags included.
func (e *Executable) parse(args []string) (Values, []string, error) {
	values := newValues()
	if len(e.Command.Options) == 0 {
		if len(args) > 0 && (args[0] == "--help" || args[0] == "-h") {
			return values, nil, pflag.ErrHelp
		}
		return values, args, nil
	}

	fs := e.flagSet(values)
	if err := fs.Parse(args); err != nil {
		return values, nil, err
	}
	if help, _ := fs.GetBool("help"); help {
		return values, nil, pflag.ErrHelp
	}

	var missing []string
	for _, opt := range e.Command.Options {
		values.changed[opt.Name] = fs.Changed(opt.Name)
		if opt.Multiple {
			vals, err := fs.GetStringArray(opt.Name)
			if err != nil {
				return values, nil, err
			}
			values.raw[opt.Name] = vals
		} else {
			values.raw[opt.Name] = []string{fs.Lookup(opt.Name).Value.String()}
		}
		if opt.Required && !values.changed[opt.Name] {
			missing = append(missing, "--"+opt.Name)
		}
	}
	if len(missing) > 0 {
		return values, nil, fmt.Errorf("missing required option %s", strings.Join(missing, ", "))
	}
	return values, fs.Args(), nil
}

func (e *Executable) flagSet(values Values) *pflag.FlagSet {
	fs := pflag.NewFlagSet(string(e.Command.Name), pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	helpShort := "h"
	for _, opt := range e.Command.Options {
		values.opts[opt.Name] = opt
		if opt.Short == "h" {
			helpShort = ""
		}
		help := opt.Help
		if opt.Required {
			help += " (required)"
		}
		switch {
		case opt.Multiple:
			var def []string
			if opt.Default != nil {
				def = []string{opt.DefaultString()}
			}
			fs.StringArrayP(opt.Name, opt.Short, def, help)
		case opt.Type == cmdfile.OptionBool:
			fs.BoolP(opt.Name, opt.Short, opt.DefaultString() == "true", help)
		case opt.Type == cmdfile.OptionInt:
			def, _ := strconv.Atoi(opt.DefaultString())
			fs.IntP(opt.Name, opt.Short, def, help)
		default:
			fs.StringP(opt.Name, opt.Short, opt.DefaultString(), help)
		}
	}
	fs.BoolP("help", helpShort, false, "Show this message and exit")
	return fs
}
