// SPDX-License-Identifier: MPL-2.0

package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/palm-cli/palm/internal/dispatch"
	"github.com/palm-cli/palm/internal/tui"
	"github.com/palm-cli/palm/pkg/cmdfile"
)

// Commands lists the visible commands with their help text, grouped by plugin.
// This loads every command file; broken ones are flagged instead of aborting.
func (a *Actions) Commands(_ context.Context, inv *dispatch.Invocation) (int, error) {
	if a.lister == nil {
		return 1, fmt.Errorf("commands: no dispatcher bound")
	}
	all := inv.Values.Bool("all")

	printed := 0
	for _, g := range a.lister.Groups() {
		rows := a.commandRows(g.Commands, all)
		if len(rows) == 0 {
			continue
		}
		if printed > 0 {
			fmt.Fprintln(inv.Stdout)
		}
		printed++

		fmt.Fprintln(inv.Stdout, tui.TitleStyle.Render(g.Title))
		width := 0
		for _, r := range rows {
			width = max(width, len(r.name))
		}
		for _, r := range rows {
			fmt.Fprintf(inv.Stdout, "  %s  %s\n", tui.CmdStyle.Render(pad(string(r.name), width)), r.help)
		}
	}
	return 0, nil
}

type commandRow struct {
	name cmdfile.Name
	help string
}

// commandRows loads each command for its help text. Hidden commands are left
// out unless all is set.
func (a *Actions) commandRows(names []cmdfile.Name, all bool) []commandRow {
	rows := make([]commandRow, 0, len(names))
	for _, n := range names {
		exe, err := a.lister.Load(n)
		switch {
		case err != nil:
			rows = append(rows, commandRow{name: n, help: tui.ErrorStyle.Render("import error")})
		case exe.Command.Hidden && !all:
		default:
			rows = append(rows, commandRow{name: n, help: tui.SubtitleStyle.Render(exe.Command.ShortHelp())})
		}
	}
	return rows
}

func pad(s string, width int) string {
	return s + strings.Repeat(" ", width-len(s))
}
