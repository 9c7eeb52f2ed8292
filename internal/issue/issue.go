// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies a catalog entry.
type Id int

const (
	CommandNotFoundId Id = iota + 1
	CommandImportErrorId
	PluginNotFoundId
	ProtectedBranchId
	InvalidConfigId
	ProjectNotInitializedId
	ContainerEngineNotFoundId
	ContainerDaemonUnreachableId
	ScriptFailedId
)

type (
	// MarkdownMsg is the Markdown body of an issue page.
	MarkdownMsg string

	// HttpLink is an external reference shown under an issue.
	HttpLink string

	// Issue is one page of the catalog.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
		links []HttpLink
	}
)

func (i *Issue) Id() Id { return i.id }

func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// Links returns a copy of the external references.
func (i *Issue) Links() []HttpLink { return slices.Clone(i.links) }

// Render formats the issue for a terminal using the glamour style at stylePath
// ("dark", "light", "notty", or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.links) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, l := range i.links {
			md.WriteString("- <" + string(l) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	commandNotFoundIssue = &Issue{
		id: CommandNotFoundId,
		mdMsg: `
# Command not found

No loaded plugin provides this command.

## Things you can try
- List what is available in this project:
~~~
$ palm commands
~~~
- Check the spelling of the command name
- Make sure the plugin that ships it is listed under ` + "`plugins`" + ` in .palm/config.yaml`,
	}

	commandImportErrorIssue = &Issue{
		id: CommandImportErrorId,
		mdMsg: `
# Command file could not be loaded

The command exists, but its cmd_<name>.cue file failed to parse or validate.

## Things you can try
- Read the path printed after "Import error:" to find the field at fault
- Validate the file with the cue tool:
~~~
$ cue vet cmd_build.cue
~~~
- If the file came from an override in .palm, delete it to fall back to the plugin version`,
	}

	pluginNotFoundIssue = &Issue{
		id: PluginNotFoundId,
		mdMsg: `
# Plugin not found

A plugin named in the project configuration is neither built in nor installed.

## Things you can try
- Install it:
~~~
$ palm plugin install https://github.com/acme/palm-example.git
~~~
- Remove it from ` + "`plugins`" + ` in .palm/config.yaml
- Check PALM_PLUGIN_PATH if you keep plugins outside ~/.palm/plugins`,
	}

	protectedBranchIssue = &Issue{
		id: ProtectedBranchId,
		mdMsg: `
# Protected branch

The current branch is listed under ` + "`protected_branches`" + `, so palm refuses to run.

## Things you can try
- Switch to a working branch:
~~~
$ git switch -c my-feature
~~~
- Edit ` + "`protected_branches`" + ` in .palm/config.yaml or ~/.palm/config.yaml`,
	}

	invalidConfigIssue = &Issue{
		id: InvalidConfigId,
		mdMsg: `
# Invalid configuration

A palm config file did not match the expected schema. Defaults were used instead.

## Expected shape
~~~yaml
image_name: my_project
container_engine: docker
plugins: [example]
protected_branches: [main]
excluded_commands: []
plugin_config:
  example:
    key: value
~~~`,
	}

	projectNotInitializedIssue = &Issue{
		id: ProjectNotInitializedId,
		mdMsg: `
# Project not initialized

This command needs a .palm directory at the project root.

## Things you can try
~~~
$ palm init
~~~`,
	}

	containerEngineNotFoundIssue = &Issue{
		id: ContainerEngineNotFoundId,
		mdMsg: `
# Container engine not found

Container commands run through ` + "`<engine> compose run`" + `, but the engine binary is not on PATH.

## Things you can try
- Install Docker or Podman
- Set ` + "`container_engine`" + ` in your config to the engine you have`,
		links: []HttpLink{"https://docs.docker.com/get-docker/", "https://podman.io/docs/installation"},
	}

	containerDaemonUnreachableIssue = &Issue{
		id: ContainerDaemonUnreachableId,
		mdMsg: `
# Container engine is not running

The engine binary exists but ` + "`info`" + ` failed, so the daemon is probably stopped.

## Things you can try
- Start Docker Desktop or the docker service
- For Podman, start the machine:
~~~
$ podman machine start
~~~`,
	}

	scriptFailedIssue = &Issue{
		id: ScriptFailedId,
		mdMsg: `
# Command failed

The script exited with a non-zero status. Its own output above explains why.

## Things you can try
- Re-run with ` + "`--verbose`" + ` to see how palm started it`,
	}

	issues = map[Id]*Issue{
		commandNotFoundIssue.Id():            commandNotFoundIssue,
		commandImportErrorIssue.Id():         commandImportErrorIssue,
		pluginNotFoundIssue.Id():             pluginNotFoundIssue,
		protectedBranchIssue.Id():            protectedBranchIssue,
		invalidConfigIssue.Id():              invalidConfigIssue,
		projectNotInitializedIssue.Id():      projectNotInitializedIssue,
		containerEngineNotFoundIssue.Id():    containerEngineNotFoundIssue,
		containerDaemonUnreachableIssue.Id(): containerDaemonUnreachableIssue,
		scriptFailedIssue.Id():               scriptFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id - b.id) })
	return out
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
