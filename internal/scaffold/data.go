// SPDX-License-Identifier: MPL-2.0

package scaffold

type (
	// CommandData renders the command set.
	CommandData struct {
		Name string
		Help string
	}

	// ConfigData renders the config set (.palm/config.yaml).
	ConfigData struct {
		ImageName         string
		Plugins           []string
		ProtectedBranches []string
	}

	// PluginData renders the plugin set.
	PluginData struct {
		Name        string
		Description string
		Author      string
		AuthorEmail string
	}

	// ContainerData renders the containerize set.
	ContainerData struct {
		ImageName      string
		ComposeVersion string
		BaseImage      string
		// PackageManager is "pip3" or "poetry".
		PackageManager string
	}
)
