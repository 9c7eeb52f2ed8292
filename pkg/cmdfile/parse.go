// SPDX-License-Identifier: MPL-2.0

package cmdfile

import (
	_ "embed"

	"github.com/palm-cli/palm/pkg/cueutil"
)

//go:embed cmdfile_schema.cue
var schema []byte

// Parse decodes and validates the body of the command file for name. path only
// labels error messages.
func Parse(name Name, data []byte, path string) (*Command, error) {
	res, err := cueutil.Decode[Command](schema, data, "#Command", cueutil.WithFilename(path))
	if err != nil {
		return nil, err
	}
	cmd := res.Value
	cmd.Name = name
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}
