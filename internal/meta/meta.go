// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/tfctl/nodectl/internal/config"
	"github.com/tfctl/nodectl/internal/nodes"
)

// Meta contains runtime metadata shared by commands: the CLI arguments, the
// loaded configuration, the record kind the command works on (with any
// prefixed filters declared in the config merged in) and the starting
// working directory.
type Meta struct {
	Args        []string
	Config      config.Type
	Context     context.Context
	Kind        *nodes.Kind
	StartingDir string
}
