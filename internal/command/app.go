// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/nodectl/internal/config"
	"github.com/tfctl/nodectl/internal/log"
	"github.com/tfctl/nodectl/internal/meta"
)

// kindCommands take the record kind as their first positional argument.
var kindCommands = []string{"ls", "apply", "diff", "browse"}

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// The arg[1] immediately following the binary (arg[0]) is the nodectl
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	// A missing config file is normal.
	cfg, err := config.Load()
	if err != nil {
		log.Debugf("config not loaded: err=%v", err)
	}
	cfg.Namespace = ns

	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}

	// Resolve the kind up front for the record commands. A bad kind is
	// reported by the command itself.
	if slices.Contains(kindCommands, ns) && len(args) > 2 && !strings.HasPrefix(args[2], "-") {
		if kind, err := ResolveKind(args[2]); err == nil {
			meta.Kind = kind
		}
	}

	app := &cli.Command{
		Name:  "nodectl",
		Usage: "search and inspect machine inventories",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "nodectl version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		lsCommandBuilder(meta),
		applyCommandBuilder(meta),
		diffCommandBuilder(meta),
		browseCommandBuilder(meta),
		filterCommandBuilder(meta),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sortFlags(cmd)
	}

	return app, nil
}

func sortFlags(cmd *cli.Command) {
	sort.Slice(cmd.Flags, func(i, j int) bool {
		return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
	})
	for _, sub := range cmd.Commands {
		sortFlags(sub)
	}
}
