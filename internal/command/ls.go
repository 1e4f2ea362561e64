// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/nodectl/internal/config"
	"github.com/tfctl/nodectl/internal/meta"
	"github.com/tfctl/nodectl/internal/nodes"
)

// lsCommandAction is the action handler for the "ls" subcommand. It loads the
// records of the source given after the kind (stdin when omitted), filters
// them and emits results per common flags.
func lsCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "ls"

	fetch := func(ctx context.Context, cmd *cli.Command, kind *nodes.Kind, filter string) ([]gjson.Result, []byte, error) {
		return LoadRecords(ctx, cmd, kind, cmd.Args().Get(1), filter)
	}

	return NewListActionRunner("ls", fetch).Run(ctx, cmd)
}

// lsCommandBuilder constructs the cli.Command for "ls".
func lsCommandBuilder(meta meta.Meta) *cli.Command {
	return (&ListCommandBuilder{
		Name:      "ls",
		Usage:     "list records",
		UsageText: "nodectl ls <kind> [source] [options]",
		Action:    lsCommandAction,
		Meta:      meta,
	}).Build()
}
