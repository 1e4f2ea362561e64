// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/nodectl/internal/meta"
)

// ListCommandBuilder constructs a cli.Command for the subcommands that load
// and render records (ls, apply, diff, browse) using a consistent pattern.
// The builder wires metadata, adds the schema/query flags, applies global
// flags, and sets up validators.
type ListCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (lcb *ListCommandBuilder) Build() *cli.Command {
	return &cli.Command{
		Name:      lcb.Name,
		Usage:     lcb.Usage,
		UsageText: lcb.UsageText,
		Metadata: map[string]any{
			"meta": lcb.Meta,
		},
		Flags: append(lcb.Flags, append([]cli.Flag{
			newSchemaFlag(),
			newQueryFlag(),
		}, NewGlobalFlags(lcb.Name, lcb.Meta.Config.Source)...)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: lcb.Action,
	}
}
