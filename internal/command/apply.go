// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/nodectl/internal/config"
	"github.com/tfctl/nodectl/internal/log"
	"github.com/tfctl/nodectl/internal/meta"
	"github.com/tfctl/nodectl/internal/nodes"
	"github.com/tfctl/nodectl/internal/store"
)

// applyCommandAction loads the records of a source, folds a stream of
// notifications into them and emits the resulting records like ls.
func applyCommandAction(ctx context.Context, cmd *cli.Command) error {
	config.Config.Namespace = "apply"

	notifications := cmd.Args().Get(2)
	if notifications == "" {
		return fmt.Errorf("missing notifications (usage: %s)", cmd.UsageText)
	}
	if notifications == "-" && (cmd.Args().Get(1) == "" || cmd.Args().Get(1) == "-") {
		return fmt.Errorf("records and notifications cannot both come from stdin")
	}

	fetch := func(ctx context.Context, cmd *cli.Command, kind *nodes.Kind, filter string) ([]gjson.Result, []byte, error) {
		// The remote filter would hide records the notifications refer to.
		if err := cmd.Set("remote-filter", "false"); err != nil {
			log.Debugf("remote filter not disabled: err=%v", err)
		}
		return LoadRecords(ctx, cmd, kind, cmd.Args().Get(1), filter)
	}

	prepare := func(_ context.Context, cmd *cli.Command, st *store.Store) error {
		var r io.Reader = cmd.Root().Reader
		if notifications != "-" {
			f, err := os.Open(notifications)
			if err != nil {
				return fmt.Errorf("failed to open notifications: %w", err)
			}
			defer f.Close()
			r = f
		}
		if r == nil {
			r = os.Stdin
		}

		count := 0
		err := store.ReadNotifications(r, func(n store.Notification) error {
			count++
			return st.Apply(n)
		})
		if err != nil {
			return fmt.Errorf("failed to apply notifications: %w", err)
		}
		log.Debugf("notifications applied: count=%d, revision=%d, records=%d", count, st.Revision(), st.Len())
		return nil
	}

	runner := NewListActionRunner("apply", fetch)
	runner.PrepareFn = prepare
	return runner.Run(ctx, cmd)
}

// applyCommandBuilder constructs the cli.Command for "apply".
func applyCommandBuilder(meta meta.Meta) *cli.Command {
	return (&ListCommandBuilder{
		Name:      "apply",
		Usage:     "apply a notification stream to records",
		UsageText: "nodectl apply <kind> <source> <notifications> [options]",
		Action:    applyCommandAction,
		Meta:      meta,
	}).Build()
}
