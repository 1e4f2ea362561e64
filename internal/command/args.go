// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/nodectl/internal/log"
)

// NormalizeArgs makes a lone "-" (stdin) usable as a positional argument.
// The cli parser stops at the first "-" and drops whatever follows it, so
// when one is present the subcommand's flags are moved ahead of its
// positional arguments, which then follow a "--".
func NormalizeArgs(app *cli.Command, args []string) []string {
	if len(args) < 3 || !slices.Contains(args[2:], "-") {
		return args
	}
	sub := app.Command(args[1])
	if sub == nil || len(sub.Commands) > 0 {
		return args
	}

	var flags, positional []string
	for i := 2; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if a == "-" || !strings.HasPrefix(a, "-") {
			positional = append(positional, a)
			continue
		}

		flags = append(flags, a)
		name := strings.TrimLeft(a, "-")
		if strings.Contains(name, "=") || !takesValue(sub, name) {
			continue
		}
		if i+1 < len(args) {
			flags = append(flags, args[i+1])
			i++
		}
	}

	out := slices.Concat(args[:2], flags, []string{"--"}, positional)
	log.Debugf("args normalized: args=%v", out)
	return out
}

// takesValue reports whether the named flag of cmd consumes the next
// argument. Unknown flags are left for the parser to reject.
func takesValue(cmd *cli.Command, name string) bool {
	for _, f := range cmd.Flags {
		if !slices.Contains(f.Names(), name) {
			continue
		}
		if b, ok := f.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			return false
		}
		return true
	}
	return false
}
