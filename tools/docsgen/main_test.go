// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestDescribeAndRender(t *testing.T) {
	cmd := &cli.Command{
		Name:      "ls",
		Usage:     "list records",
		UsageText: "nodectl ls <kind> [source] [options]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output format", Value: "text"},
		},
		Commands: []*cli.Command{{Name: "sub", Usage: "a subcommand"}},
	}

	sub := describe(cmd)
	require.Len(t, sub.Flags, 1)
	assert.Equal(t, "--output, -o", sub.Flags[0].Syntax)
	assert.Equal(t, "output format", sub.Flags[0].Description)
	require.Len(t, sub.Subcommands, 1)

	var buf bytes.Buffer
	require.NoError(t, render(&buf, mdTemplate, TemplateData{Subcommand: sub, Date: "today", Version: "dev"}))
	assert.Contains(t, buf.String(), "# nodectl ls")
	assert.Contains(t, buf.String(), "`--output, -o`")
	assert.Contains(t, buf.String(), "## sub")

	buf.Reset()
	require.NoError(t, render(&buf, manTemplate, TemplateData{Subcommand: sub, IDUpper: "LS"}))
	assert.Contains(t, buf.String(), ".TH NODECTL-LS 1")
}
