// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tfctl/nodectl/internal/cacheutil"
	"github.com/tfctl/nodectl/internal/command"
	"github.com/tfctl/nodectl/internal/config"
	"github.com/tfctl/nodectl/internal/log"
	"github.com/tfctl/nodectl/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs handles command-specific argument processing.
func processCommandArgs(args []string) []string {
	switch {
	case len(args) > 1 && args[1] == "completion":
		// Short-circuit completion: pass args directly.
		return args
	default:
		args = processSetOnly(args)
		log.Debugf("args after set processing: args=%v", args)

		args = deduplicateFlags(args)
		log.Debugf("args after dedup: args=%v", args)
		return args
	}
}

// boolFlags never take a value, so the argument after one is not consumed
// by it.
var boolFlags = map[string]bool{
	"c":             true,
	"color":         true,
	"exact":         true,
	"exit-code":     true,
	"h":             true,
	"help":          true,
	"l":             true,
	"local":         true,
	"q":             true,
	"query":         true,
	"remote-filter": true,
	"schema":        true,
	"t":             true,
	"titles":        true,
	"v":             true,
	"version":       true,
}

// repeatableFlags accumulate values, so every occurrence is kept.
var repeatableFlags = map[string]bool{
	"ignore":   true,
	"selected": true,
}

// deduplicateFlags drops earlier occurrences of a repeated flag so the last
// one wins. Positional arguments and the relative order of the remaining
// flags are preserved. Arguments after a bare -- are left alone.
func deduplicateFlags(args []string) []string {
	if len(args) <= 2 {
		return args
	}

	type token struct {
		name  string
		parts []string
	}

	isFlag := func(a string) bool {
		return strings.HasPrefix(a, "-") && a != "-"
	}

	var tokens []token
	var rest []string
	for i := 2; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			rest = args[i:]
			break
		}
		if !isFlag(a) {
			tokens = append(tokens, token{parts: []string{a}})
			continue
		}

		name := strings.TrimLeft(a, "-")
		if n, _, found := strings.Cut(name, "="); found {
			tokens = append(tokens, token{name: n, parts: []string{a}})
			continue
		}
		if !boolFlags[name] && i+1 < len(args) && !isFlag(args[i+1]) {
			tokens = append(tokens, token{name: name, parts: []string{a, args[i+1]}})
			i++
			continue
		}
		tokens = append(tokens, token{name: name, parts: []string{a}})
	}

	last := map[string]int{}
	for i, tok := range tokens {
		if tok.name != "" {
			last[tok.name] = i
		}
	}

	result := append([]string{}, args[:2]...)
	for i, tok := range tokens {
		if tok.name != "" && !repeatableFlags[tok.name] && last[tok.name] != i {
			continue
		}
		result = append(result, tok.parts...)
	}
	return append(result, rest...)
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	// Pre-create cache directory when caching is enabled.
	if _, _, err := cacheutil.EnsureBaseDir(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("cache ensure err: err=%v", err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	args = command.NormalizeArgs(app, args)
	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processCommandArgs(args)
	}

	return initAndRunApp(args)
}

// processSetOnly handles the @set logic for all commands, expanding set arguments at the @set position.
func processSetOnly(args []string) []string {
	// Look for an explicit @set argument starting from index 2.
	idx := 2
	set := "defaults"
	removeIdx := -1
	for i, a := range args[idx:] {
		if strings.HasPrefix(a, "@") {
			set = a[1:]
			removeIdx = idx + i
			break
		}
	}
	if removeIdx != -1 {
		// Remove the @set argument.
		args = append(args[:removeIdx], args[removeIdx+1:]...)
		// Expand the set arguments at the removeIdx position.
		setArgs, _ := config.GetStringSlice(args[1] + "." + set)
		for _, arg := range setArgs {
			parts := strings.Fields(arg)
			args = append(args[:removeIdx], append(parts, args[removeIdx:]...)...)
			removeIdx += len(parts)
		}
	}
	return args
}
