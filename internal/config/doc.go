// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for nodectl's user
// configuration. The configuration is a YAML document named by
// NODECTL_CFG_FILE or located in the user's configuration directory,
// typically:
//   - Linux/macOS: $XDG_CONFIG_HOME/nodectl.yaml or $HOME/.config/nodectl.yaml
//   - Windows: %APPDATA%/nodectl.yaml
//
// A typical file declares extra prefixed filters per kind, named argument
// sets per command and output colors:
//
//	machine:
//	  prefixed:
//	    - filter: owner_data
//	      prefix: owner
//	ls:
//	  deployed: ["--filter", "status:(deployed)", "--sort", "hostname"]
//	colors:
//	  title: "#6CA0DC"
package config
