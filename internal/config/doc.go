// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for awssweep's user
// configuration. The configuration is a YAML document named by
// AWSSWEEP_CFG_FILE or located in the user's configuration directory:
//   - Linux: $XDG_CONFIG_HOME/awssweep.yaml or $HOME/.config/awssweep.yaml
//   - macOS: $HOME/Library/Application Support/awssweep.yaml
//   - Windows: %APPDATA%/awssweep.yaml
//
// Keys may be namespaced by subcommand, e.g. "plan.prefix" takes precedence
// over "prefix" when running the plan command.
package config
