// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command defines the CLI command set for awssweep. It wires flags,
// validators, the run and plan actions, and shell completion.
package command
