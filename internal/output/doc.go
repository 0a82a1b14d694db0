// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output renders a sweep report as a table, json or yaml after
// filtering and sorting its rows.
package output
