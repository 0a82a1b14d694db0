// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package log configures apex/log for awssweep and offers thin helpers used by
// packages that prefer not to import apex directly.
package log
