// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws loads SDK configuration (default chain or a static credentials
// file) and builds the explicit client set used by the sweepers.
package aws
