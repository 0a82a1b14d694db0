// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package sweep deletes AWS resources whose names start with a prefix. There
// is one Sweeper per service; each lists its resources, keeps the matching
// names and deletes them one at a time. Run executes sweepers in order and
// stops at the first failure.
//
// Services that forbid dots in names are matched against Prefix.Dashed. S3
// bucket names are matched against the raw prefix.
package sweep
