// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters narrows the rows of a sweep report before they are printed.
//
// Filters are key-operator-target expressions joined by a delimiter (default
// comma, override with AWSSWEEP_FILTER_DELIM). Keys are report columns such as
// service, kind, name, verb or objects.
//
// Operators:
//
//   - = : exact match (negate with !=)
//   - ^ : prefix match
//   - ~ : case-insensitive match
//   - < : less than
//   - > : greater than
//   - @ : contains
//   - / : regular expression
//
// Examples:
//
//   - "service=iam" : only IAM actions
//   - "kind!=objects" : hide S3 object batches
//   - "objects>1000" : only large batches
//   - "name/^ch-ebu-(dev|test)" : names matching a pattern
//
// Every filter must match for a row to be kept. A filter naming an unknown
// column is reported and ignored.
package filters
