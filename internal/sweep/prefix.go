// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sweep

import "strings"

// Prefix is the name prefix that marks a resource for deletion.
type Prefix string

// Dashed returns the prefix with every "." replaced by "-". Services whose
// naming rules forbid dots are matched against this form.
func (p Prefix) Dashed() Prefix {
	return Prefix(strings.ReplaceAll(string(p), ".", "-"))
}

// Matches reports whether name starts with the prefix. An empty prefix never
// matches so that a missing setting cannot select a whole account.
func (p Prefix) Matches(name string) bool {
	return p != "" && strings.HasPrefix(name, string(p))
}

func (p Prefix) String() string {
	return string(p)
}
