// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tfctl/awssweep/internal/sweep"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

func OutputValidator(value any) error {
	var validOutputFlagValues = []string{"text", "json", "yaml"}
	for _, v := range validOutputFlagValues {
		if v == value {
			return nil
		}
	}
	return fmt.Errorf("must be one of %v", validOutputFlagValues)
}

// PrefixValidator rejects prefixes that would match everything or nothing.
func PrefixValidator(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("must not be empty")
	}
	if strings.ContainsAny(s, " \t\n*") {
		return errors.New("must not contain whitespace or wildcards")
	}
	return nil
}

// ServicesValidator accepts a comma-separated list of known service names.
func ServicesValidator(value any) error {
	s, _ := value.(string)
	names := splitList(s)
	if len(names) == 0 {
		return fmt.Errorf("must name at least one of %v", sweep.DefaultOrder)
	}
	for _, n := range names {
		if !sweep.IsService(n) {
			return fmt.Errorf("unknown service %q, must be one of %v", n, sweep.DefaultOrder)
		}
	}
	return nil
}

// splitList splits a comma-separated value, dropping blanks and normalizing
// case.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
