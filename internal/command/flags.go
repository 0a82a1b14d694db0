// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strings"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/awssweep/internal/sweep"
)

// DefaultPrefix is the prefix swept when nothing else is configured.
const DefaultPrefix = "ch.ebu"

// newYesFlag returns the flag that skips the confirmation prompt of the run
// command.
func newYesFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "yes",
		Aliases:     []string{"y"},
		Usage:       "delete without asking for confirmation",
		HideDefault: true,
		Sources:     cli.EnvVars("AWSSWEEP_YES"),
	}
}

// NewSweepFlags returns the flags shared by run and plan. Each flag reads, in
// order, its environment variable, "<ns>.<flag>" and "<flag>" from the config
// file at path.
func NewSweepFlags(ns string, path string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "prefix",
			Aliases: []string{"p"},
			Usage:   "resource name prefix to sweep",
			Sources: sourceChain(ns, path, "prefix", "AWSSWEEP_PREFIX"),
			Value:   DefaultPrefix,
			Validator: func(value string) error {
				return FlagValidators(value, PrefixValidator)
			},
		},
		&cli.StringFlag{
			Name:    "region",
			Aliases: []string{"r"},
			Usage:   "AWS region. Overrides the credentials file and profile",
			Sources: sourceChain(ns, path, "region", "AWSSWEEP_REGION"),
		},
		&cli.StringFlag{
			Name:    "profile",
			Usage:   "shared config profile to load",
			Sources: sourceChain(ns, path, "profile", "AWSSWEEP_PROFILE"),
		},
		&cli.StringFlag{
			Name:    "credentials",
			Usage:   "JSON file with accessKeyId, secretAccessKey and region",
			Sources: sourceChain(ns, path, "credentials", "AWSSWEEP_CREDENTIALS"),
		},
		&cli.StringFlag{
			Name:    "services",
			Usage:   "comma-separated list of services to sweep",
			Sources: sourceChain(ns, path, "services", "AWSSWEEP_SERVICES"),
			Value:   strings.Join(sweep.DefaultOrder, ","),
			Validator: func(value string) error {
				return FlagValidators(value, ServicesValidator)
			},
		},
		&cli.DurationFlag{
			Name:    "retry-delay",
			Usage:   "pause between API Gateway delete attempts",
			Sources: sourceChain(ns, path, "retry-delay"),
			Value:   sweep.DefaultRetryDelay,
		},
		&cli.FloatFlag{
			Name:    "rate",
			Usage:   "maximum delete calls per second, 0 for unlimited",
			Sources: sourceChain(ns, path, "rate"),
			Value:   0,
		},
		&cli.BoolFlag{
			Name:    "all-pages",
			Usage:   "follow continuation tokens on every list call",
			Sources: sourceChain(ns, path, "all-pages"),
		},
	}
}

// NewOutputFlags returns the flags that shape the final report.
func NewOutputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to the report",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort the report by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}
}

// sourceChain builds a chain of env vars followed by the config file sources
// for name.
func sourceChain(ns string, path string, name string, envs ...string) cli.ValueSourceChain {
	chain := make([]cli.ValueSource, 0, len(envs)+2)
	for _, e := range envs {
		chain = append(chain, cli.EnvVar(e))
	}
	chain = append(chain, configSources(ns, path, name)...)
	return cli.NewValueSourceChain(chain...)
}

func configSources(ns string, path string, name string) []cli.ValueSource {
	if path == "" {
		return nil
	}

	var sources []cli.ValueSource
	if ns != "" {
		sources = append(sources, yaml.YAML(ns+"."+name, altsrc.StringSourcer(path)))
	}
	return append(sources, yaml.YAML(name, altsrc.StringSourcer(path)))
}
