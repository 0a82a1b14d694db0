// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/awssweep/internal/meta"
)

// SweepCommandBuilder constructs the run and plan subcommands. They share the
// sweep and output flags and differ only in their extra flags and action.
type SweepCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (scb *SweepCommandBuilder) Build() *cli.Command {
	flags := append([]cli.Flag{newTldrFlag()}, scb.Flags...)
	flags = append(flags, NewSweepFlags(scb.Name, scb.Meta.Config.Source)...)
	flags = append(flags, NewOutputFlags()...)

	return &cli.Command{
		Name:      scb.Name,
		Usage:     scb.Usage,
		UsageText: scb.UsageText,
		Metadata: map[string]any{
			"meta": scb.Meta,
		},
		Flags:  flags,
		Action: scb.Action,
	}
}

func runCommandBuilder(meta meta.Meta) *cli.Command {
	return (&SweepCommandBuilder{
		Name:      "run",
		Usage:     "delete every resource carrying the prefix",
		UsageText: "awssweep run [--prefix ch.ebu] [--services iam,s3,...] [--yes]",
		Flags:     []cli.Flag{newYesFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return (&SweepActionRunner{CommandName: "run"}).Run(ctx, cmd)
		},
		Meta: meta,
	}).Build()
}

func planCommandBuilder(meta meta.Meta) *cli.Command {
	return (&SweepCommandBuilder{
		Name:      "plan",
		Usage:     "list what run would delete without deleting anything",
		UsageText: "awssweep plan [--prefix ch.ebu] [--services iam,s3,...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return (&SweepActionRunner{CommandName: "plan", DryRun: true}).Run(ctx, cmd)
		},
		Meta: meta,
	}).Build()
}
