// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
	"golang.org/x/time/rate"

	awsx "github.com/tfctl/awssweep/internal/aws"
	"github.com/tfctl/awssweep/internal/config"
	"github.com/tfctl/awssweep/internal/output"
	"github.com/tfctl/awssweep/internal/sweep"
)

// ErrNotInteractive is returned by run when confirmation is required but
// stdin is not a terminal.
var ErrNotInteractive = errors.New("refusing to delete without --yes when stdin is not a terminal")

// actionDeps holds the side effects of a sweep action so tests can replace
// them.
type actionDeps struct {
	loadConfig func(ctx context.Context, opts ...awsx.Option) (awsv2.Config, error)
	newAPIs    func(cfg awsv2.Config) (sweep.APIs, awsx.CallerIdentityAPI)
	confirm    func(message string) (bool, error)
	isTerminal func() bool
	out        io.Writer
}

var deps = actionDeps{
	loadConfig: awsx.LoadAWSConfig,
	newAPIs:    newAPIs,
	confirm:    surveyConfirm,
	isTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	out:        os.Stdout,
}

// SweepActionRunner runs a sweep for the run and plan subcommands.
type SweepActionRunner struct {
	CommandName string
	DryRun      bool
}

// Run resolves the account, asks for confirmation when deleting, sweeps the
// selected services and emits the report. The report is emitted even when a
// sweeper fails so the caller can see what was already removed.
func (sar *SweepActionRunner) Run(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	if len(m.Args) > 1 {
		log.Debugf("Executing action for %v", m.Args[1:])
	}

	if ShortCircuitTLDR(ctx, cmd, sar.CommandName) {
		return nil
	}

	config.Config.Namespace = sar.CommandName

	prefix := sweep.Prefix(strings.TrimSpace(cmd.String("prefix")))

	var creds *awsx.Credentials
	if path := cmd.String("credentials"); path != "" {
		c, err := awsx.LoadCredentialsFile(path)
		if err != nil {
			return err
		}
		creds = c
	}

	cfg, err := deps.loadConfig(ctx,
		awsx.WithProfile(cmd.String("profile")),
		awsx.WithRegion(cmd.String("region")),
		awsx.WithStaticCredentials(creds),
	)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	apis, stsAPI := deps.newAPIs(cfg)
	id, err := awsx.CallerIdentity(ctx, stsAPI)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"account": id.Account,
		"region":  cfg.Region,
		"prefix":  prefix,
		"dry_run": sar.DryRun,
	}).Info("Target")

	if !sar.DryRun && !cmd.Bool("yes") {
		if !deps.isTerminal() {
			return ErrNotInteractive
		}
		msg := fmt.Sprintf("Delete every resource prefixed %q in account %s (%s)?", prefix, id.Account, cfg.Region)
		ok, err := deps.confirm(msg)
		if err != nil {
			return err
		}
		if !ok {
			log.Info("Cancelled")
			return nil
		}
	}

	report := sweep.NewReport(prefix, sar.DryRun)
	report.Account = id.Account
	report.ARN = id.ARN
	report.Region = cfg.Region

	opts := sweep.Options{
		Prefix:     prefix,
		DryRun:     sar.DryRun,
		AllPages:   cmd.Bool("all-pages"),
		RetryDelay: cmd.Duration("retry-delay"),
		Report:     report,
	}
	if r := cmd.Float("rate"); r > 0 {
		opts.Limiter = rate.NewLimiter(rate.Limit(r), 1)
	}

	sweepers, err := sweep.ForServices(splitList(cmd.String("services")), apis, opts)
	if err != nil {
		return err
	}

	runErr := sweep.Run(ctx, sweepers...)
	report.Finish(runErr)

	padding, _ := config.GetInt("padding", 2)
	if err := output.Emit(report, output.Options{
		Format:  cmd.String("output"),
		Filter:  cmd.String("filter"),
		Sort:    cmd.String("sort"),
		Titles:  cmd.Bool("titles"),
		Color:   cmd.Bool("color"),
		Padding: padding,
	}, deps.out); err != nil {
		return err
	}

	if runErr != nil {
		return runErr
	}
	log.WithField("run_id", report.RunID).Info("Done")
	return nil
}

func newAPIs(cfg awsv2.Config) (sweep.APIs, awsx.CallerIdentityAPI) {
	c := awsx.NewClients(cfg)
	return sweep.APIs{
		IAM:             c.IAM,
		S3:              c.S3,
		CognitoIdentity: c.CognitoIdentity,
		CognitoIDP:      c.CognitoIDP,
		DynamoDB:        c.DynamoDB,
		Lambda:          c.Lambda,
		SFN:             c.SFN,
		APIGateway:      c.APIGateway,
	}, c.STS
}

func surveyConfirm(message string) (bool, error) {
	confirmed := false
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false, err
	}
	return confirmed, nil
}
