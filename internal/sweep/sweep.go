// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"golang.org/x/time/rate"
)

// Service names accepted by ForServices.
const (
	ServiceIAM           = "iam"
	ServiceS3            = "s3"
	ServiceCognito       = "cognito"
	ServiceDynamoDB      = "dynamodb"
	ServiceLambda        = "lambda"
	ServiceStepFunctions = "stepfunctions"
	ServiceAPIGateway    = "apigateway"
)

// DefaultOrder is the fixed run order. IAM goes first so role policies are
// gone before anything that might still reference the role.
var DefaultOrder = []string{
	ServiceIAM,
	ServiceS3,
	ServiceCognito,
	ServiceDynamoDB,
	ServiceLambda,
	ServiceStepFunctions,
	ServiceAPIGateway,
}

// Sweeper deletes every resource of one service whose name carries the
// configured prefix.
type Sweeper interface {
	Name() string
	Sweep(ctx context.Context) error
}

// Options is shared by every sweeper of a run.
type Options struct {
	// Prefix selects resources by name.
	Prefix Prefix
	// DryRun lists and records matches without deleting anything.
	DryRun bool
	// AllPages follows continuation tokens on every list call. When false a
	// single page is fetched per list call, so very large accounts may keep
	// resources past the page cap.
	AllPages bool
	// Limiter paces delete and detach calls. Nil means unlimited.
	Limiter *rate.Limiter
	// RetryDelay is the pause between API Gateway delete attempts. Zero means
	// DefaultRetryDelay.
	RetryDelay time.Duration
	// Report receives one Action per completed or planned operation.
	Report *Report
}

// APIs carries the service clients sweepers are built from.
type APIs struct {
	IAM             IAMAPI
	S3              S3API
	CognitoIdentity CognitoIdentityAPI
	CognitoIDP      CognitoIDPAPI
	DynamoDB        DynamoDBAPI
	Lambda          LambdaAPI
	SFN             SFNAPI
	APIGateway      APIGatewayAPI
}

// ForServices builds sweepers for the named services. The result always
// follows DefaultOrder regardless of the order of names; duplicates collapse.
func ForServices(names []string, apis APIs, opts Options) ([]Sweeper, error) {
	want := map[string]bool{}
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if !IsService(n) {
			return nil, fmt.Errorf("unknown service %q, expected one of %v", n, DefaultOrder)
		}
		want[n] = true
	}

	var sweepers []Sweeper
	for _, n := range DefaultOrder {
		if !want[n] {
			continue
		}
		switch n {
		case ServiceIAM:
			sweepers = append(sweepers, NewIAM(apis.IAM, opts))
		case ServiceS3:
			sweepers = append(sweepers, NewS3(apis.S3, opts))
		case ServiceCognito:
			sweepers = append(sweepers, NewCognito(apis.CognitoIdentity, apis.CognitoIDP, opts))
		case ServiceDynamoDB:
			sweepers = append(sweepers, NewDynamoDB(apis.DynamoDB, opts))
		case ServiceLambda:
			sweepers = append(sweepers, NewLambda(apis.Lambda, opts))
		case ServiceStepFunctions:
			sweepers = append(sweepers, NewStepFunctions(apis.SFN, opts))
		case ServiceAPIGateway:
			sweepers = append(sweepers, NewAPIGateway(apis.APIGateway, opts))
		}
	}
	return sweepers, nil
}

// IsService reports whether name is a known service.
func IsService(name string) bool {
	for _, s := range DefaultOrder {
		if s == name {
			return true
		}
	}
	return false
}

// Run executes sweepers one after another. The first error stops the run and
// the remaining sweepers are skipped.
func Run(ctx context.Context, sweepers ...Sweeper) error {
	for _, s := range sweepers {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.WithField("service", s.Name()).Info("Sweeping")
		if err := s.Sweep(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.Name(), err)
		}
	}
	return nil
}

// base holds what every sweeper shares.
type base struct {
	service string
	opts    Options
}

func newBase(service string, opts Options) base {
	return base{service: service, opts: opts}
}

// Name implements Sweeper.
func (b base) Name() string {
	return b.service
}

// apply logs a and, outside of dry runs, waits for the limiter and runs fn.
// The action is recorded once fn succeeds, or immediately in a dry run.
func (b base) apply(ctx context.Context, a Action, fn func(context.Context) error) error {
	a.Service = b.service
	entry := log.WithField("service", b.service)
	if a.ID != "" {
		entry = entry.WithField("id", a.ID)
	}

	if b.opts.DryRun {
		a.Intent, a.Verb = a.Verb, VerbPlan
		entry.Infof("Would %s %s", a.Intent, a.Describe())
		b.opts.Report.Add(a)
		return nil
	}

	entry.Infof("%s %s", progressive(a.Verb), a.Describe())
	if b.opts.Limiter != nil {
		if err := b.opts.Limiter.Wait(ctx); err != nil {
			return err
		}
	}
	if err := fn(ctx); err != nil {
		return fmt.Errorf("failed to %s %s: %w", a.Verb, a.Describe(), err)
	}
	b.opts.Report.Add(a)
	return nil
}

// progressive returns the log form of v, e.g. "Deleting".
func progressive(v Verb) string {
	switch v {
	case VerbDetach:
		return "Detaching"
	case VerbDelete:
		return "Deleting"
	default:
		return string(v)
	}
}

// pages drives a token-paginated list call. Only the first page is fetched
// unless allPages is set, in which case fetch is called again with each
// returned token until the service stops returning one.
func pages[T any](
	ctx context.Context,
	allPages bool,
	fetch func(context.Context, *string) ([]T, *string, error),
) ([]T, error) {
	var (
		results []T
		token   *string
	)
	for {
		items, next, err := fetch(ctx, token)
		if err != nil {
			return nil, err
		}
		results = append(results, items...)

		if !allPages || awsv2.ToString(next) == "" {
			return results, nil
		}
		token = next
	}
}
