// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-sdk-go-v2/service/sfn/types"
)

const sfnPageSize = 500

// SFNAPI is the subset of the Step Functions client used to sweep state
// machines and activities.
type SFNAPI interface {
	ListStateMachines(ctx context.Context, params *sfn.ListStateMachinesInput, optFns ...func(*sfn.Options)) (*sfn.ListStateMachinesOutput, error)
	ListActivities(ctx context.Context, params *sfn.ListActivitiesInput, optFns ...func(*sfn.Options)) (*sfn.ListActivitiesOutput, error)
	DeleteStateMachine(ctx context.Context, params *sfn.DeleteStateMachineInput, optFns ...func(*sfn.Options)) (*sfn.DeleteStateMachineOutput, error)
	DeleteActivity(ctx context.Context, params *sfn.DeleteActivityInput, optFns ...func(*sfn.Options)) (*sfn.DeleteActivityOutput, error)
}

var _ SFNAPI = (*sfn.Client)(nil)

// StepFunctions removes state machines, then activities.
type StepFunctions struct {
	base
	api    SFNAPI
	prefix Prefix
}

// NewStepFunctions returns a Step Functions sweeper matching on the dashed
// prefix.
func NewStepFunctions(api SFNAPI, opts Options) *StepFunctions {
	return &StepFunctions{base: newBase(ServiceStepFunctions, opts), api: api, prefix: opts.Prefix.Dashed()}
}

// Sweep implements Sweeper.
func (s *StepFunctions) Sweep(ctx context.Context) error {
	machines, err := pages(ctx, s.opts.AllPages, func(ctx context.Context, token *string) ([]types.StateMachineListItem, *string, error) {
		out, err := s.api.ListStateMachines(ctx, &sfn.ListStateMachinesInput{MaxResults: sfnPageSize, NextToken: token})
		if err != nil {
			return nil, nil, err
		}
		return out.StateMachines, out.NextToken, nil
	})
	if err != nil {
		return err
	}

	for _, m := range machines {
		name := awsv2.ToString(m.Name)
		if !s.prefix.Matches(name) {
			continue
		}
		arn := awsv2.ToString(m.StateMachineArn)
		err := s.apply(ctx, Action{Kind: KindStateMachine, Name: name, ID: arn, Verb: VerbDelete}, func(ctx context.Context) error {
			_, err := s.api.DeleteStateMachine(ctx, &sfn.DeleteStateMachineInput{StateMachineArn: awsv2.String(arn)})
			return err
		})
		if err != nil {
			return err
		}
	}

	activities, err := pages(ctx, s.opts.AllPages, func(ctx context.Context, token *string) ([]types.ActivityListItem, *string, error) {
		out, err := s.api.ListActivities(ctx, &sfn.ListActivitiesInput{MaxResults: sfnPageSize, NextToken: token})
		if err != nil {
			return nil, nil, err
		}
		return out.Activities, out.NextToken, nil
	})
	if err != nil {
		return err
	}

	for _, act := range activities {
		name := awsv2.ToString(act.Name)
		if !s.prefix.Matches(name) {
			continue
		}
		arn := awsv2.ToString(act.ActivityArn)
		err := s.apply(ctx, Action{Kind: KindActivity, Name: name, ID: arn, Verb: VerbDelete}, func(ctx context.Context) error {
			_, err := s.api.DeleteActivity(ctx, &sfn.DeleteActivityInput{ActivityArn: awsv2.String(arn)})
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}
