// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
)

// iamPageSize caps every IAM list call.
const iamPageSize = 500

// IAMAPI is the subset of the IAM client used to sweep roles and policies.
type IAMAPI interface {
	ListRoles(ctx context.Context, params *iam.ListRolesInput, optFns ...func(*iam.Options)) (*iam.ListRolesOutput, error)
	ListRolePolicies(ctx context.Context, params *iam.ListRolePoliciesInput, optFns ...func(*iam.Options)) (*iam.ListRolePoliciesOutput, error)
	ListAttachedRolePolicies(ctx context.Context, params *iam.ListAttachedRolePoliciesInput, optFns ...func(*iam.Options)) (*iam.ListAttachedRolePoliciesOutput, error)
	ListPolicies(ctx context.Context, params *iam.ListPoliciesInput, optFns ...func(*iam.Options)) (*iam.ListPoliciesOutput, error)
	DeleteRolePolicy(ctx context.Context, params *iam.DeleteRolePolicyInput, optFns ...func(*iam.Options)) (*iam.DeleteRolePolicyOutput, error)
	DetachRolePolicy(ctx context.Context, params *iam.DetachRolePolicyInput, optFns ...func(*iam.Options)) (*iam.DetachRolePolicyOutput, error)
	DeleteRole(ctx context.Context, params *iam.DeleteRoleInput, optFns ...func(*iam.Options)) (*iam.DeleteRoleOutput, error)
	DeletePolicy(ctx context.Context, params *iam.DeletePolicyInput, optFns ...func(*iam.Options)) (*iam.DeletePolicyOutput, error)
}

var _ IAMAPI = (*iam.Client)(nil)

// IAM removes roles and customer managed policies. A role loses its inline
// policies and attached policies before it is deleted.
type IAM struct {
	base
	api    IAMAPI
	prefix Prefix
}

// NewIAM returns an IAM sweeper matching on the dashed prefix.
func NewIAM(api IAMAPI, opts Options) *IAM {
	return &IAM{base: newBase(ServiceIAM, opts), api: api, prefix: opts.Prefix.Dashed()}
}

// Sweep implements Sweeper.
func (s *IAM) Sweep(ctx context.Context) error {
	roles, err := pages(ctx, s.opts.AllPages, func(ctx context.Context, marker *string) ([]types.Role, *string, error) {
		out, err := s.api.ListRoles(ctx, &iam.ListRolesInput{MaxItems: awsv2.Int32(iamPageSize), Marker: marker})
		if err != nil {
			return nil, nil, err
		}
		return out.Roles, nextMarker(out.IsTruncated, out.Marker), nil
	})
	if err != nil {
		return err
	}

	for _, role := range roles {
		name := awsv2.ToString(role.RoleName)
		if !s.prefix.Matches(name) {
			continue
		}
		if err := s.sweepRole(ctx, name); err != nil {
			return err
		}
	}

	return s.sweepPolicies(ctx)
}

func (s *IAM) sweepRole(ctx context.Context, role string) error {
	inline, err := pages(ctx, s.opts.AllPages, func(ctx context.Context, marker *string) ([]string, *string, error) {
		out, err := s.api.ListRolePolicies(ctx, &iam.ListRolePoliciesInput{
			RoleName: awsv2.String(role),
			MaxItems: awsv2.Int32(iamPageSize),
			Marker:   marker,
		})
		if err != nil {
			return nil, nil, err
		}
		return out.PolicyNames, nextMarker(out.IsTruncated, out.Marker), nil
	})
	if err != nil {
		return err
	}

	for _, policy := range inline {
		a := Action{Kind: KindRolePolicy, Name: policy, Parent: role, Verb: VerbDelete}
		err := s.apply(ctx, a, func(ctx context.Context) error {
			_, err := s.api.DeleteRolePolicy(ctx, &iam.DeleteRolePolicyInput{
				PolicyName: awsv2.String(policy),
				RoleName:   awsv2.String(role),
			})
			return err
		})
		if err != nil {
			return err
		}
	}

	attached, err := pages(ctx, s.opts.AllPages, func(ctx context.Context, marker *string) ([]types.AttachedPolicy, *string, error) {
		out, err := s.api.ListAttachedRolePolicies(ctx, &iam.ListAttachedRolePoliciesInput{
			RoleName: awsv2.String(role),
			MaxItems: awsv2.Int32(iamPageSize),
			Marker:   marker,
		})
		if err != nil {
			return nil, nil, err
		}
		return out.AttachedPolicies, nextMarker(out.IsTruncated, out.Marker), nil
	})
	if err != nil {
		return err
	}

	for _, policy := range attached {
		arn := awsv2.ToString(policy.PolicyArn)
		a := Action{Kind: KindAttachedPolicy, Name: awsv2.ToString(policy.PolicyName), ID: arn, Parent: role, Verb: VerbDetach}
		err := s.apply(ctx, a, func(ctx context.Context) error {
			_, err := s.api.DetachRolePolicy(ctx, &iam.DetachRolePolicyInput{
				PolicyArn: awsv2.String(arn),
				RoleName:  awsv2.String(role),
			})
			return err
		})
		if err != nil {
			return err
		}
	}

	return s.apply(ctx, Action{Kind: KindRole, Name: role, Verb: VerbDelete}, func(ctx context.Context) error {
		_, err := s.api.DeleteRole(ctx, &iam.DeleteRoleInput{RoleName: awsv2.String(role)})
		return err
	})
}

// sweepPolicies deletes customer managed policies. AWS managed policies are
// never listed.
func (s *IAM) sweepPolicies(ctx context.Context) error {
	policies, err := pages(ctx, s.opts.AllPages, func(ctx context.Context, marker *string) ([]types.Policy, *string, error) {
		out, err := s.api.ListPolicies(ctx, &iam.ListPoliciesInput{
			Scope:    types.PolicyScopeTypeLocal,
			MaxItems: awsv2.Int32(iamPageSize),
			Marker:   marker,
		})
		if err != nil {
			return nil, nil, err
		}
		return out.Policies, nextMarker(out.IsTruncated, out.Marker), nil
	})
	if err != nil {
		return err
	}

	for _, policy := range policies {
		name := awsv2.ToString(policy.PolicyName)
		if !s.prefix.Matches(name) {
			continue
		}
		arn := awsv2.ToString(policy.Arn)
		err := s.apply(ctx, Action{Kind: KindPolicy, Name: name, ID: arn, Verb: VerbDelete}, func(ctx context.Context) error {
			_, err := s.api.DeletePolicy(ctx, &iam.DeletePolicyInput{PolicyArn: awsv2.String(arn)})
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// nextMarker returns marker only when IAM says there is more to read.
func nextMarker(truncated bool, marker *string) *string {
	if !truncated {
		return nil
	}
	return marker
}
