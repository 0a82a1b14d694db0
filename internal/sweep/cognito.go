// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentity"
	citypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentity/types"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	idptypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// cognitoPageSize is the largest page both Cognito list calls accept.
const cognitoPageSize = 60

// CognitoIdentityAPI is the subset of the Cognito Identity client used to
// sweep identity pools.
type CognitoIdentityAPI interface {
	ListIdentityPools(ctx context.Context, params *cognitoidentity.ListIdentityPoolsInput, optFns ...func(*cognitoidentity.Options)) (*cognitoidentity.ListIdentityPoolsOutput, error)
	DeleteIdentityPool(ctx context.Context, params *cognitoidentity.DeleteIdentityPoolInput, optFns ...func(*cognitoidentity.Options)) (*cognitoidentity.DeleteIdentityPoolOutput, error)
}

// CognitoIDPAPI is the subset of the Cognito user pools client used to sweep
// user pools.
type CognitoIDPAPI interface {
	ListUserPools(ctx context.Context, params *cognitoidentityprovider.ListUserPoolsInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ListUserPoolsOutput, error)
	DeleteUserPool(ctx context.Context, params *cognitoidentityprovider.DeleteUserPoolInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.DeleteUserPoolOutput, error)
}

var (
	_ CognitoIdentityAPI = (*cognitoidentity.Client)(nil)
	_ CognitoIDPAPI      = (*cognitoidentityprovider.Client)(nil)
)

// Cognito removes identity pools, then user pools.
type Cognito struct {
	base
	identity CognitoIdentityAPI
	idp      CognitoIDPAPI
	prefix   Prefix
}

// NewCognito returns a Cognito sweeper matching on the dashed prefix.
func NewCognito(identity CognitoIdentityAPI, idp CognitoIDPAPI, opts Options) *Cognito {
	return &Cognito{
		base:     newBase(ServiceCognito, opts),
		identity: identity,
		idp:      idp,
		prefix:   opts.Prefix.Dashed(),
	}
}

// Sweep implements Sweeper.
func (s *Cognito) Sweep(ctx context.Context) error {
	if err := s.sweepIdentityPools(ctx); err != nil {
		return err
	}
	return s.sweepUserPools(ctx)
}

func (s *Cognito) sweepIdentityPools(ctx context.Context) error {
	pools, err := pages(ctx, s.opts.AllPages, func(ctx context.Context, token *string) ([]citypes.IdentityPoolShortDescription, *string, error) {
		out, err := s.identity.ListIdentityPools(ctx, &cognitoidentity.ListIdentityPoolsInput{
			MaxResults: awsv2.Int32(cognitoPageSize),
			NextToken:  token,
		})
		if err != nil {
			return nil, nil, err
		}
		return out.IdentityPools, out.NextToken, nil
	})
	if err != nil {
		return err
	}

	for _, p := range pools {
		name := awsv2.ToString(p.IdentityPoolName)
		if !s.prefix.Matches(name) {
			continue
		}
		id := awsv2.ToString(p.IdentityPoolId)
		err := s.apply(ctx, Action{Kind: KindIdentityPool, Name: name, ID: id, Verb: VerbDelete}, func(ctx context.Context) error {
			_, err := s.identity.DeleteIdentityPool(ctx, &cognitoidentity.DeleteIdentityPoolInput{IdentityPoolId: awsv2.String(id)})
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Cognito) sweepUserPools(ctx context.Context) error {
	pools, err := pages(ctx, s.opts.AllPages, func(ctx context.Context, token *string) ([]idptypes.UserPoolDescriptionType, *string, error) {
		out, err := s.idp.ListUserPools(ctx, &cognitoidentityprovider.ListUserPoolsInput{
			MaxResults: awsv2.Int32(cognitoPageSize),
			NextToken:  token,
		})
		if err != nil {
			return nil, nil, err
		}
		return out.UserPools, out.NextToken, nil
	})
	if err != nil {
		return err
	}

	for _, p := range pools {
		name := awsv2.ToString(p.Name)
		if !s.prefix.Matches(name) {
			continue
		}
		id := awsv2.ToString(p.Id)
		err := s.apply(ctx, Action{Kind: KindUserPool, Name: name, ID: id, Verb: VerbDelete}, func(ctx context.Context) error {
			_, err := s.idp.DeleteUserPool(ctx, &cognitoidentityprovider.DeleteUserPoolInput{UserPoolId: awsv2.String(id)})
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}
