// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentity"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/tfctl/awssweep/internal/log"
)

// Clients is the set of service clients a sweep needs. It is built once from a
// single aws.Config and handed to every sweeper, so there is no process-wide
// SDK state.
type Clients struct {
	Region          string
	APIGateway      *apigateway.Client
	CognitoIdentity *cognitoidentity.Client
	CognitoIDP      *cognitoidentityprovider.Client
	DynamoDB        *dynamodb.Client
	IAM             *iam.Client
	Lambda          *lambda.Client
	S3              *s3v2.Client
	SFN             *sfn.Client
	STS             *sts.Client
}

// NewClients constructs every service client from cfg.
func NewClients(cfg awsv2.Config) *Clients {
	c := &Clients{
		Region:          cfg.Region,
		APIGateway:      apigateway.NewFromConfig(cfg),
		CognitoIdentity: cognitoidentity.NewFromConfig(cfg),
		CognitoIDP:      cognitoidentityprovider.NewFromConfig(cfg),
		DynamoDB:        dynamodb.NewFromConfig(cfg),
		IAM:             iam.NewFromConfig(cfg),
		Lambda:          lambda.NewFromConfig(cfg),
		S3:              NewS3(cfg),
		SFN:             sfn.NewFromConfig(cfg),
		STS:             sts.NewFromConfig(cfg),
	}
	log.Debugf("clients created: region=%s", cfg.Region)
	return c
}

// NewS3 constructs a v2 S3 client from the provided config. Additional service
// options can be supplied via optFns.
func NewS3(cfg awsv2.Config, optFns ...func(*s3v2.Options)) *s3v2.Client {
	client := s3v2.NewFromConfig(cfg, optFns...)
	log.Debugf("s3 client created")
	return client
}

// CallerIdentityAPI is the STS subset used to report whose account is about
// to be swept.
type CallerIdentityAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

var _ CallerIdentityAPI = (*sts.Client)(nil)

// Identity describes the principal behind the loaded credentials.
type Identity struct {
	Account string
	ARN     string
	UserID  string
}

// CallerIdentity resolves the account and principal for the configured
// credentials. It doubles as a credentials check before anything is deleted.
func CallerIdentity(ctx context.Context, api CallerIdentityAPI) (Identity, error) {
	out, err := api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, fmt.Errorf("failed to resolve caller identity: %w", err)
	}
	return Identity{
		Account: awsv2.ToString(out.Account),
		ARN:     awsv2.ToString(out.Arn),
		UserID:  awsv2.ToString(out.UserId),
	}, nil
}
