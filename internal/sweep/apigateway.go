// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"context"
	"time"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/apigateway/types"
)

const apiGatewayPageSize = 500

// APIGatewayAPI is the subset of the API Gateway client used to sweep REST
// APIs.
type APIGatewayAPI interface {
	GetRestApis(ctx context.Context, params *apigateway.GetRestApisInput, optFns ...func(*apigateway.Options)) (*apigateway.GetRestApisOutput, error)
	DeleteRestApi(ctx context.Context, params *apigateway.DeleteRestApiInput, optFns ...func(*apigateway.Options)) (*apigateway.DeleteRestApiOutput, error)
}

var _ APIGatewayAPI = (*apigateway.Client)(nil)

// APIGateway removes REST APIs. DeleteRestApi is throttled hard by AWS, so
// every delete is retried after a fixed delay until it succeeds or the
// context is cancelled.
type APIGateway struct {
	base
	api    APIGatewayAPI
	prefix Prefix
	delay  time.Duration
	sleep  sleeper
}

// NewAPIGateway returns an API Gateway sweeper matching on the dashed prefix.
func NewAPIGateway(api APIGatewayAPI, opts Options) *APIGateway {
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	return &APIGateway{
		base:   newBase(ServiceAPIGateway, opts),
		api:    api,
		prefix: opts.Prefix.Dashed(),
		delay:  delay,
		sleep:  sleepContext,
	}
}

// Sweep implements Sweeper.
func (s *APIGateway) Sweep(ctx context.Context) error {
	apis, err := pages(ctx, s.opts.AllPages, func(ctx context.Context, position *string) ([]types.RestApi, *string, error) {
		out, err := s.api.GetRestApis(ctx, &apigateway.GetRestApisInput{
			Limit:    awsv2.Int32(apiGatewayPageSize),
			Position: position,
		})
		if err != nil {
			return nil, nil, err
		}
		return out.Items, out.Position, nil
	})
	if err != nil {
		return err
	}

	for _, api := range apis {
		name := awsv2.ToString(api.Name)
		if !s.prefix.Matches(name) {
			continue
		}
		id := awsv2.ToString(api.Id)
		entry := log.WithFields(log.Fields{"service": s.service, "id": id})
		err := s.apply(ctx, Action{Kind: KindRestAPI, Name: name, ID: id, Verb: VerbDelete}, func(ctx context.Context) error {
			return retryForever(ctx, s.delay, s.sleep, entry, func(ctx context.Context) error {
				_, err := s.api.DeleteRestApi(ctx, &apigateway.DeleteRestApiInput{RestApiId: awsv2.String(id)})
				return err
			})
		})
		if err != nil {
			return err
		}
	}
	return nil
}
