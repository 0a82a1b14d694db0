// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"context"
	"strconv"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

const (
	lambdaFunctionPageSize = 500
	lambdaLayerPageSize    = 50
)

// LambdaAPI is the subset of the Lambda client used to sweep functions and
// layers.
type LambdaAPI interface {
	ListFunctions(ctx context.Context, params *lambda.ListFunctionsInput, optFns ...func(*lambda.Options)) (*lambda.ListFunctionsOutput, error)
	ListLayers(ctx context.Context, params *lambda.ListLayersInput, optFns ...func(*lambda.Options)) (*lambda.ListLayersOutput, error)
	DeleteFunction(ctx context.Context, params *lambda.DeleteFunctionInput, optFns ...func(*lambda.Options)) (*lambda.DeleteFunctionOutput, error)
	DeleteLayerVersion(ctx context.Context, params *lambda.DeleteLayerVersionInput, optFns ...func(*lambda.Options)) (*lambda.DeleteLayerVersionOutput, error)
}

var _ LambdaAPI = (*lambda.Client)(nil)

// Lambda removes functions, then the latest version of each matching layer.
// Older layer versions are left in place.
type Lambda struct {
	base
	api    LambdaAPI
	prefix Prefix
}

// NewLambda returns a Lambda sweeper matching on the dashed prefix.
func NewLambda(api LambdaAPI, opts Options) *Lambda {
	return &Lambda{base: newBase(ServiceLambda, opts), api: api, prefix: opts.Prefix.Dashed()}
}

// Sweep implements Sweeper.
func (s *Lambda) Sweep(ctx context.Context) error {
	if err := s.sweepFunctions(ctx); err != nil {
		return err
	}
	return s.sweepLayers(ctx)
}

func (s *Lambda) sweepFunctions(ctx context.Context) error {
	fns, err := pages(ctx, s.opts.AllPages, func(ctx context.Context, marker *string) ([]types.FunctionConfiguration, *string, error) {
		out, err := s.api.ListFunctions(ctx, &lambda.ListFunctionsInput{
			MaxItems: awsv2.Int32(lambdaFunctionPageSize),
			Marker:   marker,
		})
		if err != nil {
			return nil, nil, err
		}
		return out.Functions, out.NextMarker, nil
	})
	if err != nil {
		return err
	}

	for _, fn := range fns {
		name := awsv2.ToString(fn.FunctionName)
		if !s.prefix.Matches(name) {
			continue
		}
		err := s.apply(ctx, Action{Kind: KindFunction, Name: name, Verb: VerbDelete}, func(ctx context.Context) error {
			_, err := s.api.DeleteFunction(ctx, &lambda.DeleteFunctionInput{FunctionName: awsv2.String(name)})
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Lambda) sweepLayers(ctx context.Context) error {
	layers, err := pages(ctx, s.opts.AllPages, func(ctx context.Context, marker *string) ([]types.LayersListItem, *string, error) {
		out, err := s.api.ListLayers(ctx, &lambda.ListLayersInput{
			MaxItems: awsv2.Int32(lambdaLayerPageSize),
			Marker:   marker,
		})
		if err != nil {
			return nil, nil, err
		}
		return out.Layers, out.NextMarker, nil
	})
	if err != nil {
		return err
	}

	for _, layer := range layers {
		name := awsv2.ToString(layer.LayerName)
		if !s.prefix.Matches(name) {
			continue
		}
		if layer.LatestMatchingVersion == nil {
			log.WithField("service", s.service).Debugf("Skipping layer %s without a version", name)
			continue
		}
		version := layer.LatestMatchingVersion.Version
		a := Action{Kind: KindLayerVersion, Name: name, ID: strconv.FormatInt(version, 10), Verb: VerbDelete}
		err := s.apply(ctx, a, func(ctx context.Context) error {
			_, err := s.api.DeleteLayerVersion(ctx, &lambda.DeleteLayerVersionInput{
				LayerName:     awsv2.String(name),
				VersionNumber: awsv2.Int64(version),
			})
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}
