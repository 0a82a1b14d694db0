// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"context"
	"errors"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client used to empty and delete buckets.
type S3API interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	DeleteBucket(ctx context.Context, params *s3.DeleteBucketInput, optFns ...func(*s3.Options)) (*s3.DeleteBucketOutput, error)
}

var _ S3API = (*s3.Client)(nil)

// S3 empties and deletes buckets. Bucket names may contain dots, so the raw
// prefix is used.
type S3 struct {
	base
	api    S3API
	prefix Prefix
}

// NewS3 returns an S3 sweeper matching on the raw prefix.
func NewS3(api S3API, opts Options) *S3 {
	return &S3{base: newBase(ServiceS3, opts), api: api, prefix: opts.Prefix}
}

// Sweep implements Sweeper.
func (s *S3) Sweep(ctx context.Context) error {
	buckets, err := pages(ctx, s.opts.AllPages, func(ctx context.Context, token *string) ([]types.Bucket, *string, error) {
		out, err := s.api.ListBuckets(ctx, &s3.ListBucketsInput{ContinuationToken: token})
		if err != nil {
			return nil, nil, err
		}
		return out.Buckets, out.ContinuationToken, nil
	})
	if err != nil {
		return err
	}

	for _, b := range buckets {
		name := awsv2.ToString(b.Name)
		if !s.prefix.Matches(name) {
			continue
		}
		if !s.opts.DryRun {
			if err := s.empty(ctx, name); err != nil {
				return err
			}
		}
		err := s.apply(ctx, Action{Kind: KindBucket, Name: name, Verb: VerbDelete}, func(ctx context.Context) error {
			_, err := s.api.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: awsv2.String(name)})
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// empty deletes every object in bucket one listing page at a time. Object
// listing always follows the continuation token to the end, otherwise the
// bucket delete would fail.
func (s *S3) empty(ctx context.Context, bucket string) error {
	var token *string
	for {
		out, err := s.api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            awsv2.String(bucket),
			ContinuationToken: token,
		})
		if err != nil {
			return fmt.Errorf("failed to list objects in bucket %s: %w", bucket, err)
		}

		if len(out.Contents) > 0 {
			ids := make([]types.ObjectIdentifier, 0, len(out.Contents))
			for _, obj := range out.Contents {
				ids = append(ids, types.ObjectIdentifier{Key: obj.Key})
			}

			a := Action{Kind: KindObjects, Name: bucket, Parent: bucket, Verb: VerbDelete, Objects: len(ids)}
			err := s.apply(ctx, a, func(ctx context.Context) error {
				res, err := s.api.DeleteObjects(ctx, &s3.DeleteObjectsInput{
					Bucket: awsv2.String(bucket),
					Delete: &types.Delete{Objects: ids, Quiet: awsv2.Bool(true)},
				})
				if err != nil {
					return err
				}
				return objectErrors(res.Errors)
			})
			if err != nil {
				return err
			}
		}

		token = out.NextContinuationToken
		if awsv2.ToString(token) == "" {
			return nil
		}
	}
}

// objectErrors folds the per-key failures of a DeleteObjects response into a
// single error.
func objectErrors(errs []types.Error) error {
	if len(errs) == 0 {
		return nil
	}
	joined := make([]error, 0, len(errs))
	for _, e := range errs {
		joined = append(joined, fmt.Errorf("%s: %s %s",
			awsv2.ToString(e.Key), awsv2.ToString(e.Code), awsv2.ToString(e.Message)))
	}
	return errors.Join(joined...)
}
