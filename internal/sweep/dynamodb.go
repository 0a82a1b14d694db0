// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const dynamoDBPageSize = 100

// DynamoDBAPI is the subset of the DynamoDB client used to sweep tables.
type DynamoDBAPI interface {
	ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)
	DeleteTable(ctx context.Context, params *dynamodb.DeleteTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error)
}

var _ DynamoDBAPI = (*dynamodb.Client)(nil)

// DynamoDB removes tables. DeleteTable returns while the table is still
// DELETING; the sweeper does not wait for it to disappear.
type DynamoDB struct {
	base
	api    DynamoDBAPI
	prefix Prefix
}

// NewDynamoDB returns a DynamoDB sweeper matching on the dashed prefix.
func NewDynamoDB(api DynamoDBAPI, opts Options) *DynamoDB {
	return &DynamoDB{base: newBase(ServiceDynamoDB, opts), api: api, prefix: opts.Prefix.Dashed()}
}

// Sweep implements Sweeper.
func (s *DynamoDB) Sweep(ctx context.Context) error {
	tables, err := pages(ctx, s.opts.AllPages, func(ctx context.Context, start *string) ([]string, *string, error) {
		out, err := s.api.ListTables(ctx, &dynamodb.ListTablesInput{
			Limit:                   awsv2.Int32(dynamoDBPageSize),
			ExclusiveStartTableName: start,
		})
		if err != nil {
			return nil, nil, err
		}
		return out.TableNames, out.LastEvaluatedTableName, nil
	})
	if err != nil {
		return err
	}

	for _, table := range tables {
		if !s.prefix.Matches(table) {
			continue
		}
		err := s.apply(ctx, Action{Kind: KindTable, Name: table, Verb: VerbDelete}, func(ctx context.Context) error {
			_, err := s.api.DeleteTable(ctx, &dynamodb.DeleteTableInput{TableName: awsv2.String(table)})
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}
