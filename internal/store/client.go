// Package store persists model metadata, use-case configurations and
// use-case records. DynamoDB-backed stores are used in production; the
// in-memory stores back tests and offline validation.
package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoClient abstracts the DynamoDB API for testing.
type DynamoClient interface {
	GetItem(
		ctx context.Context,
		input *dynamodb.GetItemInput,
		opts ...func(*dynamodb.Options),
	) (*dynamodb.GetItemOutput, error)

	PutItem(
		ctx context.Context,
		input *dynamodb.PutItemInput,
		opts ...func(*dynamodb.Options),
	) (*dynamodb.PutItemOutput, error)

	DeleteItem(
		ctx context.Context,
		input *dynamodb.DeleteItemInput,
		opts ...func(*dynamodb.Options),
	) (*dynamodb.DeleteItemOutput, error)

	Scan(
		ctx context.Context,
		input *dynamodb.ScanInput,
		opts ...func(*dynamodb.Options),
	) (*dynamodb.ScanOutput, error)
}

// NewDynamoClient creates a DynamoClient from a loaded AWS config.
func NewDynamoClient(cfg aws.Config) DynamoClient {
	return dynamodb.NewFromConfig(cfg)
}
