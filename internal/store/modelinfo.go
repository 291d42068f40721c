package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

// Model-info table key attributes.
const (
	modelInfoPartitionKey = "UseCase"
	modelInfoSortKey      = "SortKey"
)

// DynamoModelInfoStore reads model metadata keyed by
// (UseCase category, "{provider}#{modelId}").
type DynamoModelInfoStore struct {
	client DynamoClient
	table  string
}

// NewDynamoModelInfoStore creates a model-info store over table.
func NewDynamoModelInfoStore(client DynamoClient, table string) *DynamoModelInfoStore {
	return &DynamoModelInfoStore{client: client, table: table}
}

// GetModelInfo returns the record for (category, sortKey), or
// usecase.ErrNotFound when there is none.
func (s *DynamoModelInfoStore) GetModelInfo(
	ctx context.Context, category, sortKey string,
) (*usecase.ModelInfo, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]ddbtypes.AttributeValue{
			modelInfoPartitionKey: &ddbtypes.AttributeValueMemberS{Value: category},
			modelInfoSortKey:      &ddbtypes.AttributeValueMemberS{Value: sortKey},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get model info %s/%s: %w", category, sortKey, err)
	}
	if len(out.Item) == 0 {
		return nil, usecase.ErrNotFound
	}

	var info usecase.ModelInfo
	if err := attributevalue.UnmarshalMap(out.Item, &info); err != nil {
		return nil, fmt.Errorf("decode model info %s/%s: %w", category, sortKey, err)
	}
	return &info, nil
}

// PutModelInfo writes a model-info record. It is used to seed tables.
func (s *DynamoModelInfoStore) PutModelInfo(ctx context.Context, info *usecase.ModelInfo) error {
	item, err := attributevalue.MarshalMap(info)
	if err != nil {
		return fmt.Errorf("encode model info %s/%s: %w", info.UseCase, info.SortKey, err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put model info %s/%s: %w", info.UseCase, info.SortKey, err)
	}
	return nil
}
