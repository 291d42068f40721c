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

// Config table attributes.
const (
	configKeyAttr   = "key"
	configValueAttr = "config"
)

// configItem is the stored shape of a configuration record. The
// configuration is kept as a generic document so absent and empty
// collections survive a round trip.
type configItem struct {
	Key    string         `dynamodbav:"key"`
	Config map[string]any `dynamodbav:"config"`
}

// DynamoConfigStore stores use-case configurations by config record key.
type DynamoConfigStore struct {
	client DynamoClient
	table  string
}

// NewDynamoConfigStore creates a config store over table.
func NewDynamoConfigStore(client DynamoClient, table string) *DynamoConfigStore {
	return &DynamoConfigStore{client: client, table: table}
}

func (s *DynamoConfigStore) itemKey(key string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		configKeyAttr: &ddbtypes.AttributeValueMemberS{Value: key},
	}
}

// GetConfig returns the configuration stored under key, or
// usecase.ErrNotFound.
func (s *DynamoConfigStore) GetConfig(ctx context.Context, key string) (*usecase.Configuration, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            s.itemKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get config %s: %w", key, err)
	}
	if len(out.Item) == 0 {
		return nil, usecase.ErrNotFound
	}

	var item configItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", key, err)
	}
	if item.Config == nil {
		return nil, fmt.Errorf("config %s has no %q attribute", key, configValueAttr)
	}
	cfg, err := usecase.FromDocument(item.Config)
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", key, err)
	}
	return cfg, nil
}

// PutConfig writes cfg under key, replacing any previous value.
func (s *DynamoConfigStore) PutConfig(ctx context.Context, key string, cfg *usecase.Configuration) error {
	doc, err := cfg.ToDocument()
	if err != nil {
		return fmt.Errorf("encode config %s: %w", key, err)
	}
	item, err := attributevalue.MarshalMap(configItem{Key: key, Config: doc})
	if err != nil {
		return fmt.Errorf("encode config %s: %w", key, err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put config %s: %w", key, err)
	}
	return nil
}

// DeleteConfig removes the configuration under key. Deleting a missing
// key is not an error.
func (s *DynamoConfigStore) DeleteConfig(ctx context.Context, key string) error {
	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       s.itemKey(key),
	}); err != nil {
		return fmt.Errorf("delete config %s: %w", key, err)
	}
	return nil
}
