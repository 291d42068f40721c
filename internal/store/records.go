package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

// DefaultPageSize is the number of records per list page.
const DefaultPageSize = 10

const recordKeyAttr = "UseCaseId"

// ListFilter selects and pages use-case records.
type ListFilter struct {
	UseCaseType usecase.Type
	// CreatedBy restricts results to one creator. Empty means all creators.
	CreatedBy string
	// Search matches case-insensitively against name and id.
	Search string
	// PageNumber is 1-based.
	PageNumber int
	PageSize   int
	// IncludeDeleted keeps soft-deleted records.
	IncludeDeleted bool
}

// RecordPage is one page of records, newest first.
type RecordPage struct {
	Records  []usecase.Record
	NumPages int
	Total    int
}

func (f ListFilter) matches(r *usecase.Record) bool {
	if f.UseCaseType != "" && r.UseCaseType != f.UseCaseType {
		return false
	}
	if f.CreatedBy != "" && r.CreatedBy != f.CreatedBy {
		return false
	}
	if !f.IncludeDeleted && r.IsDeleted() {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.Name), q) && !strings.Contains(strings.ToLower(r.UseCaseID), q) {
			return false
		}
	}
	return true
}

// paginate sorts matching records newest first and cuts the requested page.
// A page past the end is empty.
func paginate(records []usecase.Record, f ListFilter) *RecordPage {
	size := f.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	page := max(f.PageNumber, 1)

	slices.SortStableFunc(records, func(a, b usecase.Record) int {
		return cmp.Compare(b.CreatedDate, a.CreatedDate)
	})

	total := len(records)
	out := &RecordPage{Total: total, NumPages: (total + size - 1) / size, Records: []usecase.Record{}}
	start := (page - 1) * size
	if start >= total {
		return out
	}
	out.Records = records[start:min(start+size, total)]
	return out
}

// DynamoRecordStore stores use-case records keyed by use-case id.
type DynamoRecordStore struct {
	client DynamoClient
	table  string
}

// NewDynamoRecordStore creates a record store over table.
func NewDynamoRecordStore(client DynamoClient, table string) *DynamoRecordStore {
	return &DynamoRecordStore{client: client, table: table}
}

func (s *DynamoRecordStore) itemKey(id string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		recordKeyAttr: &ddbtypes.AttributeValueMemberS{Value: id},
	}
}

// GetRecord returns the record of a use case, or usecase.ErrNotFound.
func (s *DynamoRecordStore) GetRecord(ctx context.Context, id string) (*usecase.Record, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            s.itemKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return nil, usecase.ErrNotFound
	}
	var rec usecase.Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", id, err)
	}
	return &rec, nil
}

// PutRecord writes rec, replacing any previous record with the same id.
func (s *DynamoRecordStore) PutRecord(ctx context.Context, rec *usecase.Record) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", rec.UseCaseID, err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put record %s: %w", rec.UseCaseID, err)
	}
	return nil
}

// DeleteRecord removes the record of a use case.
func (s *DynamoRecordStore) DeleteRecord(ctx context.Context, id string) error {
	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       s.itemKey(id),
	}); err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	return nil
}

// ListRecords scans the whole table and returns the requested page of
// matching records.
func (s *DynamoRecordStore) ListRecords(ctx context.Context, f ListFilter) (*RecordPage, error) {
	var (
		matched []usecase.Record
		start   map[string]ddbtypes.AttributeValue
	)
	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.table),
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, fmt.Errorf("scan records: %w", err)
		}

		var batch []usecase.Record
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &batch); err != nil {
			return nil, fmt.Errorf("decode records: %w", err)
		}
		for i := range batch {
			if f.matches(&batch[i]) {
				matched = append(matched, batch[i])
			}
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		start = out.LastEvaluatedKey
	}
	return paginate(matched, f), nil
}
