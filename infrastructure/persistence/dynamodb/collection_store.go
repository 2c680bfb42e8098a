package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"lovelog-backend/infrastructure/persistence"
	"lovelog-backend/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// collectionItem is the single-table layout: one partition per collection,
// one item per record. The record body is stored schemaless under Attrs.
type collectionItem struct {
	PK        string                 `dynamodbav:"PK"` // COLLECTION#<name>
	SK        string                 `dynamodbav:"SK"` // REC#<id>
	RecordID  string                 `dynamodbav:"RecordID"`
	CreatedAt string                 `dynamodbav:"CreatedAt"`
	UpdatedAt string                 `dynamodbav:"UpdatedAt"`
	Attrs     map[string]interface{} `dynamodbav:"Attrs"`
}

// CollectionStore implements persistence.Store for one collection on the
// shared DynamoDB table. Ids are server-assigned UUIDs.
type CollectionStore struct {
	adapter    *Adapter
	collection string
	logger     *zap.Logger
}

// NewCollectionStore creates a store for the named collection.
func NewCollectionStore(adapter *Adapter, collection string, logger *zap.Logger) *CollectionStore {
	return &CollectionStore{adapter: adapter, collection: collection, logger: logger}
}

func (s *CollectionStore) pk() string { return fmt.Sprintf("COLLECTION#%s", s.collection) }

func skFor(id string) string { return fmt.Sprintf("REC#%s", id) }

// List returns every record in the collection partition.
func (s *CollectionStore) List(ctx context.Context) ([]persistence.Record, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(s.pk()))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("build query expression: %w", err)
	}

	records := []persistence.Record{}
	var lastKey map[string]types.AttributeValue
	for {
		out, err := s.adapter.Client().Query(ctx, &awsdynamodb.QueryInput{
			TableName:                 aws.String(s.adapter.TableName()),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", s.collection, err)
		}
		for _, raw := range out.Items {
			var item collectionItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("unmarshal %s item: %w", s.collection, err)
			}
			records = append(records, item.toRecord())
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		lastKey = out.LastEvaluatedKey
	}
	return records, nil
}

// Create persists a new record with a UUID identifier.
func (s *CollectionStore) Create(ctx context.Context, data persistence.Record) (persistence.Record, error) {
	id := uuid.New().String()
	now := utils.NowRFC3339()

	item := collectionItem{
		PK:        s.pk(),
		SK:        skFor(id),
		RecordID:  id,
		CreatedAt: now,
		UpdatedAt: now,
		Attrs:     persistence.StripReserved(data),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("marshal %s record: %w", s.collection, err)
	}

	_, err = s.adapter.Client().PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName: aws.String(s.adapter.TableName()),
		Item:      av,
	})
	if err != nil {
		return nil, fmt.Errorf("put %s record: %w", s.collection, err)
	}
	return item.toRecord(), nil
}

// Update reads the record, shallow-merges data over its attributes and
// writes it back. Reads and writes are not transactional; acceptable for a
// single-tenant journal with no concurrent writers.
func (s *CollectionStore) Update(ctx context.Context, id string, data persistence.Record) (persistence.Record, error) {
	item, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Attrs == nil {
		item.Attrs = map[string]interface{}{}
	}
	for k, v := range persistence.StripReserved(data) {
		item.Attrs[k] = v
	}
	item.UpdatedAt = utils.NowRFC3339()

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("marshal %s record: %w", s.collection, err)
	}
	_, err = s.adapter.Client().PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName: aws.String(s.adapter.TableName()),
		Item:      av,
	})
	if err != nil {
		return nil, fmt.Errorf("put %s record: %w", s.collection, err)
	}
	return item.toRecord(), nil
}

// Delete removes the record, using a condition to distinguish not-found.
func (s *CollectionStore) Delete(ctx context.Context, id string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": s.pk(), "SK": skFor(id)})
	if err != nil {
		return fmt.Errorf("marshal %s key: %w", s.collection, err)
	}
	_, err = s.adapter.Client().DeleteItem(ctx, &awsdynamodb.DeleteItemInput{
		TableName:           aws.String(s.adapter.TableName()),
		Key:                 key,
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return persistence.ErrNotFound
		}
		return fmt.Errorf("delete %s record: %w", s.collection, err)
	}
	return nil
}

// Clear deletes every record in the collection partition in batches.
func (s *CollectionStore) Clear(ctx context.Context) error {
	records, err := s.List(ctx)
	if err != nil {
		return err
	}

	const batchSize = 25 // DynamoDB BatchWriteItem limit
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		requests := make([]types.WriteRequest, 0, end-start)
		for _, rec := range records[start:end] {
			key, err := attributevalue.MarshalMap(map[string]string{
				"PK": s.pk(),
				"SK": skFor(rec.ID()),
			})
			if err != nil {
				return fmt.Errorf("marshal %s key: %w", s.collection, err)
			}
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: key},
			})
		}
		_, err := s.adapter.Client().BatchWriteItem(ctx, &awsdynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				s.adapter.TableName(): requests,
			},
		})
		if err != nil {
			return fmt.Errorf("clear %s: %w", s.collection, err)
		}
	}
	return nil
}

func (s *CollectionStore) get(ctx context.Context, id string) (*collectionItem, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": s.pk(), "SK": skFor(id)})
	if err != nil {
		return nil, fmt.Errorf("marshal %s key: %w", s.collection, err)
	}
	out, err := s.adapter.Client().GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(s.adapter.TableName()),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("get %s record: %w", s.collection, err)
	}
	if out.Item == nil {
		return nil, persistence.ErrNotFound
	}
	var item collectionItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal %s item: %w", s.collection, err)
	}
	return &item, nil
}

// toRecord flattens the item into the uniform record shape with the
// identifier pair kept equal.
func (i *collectionItem) toRecord() persistence.Record {
	rec := make(persistence.Record, len(i.Attrs)+4)
	for k, v := range i.Attrs {
		rec[k] = v
	}
	rec["_id"] = i.RecordID
	rec["id"] = i.RecordID
	rec["createdAt"] = i.CreatedAt
	rec["updatedAt"] = i.UpdatedAt
	return rec
}
