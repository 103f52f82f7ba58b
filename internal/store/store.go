// Package store implements the entity table: a single DynamoDB table
// addressed by (PartitionKey, RowKey), one logical partition per record type.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/abcretail/orderflow/internal/aws"
	"github.com/abcretail/orderflow/internal/entity"
)

// ErrConflict indicates an insert hit an existing (PartitionKey, RowKey).
var ErrConflict = errors.New("entity already exists")

// ErrInsufficientStock indicates a conditional stock decrement lost to the
// available quantity check.
var ErrInsufficientStock = errors.New("insufficient stock for conditional decrement")

// Store encapsulates operations on the entity table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
}

// NewStore creates a Store bound to a table.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
	}
}

func key(partition, id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PartitionKey": &types.AttributeValueMemberS{Value: partition},
		"RowKey":       &types.AttributeValueMemberS{Value: id},
	}
}

// Get fetches one record into out. Returns (false, nil) if absent.
func (s *Store) Get(ctx context.Context, partition, id string, out interface{}) (bool, error) {
	res, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       key(partition, id),
	})
	if err != nil {
		return false, fmt.Errorf("get item: %w", err)
	}
	if len(res.Item) == 0 {
		return false, nil
	}
	if err := attributevalue.UnmarshalMap(res.Item, out); err != nil {
		return false, fmt.Errorf("unmarshal item: %w", err)
	}
	return true, nil
}

// GetAll queries every record in a partition into out (a pointer to a slice).
func (s *Store) GetAll(ctx context.Context, partition string, out interface{}) error {
	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue

	for {
		res, err := s.client.Query(ctx, &dyn.QueryInput{
			TableName:                 &s.tableName,
			KeyConditionExpression:    awsString("PartitionKey = :pk"),
			ExpressionAttributeValues: map[string]types.AttributeValue{":pk": &types.AttributeValueMemberS{Value: partition}},
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return fmt.Errorf("query partition %s: %w", partition, err)
		}
		items = append(items, res.Items...)
		if len(res.LastEvaluatedKey) == 0 {
			break
		}
		startKey = res.LastEvaluatedKey
	}

	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("unmarshal items: %w", err)
	}
	return nil
}

// Insert writes a new record, failing with ErrConflict if the key exists.
func (s *Store) Insert(ctx context.Context, item interface{}) error {
	m, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                m,
		ConditionExpression: awsString("attribute_not_exists(RowKey)"),
	})
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrConflict
		}
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// Update overwrites a record unconditionally (last writer wins).
func (s *Store) Update(ctx context.Context, item interface{}) error {
	m, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      m,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// Delete removes a record. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, partition, id string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key:       key(partition, id),
	})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// DecrementStock atomically decrements a product's StockAvailable by qty,
// conditional on enough stock being available. This is the hardened
// alternative to the separate read/overwrite round trips: concurrent orders
// contending for the same units make the loser fail with
// ErrInsufficientStock instead of driving the counter negative.
// Returns the stock value after the decrement.
func (s *Store) DecrementStock(ctx context.Context, productID string, qty int) (int, error) {
	res, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:        &s.tableName,
		Key:              key(entity.PartitionProduct, productID),
		UpdateExpression: awsString("SET StockAvailable = StockAvailable - :qty"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":qty": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", qty)},
		},
		ConditionExpression: awsString("StockAvailable >= :qty"),
		ReturnValues:        types.ReturnValueAllNew,
	})
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return 0, ErrInsufficientStock
		}
		return 0, fmt.Errorf("update item: %w", err)
	}

	var updated struct {
		StockAvailable int `dynamodbav:"StockAvailable"`
	}
	if err := attributevalue.UnmarshalMap(res.Attributes, &updated); err != nil {
		return 0, fmt.Errorf("unmarshal updated stock: %w", err)
	}
	return updated.StockAvailable, nil
}

func awsString(s string) *string { return &s }
