// Package reconcile guards the replay of stock decrements for orders that
// were persisted before their product update failed.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/abcretail/orderflow/internal/aws"
)

// Store encapsulates reconciliation markers kept in their own DynamoDB table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	ttlWindow time.Duration
	nowFunc   func() time.Time
}

// NewStore returns a configured Store.
// ttlWindow bounds how long a marker lingers after its order healed.
func NewStore(client aws.DynamoDBAPI, tableName string, ttlWindow time.Duration) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		ttlWindow: ttlWindow,
		nowFunc:   time.Now,
	}
}

// Claim creates an IN_PROGRESS marker for the order if none exists.
// Returns (true, nil) when this caller won the claim, (false, nil) when a
// marker already exists (inspect it with Get), (false, err) otherwise.
func (s *Store) Claim(ctx context.Context, orderID, productID string, quantity int) (bool, error) {
	now := s.nowFunc()
	rec := Record{
		OrderID:   orderID,
		Status:    StatusInProgress,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttlWindow).Unix(),
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return false, fmt.Errorf("marshal record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(OrderId)"),
	})
	if err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) && ae.ErrorCode() == "ConditionalCheckFailedException" {
			return false, nil
		}
		return false, fmt.Errorf("put item: %w", err)
	}

	return true, nil
}

// Get retrieves a marker by order id. Returns (nil, nil) when absent.
func (s *Store) Get(ctx context.Context, orderID string) (*Record, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"OrderId": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var rec Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &rec, nil
}

// MarkDone records that the decrement for this order has been applied.
func (s *Store) MarkDone(ctx context.Context, orderID string) error {
	return s.setStatus(ctx, orderID, StatusDone, "")
}

// MarkFailed records a failed replay attempt with a note for operators.
func (s *Store) MarkFailed(ctx context.Context, orderID, note string) error {
	return s.setStatus(ctx, orderID, StatusFailed, note)
}

func (s *Store) setStatus(ctx context.Context, orderID, status, note string) error {
	now := s.nowFunc()
	expr := "SET #s = :s, UpdatedAt = :ua"
	values := map[string]types.AttributeValue{
		":s":  &types.AttributeValueMemberS{Value: status},
		":ua": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
	}
	if note != "" {
		expr += ", Note = :n"
		values[":n"] = &types.AttributeValueMemberS{Value: note}
	}

	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"OrderId": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression:          &expr,
		ExpressionAttributeNames:  map[string]string{"#s": "Status"},
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return fmt.Errorf("update item (mark %s): %w", status, err)
	}
	return nil
}

func awsString(s string) *string { return &s }
