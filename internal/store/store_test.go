package store

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/abcretail/orderflow/internal/entity"
)

// mockDynamo is a minimal in-memory table keyed by (PartitionKey, RowKey).
// It supports the condition expressions the Store actually issues.
type mockDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func itemKey(item map[string]types.AttributeValue) string {
	pk := item["PartitionKey"].(*types.AttributeValueMemberS).Value
	rk := item["RowKey"].(*types.AttributeValueMemberS).Value
	return pk + "|" + rk
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := itemKey(params.Item)
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(RowKey)" {
		if _, exists := m.items[k]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.items[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemKey(params.Key)]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemKey(params.Key)]
	if !ok {
		return nil, errors.New("item not found")
	}
	// only the conditional stock decrement reaches here
	qty, err := strconv.Atoi(params.ExpressionAttributeValues[":qty"].(*types.AttributeValueMemberN).Value)
	if err != nil {
		return nil, err
	}
	current, err := strconv.Atoi(item["StockAvailable"].(*types.AttributeValueMemberN).Value)
	if err != nil {
		return nil, err
	}
	if params.ConditionExpression != nil && *params.ConditionExpression == "StockAvailable >= :qty" && current < qty {
		return nil, &types.ConditionalCheckFailedException{}
	}
	item["StockAvailable"] = &types.AttributeValueMemberN{Value: strconv.Itoa(current - qty)}
	m.items[itemKey(params.Key)] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, itemKey(params.Key))
	return &dyn.DeleteItemOutput{}, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	partition := params.ExpressionAttributeValues[":pk"].(*types.AttributeValueMemberS).Value
	out := &dyn.QueryOutput{}
	for _, item := range m.items {
		if item["PartitionKey"].(*types.AttributeValueMemberS).Value == partition {
			out.Items = append(out.Items, item)
		}
	}
	return out, nil
}

func seedProduct(t *testing.T, mock *mockDynamo, id string, price float64, stock int) {
	t.Helper()
	item, err := attributevalue.MarshalMap(entity.Product{
		PartitionKey:   entity.PartitionProduct,
		RowKey:         id,
		ProductName:    "Widget",
		Price:          price,
		StockAvailable: stock,
	})
	if err != nil {
		t.Fatalf("marshal product: %v", err)
	}
	mock.items[entity.PartitionProduct+"|"+id] = item
}

func TestGet_RoundTrip(t *testing.T) {
	mock := newMockDynamo()
	s := NewStore(mock, "entities")
	seedProduct(t, mock, "p1", 10.0, 5)

	var got entity.Product
	found, err := s.Get(context.Background(), entity.PartitionProduct, "p1", &got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected product to be found")
	}
	if got.Price != 10.0 || got.StockAvailable != 5 || got.ProductName != "Widget" {
		t.Fatalf("unexpected product: %+v", got)
	}

	found, err = s.Get(context.Background(), entity.PartitionProduct, "missing", &got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected absent product")
	}
}

func TestInsert_ConflictOnExistingKey(t *testing.T) {
	mock := newMockDynamo()
	s := NewStore(mock, "entities")

	order := entity.Order{PartitionKey: entity.PartitionOrder, RowKey: "o1", Status: entity.StatusSubmitted}
	if err := s.Insert(context.Background(), order); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := s.Insert(context.Background(), order)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUpdate_Overwrites(t *testing.T) {
	mock := newMockDynamo()
	s := NewStore(mock, "entities")
	seedProduct(t, mock, "p1", 10.0, 5)

	updated := entity.Product{
		PartitionKey:   entity.PartitionProduct,
		RowKey:         "p1",
		ProductName:    "Widget",
		Price:          10.0,
		StockAvailable: 2,
	}
	if err := s.Update(context.Background(), updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	var got entity.Product
	if _, err := s.Get(context.Background(), entity.PartitionProduct, "p1", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.StockAvailable != 2 {
		t.Fatalf("expected stock 2 after overwrite, got %d", got.StockAvailable)
	}
}

func TestGetAll_FiltersByPartition(t *testing.T) {
	mock := newMockDynamo()
	s := NewStore(mock, "entities")
	seedProduct(t, mock, "p1", 10.0, 5)
	seedProduct(t, mock, "p2", 4.5, 9)

	orderItem, _ := attributevalue.MarshalMap(entity.Order{PartitionKey: entity.PartitionOrder, RowKey: "o1"})
	mock.items[entity.PartitionOrder+"|o1"] = orderItem

	var products []entity.Product
	if err := s.GetAll(context.Background(), entity.PartitionProduct, &products); err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
}

func TestDelete(t *testing.T) {
	mock := newMockDynamo()
	s := NewStore(mock, "entities")
	seedProduct(t, mock, "p1", 10.0, 5)

	if err := s.Delete(context.Background(), entity.PartitionProduct, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var got entity.Product
	found, err := s.Get(context.Background(), entity.PartitionProduct, "p1", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("expected product to be gone")
	}
}

func TestDecrementStock_SuccessAndInsufficient(t *testing.T) {
	mock := newMockDynamo()
	s := NewStore(mock, "entities")
	seedProduct(t, mock, "p1", 10.0, 5)

	newStock, err := s.DecrementStock(context.Background(), "p1", 3)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if newStock != 2 {
		t.Fatalf("expected new stock 2, got %d", newStock)
	}

	_, err = s.DecrementStock(context.Background(), "p1", 3)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// the failed decrement must not have touched the counter
	var got entity.Product
	if _, err := s.Get(context.Background(), entity.PartitionProduct, "p1", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.StockAvailable != 2 {
		t.Fatalf("expected stock 2 after failed decrement, got %d", got.StockAvailable)
	}
}
