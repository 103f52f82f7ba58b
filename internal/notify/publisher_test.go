package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type mockSQS struct {
	sent []sqs.SendMessageInput
	err  error
}

func (m *mockSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.sent = append(m.sent, *params)
	return &sqs.SendMessageOutput{}, nil
}

func testQueues() map[string]string {
	return map[string]string{
		ChannelOrderNotifications: "https://sqs.test/order-notifications",
		ChannelStockUpdates:       "https://sqs.test/stock-updates",
	}
}

func TestPublish_RoutesChannelToQueue(t *testing.T) {
	mock := &mockSQS{}
	p := NewPublisher(mock, testQueues())

	event := StockUpdated{
		ProductID:     "p1",
		ProductName:   "Widget",
		PreviousStock: 5,
		NewStock:      2,
		UpdatedBy:     "Order System",
		UpdateDate:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := p.Publish(context.Background(), ChannelStockUpdates, event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(mock.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(mock.sent))
	}
	sent := mock.sent[0]
	if *sent.QueueUrl != "https://sqs.test/stock-updates" {
		t.Fatalf("wrong queue url: %s", *sent.QueueUrl)
	}
	if attr, ok := sent.MessageAttributes["channel"]; !ok || *attr.StringValue != ChannelStockUpdates {
		t.Fatal("expected channel message attribute")
	}
}

// Downstream consumers parse these exact field names; a rename is a breaking
// change even when the Go structs still compile.
func TestPublish_PayloadFieldNames(t *testing.T) {
	mock := &mockSQS{}
	p := NewPublisher(mock, testQueues())

	err := p.Publish(context.Background(), ChannelOrderNotifications, OrderCreated{
		OrderID:      "o1",
		CustomerID:   "c1",
		CustomerName: "Ada Lovelace",
		ProductName:  "Widget",
		Quantity:     3,
		TotalPrice:   30.0,
		OrderDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:       "Submitted",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	var body map[string]interface{}
	if err := json.Unmarshal([]byte(*mock.sent[0].MessageBody), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	for _, field := range []string{"OrderId", "CustomerId", "CustomerName", "ProductName", "Quantity", "TotalPrice", "OrderDate", "Status"} {
		if _, ok := body[field]; !ok {
			t.Errorf("missing field %q in payload: %s", field, *mock.sent[0].MessageBody)
		}
	}
	if body["TotalPrice"] != 30.0 {
		t.Errorf("TotalPrice = %v, want 30", body["TotalPrice"])
	}
}

func TestPublish_UnknownChannel(t *testing.T) {
	p := NewPublisher(&mockSQS{}, testQueues())

	err := p.Publish(context.Background(), "no-such-channel", StockUpdated{})
	if err == nil {
		t.Fatal("expected error for unmapped channel")
	}
}

func TestPublish_SendFailurePropagates(t *testing.T) {
	mock := &mockSQS{err: errors.New("sqs down")}
	p := NewPublisher(mock, testQueues())

	err := p.Publish(context.Background(), ChannelStockUpdates, StockUpdated{})
	if err == nil {
		t.Fatal("expected send error to propagate")
	}
}
