package validation

import "testing"

func TestCreateOrderRequest_Valid(t *testing.T) {
	v := New()

	req := CreateOrderRequest{
		CustomerID: "cust-123",
		ProductID:  "prod-456",
		OrderDate:  "2024-01-01",
		Quantity:   3,
	}

	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestCreateOrderRequest_BadDateFormat(t *testing.T) {
	v := New()

	req := CreateOrderRequest{
		CustomerID: "cust-123",
		ProductID:  "prod-456",
		OrderDate:  "01/02/2024",
		Quantity:   1,
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for date format, got nil")
	}
}

func TestCreateOrderRequest_ZeroQuantity(t *testing.T) {
	v := New()

	req := CreateOrderRequest{
		CustomerID: "cust-123",
		ProductID:  "prod-456",
		OrderDate:  "2024-01-01",
		Quantity:   0,
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for zero quantity, got nil")
	}
}

func TestCreateOrderRequest_MissingFields(t *testing.T) {
	v := New()

	req := CreateOrderRequest{
		// CustomerID and ProductID missing
		OrderDate: "2024-01-01",
		Quantity:  1,
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation errors for missing required fields, got nil")
	}
}

func TestEditOrderRequest_BadDateFormat(t *testing.T) {
	v := New()

	req := EditOrderRequest{
		OrderDate: "not-a-date",
		Status:    "Processing",
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for date format, got nil")
	}
}

func TestParseOrderDate(t *testing.T) {
	d, err := ParseOrderDate("2024-01-01")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 1 || d.Day() != 1 {
		t.Fatalf("unexpected date: %v", d)
	}
}
