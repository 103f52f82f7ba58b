package entity

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusSubmitted, StatusProcessing, true},
		{StatusProcessing, StatusCompleted, true},
		{StatusSubmitted, StatusCancelled, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusSubmitted, StatusCompleted, false}, // must pass through Processing
		{StatusCompleted, StatusProcessing, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusSubmitted, false},
		{StatusProcessing, StatusSubmitted, false},
		{"Bogus", StatusProcessing, false},
		{StatusSubmitted, "Bogus", false},
	}

	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusSubmitted, StatusProcessing, StatusCompleted, StatusCancelled} {
		if !ValidStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if ValidStatus("Shipped") {
		t.Error("expected unknown status to be invalid")
	}
}

func TestNormalizeOrderDate(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	in := time.Date(2024, time.January, 1, 23, 45, 12, 99, loc)

	got := NormalizeOrderDate(in)

	want := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("NormalizeOrderDate(%v) = %v, want %v", in, got, want)
	}
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", got.Location())
	}
}

func TestCustomerDisplayName(t *testing.T) {
	c := Customer{Name: "Ada", Surname: "Lovelace"}
	if got := c.DisplayName(); got != "Ada Lovelace" {
		t.Fatalf("DisplayName() = %q", got)
	}
}
