package contracts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/cart"
)

func TestBuildCartStateChangedEvent(t *testing.T) {
	st := cart.State{
		Items:  []cart.LineItem{{ProductID: 1, Category: "books", Price: 100, Quantity: 2}},
		Coupon: cart.Coupon{Code: "JAY0101", Amount: 20},
	}

	env, err := BuildCartStateChangedEvent("s1", st, 7, EnvelopeOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if err := env.Validate(CartStateChangedEventName, CartStateChangedEventVersion); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if env.PartitionKey != "s1" || env.Sequence != 7 {
		t.Fatalf("unexpected envelope %+v", env)
	}
	if env.Producer != CartServiceProducer {
		t.Fatalf("expected default producer, got %q", env.Producer)
	}
	if _, err := uuid.Parse(env.EventID); err != nil {
		t.Fatalf("event id not a uuid: %v", err)
	}
	if env.OccurredAt.IsZero() {
		t.Fatalf("expected occurredAt to be set")
	}

	var payload CartStateChangedPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.SessionID != "s1" || len(payload.Items) != 1 || payload.Coupon.Amount != 20 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestBuildCartCheckedOutEvent(t *testing.T) {
	occurred := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	items := []cart.LineItem{{ProductID: 2, Category: "toys", Price: 50, Quantity: 1}}

	env, err := BuildCartCheckedOutEvent("ORD1", "s1", items, 99.5, 3, EnvelopeOptions{
		EventID:       "e-1",
		Producer:      "cart-service/instance-a",
		CorrelationID: "c-1",
		OccurredAt:    occurred,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if env.EventID != "e-1" || env.Producer != "cart-service/instance-a" || env.CorrelationID != "c-1" {
		t.Fatalf("options not applied: %+v", env)
	}
	if !env.OccurredAt.Equal(occurred) {
		t.Fatalf("occurredAt overridden: %v", env.OccurredAt)
	}

	var payload CartCheckedOutPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.OrderID != "ORD1" || payload.TotalAmount != 99.5 {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if !payload.Timestamp.Equal(occurred) {
		t.Fatalf("payload timestamp mismatch: %v", payload.Timestamp)
	}
}

func TestEnvelopeRoundTripAndValidate(t *testing.T) {
	env, err := BuildCartStateChangedEvent("s9", cart.State{}, 1, EnvelopeOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	body, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	parsed, err := ParseEnvelope(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := parsed.Validate(CartStateChangedEventName, CartStateChangedEventVersion); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if err := parsed.Validate("SomethingElse", 1); err == nil {
		t.Fatalf("expected name mismatch error")
	}
	if err := parsed.Validate(CartStateChangedEventName, 2); err == nil {
		t.Fatalf("expected version mismatch error")
	}

	parsed.PartitionKey = ""
	if err := parsed.Validate(CartStateChangedEventName, CartStateChangedEventVersion); err == nil {
		t.Fatalf("expected missing partition key error")
	}
}
