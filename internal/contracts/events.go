package contracts

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/cart"
)

const (
	CartStateChangedEventName    = "CartStateChanged"
	CartStateChangedEventVersion = 1
	CartStateChangedSchemaPath   = "contracts/events/cart/CartStateChanged.v1.schema.json"

	CartCheckedOutEventName    = "CartCheckedOut"
	CartCheckedOutEventVersion = 1
	CartCheckedOutSchemaPath   = "contracts/events/cart/CartCheckedOut.v1.schema.json"

	CartServiceProducer = "cart-service"
)

// EventEnvelope is the shared wire envelope for v1 contracts. PartitionKey
// is the session ID; Sequence is monotonic per partition and drives the
// consumer-side last-writer-wins resolution.
type EventEnvelope struct {
	EventName     string          `json:"eventName"`
	EventVersion  int             `json:"eventVersion"`
	EventID       string          `json:"eventId"`
	CorrelationID string          `json:"correlationId,omitempty"`
	Producer      string          `json:"producer"`
	PartitionKey  string          `json:"partitionKey"`
	Sequence      int64           `json:"sequence"`
	OccurredAt    time.Time       `json:"occurredAt"`
	Schema        string          `json:"schema"`
	Payload       json.RawMessage `json:"payload"`
}

func (e EventEnvelope) Validate(expectedName string, expectedVersion int) error {
	if e.EventName != expectedName {
		return fmt.Errorf("unexpected eventName %q", e.EventName)
	}
	if e.EventVersion != expectedVersion {
		return fmt.Errorf("unexpected eventVersion %d", e.EventVersion)
	}
	if e.PartitionKey == "" {
		return fmt.Errorf("missing partitionKey")
	}
	if e.EventID == "" {
		return fmt.Errorf("missing eventId")
	}
	return nil
}

func ParseEnvelope(body []byte) (EventEnvelope, error) {
	var e EventEnvelope
	if err := json.Unmarshal(body, &e); err != nil {
		return EventEnvelope{}, err
	}
	return e, nil
}

// CartStateChangedPayload carries the full cart state so peers can replace
// their copy wholesale, with no merging.
type CartStateChangedPayload struct {
	SessionID     string          `json:"sessionId"`
	Items         []cart.LineItem `json:"items"`
	SavedForLater []cart.LineItem `json:"savedForLater"`
	Coupon        cart.Coupon     `json:"coupon"`
	Timestamp     time.Time       `json:"timestamp"`
}

type CartCheckedOutPayload struct {
	OrderID     string          `json:"orderId"`
	SessionID   string          `json:"sessionId"`
	Items       []cart.LineItem `json:"items"`
	TotalAmount float64         `json:"totalAmount"`
	Timestamp   time.Time       `json:"timestamp"`
}

// EnvelopeOptions override the generated envelope fields; zero values get
// sensible defaults.
type EnvelopeOptions struct {
	EventID       string
	CorrelationID string
	Producer      string
	OccurredAt    time.Time
}

func BuildCartStateChangedEvent(sessionID string, st cart.State, sequence int64, opts EnvelopeOptions) (EventEnvelope, error) {
	occurredAt := occurredAtOrNow(opts.OccurredAt)
	payload := CartStateChangedPayload{
		SessionID:     sessionID,
		Items:         st.Items,
		SavedForLater: st.SavedForLater,
		Coupon:        st.Coupon,
		Timestamp:     occurredAt,
	}
	return buildEnvelope(CartStateChangedEventName, CartStateChangedEventVersion,
		CartStateChangedSchemaPath, sessionID, sequence, occurredAt, payload, opts)
}

func BuildCartCheckedOutEvent(orderID, sessionID string, items []cart.LineItem, total float64, sequence int64, opts EnvelopeOptions) (EventEnvelope, error) {
	occurredAt := occurredAtOrNow(opts.OccurredAt)
	payload := CartCheckedOutPayload{
		OrderID:     orderID,
		SessionID:   sessionID,
		Items:       items,
		TotalAmount: total,
		Timestamp:   occurredAt,
	}
	return buildEnvelope(CartCheckedOutEventName, CartCheckedOutEventVersion,
		CartCheckedOutSchemaPath, sessionID, sequence, occurredAt, payload, opts)
}

func buildEnvelope(name string, version int, schema, partitionKey string, sequence int64, occurredAt time.Time, payload any, opts EnvelopeOptions) (EventEnvelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return EventEnvelope{}, fmt.Errorf("marshal %s payload: %w", name, err)
	}

	eventID := opts.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}
	producer := opts.Producer
	if producer == "" {
		producer = CartServiceProducer
	}

	return EventEnvelope{
		EventName:     name,
		EventVersion:  version,
		EventID:       eventID,
		CorrelationID: opts.CorrelationID,
		Producer:      producer,
		PartitionKey:  partitionKey,
		Sequence:      sequence,
		OccurredAt:    occurredAt,
		Schema:        schema,
		Payload:       body,
	}, nil
}

func occurredAtOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
