package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/cart"
	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/contracts"
)

// RabbitPublisher broadcasts cart events on the topic exchange. It stamps
// every envelope with this instance's producer string so the consumer side
// can ignore its own broadcasts.
type RabbitPublisher struct {
	ch        *amqp.Channel
	sequences SequenceRepository
	producer  string
}

func NewRabbitPublisher(conn *amqp.Connection, sequences SequenceRepository, instanceID string) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &RabbitPublisher{
		ch:        ch,
		sequences: sequences,
		producer:  contracts.CartServiceProducer + "/" + instanceID,
	}, nil
}

func (p *RabbitPublisher) Close() error {
	return p.ch.Close()
}

// Producer returns the envelope producer string for this instance.
func (p *RabbitPublisher) Producer() string {
	return p.producer
}

// NotifyStateChanged implements cart.ChangeNotifier: broadcast the full
// session state to peer instances after a local mutation.
func (p *RabbitPublisher) NotifyStateChanged(ctx context.Context, sessionID string, st cart.State) error {
	seq, err := p.sequences.NextSequence(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	env, err := contracts.BuildCartStateChangedEvent(sessionID, st, seq, contracts.EnvelopeOptions{
		Producer: p.producer,
	})
	if err != nil {
		return err
	}

	return p.publish(ctx, CartStateChangedRoutingKey, env)
}

// PublishCartCheckedOut announces a completed checkout for downstream
// consumers (fulfilment, analytics).
func (p *RabbitPublisher) PublishCartCheckedOut(ctx context.Context, orderID, sessionID string, items []cart.LineItem, total float64, correlationID string) error {
	seq, err := p.sequences.NextSequence(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	env, err := contracts.BuildCartCheckedOutEvent(orderID, sessionID, items, total, seq, contracts.EnvelopeOptions{
		Producer:      p.producer,
		CorrelationID: correlationID,
	})
	if err != nil {
		return err
	}

	return p.publish(ctx, CartCheckedOutRoutingKey, env)
}

func (p *RabbitPublisher) publish(ctx context.Context, routingKey string, env contracts.EventEnvelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    env.EventID,
			Body:         body,
		},
	)
}
