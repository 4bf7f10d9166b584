package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/cart"
	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/contracts"
	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/dedup"
)

// StateApplier is the slice of the cart store the consumer needs.
type StateApplier interface {
	ApplySnapshot(sessionID string, st cart.State)
}

// StartCartStateChangedConsumer subscribes this instance to peer cart
// broadcasts. Each instance gets its own auto-deleted queue bound to the
// state-changed routing key, so every instance sees every write, like a
// browser tab listening for another tab's storage events.
func StartCartStateChangedConsumer(ctx context.Context, conn *amqp.Connection, store StateApplier, checkpoints dedup.Repository, ownProducer, instanceID string, logger *log.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	queueName := stateChangedQueueName(instanceID)
	_, err = ch.QueueDeclare(
		queueName,
		false, // durable: a restarted instance re-hydrates from storage instead
		true,  // autoDelete
		true,  // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	if err := ch.QueueBind(queueName, CartStateChangedRoutingKey, EventsExchange, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}

	msgs, err := ch.Consume(
		queueName,
		instanceID, // consumer tag
		false,      // autoAck
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	consumerName := serviceName + "." + instanceID

	go func() {
		defer ch.Close()
		for {
			select {
			case <-ctx.Done():
				logger.Println("stopping cart.statechanged consumer")
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Println("messages channel closed")
					return
				}

				if err := handleStateChanged(ctx, store, checkpoints, consumerName, ownProducer, msg.Body, logger); err != nil {
					logger.Printf("handle state change: %v", err)
					_ = msg.Nack(false, false)
					continue
				}
				_ = msg.Ack(false)
			}
		}
	}()

	return nil
}

func handleStateChanged(ctx context.Context, store StateApplier, checkpoints dedup.Repository, consumerName, ownProducer string, body []byte, logger *log.Logger) error {
	env, err := contracts.ParseEnvelope(body)
	if err != nil {
		return fmt.Errorf("parse envelope: %w", err)
	}
	if err := env.Validate(contracts.CartStateChangedEventName, contracts.CartStateChangedEventVersion); err != nil {
		return fmt.Errorf("validate envelope: %w", err)
	}

	// Our own broadcast echoing back; memory is already current.
	if env.Producer == ownProducer {
		return nil
	}

	last, _, err := checkpoints.GetLastSequence(ctx, consumerName, env.PartitionKey)
	if err != nil {
		return err
	}
	if env.Sequence <= last {
		// A newer write for this session already landed. Last writer wins.
		return nil
	}

	var payload contracts.CartStateChangedPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	store.ApplySnapshot(env.PartitionKey, cart.State{
		Items:         payload.Items,
		SavedForLater: payload.SavedForLater,
		Coupon:        payload.Coupon,
	})

	if err := checkpoints.SetLastSequence(ctx, consumerName, env.PartitionKey, env.Sequence); err != nil {
		return err
	}

	logger.Printf("resynced session %s to sequence %d from %s", env.PartitionKey, env.Sequence, env.Producer)
	return nil
}
