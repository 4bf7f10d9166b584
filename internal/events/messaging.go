package events

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange             = "storefront.events"
	CartStateChangedRoutingKey = "cart.statechanged.v1"
	CartCheckedOutRoutingKey   = "cart.checkedout.v1"

	serviceName = "cart-service-go"
)

func declareEventsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
}

// stateChangedQueueName is per instance: every running instance keeps its
// own copy of the broadcast stream, like one browser tab listening for
// another tab's storage writes.
func stateChangedQueueName(instanceID string) string {
	return serviceName + "." + CartStateChangedRoutingKey + "." + instanceID
}
