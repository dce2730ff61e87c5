// workers/dispatcher.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"nft-treasury-service/events"
	"nft-treasury-service/services"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Dispatcher consumes the inbound hub event stream and routes each message
// to the right provisioning or signing handler. Each delivery is processed
// as its own goroutine; the custody provider serializes actions against a
// vault, so no per-vault ordering is enforced here.
type Dispatcher struct {
	conn     *amqp.Connection
	exchange string
	queue    string

	Provisioning *services.ProvisioningService
	Solana       *services.SolanaPipeline
	Polygon      *services.PolygonPipeline
}

func NewDispatcher(conn *amqp.Connection, exchange, queue string, provisioning *services.ProvisioningService, solana *services.SolanaPipeline, polygon *services.PolygonPipeline) *Dispatcher {
	return &Dispatcher{
		conn:         conn,
		exchange:     exchange,
		queue:        queue,
		Provisioning: provisioning,
		Solana:       solana,
		Polygon:      polygon,
	}
}

// Start declares the queue bindings and consumes until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) error {
	ch, err := d.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open consumer channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(d.exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", d.exchange, err)
	}
	q, err := ch.QueueDeclare(d.queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", d.queue, err)
	}
	for _, binding := range []string{"customers.*", "organizations.*", "solana.*", "polygon.*"} {
		if err := ch.QueueBind(q.Name, binding, d.exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind %s: %w", binding, err)
		}
	}
	if err := ch.Qos(32, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}

	deliveries, err := ch.Consume(q.Name, "treasury-dispatcher", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	log.Printf("🔁 Dispatcher consuming %s on exchange %s", q.Name, d.exchange)

	for {
		select {
		case <-ctx.Done():
			log.Println("Dispatcher stopped.")
			return nil
		case msg, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("consumer channel closed")
			}
			go d.handle(ctx, msg)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, msg amqp.Delivery) {
	if err := d.route(ctx, msg); err != nil {
		log.Printf("❌ Failed to handle %s: %v (requeueing)", msg.RoutingKey, err)
		if nackErr := msg.Nack(false, true); nackErr != nil {
			log.Printf("❌ Nack failed for %s: %v", msg.RoutingKey, nackErr)
		}
		return
	}
	if err := msg.Ack(false); err != nil {
		log.Printf("❌ Ack failed for %s: %v", msg.RoutingKey, err)
	}
}

// route decodes the envelope and hands it to the right handler. Decode
// failures and unrecognized variants are acked and dropped — redelivering a
// malformed message can never succeed.
func (d *Dispatcher) route(ctx context.Context, msg amqp.Delivery) error {
	key := msg.RoutingKey
	switch {
	case key == "customers.created":
		var env events.CustomerEnvelope
		if err := json.Unmarshal(msg.Body, &env); err != nil {
			log.Printf("❌ Dropping malformed customer event on %s: %v", key, err)
			return nil
		}
		if env.Event.Kind != events.CustomerCreated || env.Event.Customer == nil {
			log.Printf("Ignoring customer event kind %q", env.Event.Kind)
			return nil
		}
		return d.Provisioning.CreateCustomerTreasury(ctx, env.Key, *env.Event.Customer)

	case key == "organizations.project_created":
		var env events.OrganizationEnvelope
		if err := json.Unmarshal(msg.Body, &env); err != nil {
			log.Printf("❌ Dropping malformed organization event on %s: %v", key, err)
			return nil
		}
		if env.Event.Kind != events.OrganizationProjectCreated || env.Event.Project == nil {
			log.Printf("Ignoring organization event kind %q", env.Event.Kind)
			return nil
		}
		return d.Provisioning.CreateProjectTreasury(ctx, env.Key, *env.Event.Project)

	case strings.HasPrefix(key, "solana."):
		var env events.SolanaNftEnvelope
		if err := json.Unmarshal(msg.Body, &env); err != nil {
			log.Printf("❌ Dropping malformed solana event on %s: %v", key, err)
			return nil
		}
		return d.Solana.Process(ctx, env.Key, env.Event)

	case strings.HasPrefix(key, "polygon."):
		var env events.PolygonNftEnvelope
		if err := json.Unmarshal(msg.Body, &env); err != nil {
			log.Printf("❌ Dropping malformed polygon event on %s: %v", key, err)
			return nil
		}
		return d.Polygon.Process(ctx, env.Key, env.Event)

	default:
		// Unrecognized topics are not errors.
		return nil
	}
}
