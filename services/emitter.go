// services/emitter.go
package services

import (
	"context"
	"log"

	"nft-treasury-service/events"
)

// Publisher is what the emitter needs from the message producer.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body any) error
}

// EventEmitter wraps chain results into the outbound treasury envelope and
// publishes them with a `treasuries.<kind>` routing key.
type EventEmitter struct {
	Producer Publisher
}

func NewEventEmitter(p Publisher) *EventEmitter {
	return &EventEmitter{Producer: p}
}

func (e *EventEmitter) Emit(ctx context.Context, key events.TreasuryEventKey, event events.TreasuryEvent) error {
	envelope := events.TreasuryEnvelope{Key: key, Event: event}
	routingKey := "treasuries." + string(event.Kind)

	if err := e.Producer.Publish(ctx, routingKey, envelope); err != nil {
		return err
	}
	log.Printf("📤 Emitted %s (id=%s project=%s)", event.Kind, key.ID, key.ProjectID)
	return nil
}

// Key projections: the outbound key is always the inbound key narrowed to
// {id, user_id, project_id}.

func TreasuryKeyFromSolana(key events.SolanaNftEventKey) events.TreasuryEventKey {
	return events.TreasuryEventKey{ID: key.ID, UserID: key.UserID, ProjectID: key.ProjectID}
}

func TreasuryKeyFromPolygon(key events.PolygonNftEventKey) events.TreasuryEventKey {
	return events.TreasuryEventKey{ID: key.ID, UserID: key.UserID, ProjectID: key.ProjectID}
}
