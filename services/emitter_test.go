package services

import (
	"context"
	"errors"
	"testing"

	"nft-treasury-service/events"
)

func TestEmitterWrapsEnvelopeAndRoutingKey(t *testing.T) {
	producer := &MockPublisher{}
	emitter := NewEventEmitter(producer)

	key := events.TreasuryEventKey{ID: "drop-1", UserID: "user-1", ProjectID: "project-1"}
	event := events.TreasuryEvent{
		Kind: events.SolanaMintDropSigned,
		SolanaTransaction: &events.SolanaTransactionResult{
			SignedMessageSignatures: []string{"sig"},
			Status:                  events.StatusCompleted,
		},
	}

	if err := emitter.Emit(context.Background(), key, event); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	if len(producer.RoutingKeys) != 1 {
		t.Fatalf("expected 1 publish, got %d", len(producer.RoutingKeys))
	}
	if producer.RoutingKeys[0] != "treasuries.solana_mint_drop_signed" {
		t.Errorf("unexpected routing key %s", producer.RoutingKeys[0])
	}

	envelope, ok := producer.Bodies[0].(events.TreasuryEnvelope)
	if !ok {
		t.Fatalf("expected a TreasuryEnvelope body, got %T", producer.Bodies[0])
	}
	if envelope.Key != key {
		t.Errorf("unexpected envelope key: %+v", envelope.Key)
	}
	if envelope.Event.Kind != event.Kind {
		t.Errorf("unexpected envelope kind: %s", envelope.Event.Kind)
	}
}

func TestEmitterPropagatesPublishError(t *testing.T) {
	producer := &MockPublisher{
		PublishFunc: func(ctx context.Context, routingKey string, body any) error { return ErrMockPublish },
	}
	emitter := NewEventEmitter(producer)

	err := emitter.Emit(context.Background(), events.TreasuryEventKey{}, events.TreasuryEvent{Kind: events.DropMinted})
	if !errors.Is(err, ErrMockPublish) {
		t.Fatalf("expected publish error to propagate, got %v", err)
	}
}

func TestTreasuryKeyProjections(t *testing.T) {
	want := events.TreasuryEventKey{ID: "id", UserID: "user", ProjectID: "project"}

	got := TreasuryKeyFromSolana(events.SolanaNftEventKey{ID: "id", UserID: "user", ProjectID: "project"})
	if got != want {
		t.Errorf("TreasuryKeyFromSolana = %+v, want %+v", got, want)
	}

	got = TreasuryKeyFromPolygon(events.PolygonNftEventKey{ID: "id", UserID: "user", ProjectID: "project"})
	if got != want {
		t.Errorf("TreasuryKeyFromPolygon = %+v, want %+v", got, want)
	}
}
