package services

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"nft-treasury-service/events"
	"nft-treasury-service/models"

	"github.com/gofiber/fiber/v2"
	"github.com/mr-tron/base58"
)

func newWebhookApp(svc *WebhookService) *fiber.App {
	app := fiber.New()
	app.Post("/webhooks/custody", svc.HandleCustodyCallback)
	return app
}

func postWebhook(t *testing.T, app *fiber.App, payload any) int {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to encode payload: %v", err)
	}
	req := httptest.NewRequest("POST", "/webhooks/custody", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func journaledMint(fireblocksID string, sig []byte) *models.Transaction {
	return &models.Transaction{
		FireblocksID: fireblocksID,
		Signature:    base58.Encode(sig),
		TxType:       models.TxTypeMintEdition,
	}
}

func TestWebhookBroadcastsCompletedSolanaTransaction(t *testing.T) {
	journaledSig := bytes.Repeat([]byte{0x11}, 64)
	webhookSig := bytes.Repeat([]byte{0x22}, 64)
	message := []byte{9, 9, 9}

	journal := &MockJournal{
		GetFunc: func(fireblocksID string) (*models.Transaction, error) {
			if fireblocksID != "fb-tx-1" {
				return nil, ErrNotFound
			}
			return journaledMint(fireblocksID, journaledSig), nil
		},
	}
	emitter := &MockEmitter{}
	rpc := &MockBroadcaster{
		SendFunc: func(ctx context.Context, rawTx []byte) (string, error) {
			return "chain-sig", nil
		},
	}

	app := newWebhookApp(NewWebhookService(journal, emitter, rpc, nil))
	status := postWebhook(t, app, custodyWebhookPayload{
		Type: webhookTypeTransactionStatusUpdated,
		Data: TransactionDetails{
			ID:      "fb-tx-1",
			AssetID: models.AssetTypeSolanaTest,
			Status:  TxStatusCompleted,
			SignedMessages: []SignedMessage{{
				Content:   hex.EncodeToString(message),
				Signature: SignatureDetail{FullSig: hex.EncodeToString(webhookSig)},
			}},
		},
	})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	if len(rpc.SentTxs) != 1 {
		t.Fatalf("expected 1 broadcast, got %d", len(rpc.SentTxs))
	}
	raw := rpc.SentTxs[0]
	// Journaled (fee payer) signature first, webhook signature second.
	if raw[0] != 2 {
		t.Errorf("expected 2 signatures on the wire, got %d", raw[0])
	}
	if !bytes.Equal(raw[1:65], journaledSig) || !bytes.Equal(raw[65:129], webhookSig) {
		t.Error("unexpected signature order in the wire transaction")
	}
	if !bytes.Equal(raw[129:], message) {
		t.Error("message bytes must follow the signatures verbatim")
	}

	if len(emitter.Emitted) != 1 {
		t.Fatalf("expected 1 emitted event, got %d", len(emitter.Emitted))
	}
	got := emitter.Emitted[0]
	if got.Event.Kind != events.DropMinted {
		t.Errorf("MintEdition must emit %s, got %s", events.DropMinted, got.Event.Kind)
	}
	if got.Key.ID != "fb-tx-1" {
		t.Errorf("outbound key must carry the custody tx id, got %s", got.Key.ID)
	}
	mint := got.Event.MintTransaction
	if mint == nil || mint.TxSignature != base58.Encode(journaledSig) || mint.Status != TxStatusCompleted {
		t.Errorf("unexpected mint payload: %+v", mint)
	}
}

func TestWebhookRPCFailureDowngradesStatus(t *testing.T) {
	journal := &MockJournal{
		GetFunc: func(fireblocksID string) (*models.Transaction, error) {
			return journaledMint(fireblocksID, bytes.Repeat([]byte{0x11}, 64)), nil
		},
	}
	emitter := &MockEmitter{}
	rpc := &MockBroadcaster{
		SendFunc: func(ctx context.Context, rawTx []byte) (string, error) {
			return "", ErrMockRPC
		},
	}

	app := newWebhookApp(NewWebhookService(journal, emitter, rpc, nil))
	status := postWebhook(t, app, custodyWebhookPayload{
		Type: webhookTypeTransactionStatusUpdated,
		Data: TransactionDetails{
			ID:      "fb-tx-1",
			AssetID: models.AssetTypeSolana,
			Status:  TxStatusCompleted,
			SignedMessages: []SignedMessage{{
				Content:   hex.EncodeToString([]byte{1}),
				Signature: SignatureDetail{FullSig: hex.EncodeToString(bytes.Repeat([]byte{0x22}, 64))},
			}},
		},
	})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	if emitter.Emitted[0].Event.MintTransaction.Status != TxStatusFailed {
		t.Error("a broadcast failure must downgrade the emitted status to FAILED")
	}
}

func TestWebhookCreateDropEmitsDropCreated(t *testing.T) {
	journal := &MockJournal{
		GetFunc: func(fireblocksID string) (*models.Transaction, error) {
			return &models.Transaction{
				FireblocksID: fireblocksID,
				Signature:    base58.Encode(bytes.Repeat([]byte{0x11}, 64)),
				TxType:       models.TxTypeCreateDrop,
			}, nil
		},
	}
	emitter := &MockEmitter{}

	app := newWebhookApp(NewWebhookService(journal, emitter, &MockBroadcaster{}, nil))
	status := postWebhook(t, app, custodyWebhookPayload{
		Type: webhookTypeTransactionStatusUpdated,
		Data: TransactionDetails{
			ID:      "fb-tx-2",
			AssetID: models.AssetTypeSolana,
			Status:  TxStatusFailed, // terminal failure skips the broadcast
		},
	})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	got := emitter.Emitted[0].Event
	if got.Kind != events.DropCreated {
		t.Errorf("CreateDrop must emit %s, got %s", events.DropCreated, got.Kind)
	}
	if got.MintTransaction.Status != TxStatusFailed {
		t.Errorf("expected FAILED passthrough, got %s", got.MintTransaction.Status)
	}
}

func TestWebhookRejectsNonSolanaAsset(t *testing.T) {
	emitter := &MockEmitter{}
	app := newWebhookApp(NewWebhookService(&MockJournal{}, emitter, &MockBroadcaster{}, nil))

	status := postWebhook(t, app, custodyWebhookPayload{
		Type: webhookTypeTransactionStatusUpdated,
		Data: TransactionDetails{ID: "fb-tx-3", AssetID: models.AssetTypeMatic, Status: TxStatusCompleted},
	})
	if status != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", status)
	}
	if len(emitter.Emitted) != 0 {
		t.Error("nothing must be emitted for an unsupported asset")
	}
}

func TestWebhookUnknownTransactionReturns404(t *testing.T) {
	app := newWebhookApp(NewWebhookService(&MockJournal{}, &MockEmitter{}, &MockBroadcaster{}, nil))

	status := postWebhook(t, app, custodyWebhookPayload{
		Type: webhookTypeTransactionStatusUpdated,
		Data: TransactionDetails{ID: "fb-missing", AssetID: models.AssetTypeSolana, Status: TxStatusCompleted},
	})
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestWebhookNonTerminalStatusIsAcknowledged(t *testing.T) {
	journal := &MockJournal{
		GetFunc: func(fireblocksID string) (*models.Transaction, error) {
			return journaledMint(fireblocksID, bytes.Repeat([]byte{0x11}, 64)), nil
		},
	}
	emitter := &MockEmitter{}
	rpc := &MockBroadcaster{}

	app := newWebhookApp(NewWebhookService(journal, emitter, rpc, nil))
	status := postWebhook(t, app, custodyWebhookPayload{
		Type: webhookTypeTransactionStatusUpdated,
		Data: TransactionDetails{ID: "fb-tx-4", AssetID: models.AssetTypeSolana, Status: TxStatusConfirming},
	})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(emitter.Emitted) != 0 || len(rpc.SentTxs) != 0 {
		t.Error("non-terminal updates must neither broadcast nor emit")
	}
}

func TestWebhookIgnoresOtherCallbackTypes(t *testing.T) {
	emitter := &MockEmitter{}
	app := newWebhookApp(NewWebhookService(&MockJournal{}, emitter, &MockBroadcaster{}, nil))

	status := postWebhook(t, app, custodyWebhookPayload{Type: "VAULT_ACCOUNT_ADDED"})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(emitter.Emitted) != 0 {
		t.Error("other callback types must be ignored")
	}
}
