// services/webhook.go
package services

import (
	"context"
	"encoding/hex"
	"errors"
	"log"

	"nft-treasury-service/events"
	"nft-treasury-service/models"
	"nft-treasury-service/utils"

	"github.com/gofiber/fiber/v2"
)

const webhookTypeTransactionStatusUpdated = "TRANSACTION_STATUS_UPDATED"

// JournalReader is the webhook's view of the transaction journal.
type JournalReader interface {
	Get(fireblocksID string) (*models.Transaction, error)
}

// AuditArchiver stores raw webhook payloads for audit. Best effort.
type AuditArchiver interface {
	Store(ctx context.Context, key string, payload []byte) error
}

type custodyWebhookPayload struct {
	Type string             `json:"type"`
	Data TransactionDetails `json:"data"`
}

// WebhookService handles custody TransactionStatusUpdated callbacks. On a
// COMPLETED Solana signing it rebuilds the wire transaction from the
// journaled signature plus the webhook signature, broadcasts it via chain
// RPC, and emits the terminal drop event. An RPC failure downgrades the
// emitted status to FAILED.
type WebhookService struct {
	Journal JournalReader
	Emitter TreasuryEmitter
	RPC     SolanaBroadcaster
	Archive AuditArchiver // optional
}

func NewWebhookService(journal JournalReader, emitter TreasuryEmitter, broadcaster SolanaBroadcaster, archive AuditArchiver) *WebhookService {
	return &WebhookService{
		Journal: journal,
		Emitter: emitter,
		RPC:     broadcaster,
		Archive: archive,
	}
}

// HandleCustodyCallback is the fiber handler for POST /webhooks/custody.
func (s *WebhookService) HandleCustodyCallback(c *fiber.Ctx) error {
	var payload custodyWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid webhook payload"})
	}

	if payload.Type != webhookTypeTransactionStatusUpdated {
		// Other callback types are acked and ignored.
		return c.JSON(fiber.Map{"status": "ignored"})
	}

	tx := payload.Data
	if s.Archive != nil {
		if err := s.Archive.Store(c.Context(), tx.ID, c.Body()); err != nil {
			log.Printf("⚠️ Failed to archive webhook payload for %s: %v", tx.ID, err)
		}
	}

	if !IsSolanaAsset(tx.AssetID) {
		log.Printf("🚫 Webhook for unsupported asset %s (tx %s), rejecting", tx.AssetID, tx.ID)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "unsupported asset"})
	}

	journaled, err := s.Journal.Get(tx.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown custody transaction"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "journal lookup failed"})
	}

	if !IsTerminalStatus(tx.Status) {
		return c.JSON(fiber.Map{"status": "pending"})
	}

	outKind := broadcastKindForTxType(journaled.TxType)
	status := tx.Status

	if tx.Status == TxStatusCompleted {
		if err := s.broadcast(c.Context(), journaled, &tx); err != nil {
			log.Printf("❌ Failed to broadcast %s (custody tx %s): %v", journaled.TxType, tx.ID, err)
			status = TxStatusFailed
		}
	}

	err = s.Emitter.Emit(c.Context(), events.TreasuryEventKey{ID: tx.ID}, events.TreasuryEvent{
		Kind: outKind,
		MintTransaction: &events.MintTransaction{
			TxSignature: journaled.Signature,
			Status:      status,
		},
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to emit event"})
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

// broadcast reassembles the signed transaction and submits it on-chain.
// Signature order is journaled signature first (fee payer), then the
// signature carried by the webhook.
func (s *WebhookService) broadcast(ctx context.Context, journaled *models.Transaction, tx *TransactionDetails) error {
	if len(tx.SignedMessages) == 0 {
		return errors.New("webhook carries no signed messages")
	}
	signed := tx.SignedMessages[0]

	message, err := hex.DecodeString(signed.Content)
	if err != nil {
		return errors.New("signed message content is not valid hex")
	}

	first, err := utils.DecodeBase58Signature(journaled.Signature)
	if err != nil {
		return err
	}
	second, err := hex.DecodeString(signed.Signature.FullSig)
	if err != nil {
		return errors.New("full_sig is not valid hex")
	}

	raw, err := utils.BuildRawTransaction([][]byte{first, second}, message)
	if err != nil {
		return err
	}

	sig, err := s.RPC.SendRawTransaction(ctx, raw)
	if err != nil {
		return err
	}
	log.Printf("✅ Broadcast %s for custody tx %s: %s", journaled.TxType, tx.ID, sig)
	return nil
}

func broadcastKindForTxType(txType string) events.TreasuryEventKind {
	if txType == models.TxTypeCreateDrop || txType == models.TxTypeCreateCollection {
		return events.DropCreated
	}
	return events.DropMinted
}
