// services/polygon_pipeline.go
package services

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"nft-treasury-service/events"
)

// PolygonPipeline handles Polygon requests. Contract calls are signed and
// broadcast by the custody provider itself from the fixed treasury vault;
// permit-hash signing RAW-signs against the vault owning the token owner's
// wallet and returns a recoverable ECDSA signature.
type PolygonPipeline struct {
	Custody  CustodySigner
	Registry VaultResolver
	Emitter  TreasuryEmitter
	Assets   AssetConfig

	// TreasuryVaultID is the deployment-wide vault all contract calls are
	// sourced from.
	TreasuryVaultID string
}

func NewPolygonPipeline(custody CustodySigner, registry VaultResolver, emitter TreasuryEmitter, assets AssetConfig, treasuryVault string) *PolygonPipeline {
	return &PolygonPipeline{
		Custody:         custody,
		Registry:        registry,
		Emitter:         emitter,
		Assets:          assets,
		TreasuryVaultID: treasuryVault,
	}
}

func (p *PolygonPipeline) Process(ctx context.Context, key events.PolygonNftEventKey, event events.PolygonNftEvent) error {
	switch event.Kind {
	case events.PolygonSignPermitTokenTransferHash:
		if event.PermitHash == nil {
			log.Printf("❌ Polygon %s event %s has no permit hash payload, dropping", event.Kind, key.ID)
			return nil
		}
		return p.signPermitHash(ctx, key, event.Kind, event.PermitHash)

	case events.PolygonSubmitTransferAssetTxns:
		if event.TransferTxns == nil {
			log.Printf("❌ Polygon %s event %s has no transfer payload, dropping", event.Kind, key.ID)
			return nil
		}
		return p.submitTransferAsset(ctx, key, event.TransferTxns)

	default:
		outKind, ok := events.PolygonSubmittedKind(event.Kind)
		if !ok {
			log.Printf("Ignoring unrecognized polygon event kind %q (id=%s)", event.Kind, key.ID)
			return nil
		}
		if event.Transaction == nil {
			log.Printf("❌ Polygon %s event %s has no transaction payload, dropping", event.Kind, key.ID)
			return nil
		}
		return p.submitContractCall(ctx, key, event.Kind, outKind, event.Transaction)
	}
}

// executeContractCall submits one contract call from the treasury vault and
// waits for a terminal status, timing the round trip.
func (p *PolygonPipeline) executeContractCall(ctx context.Context, key events.PolygonNftEventKey, kind events.PolygonEventKind, tx *events.PolygonTransaction) (*TransactionDetails, error) {
	note := fmt.Sprintf("%s by %s for project %s", kind, key.UserID, key.ProjectID)

	start := time.Now()
	created, err := p.Custody.ContractCall(ctx, p.Assets.PolygonAssetID(), p.TreasuryVaultID, tx.ContractAddress, contractDataHex(tx.Data), note)
	if err != nil {
		return nil, err
	}
	details, err := p.Custody.WaitForTerminal(ctx, created.ID)
	observeSigningDuration(BlockchainPolygon, time.Since(start))
	if err != nil {
		return nil, err
	}
	return details, nil
}

// submitContractCall runs one contract-call request and emits the
// corresponding *Submitted event. Failures become hash=nil, status=failed.
func (p *PolygonPipeline) submitContractCall(ctx context.Context, key events.PolygonNftEventKey, kind events.PolygonEventKind, outKind events.TreasuryEventKind, tx *events.PolygonTransaction) error {
	result := &events.PolygonTransactionResult{
		Status:          events.StatusCompleted,
		ContractAddress: tx.ContractAddress,
		EditionID:       tx.EditionID,
	}

	details, err := p.executeContractCall(ctx, key, kind, tx)
	if err != nil {
		log.Printf("❌ Polygon %s submission failed (id=%s): %v", kind, key.ID, err)
		result.Status = events.StatusFailed
	} else {
		hash := details.TxHash
		result.Hash = &hash
	}

	return p.Emitter.Emit(ctx, TreasuryKeyFromPolygon(key), events.TreasuryEvent{
		Kind:               outKind,
		PolygonTransaction: result,
	})
}

// submitTransferAsset runs the two-step token transfer: the permit txn is
// submitted and awaited first with its result discarded from the bus, then
// the safe-transfer txn is submitted and emitted as
// PolygonTransferAssetSubmitted.
func (p *PolygonPipeline) submitTransferAsset(ctx context.Context, key events.PolygonNftEventKey, txns *events.PolygonTokenTransferTxns) error {
	if txns.PermitTokenTransferTxn == nil {
		log.Printf("❌ Polygon transfer %s: %v", key.ID, ErrMissingPermitTokenTransferTxn)
		return p.emitTransferFailed(ctx, key, txns.SafeTransferFromTxn)
	}
	if txns.SafeTransferFromTxn == nil {
		log.Printf("❌ Polygon transfer %s: %v", key.ID, ErrMissingSafeTransferFromTxn)
		return p.emitTransferFailed(ctx, key, txns.PermitTokenTransferTxn)
	}

	if _, err := p.executeContractCall(ctx, key, events.PolygonSubmitTransferAssetTxns, txns.PermitTokenTransferTxn); err != nil {
		log.Printf("❌ Polygon permit transfer txn failed (id=%s): %v", key.ID, err)
		return p.emitTransferFailed(ctx, key, txns.SafeTransferFromTxn)
	}

	return p.submitContractCall(ctx, key, events.PolygonSubmitTransferAssetTxns, events.PolygonTransferAssetSubmitted, txns.SafeTransferFromTxn)
}

func (p *PolygonPipeline) emitTransferFailed(ctx context.Context, key events.PolygonNftEventKey, tx *events.PolygonTransaction) error {
	result := &events.PolygonTransactionResult{Status: events.StatusFailed}
	if tx != nil {
		result.ContractAddress = tx.ContractAddress
		result.EditionID = tx.EditionID
	}
	return p.Emitter.Emit(ctx, TreasuryKeyFromPolygon(key), events.TreasuryEvent{
		Kind:               events.PolygonTransferAssetSubmitted,
		PolygonTransaction: result,
	})
}

// signPermitHash RAW-signs a permit transfer hash with the vault owning the
// token owner's wallet and emits the recoverable ECDSA signature. The
// signature cannot express failure, so decode faults are logged and the
// message is acked without an emit.
func (p *PolygonPipeline) signPermitHash(ctx context.Context, key events.PolygonNftEventKey, kind events.PolygonEventKind, args *events.PermitArgsHash) error {
	vaultID, err := p.Registry.VaultByWalletAddress(args.Owner)
	if err != nil {
		log.Printf("❌ Polygon permit hash: failed to resolve vault for owner %s: %v", args.Owner, err)
		return nil
	}

	note := fmt.Sprintf("%s by %s for project %s", kind, key.UserID, key.ProjectID)
	messageHex := hex.EncodeToString(args.Data)

	start := time.Now()
	created, err := p.Custody.RawSigning(ctx, p.Assets.PolygonAssetID(), vaultID, messageHex, note)
	if err != nil {
		log.Printf("❌ Polygon permit hash submission failed (id=%s): %v", key.ID, err)
		return nil
	}
	details, err := p.Custody.WaitForTerminal(ctx, created.ID)
	observeSigningDuration(BlockchainPolygon, time.Since(start))
	if err != nil {
		log.Printf("❌ Polygon permit hash signing failed (id=%s): %v", key.ID, err)
		return nil
	}

	if len(details.SignedMessages) == 0 {
		log.Printf("❌ Polygon permit hash %s: custody returned no signed messages", created.ID)
		return nil
	}
	signature, err := DecodeEcdsaSignature(details.SignedMessages[0].Signature)
	if err != nil {
		log.Printf("❌ Polygon permit hash %s: %v", created.ID, err)
		return nil
	}

	return p.Emitter.Emit(ctx, TreasuryKeyFromPolygon(key), events.TreasuryEvent{
		Kind: events.PolygonPermitTransferTokenHashSigned,
		PermitHashSignature: &events.PolygonPermitHashSignature{
			Signature: *signature,
			Owner:     args.Owner,
			Spender:   args.Spender,
			Recipient: args.Recipient,
			EditionID: args.EditionID,
			Amount:    args.Amount,
		},
	})
}

// DecodeEcdsaSignature turns the custody r/s/v scalars into an Ethereum
// recoverable signature: hex-decoded r and s, v offset by 27 and
// range-checked to a single byte.
func DecodeEcdsaSignature(sig SignatureDetail) (*events.EcdsaSignature, error) {
	if sig.R == "" {
		return nil, &IncompleteEcdsaSignatureError{Component: "r"}
	}
	if sig.S == "" {
		return nil, &IncompleteEcdsaSignatureError{Component: "s"}
	}
	if sig.V == nil {
		return nil, &IncompleteEcdsaSignatureError{Component: "v"}
	}

	r, err := hex.DecodeString(strings.TrimPrefix(sig.R, "0x"))
	if err != nil {
		return nil, fmt.Errorf("ecdsa r is not valid hex: %w", err)
	}
	s, err := hex.DecodeString(strings.TrimPrefix(sig.S, "0x"))
	if err != nil {
		return nil, fmt.Errorf("ecdsa s is not valid hex: %w", err)
	}

	v := *sig.V + 27
	if v > 0xff {
		return nil, ErrInvalidEcdsaPubkeyRecovery
	}

	return &events.EcdsaSignature{R: r, S: s, V: uint8(v)}, nil
}

func contractDataHex(data []byte) string {
	return "0x" + hex.EncodeToString(data)
}
