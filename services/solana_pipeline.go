// services/solana_pipeline.go
package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"nft-treasury-service/events"
	"nft-treasury-service/models"
	"nft-treasury-service/utils"
)

// solanaTxTypes maps signing request kinds to the journal's operation kind.
// Retry variants journal the same operation as their base kind.
var solanaTxTypes = map[events.SolanaEventKind]string{
	events.SolanaCreateDrop:                models.TxTypeCreateDrop,
	events.SolanaRetryCreateDrop:           models.TxTypeCreateDrop,
	events.SolanaUpdateDrop:                models.TxTypeUpdateMetadata,
	events.SolanaMintDrop:                  models.TxTypeMintEdition,
	events.SolanaRetryMintDrop:             models.TxTypeMintEdition,
	events.SolanaTransferAsset:             models.TxTypeTransferMint,
	events.SolanaCreateCollection:          models.TxTypeCreateCollection,
	events.SolanaRetryCreateCollection:     models.TxTypeCreateCollection,
	events.SolanaUpdateCollection:          models.TxTypeUpdateMetadata,
	events.SolanaUpdateCollectionMint:      models.TxTypeUpdateMetadata,
	events.SolanaRetryUpdateCollectionMint: models.TxTypeUpdateMetadata,
	events.SolanaMintToCollection:          models.TxTypeMintToCollection,
	events.SolanaRetryMintToCollection:     models.TxTypeMintToCollection,
	events.SolanaSwitchCollection:          models.TxTypeSwitchCollection,
}

// SolanaPipeline handles Solana signing requests: resolve the signing
// vault(s) from the signer slots, RAW-sign through custody, decode the
// Ed25519 signature, journal, and emit the signed result. Safe to invoke
// from many dispatcher tasks concurrently.
type SolanaPipeline struct {
	Custody  CustodySigner
	Registry VaultResolver
	Journal  JournalWriter
	Emitter  TreasuryEmitter
	Assets   AssetConfig
}

func NewSolanaPipeline(custody CustodySigner, registry VaultResolver, journal JournalWriter, emitter TreasuryEmitter, assets AssetConfig) *SolanaPipeline {
	return &SolanaPipeline{
		Custody:  custody,
		Registry: registry,
		Journal:  journal,
		Emitter:  emitter,
		Assets:   assets,
	}
}

// Process runs one signing request end to end. Operational failures
// (custody terminal failure, registry miss, malformed provider signature)
// become a status=failed outbound event and a nil return so the bus message
// is acked; database and producer errors propagate so it is not.
func (p *SolanaPipeline) Process(ctx context.Context, key events.SolanaNftEventKey, event events.SolanaNftEvent) error {
	outKind, ok := events.SolanaSignedKind(event.Kind)
	if !ok {
		log.Printf("Ignoring unrecognized solana event kind %q (id=%s)", event.Kind, key.ID)
		return nil
	}
	if event.Transaction == nil {
		log.Printf("❌ Solana %s event %s has no transaction payload, dropping", event.Kind, key.ID)
		return nil
	}

	result, err := p.sign(ctx, key, event.Kind, event.Transaction)
	if err != nil {
		var perr *persistenceError
		if errors.As(err, &perr) {
			return perr.Unwrap()
		}
		log.Printf("❌ Solana %s signing failed (id=%s): %v", event.Kind, key.ID, err)
		result = &events.SolanaTransactionResult{
			SignedMessageSignatures: []string{},
			Status:                  events.StatusFailed,
		}
	}

	return p.Emitter.Emit(ctx, TreasuryKeyFromSolana(key), events.TreasuryEvent{
		Kind:              outKind,
		SolanaTransaction: result,
	})
}

// sign walks the signer slots in order. Public-key entries are signed by
// the vault holding that key; everything else is an upstream signature and
// passes through verbatim. Output order matches input order exactly.
func (p *SolanaPipeline) sign(ctx context.Context, key events.SolanaNftEventKey, kind events.SolanaEventKind, tx *events.SolanaPendingTransaction) (*events.SolanaTransactionResult, error) {
	assetID := p.Assets.SolanaAssetID()
	messageHex := hex.EncodeToString(tx.SerializedMessage)
	note := fmt.Sprintf("%s by %s for project %s", kind, key.UserID, key.ProjectID)
	txType := solanaTxTypes[kind]

	signatures := make([]string, len(tx.SignaturesOrSignersPublicKeys))
	for i, entry := range tx.SignaturesOrSignersPublicKeys {
		if !utils.IsEd25519PublicKey(entry) {
			signatures[i] = entry
			continue
		}

		vaultID, err := p.Registry.VaultByWalletAddress(entry)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve vault for signer %s: %w", entry, err)
		}

		start := time.Now()
		created, err := p.Custody.RawSigning(ctx, assetID, vaultID, messageHex, note)
		if err != nil {
			return nil, err
		}
		details, err := p.Custody.WaitForTerminal(ctx, created.ID)
		observeSigningDuration(BlockchainSolana, time.Since(start))
		if err != nil {
			return nil, err
		}

		if len(details.SignedMessages) == 0 {
			return nil, fmt.Errorf("custody transaction %s completed with no signed messages", created.ID)
		}
		signature, err := utils.DecodeFullSignature(details.SignedMessages[0].Signature.FullSig)
		if err != nil {
			return nil, fmt.Errorf("custody transaction %s: %w", created.ID, err)
		}

		if err := p.Journal.Insert(created.ID, signature, txType); err != nil {
			return nil, &persistenceError{err: err}
		}

		signatures[i] = signature
	}

	return &events.SolanaTransactionResult{
		SerializedMessage:       tx.SerializedMessage,
		SignedMessageSignatures: signatures,
		Status:                  events.StatusCompleted,
	}, nil
}
