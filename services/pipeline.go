// services/pipeline.go
package services

import (
	"context"

	"nft-treasury-service/events"
)

// Interfaces the signing pipelines depend on. The concrete implementations
// are FireblocksClient, RegistryService, JournalService and EventEmitter;
// tests swap in mocks.

type CustodySigner interface {
	RawSigning(ctx context.Context, assetID, vaultID, messageHex, note string) (*CreateTransactionResponse, error)
	ContractCall(ctx context.Context, assetID, vaultID, contractAddress, dataHex, note string) (*CreateTransactionResponse, error)
	WaitForTerminal(ctx context.Context, id string) (*TransactionDetails, error)
}

type VaultResolver interface {
	VaultByWalletAddress(address string) (string, error)
}

type JournalWriter interface {
	Insert(fireblocksID, signature, txType string) error
}

type TreasuryEmitter interface {
	Emit(ctx context.Context, key events.TreasuryEventKey, event events.TreasuryEvent) error
}

// persistenceError marks a database failure inside a pipeline. Unlike
// custody or registry misses — which become status=failed outbound events —
// these propagate to the dispatcher so the message is not acked.
type persistenceError struct {
	err error
}

func (e *persistenceError) Error() string { return e.err.Error() }
func (e *persistenceError) Unwrap() error { return e.err }
