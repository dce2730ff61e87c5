// services/errors.go
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by registry lookups when no row matches.
	// Fatal for the signing request that triggered the lookup.
	ErrNotFound = errors.New("not found")

	// ErrInvalidBlockchain marks an unknown chain identifier in an
	// incoming event. The request is dropped with an error log.
	ErrInvalidBlockchain = errors.New("invalid blockchain")

	// ErrInvalidEcdsaPubkeyRecovery marks a custody v value that does not
	// fit the one-byte Ethereum recovery id after the +27 offset.
	ErrInvalidEcdsaPubkeyRecovery = errors.New("invalid ecdsa pubkey recovery id")

	ErrMissingPermitTokenTransferTxn = errors.New("missing permit_token_transfer_txn")
	ErrMissingSafeTransferFromTxn    = errors.New("missing safe_transfer_from_txn")
)

// CustodyTransactionFailedError is a terminal failure status from the
// custody provider (FAILED, CANCELLED, REJECTED, BLOCKED). It becomes a
// status=failed outbound event, not an error to the bus consumer.
type CustodyTransactionFailedError struct {
	Status string
}

func (e *CustodyTransactionFailedError) Error() string {
	return fmt.Sprintf("custody transaction failed with status %s", e.Status)
}

// IncompleteEcdsaSignatureError is a protocol violation by the custody
// provider: one of the r/s/v scalars is missing from a signed message.
type IncompleteEcdsaSignatureError struct {
	Component string // "r", "s" or "v"
}

func (e *IncompleteEcdsaSignatureError) Error() string {
	return fmt.Sprintf("incomplete ecdsa signature: missing %s", e.Component)
}
