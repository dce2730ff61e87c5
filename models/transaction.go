// models/transaction.go
package models

import "time"

// Kinds of on-chain operations we journal.
const (
	TxTypeCreateDrop       = "CreateDrop"
	TxTypeMintEdition      = "MintEdition"
	TxTypeUpdateMetadata   = "UpdateMetadata"
	TxTypeTransferMint     = "TransferMint"
	TxTypeCreateCollection = "CreateCollection"
	TxTypeMintToCollection = "MintToCollection"
	TxTypeSwitchCollection = "SwitchCollection"
)

// Transaction is the append-only journal of every custody transaction we
// initiated. Keyed by the custody provider's transaction UUID so downstream
// consumers can correlate signing outcomes back to custody identifiers.
// No updates, no deletes.
type Transaction struct {
	FireblocksID string    `gorm:"primaryKey;type:uuid;not null" json:"fireblocks_id"`
	Signature    string    `gorm:"type:varchar(128);not null" json:"signature"` // chain-native signature string
	TxType       string    `gorm:"type:varchar(32);not null" json:"tx_type"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}
