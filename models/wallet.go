// models/wallet.go
package models

import (
	"strings"
	"time"
)

// Asset types a wallet can be derived for.
// These mirror the custody provider's asset ids.
const (
	AssetTypeSolana     = "SOL"
	AssetTypeSolanaTest = "SOL_TEST"
	AssetTypeMatic      = "MATIC"
	AssetTypeMaticTest  = "MATIC_POLYGON_MUMBAI"
	AssetTypeEth        = "ETH"
	AssetTypeEthTest    = "ETH_TEST"
)

// Wallet is a per-asset address derived inside a vault.
// (treasury_id, asset_id) is effectively unique for active wallets.
type Wallet struct {
	ID          string     `gorm:"primaryKey;type:uuid;not null" json:"id"`
	TreasuryID  string     `gorm:"type:uuid;not null;index:idx_wallet_treasury_asset" json:"treasury_id"`
	AssetID     string     `gorm:"type:varchar(32);not null;index:idx_wallet_treasury_asset" json:"asset_id"`
	Address     *string    `gorm:"type:varchar(128);index" json:"address"` // absent until assigned by custody
	CreatedBy   string     `gorm:"type:uuid;not null" json:"created_by"`
	DeductionID *string    `gorm:"type:uuid" json:"deduction_id,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	RemovedAt   *time.Time `gorm:"index" json:"removed_at,omitempty"` // soft removal

	Treasury *Treasury `gorm:"foreignKey:TreasuryID" json:"treasury,omitempty"`
}

// NormalizeAddress lowercases EVM (0x-prefixed) addresses.
// Solana addresses are base58 and case-sensitive, so they pass through verbatim.
func NormalizeAddress(address string) string {
	if strings.HasPrefix(address, "0x") {
		return strings.ToLower(address)
	}
	return address
}
