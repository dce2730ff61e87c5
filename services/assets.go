// services/assets.go
package services

import (
	"strings"

	"nft-treasury-service/models"
)

// Blockchain names used for metric labels and outbound wallet events.
const (
	BlockchainSolana   = "Solana"
	BlockchainPolygon  = "Polygon"
	BlockchainEthereum = "Ethereum"
)

// AssetConfig holds the process-wide asset selection, fixed at startup.
// TestMode swaps every production asset id for its testnet counterpart.
type AssetConfig struct {
	TestMode          bool
	SupportedAssetIDs []string
}

var testAssetIDs = map[string]string{
	models.AssetTypeSolana: models.AssetTypeSolanaTest,
	models.AssetTypeMatic:  models.AssetTypeMaticTest,
	models.AssetTypeEth:    models.AssetTypeEthTest,
}

// ResolveAssetID maps a production asset id to the active one for this
// deployment. Identity when test mode is off or the asset has no testnet
// counterpart.
func (c AssetConfig) ResolveAssetID(assetID string) string {
	if !c.TestMode {
		return assetID
	}
	if test, ok := testAssetIDs[assetID]; ok {
		return test
	}
	return assetID
}

// ActiveAssetIDs resolves the whole configured list.
func (c AssetConfig) ActiveAssetIDs() []string {
	out := make([]string, 0, len(c.SupportedAssetIDs))
	for _, id := range c.SupportedAssetIDs {
		out = append(out, c.ResolveAssetID(id))
	}
	return out
}

// SolanaAssetID is the active asset id for Solana RAW signing.
func (c AssetConfig) SolanaAssetID() string {
	return c.ResolveAssetID(models.AssetTypeSolana)
}

// PolygonAssetID is the active asset id for Polygon contract calls.
func (c AssetConfig) PolygonAssetID() string {
	return c.ResolveAssetID(models.AssetTypeMatic)
}

// BlockchainForAsset maps a custody asset id to its blockchain name.
func BlockchainForAsset(assetID string) (string, error) {
	switch assetID {
	case models.AssetTypeSolana, models.AssetTypeSolanaTest:
		return BlockchainSolana, nil
	case models.AssetTypeMatic, models.AssetTypeMaticTest:
		return BlockchainPolygon, nil
	case models.AssetTypeEth, models.AssetTypeEthTest:
		return BlockchainEthereum, nil
	}
	return "", ErrInvalidBlockchain
}

// IsSolanaAsset reports whether the asset id belongs to Solana. The webhook
// path only supports Solana assets.
func IsSolanaAsset(assetID string) bool {
	return strings.HasPrefix(assetID, models.AssetTypeSolana)
}
