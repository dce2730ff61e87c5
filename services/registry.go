// services/registry.go
package services

import (
	"errors"
	"fmt"
	"time"

	"nft-treasury-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegistryService owns the treasury and wallet rows: the mapping from
// projects and customers to custody vaults, and from (treasury, asset) to
// wallet addresses. The signing pipelines resolve vaults through it.
type RegistryService struct {
	DB *gorm.DB
}

func NewRegistryService(db *gorm.DB) *RegistryService {
	return &RegistryService{DB: db}
}

// VaultByWalletAddress resolves the custody vault holding the given wallet
// address. EVM addresses are matched lowercased (they are stored that way).
func (s *RegistryService) VaultByWalletAddress(address string) (string, error) {
	normalized := models.NormalizeAddress(address)

	var treasury models.Treasury
	err := s.DB.
		Joins("JOIN wallets ON wallets.treasury_id = treasuries.id").
		Where("wallets.address = ? AND wallets.removed_at IS NULL", normalized).
		First(&treasury).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("no treasury for wallet address %s: %w", address, ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return treasury.VaultID, nil
}

// VaultByProject resolves the vault of the project's treasury.
func (s *RegistryService) VaultByProject(projectID string) (string, error) {
	var treasury models.Treasury
	err := s.DB.
		Joins("JOIN project_treasuries ON project_treasuries.treasury_id = treasuries.id").
		Where("project_treasuries.project_id = ?", projectID).
		First(&treasury).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("no treasury for project %s: %w", projectID, ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return treasury.VaultID, nil
}

// VaultByCustomer resolves the vault of the customer's treasury.
func (s *RegistryService) VaultByCustomer(customerID string) (string, error) {
	var treasury models.Treasury
	err := s.DB.
		Joins("JOIN customer_treasuries ON customer_treasuries.treasury_id = treasuries.id").
		Where("customer_treasuries.customer_id = ?", customerID).
		First(&treasury).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("no treasury for customer %s: %w", customerID, ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return treasury.VaultID, nil
}

// WalletByVaultAndAssets picks the active wallet inside a vault matching any
// of the given asset ids. Used when a caller names only a generic blockchain
// and the concrete asset id has to come from what we provisioned.
func (s *RegistryService) WalletByVaultAndAssets(vaultID string, assetIDs []string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := s.DB.
		Joins("JOIN treasuries ON treasuries.id = wallets.treasury_id").
		Where("treasuries.vault_id = ? AND wallets.asset_id IN ? AND wallets.removed_at IS NULL", vaultID, assetIDs).
		First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("no wallet in vault %s for assets %v: %w", vaultID, assetIDs, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// TreasuryByProject returns the treasury row linked to a project.
func (s *RegistryService) TreasuryByProject(projectID string) (*models.Treasury, error) {
	var link models.ProjectTreasury
	err := s.DB.Preload("Treasury").Where("project_id = ?", projectID).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("no treasury for project %s: %w", projectID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return link.Treasury, nil
}

// TreasuryByCustomer returns the treasury row linked to a customer.
func (s *RegistryService) TreasuryByCustomer(customerID string) (*models.Treasury, error) {
	var link models.CustomerTreasury
	err := s.DB.Preload("Treasury").Where("customer_id = ?", customerID).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("no treasury for customer %s: %w", customerID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return link.Treasury, nil
}

// WalletsByTreasury lists the active wallets of a treasury.
func (s *RegistryService) WalletsByTreasury(treasuryID string) ([]models.Wallet, error) {
	var wallets []models.Wallet
	if err := s.DB.Where("treasury_id = ? AND removed_at IS NULL", treasuryID).Find(&wallets).Error; err != nil {
		return nil, err
	}
	return wallets, nil
}

// CreateWalletRow persists one wallet under a treasury, normalizing the
// address before it hits the database.
func (s *RegistryService) CreateWalletRow(tx *gorm.DB, treasuryID, assetID, address, createdBy string) (*models.Wallet, error) {
	wallet := &models.Wallet{
		ID:         uuid.NewString(),
		TreasuryID: treasuryID,
		AssetID:    assetID,
		CreatedBy:  createdBy,
		CreatedAt:  time.Now().UTC(),
	}
	if address != "" {
		normalized := models.NormalizeAddress(address)
		wallet.Address = &normalized
	}
	if err := tx.Create(wallet).Error; err != nil {
		return nil, err
	}
	return wallet, nil
}

// RemoveWallet soft-removes a wallet.
func (s *RegistryService) RemoveWallet(walletID string) error {
	now := time.Now().UTC()
	result := s.DB.Model(&models.Wallet{}).
		Where("id = ? AND removed_at IS NULL", walletID).
		Update("removed_at", &now)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("wallet %s: %w", walletID, ErrNotFound)
	}
	return nil
}
