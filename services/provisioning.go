// services/provisioning.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"nft-treasury-service/events"
	"nft-treasury-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustodyProvisioner is what provisioning needs from the custody client.
type CustodyProvisioner interface {
	CreateVault(ctx context.Context, name, customerRefID string, autoFuel, hiddenOnUI *bool) (*VaultAccount, error)
	CreateWallet(ctx context.Context, vaultID, assetID string, extras map[string]any) (*CreateWalletResponse, error)
}

// ProvisioningService creates vaults and per-chain wallets when new
// projects and customers appear on the bus. Errors propagate back to the
// dispatcher so the message is redelivered instead of half-provisioned
// state being acked away.
type ProvisioningService struct {
	DB       *gorm.DB
	Custody  CustodyProvisioner
	Registry *RegistryService
	Emitter  TreasuryEmitter
	Assets   AssetConfig
}

func NewProvisioningService(db *gorm.DB, custody CustodyProvisioner, registry *RegistryService, emitter TreasuryEmitter, assets AssetConfig) *ProvisioningService {
	return &ProvisioningService{
		DB:       db,
		Custody:  custody,
		Registry: registry,
		Emitter:  emitter,
		Assets:   assets,
	}
}

// CreateCustomerTreasury provisions one hidden vault for a new customer and
// links it to the customer and their project.
func (s *ProvisioningService) CreateCustomerTreasury(ctx context.Context, key events.CustomerEventKey, customer events.Customer) error {
	hidden := true
	vault, err := s.Custody.CreateVault(ctx, "customer:"+key.ID, key.ID, nil, &hidden)
	if err != nil {
		return fmt.Errorf("failed to create customer vault: %w", err)
	}

	treasury := &models.Treasury{
		ID:        uuid.NewString(),
		VaultID:   vault.ID,
		CreatedAt: time.Now().UTC(),
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(treasury).Error; err != nil {
			return err
		}
		link := &models.CustomerTreasury{
			ID:         uuid.NewString(),
			CustomerID: key.ID,
			ProjectID:  customer.ProjectID,
			TreasuryID: treasury.ID,
			CreatedAt:  time.Now().UTC(),
		}
		return tx.Create(link).Error
	})
	if err != nil {
		return fmt.Errorf("failed to persist customer treasury: %w", err)
	}

	log.Printf("✅ Provisioned treasury %s (vault %s) for customer %s", treasury.ID, vault.ID, key.ID)

	return s.Emitter.Emit(ctx, events.TreasuryEventKey{ID: key.ID, ProjectID: customer.ProjectID}, events.TreasuryEvent{
		Kind: events.CustomerTreasuryCreated,
		CustomerTreasury: &events.CustomerTreasury{
			CustomerID: key.ID,
			ProjectID:  customer.ProjectID,
		},
	})
}

// CreateProjectTreasury provisions a vault for a new project, then derives
// one wallet per configured asset and emits a ProjectWalletCreated event
// for each.
func (s *ProvisioningService) CreateProjectTreasury(ctx context.Context, key events.OrganizationEventKey, project events.Project) error {
	vault, err := s.Custody.CreateVault(ctx, "project:"+project.ID, project.ID, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to create project vault: %w", err)
	}

	treasury := &models.Treasury{
		ID:             uuid.NewString(),
		VaultID:        vault.ID,
		OrganizationID: key.ID,
		CreatedAt:      time.Now().UTC(),
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(treasury).Error; err != nil {
			return err
		}
		link := &models.ProjectTreasury{
			ID:         uuid.NewString(),
			ProjectID:  project.ID,
			TreasuryID: treasury.ID,
			CreatedAt:  time.Now().UTC(),
		}
		return tx.Create(link).Error
	})
	if err != nil {
		return fmt.Errorf("failed to persist project treasury: %w", err)
	}

	log.Printf("✅ Provisioned treasury %s (vault %s) for project %s", treasury.ID, vault.ID, project.ID)

	outKey := events.TreasuryEventKey{ID: treasury.ID, UserID: key.UserID, ProjectID: project.ID}
	for _, assetID := range s.Assets.ActiveAssetIDs() {
		blockchain, err := BlockchainForAsset(assetID)
		if err != nil {
			log.Printf("⚠️ Skipping unsupported configured asset %s: %v", assetID, err)
			continue
		}

		created, err := s.Custody.CreateWallet(ctx, vault.ID, assetID, nil)
		if err != nil {
			return fmt.Errorf("failed to create %s wallet in vault %s: %w", assetID, vault.ID, err)
		}

		wallet, err := s.Registry.CreateWalletRow(s.DB, treasury.ID, assetID, created.Address, key.UserID)
		if err != nil {
			return fmt.Errorf("failed to persist %s wallet: %w", assetID, err)
		}

		address := ""
		if wallet.Address != nil {
			address = *wallet.Address
		}
		log.Printf("✅ Wallet %s (%s) provisioned for project %s", address, assetID, project.ID)

		err = s.Emitter.Emit(ctx, outKey, events.TreasuryEvent{
			Kind: events.ProjectWalletCreated,
			ProjectWallet: &events.ProjectWallet{
				ProjectID:     project.ID,
				WalletAddress: address,
				Blockchain:    blockchain,
			},
		})
		if err != nil {
			return err
		}
	}

	return nil
}
