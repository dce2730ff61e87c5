// services/treasury_api.go
package services

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// TreasuryAPIService exposes the read-side lookups: treasuries, wallets,
// journal rows, and pass-through vault listings from the custody provider.
type TreasuryAPIService struct {
	Registry *RegistryService
	Journal  *JournalService
	Custody  *FireblocksClient
}

func NewTreasuryAPIService(registry *RegistryService, journal *JournalService, custody *FireblocksClient) *TreasuryAPIService {
	return &TreasuryAPIService{Registry: registry, Journal: journal, Custody: custody}
}

func (s *TreasuryAPIService) GetProjectTreasury(c *fiber.Ctx) error {
	treasury, err := s.Registry.TreasuryByProject(c.Params("project_id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "treasury not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "lookup failed"})
	}
	return c.JSON(treasury)
}

func (s *TreasuryAPIService) GetCustomerTreasury(c *fiber.Ctx) error {
	treasury, err := s.Registry.TreasuryByCustomer(c.Params("customer_id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "treasury not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "lookup failed"})
	}
	return c.JSON(treasury)
}

func (s *TreasuryAPIService) GetTreasuryWallets(c *fiber.Ctx) error {
	wallets, err := s.Registry.WalletsByTreasury(c.Params("treasury_id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "lookup failed"})
	}
	return c.JSON(fiber.Map{"wallets": wallets})
}

// GetProjectVault resolves a project straight to its custody vault id.
func (s *TreasuryAPIService) GetProjectVault(c *fiber.Ctx) error {
	vaultID, err := s.Registry.VaultByProject(c.Params("project_id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "treasury not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "lookup failed"})
	}
	return c.JSON(fiber.Map{"vault_id": vaultID})
}

// GetCustomerVault resolves a customer straight to their custody vault id.
func (s *TreasuryAPIService) GetCustomerVault(c *fiber.Ctx) error {
	vaultID, err := s.Registry.VaultByCustomer(c.Params("customer_id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "treasury not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "lookup failed"})
	}
	return c.JSON(fiber.Map{"vault_id": vaultID})
}

// GetVaultWallet picks the active wallet inside a vault matching any of the
// comma-separated asset ids in the query.
func (s *TreasuryAPIService) GetVaultWallet(c *fiber.Ctx) error {
	assetIDs := strings.Split(c.Query("asset_ids"), ",")
	wallet, err := s.Registry.WalletByVaultAndAssets(c.Params("vault_id"), assetIDs)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "wallet not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "lookup failed"})
	}
	return c.JSON(wallet)
}

// RemoveWallet soft-removes a wallet so it stops resolving for signing.
// The custody-side wallet is untouched.
func (s *TreasuryAPIService) RemoveWallet(c *fiber.Ctx) error {
	err := s.Registry.RemoveWallet(c.Params("wallet_id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "wallet not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "removal failed"})
	}
	return c.JSON(fiber.Map{"status": "removed"})
}

func (s *TreasuryAPIService) GetJournalEntry(c *fiber.Ctx) error {
	row, err := s.Journal.Get(c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "transaction not journaled"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "lookup failed"})
	}
	return c.JSON(row)
}

// GetVaults passes a filtered vault listing through to the custody provider.
func (s *TreasuryAPIService) GetVaults(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	page, err := s.Custody.ListVaults(c.Context(), VaultAccountsFilter{
		NamePrefix: c.Query("name_prefix"),
		NameSuffix: c.Query("name_suffix"),
		AssetID:    c.Query("asset_id"),
		OrderBy:    c.Query("order_by"),
		Limit:      limit,
		Before:     c.Query("before"),
		After:      c.Query("after"),
	})
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "custody listing failed"})
	}
	return c.JSON(page)
}

// GetVault passes a single vault lookup through to the custody provider.
func (s *TreasuryAPIService) GetVault(c *fiber.Ctx) error {
	vault, err := s.Custody.GetVault(c.Context(), c.Params("vault_id"))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "custody lookup failed"})
	}
	return c.JSON(vault)
}

// GetVaultAssets lists the provider's supported vault assets.
func (s *TreasuryAPIService) GetVaultAssets(c *fiber.Ctx) error {
	assets, err := s.Custody.ListVaultAssets(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "custody lookup failed"})
	}
	return c.JSON(fiber.Map{"assets": assets})
}
