// handlers/routes.go
package handlers

import (
	"nft-treasury-service/middleware"
	"nft-treasury-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTreasuryRoutes(app *fiber.App, api *services.TreasuryAPIService) {
	app.Get("/treasuries/project/:project_id", api.GetProjectTreasury)
	app.Get("/treasuries/project/:project_id/vault", api.GetProjectVault)
	app.Get("/treasuries/customer/:customer_id", api.GetCustomerTreasury)
	app.Get("/treasuries/customer/:customer_id/vault", api.GetCustomerVault)
	app.Get("/treasuries/:treasury_id/wallets", api.GetTreasuryWallets)
	app.Delete("/treasuries/wallets/:wallet_id", api.RemoveWallet)
	app.Get("/transactions/:id", api.GetJournalEntry)

	// Pass-through custody lookups
	app.Get("/vaults", api.GetVaults)
	app.Get("/vaults/assets", api.GetVaultAssets)
	app.Get("/vaults/:vault_id", api.GetVault)
	app.Get("/vaults/:vault_id/wallet", api.GetVaultWallet)
}

func SetupWebhookRoutes(app *fiber.App, webhook *services.WebhookService) {
	// Custody callbacks carry the shared webhook token
	secured := app.Group("/webhooks", middleware.WebhookAuthMiddleware())
	secured.Post("/custody", webhook.HandleCustodyCallback)
}
