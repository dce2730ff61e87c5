package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"nft-treasury-service/handlers"
	"nft-treasury-service/models"
	"nft-treasury-service/services"
	"nft-treasury-service/utils"
	"nft-treasury-service/workers"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const hubExchange = "hub-events"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Treasury{},
		&models.ProjectTreasury{},
		&models.CustomerTreasury{},
		&models.Wallet{},
		&models.Transaction{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// --- Custody client ---
	custodyEndpoint := os.Getenv("FIREBLOCKS_ENDPOINT")
	custodyAPIKey := os.Getenv("FIREBLOCKS_API_KEY")
	custodySecretPath := os.Getenv("FIREBLOCKS_SECRET_PATH")
	if custodyEndpoint == "" || custodyAPIKey == "" || custodySecretPath == "" {
		log.Fatal("FIREBLOCKS_ENDPOINT, FIREBLOCKS_API_KEY and FIREBLOCKS_SECRET_PATH must be set")
	}

	waitTimeout := 10 * time.Minute
	if raw := os.Getenv("CUSTODY_WAIT_TIMEOUT"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatal("invalid CUSTODY_WAIT_TIMEOUT:", err)
		}
		waitTimeout = parsed
	}

	custody, err := services.NewFireblocksClient(custodyEndpoint, custodyAPIKey, custodySecretPath, waitTimeout)
	if err != nil {
		log.Fatal("failed to initialize custody client:", err)
	}

	// --- Asset configuration (fixed at startup) ---
	testMode := false
	if raw := os.Getenv("FIREBLOCKS_TEST_MODE"); raw != "" {
		testMode, err = strconv.ParseBool(raw)
		if err != nil {
			log.Fatal("invalid FIREBLOCKS_TEST_MODE:", err)
		}
	}
	supportedAssets := []string{models.AssetTypeSolana, models.AssetTypeMatic, models.AssetTypeEth}
	if raw := os.Getenv("FIREBLOCKS_SUPPORTED_ASSET_IDS"); raw != "" {
		supportedAssets = supportedAssets[:0]
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				supportedAssets = append(supportedAssets, id)
			}
		}
	}
	assets := services.AssetConfig{TestMode: testMode, SupportedAssetIDs: supportedAssets}

	treasuryVault := os.Getenv("FIREBLOCKS_TREASURY_VAULT")
	if treasuryVault == "" {
		log.Fatal("FIREBLOCKS_TREASURY_VAULT environment variable not set")
	}

	// --- Message bus ---
	amqpURL := os.Getenv("AMQP_URL")
	if amqpURL == "" {
		log.Fatal("AMQP_URL environment variable not set")
	}
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		log.Fatal("failed to connect to message bus:", err)
	}
	defer conn.Close()

	producer, err := services.NewProducer(conn, hubExchange)
	if err != nil {
		log.Fatal("failed to initialize producer:", err)
	}

	// --- Services ---
	registry := services.NewRegistryService(db)
	journal := services.NewJournalService(db)
	emitter := services.NewEventEmitter(producer)

	solanaPipeline := services.NewSolanaPipeline(custody, registry, journal, emitter, assets)
	polygonPipeline := services.NewPolygonPipeline(custody, registry, emitter, assets, treasuryVault)
	provisioning := services.NewProvisioningService(db, custody, registry, emitter, assets)
	apiService := services.NewTreasuryAPIService(registry, journal, custody)

	solanaRPCURL := os.Getenv("SOLANA_RPC_URL")
	if solanaRPCURL == "" {
		log.Fatal("SOLANA_RPC_URL environment variable not set")
	}

	archive, err := utils.InitArchive()
	if err != nil {
		log.Fatal("failed to initialize audit archive:", err)
	}
	var archiver services.AuditArchiver
	if archive != nil {
		archiver = archive
		log.Println("✅ Audit archive enabled")
	}

	webhookService := services.NewWebhookService(journal, emitter, services.NewSolanaRPC(solanaRPCURL), archiver)

	// --- Workers ---
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatcher := workers.NewDispatcher(conn, hubExchange, "treasuries", provisioning, solanaPipeline, polygonPipeline)
	go func() {
		if err := dispatcher.Start(ctx); err != nil {
			log.Printf("❌ Dispatcher exited: %v", err)
			stop()
		}
	}()

	reconciliation := services.NewReconciliationService(custody, journal)
	reconciliation.StartReconciliationSweep()

	// --- HTTP surface ---
	app := fiber.New()

	handlers.SetupTreasuryRoutes(app, apiService)
	handlers.SetupWebhookRoutes(app, webhookService)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Treasury service running on http://localhost:%s", port)
	log.Printf("✅ Dispatcher consuming hub events (test_mode=%t, assets=%v)", testMode, assets.ActiveAssetIDs())
	log.Println("✅ Reconciliation sweep running (every 5m)")

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
