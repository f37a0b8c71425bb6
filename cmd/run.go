package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"zlpix/api"
	"zlpix/application"
	"zlpix/config"
	"zlpix/database"
	"zlpix/domain/interfaces"
	"zlpix/infrastructure"
	"zlpix/repository"
)

// Run initializes and starts the settlement service
func Run(ctx context.Context) error {
	log.Println("Starting zlpix settlement service...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize the event publisher. NATS is optional; without it settlement
	// still runs, notifications are just dropped.
	var eventPublisher interfaces.EventPublisher
	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		log.Println("Connecting to NATS...")
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}

		natsPublisher := infrastructure.NewNATSEventPublisher(natsClient)
		if err := natsPublisher.EnsureSettlementStream(); err != nil {
			return fmt.Errorf("failed to ensure settlement stream: %w", err)
		}
		eventPublisher = natsPublisher
		log.Println("NATS connection established successfully")
	} else {
		log.Println("NATS_SERVERS not set, notification events will be dropped")
		eventPublisher = infrastructure.NewNoopEventPublisher()
	}

	// Initialize unit of work factory
	repoFactory := repository.NewUnitOfWorkFactory(db, cfg.PrizePoolBase)
	uowFactory := infrastructure.NewUnitOfWorkFactory(repoFactory, eventPublisher)

	// Official result sources: admin-supplied results take precedence over
	// the external feed
	manualSource := infrastructure.NewManualResultSource()
	resultSource := infrastructure.NewChainedResultSource(
		manualSource,
		infrastructure.NewFederalLotteryFeed(cfg.FeedBaseURL),
	)

	// Optional Redis advisory lock for multi-instance deployments
	var advisoryLock application.AdvisoryLock
	drawLock := infrastructure.NewDrawAdvisoryLock(cfg.RedisAddr, cfg.RedisPassword, 2*time.Minute)
	if drawLock != nil {
		advisoryLock = drawLock
	}

	// Start the settlement worker
	worker := application.NewSettlementWorker(
		uowFactory,
		resultSource,
		advisoryLock,
		cfg.PrizePoolBase,
		cfg.PrizePoolRollover,
		cfg.SettlementInterval,
	)
	worker.Start(ctx)

	// Start the admin API
	server := api.NewServer(
		db,
		uowFactory,
		manualSource,
		cfg.PrizePoolBase,
		cfg.PrizePoolRollover,
		cfg.HTTPAddr,
		cfg.Environment,
	)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	log.Printf("Service is running in %s mode...", cfg.Environment)

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	// Cleanup resources
	log.Println("Shutting down service...")

	worker.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down admin API: %v", err)
	}

	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	if drawLock != nil {
		if err := drawLock.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
	}

	log.Println("Closing database connection...")
	db.Close()

	log.Println("Shutdown completed")
	return nil
}
