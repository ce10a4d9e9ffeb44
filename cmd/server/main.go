package main // Entry point package

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"     // loads .env files into the environment
	"github.com/labstack/echo/v4"  // Echo web framework
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/rajveermakkar/justBet-api/internal/config"
	"github.com/rajveermakkar/justBet-api/internal/database"
	"github.com/rajveermakkar/justBet-api/internal/engine"
	"github.com/rajveermakkar/justBet-api/internal/handler"
	"github.com/rajveermakkar/justBet-api/internal/live"
	"github.com/rajveermakkar/justBet-api/internal/queue"
	"github.com/rajveermakkar/justBet-api/internal/repository"
	"github.com/rajveermakkar/justBet-api/internal/router"
	"github.com/rajveermakkar/justBet-api/internal/sweep"
	queue_publisher "github.com/rajveermakkar/justBet-api/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Env == "dev" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	rdb := config.NewRedisClient() // nil disables caching, rate limiting and live events

	ticketFee, err := decimal.NewFromString(cfg.TicketFee)
	if err != nil {
		log.Fatalf("invalid TICKET_FEE: %v", err)
	}

	store := repository.NewSQLStore(db)
	channel := live.NewChannel(rdb, logger)
	notifier := queue_publisher.NewNotifier(logger)

	bids := engine.NewBidEngine(store, channel, notifier, logger)
	settlement := engine.NewSettlement(store, cfg.PlatformUserID, logger)
	auctions := engine.NewAuctionService(store, notifier, cfg.PlatformUserID, logger)
	wallet := engine.NewWalletService(store, logger)
	gate := engine.NewTicketGate(store, cfg.PlatformUserID, ticketFee, logger)

	// Background workers: the close/ending-soon sweep and the
	// notification consumer.  Both run until the process receives a
	// termination signal.
	sweeper := sweep.New(store, settlement, channel, notifier, sweep.Config{
		CloseInterval: cfg.SweepInterval,
		SoonInterval:  cfg.SoonInterval,
		SoonWindow:    cfg.SoonWindow,
	}, logger)
	go sweeper.Run(ctx)
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			logger.WithError(err).Error("notification consumer stopped")
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, router.Handlers{
		Auctions:  handler.NewAuctionHandler(auctions),
		Bids:      handler.NewBidHandler(bids),
		Wallet:    handler.NewWalletHandler(wallet),
		Tickets:   handler.NewTicketHandler(gate),
		Purchases: handler.NewPurchasedHandler(store),
		Earnings:  handler.NewEarningsHandler(store),
	}, cfg.JWTSecret, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	go func() {
		<-ctx.Done()
		_ = e.Shutdown(context.Background())
	}()
	if err := e.Start(addr); err != nil {
		log.Printf("server stopped: %v", err)
	}
}
