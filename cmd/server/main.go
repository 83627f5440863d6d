package main // Entry point package

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	_ "github.com/joho/godotenv/autoload" // load .env before config reads the environment

	"github.com/aramkh/academy-ticketing/internal/cache"
	"github.com/aramkh/academy-ticketing/internal/config"
	"github.com/aramkh/academy-ticketing/internal/database"
	"github.com/aramkh/academy-ticketing/internal/handler"
	"github.com/aramkh/academy-ticketing/internal/payment"
	"github.com/aramkh/academy-ticketing/internal/queue"
	"github.com/aramkh/academy-ticketing/internal/repository"
	"github.com/aramkh/academy-ticketing/internal/router"
	"github.com/aramkh/academy-ticketing/internal/service"
	"github.com/aramkh/academy-ticketing/internal/store"
)

func main() {
	cfg := config.Load()

	// Persistence: the document store behind the ticket repository.
	// "memory" serves development and kiosk installs; "mysql" is the
	// production backend. The online probe feeds the read-through
	// cache so ticket retrieval degrades instead of failing when the
	// database is unreachable.
	var (
		docs   store.DocumentStore
		online cache.OnlineFunc
		db     *sql.DB
	)
	switch cfg.StoreDriver {
	case "memory":
		docs = store.NewMemoryStore()
	case "mysql":
		var err error
		db, err = database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("mysql: %v", err)
		}
		defer db.Close()
		mysqlStore := store.NewMySQLStore(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := mysqlStore.EnsureSchema(ctx); err != nil {
			cancel()
			log.Fatalf("mysql schema: %v", err)
		}
		cancel()
		docs = mysqlStore
		online = func() bool {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return db.PingContext(ctx) == nil
		}
	default:
		log.Fatalf("unknown STORE_DRIVER: %q", cfg.StoreDriver)
	}
	repo := repository.NewTicketRepo(docs)

	// Local ticket mirror for offline retrieval.
	ticketCache, err := cache.Open(cfg.CacheDir)
	if err != nil {
		log.Fatalf("ticket cache: %v", err)
	}
	defer ticketCache.Close()
	mirror := cache.NewReadThrough(ticketCache, repo, online)

	// Payment collaborators. The sandbox provider confirms every card
	// charge; swap it for the real gateway adapter in production.
	receipts, err := payment.NewFSReceiptStore(cfg.ReceiptDir)
	if err != nil {
		log.Fatalf("receipt store: %v", err)
	}
	collector := payment.NewCollector(payment.SandboxProvider{}, receipts)

	// Workflows.
	issuance := service.NewIssuanceService(repo, collector, service.AMQPNotifier{}, mirror, cfg.PublicBase, cfg.OpTimeout)
	verification := service.NewVerificationService(repo, service.AMQPNotifier{}, mirror, cfg.PublicBase, cfg.OpTimeout)

	// Notification consumer drains the queue in the background and
	// keeps retrying the broker with backoff.
	go func() {
		if err := queue.StartNotificationConsumer(queue.LogSender{}); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	// Redis backs the seat map response cache and the gate rate
	// limiter. A nil client disables both gracefully.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterPublic(e,
		handler.NewSeatMapHandler(repo),
		handler.NewPurchaseHandler(repo, issuance),
		handler.NewTicketHandler(repo, mirror),
		config.LoadCacheConfig(), rdb)
	router.RegisterGate(e, handler.NewGateHandler(verification), cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)
	router.RegisterAdmin(e, handler.NewAdminHandler(repo, verification, cfg.AdminPinHash), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s driver=%s)", addr, cfg.Env, cfg.StoreDriver)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
