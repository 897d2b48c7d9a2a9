package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/omnicanal-api/internal/application/cancellation"
	"github.com/jhoicas/omnicanal-api/internal/application/checkout"
	"github.com/jhoicas/omnicanal-api/internal/application/inventory"
	"github.com/jhoicas/omnicanal-api/internal/application/orders"
	"github.com/jhoicas/omnicanal-api/internal/application/ports"
	"github.com/jhoicas/omnicanal-api/internal/domain/entity"
	"github.com/jhoicas/omnicanal-api/internal/domain/fulfillment"
	"github.com/jhoicas/omnicanal-api/internal/domain/repository"
	"github.com/jhoicas/omnicanal-api/internal/infrastructure/cache"
	"github.com/jhoicas/omnicanal-api/internal/infrastructure/memory"
	"github.com/jhoicas/omnicanal-api/internal/infrastructure/messaging"
	"github.com/jhoicas/omnicanal-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/omnicanal-api/internal/interfaces/http"
	"github.com/jhoicas/omnicanal-api/pkg/config"
	"github.com/jhoicas/omnicanal-api/pkg/logger"
)

// stores repositorios de lectura y runner transaccional del backend elegido.
type stores struct {
	tx        ports.TxRunner
	branches  repository.BranchRepository
	addresses repository.AddressRepository
	stock     repository.StockRepository
	movements repository.StockMovementRepository
	orders    repository.OrderRepository
	payments  repository.PaymentRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("allocation_strategy", cfg.Checkout.AllocationStrategy).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st := openStores(ctx, cfg, log)
	defer st.close()

	branchRepo := st.branches
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisBranchCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis no disponible, sucursales sin caché")
		} else {
			defer redisCache.Close()
			branchRepo = cache.NewCachedBranchRepository(st.branches, redisCache, cfg.Redis.BranchCacheTTL, log)
		}
	}

	var notifier ports.Notifier = messaging.NewLogNotifier(log)
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaNotifier := messaging.NewKafkaNotifier(messaging.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.OrderEventsTopic), log)
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
	}

	strategy, err := fulfillment.StrategyByName(cfg.Checkout.AllocationStrategy)
	if err != nil {
		log.Fatal().Err(err).Msg("estrategia de asignación")
	}

	checkoutUC := checkout.NewUseCase(st.tx, branchRepo, st.addresses, notifier, strategy, newMaterializer(cfg), log)
	ordersUC := orders.NewUseCase(st.tx, st.orders, st.payments, notifier, log)
	cancellationUC := cancellation.NewUseCase(st.tx, st.orders, st.payments, notifier, log)
	registerMovementUC := inventory.NewRegisterMovementUseCase(st.tx, log)
	reconciliationUC := inventory.NewReconciliationUseCase(st.stock, st.movements)
	replenishmentUC := inventory.NewReplenishmentUseCase(st.stock)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Omnicanal API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Checkout:         checkoutUC,
		Orders:           ordersUC,
		Cancellation:     cancellationUC,
		RegisterMovement: registerMovementUC,
		Reconciliation:   reconciliationUC,
		Replenishment:    replenishmentUC,
		JWTSecret:        cfg.JWT.Secret,
		JWTIssuer:        cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStores conecta PostgreSQL si hay configuración; si no, usa el almacén en memoria (desarrollo).
func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) stores {
	if !cfg.DB.Enabled() {
		log.Warn().Msg("sin DATABASE_URL ni DB_HOST: usando almacén en memoria")
		mem := memory.NewStore(memory.WithLockTimeout(cfg.Checkout.LockTimeout))
		return stores{
			tx:        mem,
			branches:  mem.BranchRepo(),
			addresses: mem.AddressRepo(),
			stock:     mem.StockRepo(),
			movements: mem.MovementRepo(),
			orders:    mem.OrderRepo(),
			payments:  mem.PaymentRepo(),
			close:     func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	return stores{
		tx:        postgres.NewTxRunner(pool, cfg.Checkout.LockTimeout),
		branches:  postgres.NewBranchRepository(pool),
		addresses: postgres.NewAddressRepository(pool),
		stock:     postgres.NewStockRepository(pool),
		movements: postgres.NewStockMovementRepository(pool),
		orders:    postgres.NewOrderRepository(pool),
		payments:  postgres.NewPaymentRepository(pool),
		close:     pool.Close,
	}
}

func newMaterializer(cfg *config.Config) *fulfillment.Materializer {
	manual := make(map[entity.PaymentMethod]bool, len(cfg.Checkout.ManualProofMethods))
	for _, m := range cfg.Checkout.ManualProofMethods {
		if pm, ok := entity.ParsePaymentMethod(m); ok {
			manual[pm] = true
		}
	}
	return &fulfillment.Materializer{
		Shipping: fulfillment.NewShippingTable(map[string]decimal.Decimal{
			"standard": cfg.Shipping.Standard,
			"express":  cfg.Shipping.Express,
			"pickup":   cfg.Shipping.Pickup,
		}),
		Loyalty: fulfillment.LoyaltyRules{
			Active:               cfg.Loyalty.Active,
			EarnCurrencyPerPoint: cfg.Loyalty.EarnCurrencyPerPoint,
			ValuePerPoint:        cfg.Loyalty.ValuePerPoint,
			MinPurchase:          cfg.Loyalty.MinPurchase,
			MaxPercent:           cfg.Loyalty.MaxPercent,
			MaxAmount:            cfg.Loyalty.MaxAmount,
		},
		VATRate:     cfg.Checkout.VATRate,
		ManualProof: manual,
	}
}
