package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-sedes/internal/application/audit"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/application/ports"
	"github.com/jhoicas/inventario-sedes/internal/application/purchasing"
	"github.com/jhoicas/inventario-sedes/internal/application/sales"
	"github.com/jhoicas/inventario-sedes/internal/application/usecase"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/notify"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-sedes/internal/interfaces/http"
	"github.com/jhoicas/inventario-sedes/pkg/config"
	"github.com/jhoicas/inventario-sedes/pkg/logger"
)

// store agrupa lo que cada driver de almacenamiento aporta a los casos de uso.
type store interface {
	inventory.TxRunner
	inventory.SnapshotRunner
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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		txStore   store
		repos     repository.Stores
		auditRepo repository.AuditRepository
	)
	switch cfg.Store.Driver {
	case "memory":
		mem := memory.New()
		txStore, repos, auditRepo = mem, mem.Stores(), mem.Audit()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema")
		}
		txStore, repos, auditRepo = postgres.NewTxRunner(pool), postgres.NewStores(pool), postgres.NewAuditRepository(pool)
	}

	sinks := []notify.Sink{notify.NewLogSink(log.Component("notify"))}
	if cfg.Redis.Configured() {
		rdb, err := notify.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Error().Err(err).Msg("Redis no disponible, las notificaciones solo irán al log")
		} else {
			defer rdb.Close()
			sinks = append(sinks, notify.NewRedisSink(rdb, cfg.Redis.Channel))
		}
	}
	dispatcher := notify.NewDispatcher(log.Component("dispatcher"), cfg.Notify.Buffer, cfg.Notify.Timeout, sinks...)
	var n ports.Notifier = dispatcher
	if !cfg.Notify.Enabled {
		n = ports.NopNotifier{}
	}
	recorder := audit.NewRecorder(auditRepo, log.Component("audit"))

	productUC := usecase.NewProductUseCase(repos.Products, txStore, recorder)
	locationUC := usecase.NewLocationUseCase(repos.Locations, recorder)
	purchaseUC := purchasing.NewPurchaseUseCase(txStore, repos.Purchases, recorder, n)
	saleUC := sales.NewSaleUseCase(txStore, repos.Sales, recorder, n)
	transferUC := inventory.NewTransferUseCase(txStore, repos.Transfers, recorder, n)
	adjustUC := inventory.NewAdjustStockUseCase(txStore, n)
	queryUC := inventory.NewQueryUseCase(repos.Stock, repos.Movements)
	reconciler := inventory.NewReconciler(txStore)
	replenishmentUC := inventory.NewReplenishmentUseCase(repos.Stock, repos.Products)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:     productUC,
		LocationUC:    locationUC,
		PurchaseUC:    purchaseUC,
		SaleUC:        saleUC,
		TransferUC:    transferUC,
		AdjustUC:      adjustUC,
		QueryUC:       queryUC,
		Reconciler:    reconciler,
		Replenishment: replenishmentUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	// El despachador se detiene después del servidor para vaciar los eventos de las últimas peticiones.
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dispatcher.Run(dispatchCtx)
	})
	g.Go(func() error {
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := app.ShutdownWithContext(shutdownCtx)
		stopDispatch()
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("servidor HTTP finalizado")
	}
	if d := dispatcher.Dropped(); d > 0 {
		log.Warn().Int64("dropped", d).Msg("notificaciones descartadas durante la ejecución")
	}
	log.Info().Msg("aplicación detenida")
}
