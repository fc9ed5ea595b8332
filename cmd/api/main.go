// @title                       Almacén API
// @version                     1.0
// @description                 Ledger de inventario por ubicación, solicitudes de material, presets de requisición y tickets de mantenimiento.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token emitido por el proveedor de identidad>
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	_ "github.com/jhoicas/almacen-api/docs"
	"github.com/jhoicas/almacen-api/internal/application/approval"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/preset"
	"github.com/jhoicas/almacen-api/internal/application/report"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/infrastructure/lock"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/almacen-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/almacen-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/almacen-api/internal/interfaces/http"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// repos agrupa los adaptadores de persistencia del backend elegido.
type repos struct {
	txRunner  inventory.TxRunner
	items     repository.ItemRepository
	locations repository.LocationRepository
	balances  repository.BalanceRepository
	movements repository.MovementRepository
	requests  repository.MaterialRequestRepository
	presets   repository.PresetRepository
	tickets   repository.TicketRepository
	ready     func(ctx context.Context) error
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
		Str("store", cfg.Store.Backend).
		Str("lock", cfg.Ledger.LockBackend).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer store.close()

	locker, closeLocker, err := newLocker(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar bloqueos")
	}
	defer closeLocker()

	var ledgerMetrics inventory.Metrics = inventory.NopMetrics{}
	var prom *metrics.Prometheus
	if cfg.Metrics.Enabled {
		prom = metrics.NewPrometheus()
		ledgerMetrics = prom
	}

	ledger := inventory.NewStockLedger(store.txRunner, store.items, store.locations, store.balances)
	recorder := inventory.NewMovementRecorder(ledger, store.txRunner, locker, store.movements, ledgerMetrics, log)
	engine := approval.NewEngine(recorder, store.txRunner, store.requests, store.items, store.locations, store.presets, store.tickets, ledgerMetrics, log)
	presetSvc := preset.NewService(store.presets, store.items, store.requests)

	// PDF de solicitudes y etiquetas QR; XLSX de balances e historial
	reports := report.NewUseCase(engine, recorder, ledger, store.items, store.locations,
		infrapdf.NewMarotoPDFGenerator(cfg.App.Name), xlsx.NewGenerator())

	opts := httpRouter.AppOptions{
		Name:        cfg.App.Name,
		Log:         log,
		SwaggerFile: swaggerFile(),
		Ready:       store.ready,
	}
	if prom != nil {
		opts.Metrics = prom.Handler()
	}
	app := httpRouter.NewApp(opts, httpRouter.RouterDeps{
		ItemUC:            usecase.NewItemUseCase(store.items, store.txRunner),
		LocationUC:        usecase.NewLocationUseCase(store.locations),
		InventoryUC:       usecase.NewInventoryUseCase(recorder, ledger, store.locations),
		MaterialRequestUC: usecase.NewMaterialRequestUseCase(engine, store.items),
		PresetUC:          usecase.NewPresetUseCase(presetSvc),
		TicketUC:          usecase.NewTicketUseCase(store.tickets),
		Reports:           reports,
		JWTSecret:         cfg.JWT.Secret,
		JWTIssuer:         cfg.JWT.Issuer,
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

// openStore abre PostgreSQL (aplicando migraciones si DB_MIGRATE) o el backend en memoria.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repos, error) {
	if cfg.Store.Backend == config.StoreMemory {
		log.Warn().Msg("STORE=memory: los datos no sobreviven al reinicio")
		s := memory.NewStore()
		return &repos{
			txRunner:  memory.NewTxRunner(s),
			items:     s.Items(),
			locations: s.Locations(),
			balances:  s.Balances(),
			movements: s.Movements(),
			requests:  s.Requests(),
			presets:   s.Presets(),
			tickets:   s.Tickets(),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.Store.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &repos{
		txRunner:  postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout),
		items:     postgres.NewItemRepository(pool),
		locations: postgres.NewLocationRepository(pool),
		balances:  postgres.NewBalanceRepository(pool),
		movements: postgres.NewMovementRepository(pool),
		requests:  postgres.NewMaterialRequestRepository(pool),
		presets:   postgres.NewPresetRepository(pool),
		tickets:   postgres.NewTicketRepository(pool),
		ready:     pool.Ping,
		close:     pool.Close,
	}, nil
}

// newLocker elige el bloqueo por (item, ubicación): local al proceso o distribuido en Redis.
func newLocker(ctx context.Context, cfg *config.Config, log *logger.Logger) (inventory.Locker, func(), error) {
	if cfg.Ledger.LockBackend != config.LockRedis {
		return lock.NewKeyLocker(cfg.Ledger.LockTimeout), func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}
	closeFn := func() { _ = rdb.Close() }
	return lock.NewRedisLocker(rdb, cfg.Redis.LockTTL, cfg.Ledger.LockTimeout, log), closeFn, nil
}

// swaggerFile devuelve la ruta del swagger.json si existe (se genera con swag init).
func swaggerFile() string {
	const path = "./docs/swagger.json"
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
