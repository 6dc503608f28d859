package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appcart "github.com/Jfdeev/eccomerce-qualidade-software/internal/application/cart"
	appcatalog "github.com/Jfdeev/eccomerce-qualidade-software/internal/application/catalog"
	apporder "github.com/Jfdeev/eccomerce-qualidade-software/internal/application/order"
	appuser "github.com/Jfdeev/eccomerce-qualidade-software/internal/application/user"
	"github.com/Jfdeev/eccomerce-qualidade-software/internal/config"
	domcatalog "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/catalog"
	domorder "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/order"
	domuser "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/user"
	amqptransport "github.com/Jfdeev/eccomerce-qualidade-software/internal/infrastructure/amqp"
	"github.com/Jfdeev/eccomerce-qualidade-software/internal/infrastructure/id"
	"github.com/Jfdeev/eccomerce-qualidade-software/internal/infrastructure/jsonstore"
	"github.com/Jfdeev/eccomerce-qualidade-software/internal/infrastructure/memory"
	mysqlrepo "github.com/Jfdeev/eccomerce-qualidade-software/internal/infrastructure/mysql"
	"github.com/Jfdeev/eccomerce-qualidade-software/internal/infrastructure/observability/oteltrace"
	"github.com/Jfdeev/eccomerce-qualidade-software/internal/infrastructure/observability/prometrics"
	"github.com/Jfdeev/eccomerce-qualidade-software/internal/infrastructure/observability/telemetry"
	"github.com/Jfdeev/eccomerce-qualidade-software/internal/infrastructure/observability/zaplogger"
	"github.com/Jfdeev/eccomerce-qualidade-software/internal/infrastructure/outbox"
	"github.com/Jfdeev/eccomerce-qualidade-software/internal/infrastructure/redisstore"
	"github.com/Jfdeev/eccomerce-qualidade-software/internal/pkg/logging"
	httppresentation "github.com/Jfdeev/eccomerce-qualidade-software/internal/presentation/http"
)

func main() {
	cfg := config.Load()

	baseLogger := logging.MustNewLogger(cfg.ServiceName, cfg.Env)
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	systemLogger := logging.WithTrace(baseLogger, logging.SystemTraceID, logging.SystemSpanID)
	appLogger := zaplogger.Wrap(baseLogger)

	reg := prometrics.New("", "")
	tel := telemetry.New(
		oteltrace.New(cfg.ServiceName),
		appLogger,
		telemetry.StandardMetrics(reg),
	)

	productRepo, orderRepo, userRepo, err := buildRepositories(cfg)
	if err != nil {
		systemLogger.Fatal("storage_init_failed", zap.Error(err))
	}

	cartStore, err := buildCartStore(cfg)
	if err != nil {
		systemLogger.Fatal("cart_store_init_failed", zap.Error(err))
	}

	bus := outbox.NewBus(appLogger)
	bus.Start(context.Background())
	defer bus.Stop(context.Background())

	if cfg.RabbitMQURL != "" {
		publisher, err := amqptransport.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQQueue)
		if err != nil {
			systemLogger.Fatal("rabbitmq_init_failed", zap.Error(err))
		}
		defer publisher.Close()
		bus.Subscribe(domorder.EventOrderCreated, publisher.Handler())
		bus.Subscribe(domorder.EventOrderCancelled, publisher.Handler())
	}

	idGenerator := id.NewUUIDGenerator()

	catalogService := appcatalog.NewService(productRepo, appLogger)
	cartService := appcart.NewService(cartStore, appLogger)
	orderService := apporder.NewService(orderRepo, productRepo, idGenerator, bus, tel)
	userService := appuser.NewService(userRepo, idGenerator, appLogger)

	handler := httppresentation.NewHandler(catalogService, cartService, orderService, userService, tel)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		systemLogger.Info("http_server_start",
			zap.String("addr", server.Addr),
		)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			systemLogger.Error("http_server_error",
				zap.Error(err),
			)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		systemLogger.Error("http_server_shutdown_error",
			zap.Error(err),
		)
	} else {
		systemLogger.Info("http_server_stopped")
	}
}

// buildRepositories picks the persistence backend: MySQL when MYSQL_DSN is
// set, a JSON file when DATA_FILE is set, in-memory otherwise. MySQL keeps
// users in the JSON or memory store alongside, since accounts are not part of
// the transactional order path.
func buildRepositories(cfg config.Config) (domcatalog.Repository, domorder.Repository, domuser.Repository, error) {
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open mysql: %w", err)
		}
		if err := db.Ping(); err != nil {
			return nil, nil, nil, fmt.Errorf("ping mysql: %w", err)
		}
		return mysqlrepo.NewProductRepository(db), mysqlrepo.NewOrderRepository(db), memory.NewUserRepository(), nil
	}

	if cfg.DataFile != "" {
		store, err := jsonstore.Open(cfg.DataFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open data file: %w", err)
		}
		return jsonstore.NewProductRepository(store), jsonstore.NewOrderRepository(store), jsonstore.NewUserRepository(store), nil
	}

	return memory.NewProductRepository(), memory.NewOrderRepository(), memory.NewUserRepository(), nil
}

func buildCartStore(cfg config.Config) (appcart.Store, error) {
	if cfg.RedisAddr == "" {
		return memory.NewCartStore(), nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return redisstore.NewCartStore(client), nil
}
