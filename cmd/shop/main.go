package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/hoversale/internal/address"
	"github.com/Skotchmaster/hoversale/internal/cart"
	"github.com/Skotchmaster/hoversale/internal/catalog"
	"github.com/Skotchmaster/hoversale/internal/checkout"
	shopcfg "github.com/Skotchmaster/hoversale/internal/config"
	"github.com/Skotchmaster/hoversale/internal/httpserver"
	"github.com/Skotchmaster/hoversale/internal/models"
	"github.com/Skotchmaster/hoversale/internal/mykafka"
	"github.com/Skotchmaster/hoversale/internal/notify"
	"github.com/Skotchmaster/hoversale/internal/orders"
	"github.com/Skotchmaster/hoversale/internal/payment"
	"github.com/Skotchmaster/hoversale/internal/search"
	"github.com/Skotchmaster/hoversale/internal/wishlist"
	"github.com/Skotchmaster/hoversale/pkg/authclient"
	pkgdb "github.com/Skotchmaster/hoversale/pkg/db"
	"github.com/Skotchmaster/hoversale/pkg/logging"
	"github.com/Skotchmaster/hoversale/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/hoversale/pkg/middleware/logging"
)

func main() {
	shopcfg.LoadEnv(".env")
	cfg := shopcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	ctx := logging.IntoContext(context.Background(), logger)

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := pkgdb.Open(openCtx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := pkgdb.Migrate(db, models.All()...); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var producer *mykafka.Producer
	var events notify.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
		events = producer
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS not set")
	}

	var mailer notify.Mailer
	if cfg.SMTP.Enabled() {
		mailer = notify.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	} else {
		logger.Warn("email_disabled", "reason", "EMAIL_USER not set")
	}

	var index catalog.Indexer
	if cfg.ES.URL != "" {
		esCtx, esCancel := context.WithTimeout(ctx, 5*time.Second)
		client, err := search.NewClient(esCtx, cfg.ES)
		esCancel()
		if err != nil {
			logger.Warn("search_disabled", "error", err)
		} else {
			index = client
		}
	}

	dispatcher := notify.NewDispatcher(db, events, cfg.KafkaTopic, mailer, cfg.NotifyTimeout)

	carts := &cart.CartService{Repo: &cart.GormRepo{DB: db}}
	flow := checkout.New(db, carts, dispatcher)
	store := &orders.Store{DB: db}
	payments := &payment.Service{Orders: store, KeyID: cfg.RazorpayKeyID, KeySecret: cfg.RazorpayKeySecret}
	products := &catalog.CatalogService{Repo: &catalog.GormRepo{DB: db}, Index: index}

	var auth *authclient.Client
	if cfg.AuthHTTPURL != "" {
		auth = authclient.NewClientWithTimeout(cfg.AuthHTTPURL, cfg.AuthTimeout)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.Secure())
	e.Use(echomw.CORS())

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = cfg.CookieSecure
	e.Use(csrf.Middleware(csrfCfg))

	httpserver.Register(e, &httpserver.Deps{
		DB:              db,
		OrderHandler:    &httpserver.OrderHTTP{Flow: flow, Orders: store},
		AdminHandler:    &httpserver.AdminOrdersHTTP{Flow: flow, Orders: store, Payments: payments},
		CartHandler:     &httpserver.CartHTTP{Svc: carts},
		WishlistHandler: &httpserver.WishlistHTTP{Svc: &wishlist.WishlistService{Repo: &wishlist.GormRepo{DB: db}}},
		AddressHandler:  &httpserver.AddressHTTP{Svc: &address.AddressService{Repo: &address.GormRepo{DB: db}}},
		CatalogHandler:  &httpserver.CatalogHTTP{Svc: products, Orders: store},
		PaymentHandler:  &httpserver.PaymentHTTP{Svc: payments},
		JWTSecret:       cfg.JWTAccessSecret,
		AuthClient:      auth,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_shutdown_failed", "error", err)
	}
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		logger.Warn("notifications_abandoned", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Warn("kafka_close_failed", "error", err)
		}
	}
	pkgdb.Close(db)

	logger.Info("stopped")
}
