package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hariansyahfajrin/mart-api/internal/catalog"
	"github.com/hariansyahfajrin/mart-api/internal/config"
	"github.com/hariansyahfajrin/mart-api/internal/httpx"
	"github.com/hariansyahfajrin/mart-api/internal/inventory"
	kafkax "github.com/hariansyahfajrin/mart-api/internal/kafka"
	"github.com/hariansyahfajrin/mart-api/internal/orders"
	"github.com/hariansyahfajrin/mart-api/internal/payments"
	"github.com/hariansyahfajrin/mart-api/internal/postgres"
	"github.com/hariansyahfajrin/mart-api/internal/redisx"
	"github.com/hariansyahfajrin/mart-api/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := newLogger(cfg.App.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.Redis.Addr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic, 1024, log)
	prod.Start(ctx)

	// Repos
	productRepo := &catalog.ProductRepo{DB: db}
	categoryRepo := &catalog.CategoryRepo{DB: db, Products: productRepo}
	posterRepo := &catalog.PosterRepo{DB: db}
	orderRepo := &orders.Repo{DB: db}
	userRepo := &users.Repo{DB: db}

	// Services
	ledger := &inventory.Ledger{Products: productRepo, Log: log}
	orderSvc := &orders.Service{
		Store:       orderRepo,
		Ledger:      ledger,
		Producer:    prod,
		ServiceName: cfg.App.Name,
		Log:         log,
	}
	mailer := &users.SMTPMailer{
		Host: cfg.SMTP.Host, Port: cfg.SMTP.Port,
		User: cfg.SMTP.User, Pass: cfg.SMTP.Pass, From: cfg.SMTP.From,
	}
	userSvc := &users.Service{Store: userRepo, Mailer: mailer, Log: log}

	// HTTP
	router := httpx.NewRouter()
	(&httpx.OrdersHandler{Svc: orderSvc, Redis: rdb}).Register(router)
	(&httpx.UsersHandler{Svc: userSvc}).Register(router)
	(&httpx.CatalogHandler{Products: productRepo, Categories: categoryRepo, Posters: posterRepo}).Register(router)
	(&httpx.PaymentsHandler{
		Stripe:   payments.NewStripeClient(cfg.Stripe.SecretKey, cfg.Stripe.PublishableKey),
		Midtrans: payments.NewMidtransClient(cfg.Midtrans.ServerKey, cfg.Midtrans.Production),
	}).Register(router)

	srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}

	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()
	cancel()
	prod.WaitClosed()
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" || env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
