package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"github.com/hariansyahfajrin/mart-api/internal/config"
	kafkax "github.com/hariansyahfajrin/mart-api/internal/kafka"
	"github.com/hariansyahfajrin/mart-api/internal/notify"
	"github.com/hariansyahfajrin/mart-api/internal/orders"
	"github.com/hariansyahfajrin/mart-api/internal/postgres"
	"github.com/hariansyahfajrin/mart-api/internal/redisx"
	"github.com/hariansyahfajrin/mart-api/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	rdb := redisx.New(cfg.Redis.Addr)
	defer rdb.Close()

	mailer := &users.SMTPMailer{
		Host: cfg.SMTP.Host, Port: cfg.SMTP.Port,
		User: cfg.SMTP.User, Pass: cfg.SMTP.Pass, From: cfg.SMTP.From,
	}
	svc := &notify.Service{
		Users:  &users.Repo{DB: db},
		Mailer: mailer,
		Redis:  rdb,
		Log:    log,
	}

	group := getenv("NOTIFIER_GROUP", "order-notifier")
	workers := atoiOr(os.Getenv("NOTIFIER_WORKERS"), 4)
	cons := kafkax.NewConsumer(cfg.Kafka.Brokers, group, orders.TopicOrderEvents, workers, log)

	go func() {
		log.Info("notifier consumer started",
			zap.String("group", group), zap.String("topic", orders.TopicOrderEvents), zap.Int("workers", workers))
		if err := cons.Start(ctx, svc.HandleOrderEvent); err != nil {
			log.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down notifier")
	cancel()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil || i <= 0 {
		return def
	}
	return i
}
