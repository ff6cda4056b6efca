package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"

	"github.com/kauatwn/TicketFlow/app"
	"github.com/kauatwn/TicketFlow/clock"
	"github.com/kauatwn/TicketFlow/config"
	"github.com/kauatwn/TicketFlow/db"
	"github.com/kauatwn/TicketFlow/pubsub"
	"github.com/kauatwn/TicketFlow/tracing"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		os.Exit(1)
	}

	level, err := cfg.Level()
	if err != nil {
		panic(err)
	}
	log.Init(level)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	traceProvider, err := tracing.ConfigureTraceProvider(cfg.ServiceName, cfg.JaegerEndpoint)
	if err != nil {
		panic(err)
	}

	dbConn, err := db.Open(cfg.PostgresURL)
	if err != nil {
		panic(err)
	}
	defer dbConn.Close()

	redisClient := pubsub.NewRedisClient(cfg.RedisAddr)
	defer redisClient.Close()

	a, err := app.New(
		cfg.HTTPAddr,
		cfg.ServiceName,
		dbConn,
		redisClient,
		clock.Real(),
		traceProvider,
		cfg.SeedDemoData,
	)
	if err != nil {
		panic(err)
	}

	if err := a.Run(ctx); err != nil {
		logrus.WithError(err).Fatal("tickets service stopped")
	}
}
