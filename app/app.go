package app

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	"github.com/kauatwn/TicketFlow/clock"
	"github.com/kauatwn/TicketFlow/command"
	dbLib "github.com/kauatwn/TicketFlow/db"
	"github.com/kauatwn/TicketFlow/http"
	"github.com/kauatwn/TicketFlow/pubsub"
	"github.com/kauatwn/TicketFlow/pubsub/event"
	"github.com/kauatwn/TicketFlow/pubsub/outbox"
	"github.com/kauatwn/TicketFlow/query"
)

const consumerGroupPrefix = "svc-tickets."

type App struct {
	db              *sqlx.DB
	clock           clock.Clock
	watermillLogger watermill.LoggerAdapter
	watermillRouter *message.Router
	forwarder       *forwarder.Forwarder
	httpServer      *http.Server
	traceProvider   *tracesdk.TracerProvider
	seedDemoData    bool
}

func New(
	addr string,
	serviceName string,
	db *sqlx.DB,
	redisClient *redis.Client,
	clk clock.Clock,
	traceProvider *tracesdk.TracerProvider,
	seedDemoData bool,
) (App, error) {
	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	redisPublisher := pubsub.NewRedisPublisher(redisClient, watermillLogger)

	fwd, err := outbox.NewForwarder(
		outbox.NewPostgresSubscriber(db.DB, watermillLogger),
		redisPublisher,
		watermillLogger,
	)
	if err != nil {
		return App{}, err
	}

	watermillRouter, err := pubsub.NewWatermillRouter(
		redisPublisher,
		pubsub.NewRedisSubscriber(redisClient, consumerGroupPrefix+"events_splitter", watermillLogger),
		pubsub.NewRedisSubscriber(redisClient, consumerGroupPrefix+"store_to_data_lake", watermillLogger),
		event.NewProcessorConfig(redisClient, watermillLogger),
		event.NewHandler().Handlers(),
		dbLib.NewDataLake(db),
		watermillLogger,
	)
	if err != nil {
		return App{}, fmt.Errorf("failed to create watermill router: %w", err)
	}

	commandsHandler := command.NewHandler(dbLib.NewUnitOfWork(db), clk)
	queriesHandler := query.NewHandler(dbLib.NewShowsReadModel(db))

	httpServer := http.NewServer(addr, serviceName, commandsHandler, queriesHandler)

	return App{
		db:              db,
		clock:           clk,
		watermillLogger: watermillLogger,
		watermillRouter: watermillRouter,
		forwarder:       fwd,
		httpServer:      httpServer,
		traceProvider:   traceProvider,
		seedDemoData:    seedDemoData,
	}, nil
}

func (a App) Run(ctx context.Context) error {
	if err := dbLib.InitializeDatabaseSchema(a.db); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	if err := outbox.InitializeSchema(a.db.DB, a.watermillLogger); err != nil {
		return err
	}

	if a.seedDemoData {
		if err := dbLib.SeedDemoData(ctx, a.db, a.clock); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	if a.traceProvider != nil {
		g.Go(func() error {
			<-ctx.Done()
			return a.traceProvider.Shutdown(context.Background())
		})
	}

	g.Go(func() error {
		return a.watermillRouter.Run(ctx)
	})

	g.Go(func() error {
		return a.forwarder.Run(ctx)
	})

	g.Go(func() error {
		// the app is not healthy before events can be delivered
		<-a.watermillRouter.Running()
		<-a.forwarder.Running()

		return a.httpServer.Run(ctx)
	})

	return g.Wait()
}
