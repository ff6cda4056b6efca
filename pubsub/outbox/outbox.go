package outbox

import (
	"context"
	stdSQL "database/sql"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-sql/v2/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"

	"github.com/kauatwn/TicketFlow/tracing"
)

const outboxTopic = "events_to_forward"

// NewPublisherForDb returns a publisher that stores messages in the outbox table within tx.
// They are forwarded to the broker only if tx commits.
func NewPublisherForDb(ctx context.Context, tx *sqlx.Tx) (message.Publisher, error) {
	var publisher message.Publisher

	logger := log.NewWatermill(log.FromContext(ctx))

	publisher, err := sql.NewPublisher(
		tx.Tx,
		sql.PublisherConfig{
			SchemaAdapter: sql.DefaultPostgreSQLSchema{},
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("could not create outbox publisher: %w", err)
	}

	publisher = forwarder.NewPublisher(publisher, forwarder.PublisherConfig{
		ForwarderTopic: outboxTopic,
	})
	publisher = tracing.PublisherDecorator{Publisher: publisher}
	publisher = tracing.CorrelationPublisherDecorator{Publisher: publisher}

	return publisher, nil
}

func NewPostgresSubscriber(db *stdSQL.DB, logger watermill.LoggerAdapter) *sql.Subscriber {
	sub, err := sql.NewSubscriber(db, sql.SubscriberConfig{
		SchemaAdapter:    sql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   sql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
	}, logger)
	if err != nil {
		panic(fmt.Errorf("could not create postgres subscriber: %w", err))
	}

	return sub
}

// InitializeSchema creates the outbox tables, so transactions can publish before the forwarder subscribes.
func InitializeSchema(db *stdSQL.DB, logger watermill.LoggerAdapter) error {
	sub := NewPostgresSubscriber(db, logger)
	defer sub.Close()

	if err := sub.SubscribeInitialize(outboxTopic); err != nil {
		return fmt.Errorf("could not initialize outbox schema: %w", err)
	}

	return nil
}

// NewForwarder moves messages from the outbox table to the broker.
func NewForwarder(
	postgresSubscriber message.Subscriber,
	publisher message.Publisher,
	logger watermill.LoggerAdapter,
) (*forwarder.Forwarder, error) {
	fwd, err := forwarder.NewForwarder(postgresSubscriber, publisher, logger, forwarder.Config{
		ForwarderTopic: outboxTopic,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create forwarder: %w", err)
	}

	return fwd, nil
}
