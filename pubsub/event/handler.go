package event

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"

	"github.com/kauatwn/TicketFlow/pubsub/bus"
)

// Handler reacts to the ticketing events once they left the outbox.
type Handler struct{}

func NewHandler() Handler {
	return Handler{}
}

func (h Handler) Handlers() []cqrs.EventHandler {
	return []cqrs.EventHandler{
		h.CountReservationsHandler(),
		h.CountSalesHandler(),
		h.CountShowsHandler(),
		h.CountCancelledShowsHandler(),
	}
}

func NewProcessorConfig(rdb *redis.Client, logger watermill.LoggerAdapter) cqrs.EventProcessorConfig {
	return cqrs.EventProcessorConfig{
		SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        rdb,
				ConsumerGroup: "svc-tickets." + params.HandlerName,
			}, logger)
		},
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			return bus.PerEventTopic(params.EventName), nil
		},
		Marshaler: bus.Marshaler,
		Logger:    logger,
	}
}
