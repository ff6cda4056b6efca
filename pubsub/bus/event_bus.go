package bus

import (
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
)

// EventsTopic receives every event, it feeds the data lake and is split into per-event topics.
const EventsTopic = "events"

var Marshaler = cqrs.JSONMarshaler{
	GenerateName: cqrs.StructName,
}

func NewEventBus(pub message.Publisher) (*cqrs.EventBus, error) {
	return cqrs.NewEventBusWithConfig(pub, cqrs.EventBusConfig{
		GeneratePublishTopic: func(params cqrs.GenerateEventPublishTopicParams) (string, error) {
			return EventsTopic, nil
		},
		Marshaler: Marshaler,
	})
}

func PerEventTopic(eventName string) string {
	return EventsTopic + "." + eventName
}
