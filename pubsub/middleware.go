package pubsub

import (
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/lithammer/shortuuid/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kauatwn/TicketFlow/metrics"
	"github.com/kauatwn/TicketFlow/pubsub/bus"
	"github.com/kauatwn/TicketFlow/tracing"
)

func useMiddlewares(router *message.Router, watermillLogger watermill.LoggerAdapter) {
	router.AddMiddleware(middleware.Recoverer)

	router.AddMiddleware(middleware.Retry{
		MaxRetries:      10,
		InitialInterval: time.Millisecond * 100,
		MaxInterval:     time.Second,
		Multiplier:      2,
		Logger:          watermillLogger,
	}.Middleware)

	router.AddMiddleware(
		propagateCorrelationID,
		traceEventHandling,
		logEventHandling,
		measureEventHandling,
	)
}

// eventName is empty for messages that were not published by the event bus.
func eventName(msg *message.Message) string {
	return bus.Marshaler.NameFromMessage(msg)
}

func propagateCorrelationID(next message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		correlationID := msg.Metadata.Get(tracing.CorrelationIDMetadataKey)
		if correlationID == "" {
			correlationID = "gen_" + shortuuid.New()
		}

		ctx := log.ContextWithCorrelationID(msg.Context(), correlationID)
		ctx = log.ToContext(ctx, logrus.WithFields(logrus.Fields{"correlation_id": correlationID}))

		msg.SetContext(ctx)

		return next(msg)
	}
}

// traceEventHandling continues the trace started by the command that published the event.
func traceEventHandling(next message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		handler := message.HandlerNameFromCtx(msg.Context())
		name := eventName(msg)

		ctx := otel.GetTextMapPropagator().Extract(msg.Context(), propagation.MapCarrier(msg.Metadata))
		ctx, span := otel.Tracer("").Start(ctx, "handle "+name+" in "+handler)
		defer span.End()

		span.SetAttributes(
			attribute.String("topic", message.SubscribeTopicFromCtx(msg.Context())),
			attribute.String("handler", handler),
			attribute.String("event_name", name),
		)
		msg.SetContext(ctx)

		messages, err := next(msg)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		return messages, err
	}
}

func logEventHandling(next message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		logger := log.FromContext(msg.Context()).WithFields(logrus.Fields{
			"message_id": msg.UUID,
			"event_name": eventName(msg),
			"handler":    message.HandlerNameFromCtx(msg.Context()),
			"trace_id":   trace.SpanFromContext(msg.Context()).SpanContext().TraceID().String(),
		})

		logger.Debug("Handling event")

		messages, err := next(msg)
		if err != nil {
			logger.WithError(err).Error("Event handling failed")
		}

		return messages, err
	}
}

func measureEventHandling(next message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) (messages []*message.Message, err error) {
		start := time.Now()
		labels := prometheus.Labels{
			"topic":      message.SubscribeTopicFromCtx(msg.Context()),
			"handler":    message.HandlerNameFromCtx(msg.Context()),
			"event_name": eventName(msg),
		}

		defer func() {
			if err != nil {
				metrics.MessagesProcessingFailed.With(labels).Inc()
			}
			metrics.MessagesProcessed.With(labels).Inc()
			metrics.MessagesProcessingDuration.With(labels).Observe(time.Since(start).Seconds())
		}()

		return next(msg)
	}
}
