package event

import (
	"context"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"github.com/kauatwn/TicketFlow/entity"
	"github.com/kauatwn/TicketFlow/metrics"
)

func (h Handler) CountReservationsHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"sales.OnTicketReserved",
		func(ctx context.Context, event *entity.TicketReserved_v1) error {
			log.FromContext(ctx).WithField("ticket_id", event.TicketID).Info("Ticket reserved")

			metrics.TicketsReserved.Inc()
			return nil
		},
	)
}

func (h Handler) CountSalesHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"sales.OnTicketPurchaseConfirmed",
		func(ctx context.Context, event *entity.TicketPurchaseConfirmed_v1) error {
			log.FromContext(ctx).WithField("ticket_id", event.TicketID).Info("Ticket sold")

			metrics.TicketsSold.Inc()
			metrics.Revenue.Add(event.Price.InexactFloat64())
			return nil
		},
	)
}

func (h Handler) CountShowsHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"sales.OnShowPublished",
		func(ctx context.Context, event *entity.ShowPublished_v1) error {
			metrics.ShowsPublished.Inc()
			metrics.TicketsOnSale.Add(float64(event.NumberOfTickets))
			return nil
		},
	)
}

func (h Handler) CountCancelledShowsHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"sales.OnShowCancelled",
		func(ctx context.Context, event *entity.ShowCancelled_v1) error {
			log.FromContext(ctx).WithField("show_id", event.ShowID).Info("Show cancelled")

			metrics.ShowsCancelled.Inc()
			return nil
		},
	)
}
