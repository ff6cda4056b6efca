package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kauatwn/TicketFlow/entity"
	"github.com/kauatwn/TicketFlow/metrics"
)

type ReserveTicket struct {
	TicketID   string `json:"ticket_id" validate:"required,uuid"`
	CustomerID string `json:"customer_id" validate:"required,uuid"`
}

// ReserveTicket holds the ticket for the customer. Two customers racing for the same ticket
// never both succeed: the loser gets entity.ErrConflict or entity.ErrConcurrencyConflict.
func (h Handler) ReserveTicket(ctx context.Context, cmd ReserveTicket) (err error) {
	start := time.Now()
	defer func() {
		metrics.TicketReservations.WithLabelValues(outcome(err)).Inc()
		observe(ctx, "ReserveTicket", logrus.Fields{
			"ticket_id":   cmd.TicketID,
			"customer_id": cmd.CustomerID,
		}, start, err)
	}()

	if err := validateCommand(cmd); err != nil {
		return err
	}

	return h.uow.Do(ctx, func(ctx context.Context, tx Transaction) error {
		ticket, err := tx.Tickets().GetByIDWithShow(ctx, cmd.TicketID)
		if errors.Is(err, entity.ErrNotFound) {
			return entity.NewNotFoundError("Ticket not found.")
		}
		if err != nil {
			return fmt.Errorf("could not get ticket: %w", err)
		}

		show, err := tx.Shows().GetByID(ctx, ticket.ShowID)
		if errors.Is(err, entity.ErrNotFound) {
			return entity.NewNotFoundError("Show with ID '%s' not found.", ticket.ShowID)
		}
		if err != nil {
			return fmt.Errorf("could not get show: %w", err)
		}

		now := h.clock.Now()
		if !show.CanSellTickets(now) {
			return entity.NewConflictError("Cannot reserve ticket. The show is unavailable or finished.")
		}

		alreadyHeld := ticket.IsReservedBy(cmd.CustomerID)

		if err := ticket.Reserve(cmd.CustomerID, now); err != nil {
			return err
		}

		if alreadyHeld {
			return nil
		}

		if err := tx.Tickets().Update(ctx, ticket); err != nil {
			return fmt.Errorf("could not update ticket: %w", err)
		}

		err = tx.Events().Publish(ctx, entity.TicketReserved_v1{
			Header:     entity.NewEventHeader(now),
			TicketID:   ticket.ID,
			ShowID:     ticket.ShowID,
			CustomerID: ticket.CustomerID,
			ReservedAt: *ticket.ReservedAt,
		})
		if err != nil {
			return fmt.Errorf("could not publish TicketReserved_v1: %w", err)
		}

		return nil
	})
}
