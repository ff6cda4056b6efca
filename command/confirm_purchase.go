package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kauatwn/TicketFlow/entity"
)

type ConfirmPurchase struct {
	TicketID   string `json:"ticket_id" validate:"required,uuid"`
	CustomerID string `json:"customer_id" validate:"required,uuid"`
}

func (h Handler) ConfirmPurchase(ctx context.Context, cmd ConfirmPurchase) (err error) {
	start := time.Now()
	defer func() {
		observe(ctx, "ConfirmPurchase", logrus.Fields{
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

		if ticket.Status == entity.TicketStatusReserved && ticket.CustomerID != cmd.CustomerID {
			return entity.NewConflictError("Ticket is reserved by another customer.")
		}

		if err := ticket.ConfirmPurchase(); err != nil {
			return err
		}

		if err := tx.Tickets().Update(ctx, ticket); err != nil {
			return fmt.Errorf("could not update ticket: %w", err)
		}

		err = tx.Events().Publish(ctx, entity.TicketPurchaseConfirmed_v1{
			Header:     entity.NewEventHeader(h.clock.Now()),
			TicketID:   ticket.ID,
			ShowID:     ticket.ShowID,
			CustomerID: ticket.CustomerID,
			Price:      ticket.Price,
		})
		if err != nil {
			return fmt.Errorf("could not publish TicketPurchaseConfirmed_v1: %w", err)
		}

		return nil
	})
}
