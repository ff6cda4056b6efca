package db

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/kauatwn/TicketFlow/clock"
	"github.com/kauatwn/TicketFlow/command"
	"github.com/kauatwn/TicketFlow/entity"
)

const DemoShowID = "11111111-1111-1111-1111-111111111111"

// SeedDemoData creates a demo show with ten VIP seats. It does nothing if the demo show already exists.
func SeedDemoData(ctx context.Context, db *sqlx.DB, clk clock.Clock) error {
	var exists bool
	if err := db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM shows WHERE id = $1)", DemoShowID); err != nil {
		return fmt.Errorf("could not check demo show: %w", err)
	}
	if exists {
		return nil
	}

	now := clk.Now()

	show, err := entity.NewShow("Rock in Rio 2026", now.AddDate(0, 6, 0), 4, now)
	if err != nil {
		return err
	}
	show.ID = DemoShowID

	tickets := make([]*entity.Ticket, 0, 10)
	for i := 1; i <= 10; i++ {
		seat, err := entity.NewSeat("VIP", "A", fmt.Sprint(i))
		if err != nil {
			return err
		}

		ticket, err := entity.NewTicket(show.ID, seat, decimal.NewFromInt(500), now)
		if err != nil {
			return err
		}
		tickets = append(tickets, ticket)
	}

	err = NewUnitOfWork(db).Do(ctx, func(ctx context.Context, tx command.Transaction) error {
		if err := tx.Shows().Add(ctx, show); err != nil {
			return err
		}
		return tx.Tickets().Add(ctx, tickets...)
	})
	if err != nil {
		return fmt.Errorf("could not seed demo data: %w", err)
	}

	log.FromContext(ctx).WithField("show_id", show.ID).Info("Demo data seeded")

	return nil
}
