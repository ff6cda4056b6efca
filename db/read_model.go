package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kauatwn/TicketFlow/entity"
)

// ShowsReadModel answers queries straight from the write tables, without a transaction.
type ShowsReadModel struct {
	db *sqlx.DB
}

func NewShowsReadModel(db *sqlx.DB) ShowsReadModel {
	if db == nil {
		panic("db is nil")
	}

	return ShowsReadModel{db: db}
}

func (r ShowsReadModel) ShowDetails(ctx context.Context, showID string) (entity.ShowDetails, error) {
	var details entity.ShowDetails
	err := r.db.GetContext(ctx, &details, `
		SELECT
			s.id,
			s.title,
			s.show_date,
			s.status,
			COUNT(t.id) AS total_tickets,
			COUNT(t.id) FILTER (WHERE t.status = $2) AS available_tickets
		FROM shows s
		LEFT JOIN tickets t ON t.show_id = s.id
		WHERE s.id = $1
		GROUP BY s.id
	`, showID, entity.TicketStatusAvailable)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ShowDetails{}, entity.ErrNotFound
	}
	if err != nil {
		return entity.ShowDetails{}, fmt.Errorf("could not get show details: %w", err)
	}

	details.Date = details.Date.UTC()

	return details, nil
}

func (r ShowsReadModel) AvailableTickets(ctx context.Context, showID string) ([]entity.AvailableTicket, error) {
	tickets := []entity.AvailableTicket{}
	err := r.db.SelectContext(ctx, &tickets, `
		SELECT id, seat_sector, seat_row, seat_number, price
		FROM tickets
		WHERE show_id = $1 AND status = $2
		ORDER BY seat_sector, seat_row, length(seat_number), seat_number
	`, showID, entity.TicketStatusAvailable)
	if err != nil {
		return nil, fmt.Errorf("could not get available tickets: %w", err)
	}

	return tickets, nil
}
