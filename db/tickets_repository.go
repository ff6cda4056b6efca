package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/kauatwn/TicketFlow/entity"
)

type dbTicket struct {
	ID         string          `db:"id"`
	ShowID     string          `db:"show_id"`
	SeatSector string          `db:"seat_sector"`
	SeatRow    string          `db:"seat_row"`
	SeatNumber string          `db:"seat_number"`
	Price      decimal.Decimal `db:"price"`
	Status     string          `db:"status"`
	CustomerID sql.NullString  `db:"customer_id"`
	ReservedAt *time.Time      `db:"reserved_at"`
	CreatedAt  time.Time       `db:"created_at"`
	Version    int             `db:"version"`
}

func newDBTicket(ticket *entity.Ticket) dbTicket {
	return dbTicket{
		ID:         ticket.ID,
		ShowID:     ticket.ShowID,
		SeatSector: ticket.Seat.Sector,
		SeatRow:    ticket.Seat.Row,
		SeatNumber: ticket.Seat.Number,
		Price:      ticket.Price,
		Status:     string(ticket.Status),
		CustomerID: sql.NullString{String: ticket.CustomerID, Valid: ticket.CustomerID != ""},
		ReservedAt: ticket.ReservedAt,
		CreatedAt:  ticket.CreatedAt,
		Version:    ticket.Version,
	}
}

func (t dbTicket) toEntity() *entity.Ticket {
	return &entity.Ticket{
		ID:     t.ID,
		ShowID: t.ShowID,
		Seat: entity.Seat{
			Sector: t.SeatSector,
			Row:    t.SeatRow,
			Number: t.SeatNumber,
		},
		Price:      t.Price,
		Status:     entity.TicketStatus(t.Status),
		CustomerID: t.CustomerID.String,
		ReservedAt: t.ReservedAt,
		CreatedAt:  t.CreatedAt,
		Version:    t.Version,
	}
}

type ticketsRepository struct {
	t *transaction
}

func (r ticketsRepository) GetByIDWithShow(ctx context.Context, ticketID string) (*entity.Ticket, error) {
	var ticket dbTicket
	err := r.t.tx.GetContext(ctx, &ticket, `
		SELECT t.id, t.show_id, t.seat_sector, t.seat_row, t.seat_number, t.price, t.status,
			t.customer_id, t.reserved_at, t.created_at, t.version
		FROM tickets t
		JOIN shows s ON s.id = t.show_id
		WHERE t.id = $1
	`, ticketID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not get ticket %s: %w", ticketID, err)
	}

	return ticket.toEntity(), nil
}

func (r ticketsRepository) Add(ctx context.Context, tickets ...*entity.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}

	rows := lo.Map(tickets, func(ticket *entity.Ticket, _ int) dbTicket {
		return newDBTicket(ticket)
	})

	_, err := r.t.tx.NamedExecContext(ctx, `
		INSERT INTO tickets (id, show_id, seat_sector, seat_row, seat_number, price, status,
			customer_id, reserved_at, created_at, version)
		VALUES (:id, :show_id, :seat_sector, :seat_row, :seat_number, :price, :status,
			:customer_id, :reserved_at, :created_at, :version)
	`, rows)
	if isErrorUniqueViolation(err) {
		return entity.NewConflictError("A seat already exists for this show.")
	}
	if err != nil {
		return fmt.Errorf("could not insert tickets: %w", err)
	}

	return nil
}

func (r ticketsRepository) Update(_ context.Context, ticket *entity.Ticket) error {
	r.t.stagedTickets = append(r.t.stagedTickets, newDBTicket(ticket))
	return nil
}
