package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/kauatwn/TicketFlow/entity"
)

type PublishShow struct {
	Title             string            `json:"title"`
	Date              time.Time         `json:"date"`
	MaxTicketsPerUser int               `json:"max_tickets_per_user"`
	Seats             []PublishShowSeat `json:"seats" validate:"dive"`
}

type PublishShowSeat struct {
	Sector string          `json:"sector" validate:"required"`
	Row    string          `json:"row" validate:"required"`
	Number string          `json:"number" validate:"required"`
	Price  decimal.Decimal `json:"price" validate:"gt=0"`
}

// PublishShow creates a published show with one available ticket per seat and returns the show ID.
func (h Handler) PublishShow(ctx context.Context, cmd PublishShow) (showID string, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, "PublishShow", logrus.Fields{
			"show_id": showID,
			"title":   cmd.Title,
			"seats":   len(cmd.Seats),
		}, start, err)
	}()

	now := h.clock.Now()
	v := entity.Validator{}

	inputErr := validateCommand(cmd)
	v.Merge("", inputErr)

	show, err := entity.NewShow(cmd.Title, cmd.Date, cmd.MaxTicketsPerUser, now)
	v.Merge("", err)

	var invalidSeats map[string][]string
	var inputValidationErr *entity.ValidationError
	if errors.As(inputErr, &inputValidationErr) {
		invalidSeats = inputValidationErr.Errors
	}

	seats := make([]entity.Seat, len(cmd.Seats))
	valid := make([]bool, len(cmd.Seats))
	for i, s := range cmd.Seats {
		prefix := fmt.Sprintf("seats[%d].", i)
		if hasSeatPartErrors(invalidSeats, prefix) {
			continue
		}

		seat, err := entity.NewSeat(s.Sector, s.Row, s.Number)
		if err != nil {
			v.Merge(prefix, err)
			continue
		}

		seats[i] = seat
		valid[i] = true
	}

	validSeats := lo.Filter(seats, func(_ entity.Seat, i int) bool {
		return valid[i]
	})
	duplicates := lo.FindDuplicates(lo.Map(validSeats, func(seat entity.Seat, _ int) string {
		return seat.String()
	}))
	for _, duplicate := range duplicates {
		v.Check(false, "seats", fmt.Sprintf("Seat '%s' is listed more than once.", duplicate))
	}

	if err := v.Err(); err != nil {
		return "", err
	}

	tickets := make([]*entity.Ticket, 0, len(seats))
	for i, seat := range seats {
		ticket, err := entity.NewTicket(show.ID, seat, cmd.Seats[i].Price, now)
		if err != nil {
			return "", err
		}
		tickets = append(tickets, ticket)
	}

	err = h.uow.Do(ctx, func(ctx context.Context, tx Transaction) error {
		if err := tx.Shows().Add(ctx, show); err != nil {
			return fmt.Errorf("could not add show: %w", err)
		}

		if len(tickets) > 0 {
			if err := tx.Tickets().Add(ctx, tickets...); err != nil {
				return fmt.Errorf("could not add tickets: %w", err)
			}
		}

		err := tx.Events().Publish(ctx, entity.ShowPublished_v1{
			Header:          entity.NewEventHeader(now),
			ShowID:          show.ID,
			Title:           show.Title,
			Date:            show.Date,
			NumberOfTickets: len(tickets),
		})
		if err != nil {
			return fmt.Errorf("could not publish ShowPublished_v1: %w", err)
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return show.ID, nil
}

// hasSeatPartErrors reports whether sector, row or number of the seat failed the input rules.
func hasSeatPartErrors(fields map[string][]string, prefix string) bool {
	return lo.SomeBy([]string{"sector", "row", "number"}, func(part string) bool {
		_, ok := fields[prefix+part]
		return ok
	})
}
