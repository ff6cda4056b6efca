package entity

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TicketStatus string

const (
	TicketStatusAvailable TicketStatus = "available"
	TicketStatusReserved  TicketStatus = "reserved"
	TicketStatusSold      TicketStatus = "sold"
)

const (
	MaxSeatSectorLength = 20
	MaxSeatRowLength    = 10
	MaxSeatNumberLength = 10
)

type Seat struct {
	Sector string
	Row    string
	Number string
}

func NewSeat(sector, row, number string) (Seat, error) {
	sector, row, number = strings.TrimSpace(sector), strings.TrimSpace(row), strings.TrimSpace(number)

	v := Validator{}
	checkSeatPart(&v, "sector", sector, MaxSeatSectorLength)
	checkSeatPart(&v, "row", row, MaxSeatRowLength)
	checkSeatPart(&v, "number", number, MaxSeatNumberLength)
	if err := v.Err(); err != nil {
		return Seat{}, err
	}

	return Seat{Sector: sector, Row: row, Number: number}, nil
}

func checkSeatPart(v *Validator, field, value string, maxLength int) {
	v.Check(value != "", field, fmt.Sprintf("Seat %s cannot be empty.", field))
	v.Check(
		utf8.RuneCountInString(value) <= maxLength,
		field,
		fmt.Sprintf("Seat %s cannot be longer than %d characters.", field, maxLength),
	)
}

func (s Seat) IsZero() bool {
	return s == Seat{}
}

// String renders the seat the way it is printed on the ticket, e.g. "VIP - A1".
func (s Seat) String() string {
	return fmt.Sprintf("%s - %s%s", s.Sector, s.Row, s.Number)
}

type Ticket struct {
	ID         string
	ShowID     string
	Seat       Seat
	Price      decimal.Decimal
	Status     TicketStatus
	CustomerID string
	ReservedAt *time.Time
	CreatedAt  time.Time

	// Version is bumped by the storage on every write and compared on commit.
	Version int
}

func NewTicket(showID string, seat Seat, price decimal.Decimal, now time.Time) (*Ticket, error) {
	v := Validator{}
	v.Check(showID != "", "show_id", "ShowId cannot be empty.")
	v.Check(!seat.IsZero(), "seat", "Seat cannot be null.")
	v.Check(price.IsPositive(), "price", "Price must be greater than zero.")
	if err := v.Err(); err != nil {
		return nil, err
	}

	return &Ticket{
		ID:        uuid.NewString(),
		ShowID:    showID,
		Seat:      seat,
		Price:     price,
		Status:    TicketStatusAvailable,
		CreatedAt: now.UTC(),
	}, nil
}

func (t *Ticket) IsReservedBy(customerID string) bool {
	return t.Status == TicketStatusReserved && t.CustomerID == customerID
}

// Reserve holds the ticket for the customer. Reserving again for the same customer changes nothing.
func (t *Ticket) Reserve(customerID string, now time.Time) error {
	if strings.TrimSpace(customerID) == "" {
		return NewValidationError("customer_id", "A valid customer id is required for reservation.")
	}

	if t.IsReservedBy(customerID) {
		return nil
	}

	if t.Status != TicketStatusAvailable {
		return NewConflictError("Seat '%s' is already reserved or sold.", t.Seat)
	}

	reservedAt := now.UTC()
	t.Status = TicketStatusReserved
	t.CustomerID = customerID
	t.ReservedAt = &reservedAt

	return nil
}

func (t *Ticket) ConfirmPurchase() error {
	if t.Status != TicketStatusReserved {
		return NewConflictError("Ticket must be reserved before confirmation.")
	}

	t.Status = TicketStatusSold
	return nil
}
