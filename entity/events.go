package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventHeader struct {
	ID          string    `json:"id"`
	PublishedAt time.Time `json:"published_at"`
}

func NewEventHeader(publishedAt time.Time) EventHeader {
	return EventHeader{
		ID:          uuid.NewString(),
		PublishedAt: publishedAt.UTC(),
	}
}

type ShowPublished_v1 struct {
	Header EventHeader `json:"header"`

	ShowID          string    `json:"show_id"`
	Title           string    `json:"title"`
	Date            time.Time `json:"date"`
	NumberOfTickets int       `json:"number_of_tickets"`
}

type ShowCancelled_v1 struct {
	Header EventHeader `json:"header"`

	ShowID string `json:"show_id"`
}

type ShowFinished_v1 struct {
	Header EventHeader `json:"header"`

	ShowID string `json:"show_id"`
}

type TicketReserved_v1 struct {
	Header EventHeader `json:"header"`

	TicketID   string    `json:"ticket_id"`
	ShowID     string    `json:"show_id"`
	CustomerID string    `json:"customer_id"`
	ReservedAt time.Time `json:"reserved_at"`
}

type TicketPurchaseConfirmed_v1 struct {
	Header EventHeader `json:"header"`

	TicketID   string          `json:"ticket_id"`
	ShowID     string          `json:"show_id"`
	CustomerID string          `json:"customer_id"`
	Price      decimal.Decimal `json:"price"`
}

// DataLakeEvent is a published event stored as is, for replays and audits.
type DataLakeEvent struct {
	ID          string    `db:"event_id"`
	PublishedAt time.Time `db:"published_at"`
	Name        string    `db:"event_name"`
	Payload     []byte    `db:"event_payload"`
}
