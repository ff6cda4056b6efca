package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type ShowDetails struct {
	ID               string     `db:"id" json:"id"`
	Title            string     `db:"title" json:"title"`
	Date             time.Time  `db:"show_date" json:"date"`
	Status           ShowStatus `db:"status" json:"status"`
	TotalTickets     int        `db:"total_tickets" json:"total_tickets"`
	AvailableTickets int        `db:"available_tickets" json:"available_tickets"`
}

type AvailableTicket struct {
	ID     string          `db:"id" json:"id"`
	Sector string          `db:"seat_sector" json:"sector"`
	Row    string          `db:"seat_row" json:"row"`
	Number string          `db:"seat_number" json:"number"`
	Price  decimal.Decimal `db:"price" json:"price"`
}
