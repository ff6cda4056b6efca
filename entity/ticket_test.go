package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kauatwn/TicketFlow/entity"
)

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTicket(t *testing.T) *entity.Ticket {
	t.Helper()

	seat, err := entity.NewSeat("VIP", "A", "1")
	require.NoError(t, err)

	ticket, err := entity.NewTicket("show-1", seat, decimal.NewFromInt(500), now)
	require.NoError(t, err)

	return ticket
}

func TestNewTicket(t *testing.T) {
	ticket := newTicket(t)

	assert.NotEmpty(t, ticket.ID)
	assert.Equal(t, entity.TicketStatusAvailable, ticket.Status)
	assert.Empty(t, ticket.CustomerID)
	assert.Nil(t, ticket.ReservedAt)
	assert.Equal(t, "VIP - A1", ticket.Seat.String())
}

func TestNewTicket_validation(t *testing.T) {
	_, err := entity.NewTicket("", entity.Seat{}, decimal.Zero, now)
	require.ErrorIs(t, err, entity.ErrValidation)

	var validationErr *entity.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"ShowId cannot be empty."}, validationErr.Errors["show_id"])
	assert.Equal(t, []string{"Seat cannot be null."}, validationErr.Errors["seat"])
	assert.Equal(t, []string{"Price must be greater than zero."}, validationErr.Errors["price"])
}

func TestNewSeat_validation(t *testing.T) {
	_, err := entity.NewSeat("", "ABCDEFGHIJK", "1")

	var validationErr *entity.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Errors, "sector")
	assert.Contains(t, validationErr.Errors, "row")
	assert.NotContains(t, validationErr.Errors, "number")
}

func TestTicket_Reserve(t *testing.T) {
	ticket := newTicket(t)

	require.NoError(t, ticket.Reserve("customer-1", now))

	assert.Equal(t, entity.TicketStatusReserved, ticket.Status)
	assert.Equal(t, "customer-1", ticket.CustomerID)
	require.NotNil(t, ticket.ReservedAt)
	assert.Equal(t, now, *ticket.ReservedAt)
}

func TestTicket_Reserve_same_customer_is_idempotent(t *testing.T) {
	ticket := newTicket(t)

	require.NoError(t, ticket.Reserve("customer-1", now))
	require.NoError(t, ticket.Reserve("customer-1", now.Add(time.Hour)))

	assert.Equal(t, entity.TicketStatusReserved, ticket.Status)
	assert.Equal(t, now, *ticket.ReservedAt)
}

func TestTicket_Reserve_other_customer(t *testing.T) {
	ticket := newTicket(t)
	require.NoError(t, ticket.Reserve("customer-b", now))

	err := ticket.Reserve("customer-a", now)
	require.ErrorIs(t, err, entity.ErrConflict)
	assert.EqualError(t, err, "Seat 'VIP - A1' is already reserved or sold.")
	assert.Equal(t, "customer-b", ticket.CustomerID)
}

func TestTicket_Reserve_sold(t *testing.T) {
	ticket := newTicket(t)
	require.NoError(t, ticket.Reserve("customer-1", now))
	require.NoError(t, ticket.ConfirmPurchase())

	err := ticket.Reserve("customer-2", now)
	assert.ErrorIs(t, err, entity.ErrConflict)

	// customer id is validated before the status
	err = ticket.Reserve("  ", now)
	assert.ErrorIs(t, err, entity.ErrValidation)
	assert.NotErrorIs(t, err, entity.ErrConflict)
}

func TestTicket_ConfirmPurchase(t *testing.T) {
	ticket := newTicket(t)

	err := ticket.ConfirmPurchase()
	require.ErrorIs(t, err, entity.ErrConflict)
	assert.Equal(t, entity.TicketStatusAvailable, ticket.Status)

	require.NoError(t, ticket.Reserve("customer-1", now))
	require.NoError(t, ticket.ConfirmPurchase())
	assert.Equal(t, entity.TicketStatusSold, ticket.Status)

	err = ticket.ConfirmPurchase()
	assert.ErrorIs(t, err, entity.ErrConflict)
}
