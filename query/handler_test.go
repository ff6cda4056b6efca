package query_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kauatwn/TicketFlow/entity"
	"github.com/kauatwn/TicketFlow/query"
)

type readModelStub struct {
	details map[string]entity.ShowDetails
	tickets map[string][]entity.AvailableTicket
	err     error
}

func (r readModelStub) ShowDetails(_ context.Context, showID string) (entity.ShowDetails, error) {
	if r.err != nil {
		return entity.ShowDetails{}, r.err
	}
	details, ok := r.details[showID]
	if !ok {
		return entity.ShowDetails{}, entity.ErrNotFound
	}
	return details, nil
}

func (r readModelStub) AvailableTickets(_ context.Context, showID string) ([]entity.AvailableTicket, error) {
	return r.tickets[showID], r.err
}

func TestShowDetails(t *testing.T) {
	showID := uuid.NewString()
	details := entity.ShowDetails{
		ID:               showID,
		Title:            "Coldplay Live",
		Date:             time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC),
		Status:           entity.ShowStatusPublished,
		TotalTickets:     1,
		AvailableTickets: 0,
	}
	handler := query.NewHandler(readModelStub{details: map[string]entity.ShowDetails{showID: details}})

	got, err := handler.ShowDetails(context.Background(), showID)
	require.NoError(t, err)
	assert.Equal(t, details, got)

	_, err = handler.ShowDetails(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, entity.ErrNotFound)

	_, err = handler.ShowDetails(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestAvailableTickets(t *testing.T) {
	showID := uuid.NewString()
	tickets := []entity.AvailableTicket{
		{ID: uuid.NewString(), Sector: "VIP", Row: "A", Number: "1", Price: decimal.NewFromInt(500)},
	}
	handler := query.NewHandler(readModelStub{tickets: map[string][]entity.AvailableTicket{showID: tickets}})

	got, err := handler.AvailableTickets(context.Background(), showID)
	require.NoError(t, err)
	assert.Equal(t, tickets, got)

	got, err = handler.AvailableTickets(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = handler.AvailableTickets(context.Background(), "not-an-id")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAvailableTickets_store_failure(t *testing.T) {
	handler := query.NewHandler(readModelStub{err: errors.New("connection refused")})

	_, err := handler.AvailableTickets(context.Background(), uuid.NewString())
	assert.Error(t, err)
}
