package db_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kauatwn/TicketFlow/clock"
	"github.com/kauatwn/TicketFlow/command"
	"github.com/kauatwn/TicketFlow/db"
	"github.com/kauatwn/TicketFlow/entity"
	"github.com/kauatwn/TicketFlow/query"
)

var now = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func publishShow(t *testing.T, handler command.Handler, seats ...command.PublishShowSeat) string {
	t.Helper()

	showID, err := handler.PublishShow(context.Background(), command.PublishShow{
		Title:             "Coldplay Live",
		Date:              now.Add(30 * 24 * time.Hour),
		MaxTicketsPerUser: 2,
		Seats:             seats,
	})
	require.NoError(t, err)

	return showID
}

func vipSeat(number string) command.PublishShowSeat {
	return command.PublishShowSeat{Sector: "VIP", Row: "A", Number: number, Price: decimal.NewFromInt(500)}
}

func TestReservationScenario(t *testing.T) {
	ctx := context.Background()
	conn := db.GetDb(t)

	handler := command.NewHandler(db.NewUnitOfWork(conn), clock.Fake(now))
	queries := query.NewHandler(db.NewShowsReadModel(conn))

	showID := publishShow(t, handler, vipSeat("1"))

	available, err := queries.AvailableTickets(ctx, showID)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "VIP", available[0].Sector)
	assert.True(t, decimal.NewFromInt(500).Equal(available[0].Price))

	customerID := uuid.NewString()
	err = handler.ReserveTicket(ctx, command.ReserveTicket{TicketID: available[0].ID, CustomerID: customerID})
	require.NoError(t, err)

	// same customer again is a no-op
	err = handler.ReserveTicket(ctx, command.ReserveTicket{TicketID: available[0].ID, CustomerID: customerID})
	require.NoError(t, err)

	available, err = queries.AvailableTickets(ctx, showID)
	require.NoError(t, err)
	assert.Empty(t, available)

	details, err := queries.ShowDetails(ctx, showID)
	require.NoError(t, err)
	assert.Equal(t, "Coldplay Live", details.Title)
	assert.Equal(t, entity.ShowStatusPublished, details.Status)
	assert.Equal(t, 1, details.TotalTickets)
	assert.Equal(t, 0, details.AvailableTickets)
	assert.True(t, now.Add(30*24*time.Hour).Equal(details.Date))
}

func TestUnitOfWork_stale_version(t *testing.T) {
	ctx := context.Background()
	conn := db.GetDb(t)
	uow := db.NewUnitOfWork(conn)
	handler := command.NewHandler(uow, clock.Fake(now))

	showID := publishShow(t, handler, vipSeat("1"))
	available, err := query.NewHandler(db.NewShowsReadModel(conn)).AvailableTickets(ctx, showID)
	require.NoError(t, err)
	ticketID := available[0].ID

	winner := uuid.NewString()

	err = uow.Do(ctx, func(ctx context.Context, tx command.Transaction) error {
		ticket, err := tx.Tickets().GetByIDWithShow(ctx, ticketID)
		require.NoError(t, err)

		// another writer commits in between our read and our write
		err = handler.ReserveTicket(ctx, command.ReserveTicket{TicketID: ticketID, CustomerID: winner})
		require.NoError(t, err)

		require.NoError(t, ticket.Reserve(uuid.NewString(), now))
		return tx.Tickets().Update(ctx, ticket)
	})
	require.ErrorIs(t, err, entity.ErrConcurrencyConflict)

	stored := getTicket(t, uow, ticketID)
	assert.Equal(t, winner, stored.CustomerID)
	assert.Equal(t, 1, stored.Version)
}

func TestUnitOfWork_show_changed_after_read(t *testing.T) {
	ctx := context.Background()
	conn := db.GetDb(t)
	uow := db.NewUnitOfWork(conn)
	handler := command.NewHandler(uow, clock.Fake(now))

	showID := publishShow(t, handler, vipSeat("1"))
	available, err := query.NewHandler(db.NewShowsReadModel(conn)).AvailableTickets(ctx, showID)
	require.NoError(t, err)
	ticketID := available[0].ID

	err = uow.Do(ctx, func(ctx context.Context, tx command.Transaction) error {
		ticket, err := tx.Tickets().GetByIDWithShow(ctx, ticketID)
		require.NoError(t, err)

		show, err := tx.Shows().GetByID(ctx, ticket.ShowID)
		require.NoError(t, err)
		require.True(t, show.CanSellTickets(now))

		// the show is cancelled between our check and our commit
		require.NoError(t, handler.CancelShow(ctx, command.CancelShow{ShowID: showID}))

		require.NoError(t, ticket.Reserve(uuid.NewString(), now))
		return tx.Tickets().Update(ctx, ticket)
	})
	require.ErrorIs(t, err, entity.ErrConcurrencyConflict)

	stored := getTicket(t, uow, ticketID)
	assert.Equal(t, entity.TicketStatusAvailable, stored.Status)
	assert.Equal(t, 0, stored.Version)

	details, err := query.NewHandler(db.NewShowsReadModel(conn)).ShowDetails(ctx, showID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShowStatusCancelled, details.Status)
}

func TestUnitOfWork_concurrent_reservations(t *testing.T) {
	ctx := context.Background()
	conn := db.GetDb(t)
	uow := db.NewUnitOfWork(conn)
	handler := command.NewHandler(uow, clock.Fake(now))

	showID := publishShow(t, handler, vipSeat("1"))
	available, err := query.NewHandler(db.NewShowsReadModel(conn)).AvailableTickets(ctx, showID)
	require.NoError(t, err)
	ticketID := available[0].ID

	workers := 10
	errs := make([]error, workers)
	customers := make([]string, workers)

	wg := sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		i := i
		customers[i] = uuid.NewString()
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = handler.ReserveTicket(ctx, command.ReserveTicket{TicketID: ticketID, CustomerID: customers[i]})
		}()
	}
	wg.Wait()

	var winner string
	successes := 0
	for i, err := range errs {
		if err == nil {
			successes++
			winner = customers[i]
			continue
		}
		assert.Truef(t, isConflict(err), "unexpected error: %v", err)
	}
	require.Equal(t, 1, successes)

	stored := getTicket(t, uow, ticketID)
	assert.Equal(t, entity.TicketStatusReserved, stored.Status)
	assert.Equal(t, winner, stored.CustomerID)
}

func TestUnitOfWork_rollback(t *testing.T) {
	ctx := context.Background()
	conn := db.GetDb(t)
	uow := db.NewUnitOfWork(conn)
	handler := command.NewHandler(uow, clock.Fake(now))

	showID := publishShow(t, handler, vipSeat("1"))
	available, err := query.NewHandler(db.NewShowsReadModel(conn)).AvailableTickets(ctx, showID)
	require.NoError(t, err)
	ticketID := available[0].ID

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)

		err := uow.Do(ctx, func(ctx context.Context, tx command.Transaction) error {
			ticket, err := tx.Tickets().GetByIDWithShow(ctx, ticketID)
			require.NoError(t, err)
			require.NoError(t, ticket.Reserve(uuid.NewString(), now))
			require.NoError(t, tx.Tickets().Update(ctx, ticket))

			cancel()
			return nil
		})
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("domain error", func(t *testing.T) {
		err := uow.Do(ctx, func(ctx context.Context, tx command.Transaction) error {
			ticket, err := tx.Tickets().GetByIDWithShow(ctx, ticketID)
			require.NoError(t, err)
			require.NoError(t, ticket.Reserve(uuid.NewString(), now))
			require.NoError(t, tx.Tickets().Update(ctx, ticket))

			return entity.NewConflictError("changed my mind")
		})
		require.ErrorIs(t, err, entity.ErrConflict)
	})

	stored := getTicket(t, uow, ticketID)
	assert.Equal(t, entity.TicketStatusAvailable, stored.Status)
	assert.Equal(t, 0, stored.Version)
}

func TestTicketsRepository_duplicate_seat(t *testing.T) {
	ctx := context.Background()
	conn := db.GetDb(t)
	uow := db.NewUnitOfWork(conn)
	handler := command.NewHandler(uow, clock.Fake(now))

	showID := publishShow(t, handler, vipSeat("1"))

	seat, err := entity.NewSeat("VIP", "A", "1")
	require.NoError(t, err)
	duplicate, err := entity.NewTicket(showID, seat, decimal.NewFromInt(100), now)
	require.NoError(t, err)

	err = uow.Do(ctx, func(ctx context.Context, tx command.Transaction) error {
		return tx.Tickets().Add(ctx, duplicate)
	})
	assert.ErrorIs(t, err, entity.ErrConflict)
}

func TestUnitOfWork_publishes_to_outbox(t *testing.T) {
	ctx := context.Background()
	conn := db.GetDb(t)
	handler := command.NewHandler(db.NewUnitOfWork(conn), clock.Fake(now))

	before := countOutboxMessages(t)
	publishShow(t, handler, vipSeat("1"))
	assert.Equal(t, before+1, countOutboxMessages(t))

	_, err := handler.PublishShow(ctx, command.PublishShow{Title: ""})
	require.Error(t, err)
	assert.Equal(t, before+1, countOutboxMessages(t))
}

func TestSeedDemoData(t *testing.T) {
	ctx := context.Background()
	conn := db.GetDb(t)

	require.NoError(t, db.SeedDemoData(ctx, conn, clock.Fake(now)))
	require.NoError(t, db.SeedDemoData(ctx, conn, clock.Fake(now)))

	details, err := query.NewHandler(db.NewShowsReadModel(conn)).ShowDetails(ctx, db.DemoShowID)
	require.NoError(t, err)
	assert.Equal(t, "Rock in Rio 2026", details.Title)
	assert.Equal(t, 10, details.TotalTickets)
}

func TestDataLake_StoreEvent(t *testing.T) {
	ctx := context.Background()
	dataLake := db.NewDataLake(db.GetDb(t))

	event := entity.DataLakeEvent{
		ID:          uuid.NewString(),
		PublishedAt: now,
		Name:        "TicketReserved_v1",
		Payload:     []byte(`{"ticket_id":"1"}`),
	}

	// redelivery is ignored
	require.NoError(t, dataLake.StoreEvent(ctx, event))
	require.NoError(t, dataLake.StoreEvent(ctx, event))

	events, err := dataLake.GetEvents(ctx)
	require.NoError(t, err)

	stored := 0
	for _, e := range events {
		if e.ID == event.ID {
			stored++
			assert.JSONEq(t, string(event.Payload), string(e.Payload))
		}
	}
	assert.Equal(t, 1, stored)
}

func isConflict(err error) bool {
	return errors.Is(err, entity.ErrConflict) || errors.Is(err, entity.ErrConcurrencyConflict)
}

func getTicket(t *testing.T, uow *db.UnitOfWork, ticketID string) *entity.Ticket {
	t.Helper()

	var ticket *entity.Ticket
	err := uow.Do(context.Background(), func(ctx context.Context, tx command.Transaction) error {
		var err error
		ticket, err = tx.Tickets().GetByIDWithShow(ctx, ticketID)
		return err
	})
	require.NoError(t, err)

	return ticket
}

func countOutboxMessages(t *testing.T) int {
	t.Helper()

	var count int
	err := db.GetDb(t).Get(&count, `SELECT COUNT(*) FROM watermill_events_to_forward`)
	require.NoError(t, err)

	return count
}
