package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/kauatwn/TicketFlow/command"
	"github.com/kauatwn/TicketFlow/entity"
	"github.com/kauatwn/TicketFlow/pubsub/bus"
	"github.com/kauatwn/TicketFlow/pubsub/outbox"
)

type UnitOfWork struct {
	db *sqlx.DB
}

func NewUnitOfWork(db *sqlx.DB) *UnitOfWork {
	if db == nil {
		panic("db must be set")
	}

	return &UnitOfWork{db: db}
}

// Do runs fn in a READ COMMITTED transaction. Staged updates are written just before the commit with
// a version check, it's the only thing arbitrating concurrent writers.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx command.Transaction) error) error {
	err := UpdateInTx(
		ctx,
		u.db,
		sql.LevelReadCommitted,
		func(ctx context.Context, tx *sqlx.Tx) error {
			outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
			if err != nil {
				return fmt.Errorf("could not create outbox publisher: %w", err)
			}

			eventBus, err := bus.NewEventBus(outboxPublisher)
			if err != nil {
				return fmt.Errorf("could not create event bus: %w", err)
			}

			t := &transaction{tx: tx, eventBus: eventBus, readShows: map[string]int{}}
			if err := fn(ctx, t); err != nil {
				return err
			}

			if err := ctx.Err(); err != nil {
				return fmt.Errorf("transaction abandoned before commit: %w", err)
			}

			return t.flush(ctx)
		},
	)
	if isErrorSerializationFailure(err) || isErrorDeadlock(err) {
		return entity.NewConcurrencyConflictError()
	}

	return err
}

type transaction struct {
	tx       *sqlx.Tx
	eventBus *cqrs.EventBus

	stagedShows   []dbShow
	stagedTickets []dbTicket

	// readShows holds the version of every show loaded in this transaction.
	readShows map[string]int
}

func (t *transaction) Tickets() command.TicketsRepository {
	return ticketsRepository{t: t}
}

func (t *transaction) Shows() command.ShowsRepository {
	return showsRepository{t: t}
}

func (t *transaction) Events() command.EventPublisher {
	return t.eventBus
}

func (t *transaction) flush(ctx context.Context) error {
	if err := t.checkReadShows(ctx); err != nil {
		return err
	}

	for _, show := range t.stagedShows {
		res, err := t.tx.NamedExecContext(ctx, `
			UPDATE shows
			SET title = :title,
				show_date = :show_date,
				max_tickets_per_user = :max_tickets_per_user,
				status = :status,
				version = version + 1
			WHERE id = :id AND version = :version
		`, show)
		if err := checkVersionedWrite(res, err); err != nil {
			return fmt.Errorf("could not update show %s: %w", show.ID, err)
		}
	}

	for _, ticket := range t.stagedTickets {
		res, err := t.tx.NamedExecContext(ctx, `
			UPDATE tickets
			SET price = :price,
				status = :status,
				customer_id = :customer_id,
				reserved_at = :reserved_at,
				version = version + 1
			WHERE id = :id AND version = :version
		`, ticket)
		if err := checkVersionedWrite(res, err); err != nil {
			return fmt.Errorf("could not update ticket %s: %w", ticket.ID, err)
		}
	}

	return nil
}

// checkReadShows makes decisions taken on a loaded show (e.g. that it still sells tickets) hold at commit.
// The share lock keeps the show unchanged until this transaction ends.
func (t *transaction) checkReadShows(ctx context.Context) error {
	staged := lo.SliceToMap(t.stagedShows, func(show dbShow) (string, struct{}) {
		return show.ID, struct{}{}
	})

	for showID, expectedVersion := range t.readShows {
		if _, ok := staged[showID]; ok {
			// the versioned UPDATE checks it
			continue
		}

		var version int
		err := t.tx.GetContext(ctx, &version, `SELECT version FROM shows WHERE id = $1 FOR SHARE`, showID)
		if errors.Is(err, sql.ErrNoRows) {
			return entity.NewConcurrencyConflictError()
		}
		if err := checkLockError(err); err != nil {
			return fmt.Errorf("could not check show %s: %w", showID, err)
		}

		if version != expectedVersion {
			return entity.NewConcurrencyConflictError()
		}
	}

	return nil
}

func checkLockError(err error) error {
	if isErrorSerializationFailure(err) || isErrorDeadlock(err) {
		return entity.NewConcurrencyConflictError()
	}
	return err
}

func checkVersionedWrite(res sql.Result, err error) error {
	if err := checkLockError(err); err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		// someone else bumped the version since we read it, or the row is gone
		return entity.NewConcurrencyConflictError()
	}

	return nil
}
