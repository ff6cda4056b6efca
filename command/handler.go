package command

import (
	"context"
	"errors"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"

	"github.com/kauatwn/TicketFlow/clock"
	"github.com/kauatwn/TicketFlow/entity"
	"github.com/kauatwn/TicketFlow/metrics"
)

type TicketsRepository interface {
	GetByIDWithShow(ctx context.Context, ticketID string) (*entity.Ticket, error)
	Add(ctx context.Context, tickets ...*entity.Ticket) error
	// Update stages the ticket, it's written when the unit of work commits.
	Update(ctx context.Context, ticket *entity.Ticket) error
}

type ShowsRepository interface {
	GetByID(ctx context.Context, showID string) (*entity.Show, error)
	Add(ctx context.Context, show *entity.Show) error
	// Update stages the show, it's written when the unit of work commits.
	Update(ctx context.Context, show *entity.Show) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

type Transaction interface {
	Tickets() TicketsRepository
	Shows() ShowsRepository
	// Events are published only if the transaction commits.
	Events() EventPublisher
}

// UnitOfWork runs fn in a single transaction. If any staged write finds a different version
// than the one it was loaded with, nothing is persisted and entity.ErrConcurrencyConflict is returned.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

type Handler struct {
	uow   UnitOfWork
	clock clock.Clock
}

func NewHandler(uow UnitOfWork, clock clock.Clock) Handler {
	if uow == nil {
		panic("missing uow")
	}
	if clock == nil {
		panic("missing clock")
	}

	return Handler{
		uow:   uow,
		clock: clock,
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, entity.ErrValidation):
		return "invalid"
	case errors.Is(err, entity.ErrNotFound):
		return "not_found"
	case errors.Is(err, entity.ErrConcurrencyConflict):
		return "concurrency_conflict"
	case errors.Is(err, entity.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}

func observe(ctx context.Context, command string, fields logrus.Fields, start time.Time, err error) {
	result := outcome(err)
	metrics.CommandDuration.WithLabelValues(command, result).Observe(time.Since(start).Seconds())

	logger := log.FromContext(ctx).WithFields(fields).WithField("command", command)

	switch result {
	case "success":
		logger.Info("Command executed")
	case "error":
		logger.WithError(err).Error("Command failed")
	default:
		logger.WithError(err).WithField("outcome", result).Warn("Command rejected")
	}
}
