package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kauatwn/TicketFlow/entity"
)

type CancelShow struct {
	ShowID string `json:"show_id" validate:"required,uuid"`
}

type FinishShow struct {
	ShowID string `json:"show_id" validate:"required,uuid"`
}

func (h Handler) CancelShow(ctx context.Context, cmd CancelShow) (err error) {
	start := time.Now()
	defer func() {
		observe(ctx, "CancelShow", logrus.Fields{"show_id": cmd.ShowID}, start, err)
	}()

	return h.updateShow(ctx, cmd, cmd.ShowID, func(show *entity.Show) (any, error) {
		if err := show.Cancel(); err != nil {
			return nil, err
		}

		return entity.ShowCancelled_v1{
			Header: entity.NewEventHeader(h.clock.Now()),
			ShowID: show.ID,
		}, nil
	})
}

func (h Handler) FinishShow(ctx context.Context, cmd FinishShow) (err error) {
	start := time.Now()
	defer func() {
		observe(ctx, "FinishShow", logrus.Fields{"show_id": cmd.ShowID}, start, err)
	}()

	return h.updateShow(ctx, cmd, cmd.ShowID, func(show *entity.Show) (any, error) {
		now := h.clock.Now()
		if err := show.Finish(now); err != nil {
			return nil, err
		}

		return entity.ShowFinished_v1{
			Header: entity.NewEventHeader(now),
			ShowID: show.ID,
		}, nil
	})
}

// updateShow validates cmd, loads the show, applies updateFn and stages the result together with the returned event.
// When updateFn leaves the status untouched nothing is written.
func (h Handler) updateShow(
	ctx context.Context,
	cmd any,
	showID string,
	updateFn func(show *entity.Show) (any, error),
) error {
	if err := validateCommand(cmd); err != nil {
		return err
	}

	return h.uow.Do(ctx, func(ctx context.Context, tx Transaction) error {
		show, err := tx.Shows().GetByID(ctx, showID)
		if errors.Is(err, entity.ErrNotFound) {
			return entity.NewNotFoundError("Show with ID '%s' not found.", showID)
		}
		if err != nil {
			return fmt.Errorf("could not get show: %w", err)
		}

		statusBefore := show.Status

		event, err := updateFn(show)
		if err != nil {
			return err
		}

		if show.Status == statusBefore {
			return nil
		}

		if err := tx.Shows().Update(ctx, show); err != nil {
			return fmt.Errorf("could not update show: %w", err)
		}

		if err := tx.Events().Publish(ctx, event); err != nil {
			return fmt.Errorf("could not publish %T: %w", event, err)
		}

		return nil
	})
}
