package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kauatwn/TicketFlow/entity"
)

// ReadModel is served by plain reads outside of any transaction, so results may be slightly stale.
type ReadModel interface {
	ShowDetails(ctx context.Context, showID string) (entity.ShowDetails, error)
	AvailableTickets(ctx context.Context, showID string) ([]entity.AvailableTicket, error)
}

type Handler struct {
	readModel ReadModel
}

func NewHandler(readModel ReadModel) Handler {
	if readModel == nil {
		panic("missing readModel")
	}

	return Handler{readModel: readModel}
}

// ShowDetails returns entity.ErrNotFound when there is no show with the given ID.
func (h Handler) ShowDetails(ctx context.Context, showID string) (entity.ShowDetails, error) {
	if !isUUID(showID) {
		return entity.ShowDetails{}, entity.NewNotFoundError("Show with ID '%s' not found.", showID)
	}

	details, err := h.readModel.ShowDetails(ctx, showID)
	if errors.Is(err, entity.ErrNotFound) {
		return entity.ShowDetails{}, entity.NewNotFoundError("Show with ID '%s' not found.", showID)
	}
	if err != nil {
		return entity.ShowDetails{}, fmt.Errorf("could not get show details: %w", err)
	}

	return details, nil
}

// AvailableTickets is empty, never nil, when the show doesn't exist or has nothing left to sell.
func (h Handler) AvailableTickets(ctx context.Context, showID string) ([]entity.AvailableTicket, error) {
	if !isUUID(showID) {
		return []entity.AvailableTicket{}, nil
	}

	tickets, err := h.readModel.AvailableTickets(ctx, showID)
	if err != nil {
		return nil, fmt.Errorf("could not get available tickets: %w", err)
	}
	if tickets == nil {
		tickets = []entity.AvailableTicket{}
	}

	return tickets, nil
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
