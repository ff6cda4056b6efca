package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kauatwn/TicketFlow/entity"
)

type dbShow struct {
	ID                string    `db:"id"`
	Title             string    `db:"title"`
	Date              time.Time `db:"show_date"`
	MaxTicketsPerUser int       `db:"max_tickets_per_user"`
	Status            string    `db:"status"`
	CreatedAt         time.Time `db:"created_at"`
	Version           int       `db:"version"`
}

func newDBShow(show *entity.Show) dbShow {
	return dbShow{
		ID:                show.ID,
		Title:             show.Title,
		Date:              show.Date,
		MaxTicketsPerUser: show.MaxTicketsPerUser,
		Status:            string(show.Status),
		CreatedAt:         show.CreatedAt,
		Version:           show.Version,
	}
}

func (s dbShow) toEntity() *entity.Show {
	return &entity.Show{
		ID:                s.ID,
		Title:             s.Title,
		Date:              s.Date.UTC(),
		MaxTicketsPerUser: s.MaxTicketsPerUser,
		Status:            entity.ShowStatus(s.Status),
		CreatedAt:         s.CreatedAt.UTC(),
		Version:           s.Version,
	}
}

type showsRepository struct {
	t *transaction
}

func (r showsRepository) GetByID(ctx context.Context, showID string) (*entity.Show, error) {
	var show dbShow
	err := r.t.tx.GetContext(ctx, &show, `
		SELECT id, title, show_date, max_tickets_per_user, status, created_at, version
		FROM shows
		WHERE id = $1
	`, showID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not get show %s: %w", showID, err)
	}

	r.t.readShows[show.ID] = show.Version

	return show.toEntity(), nil
}

func (r showsRepository) Add(ctx context.Context, show *entity.Show) error {
	_, err := r.t.tx.NamedExecContext(ctx, `
		INSERT INTO shows (id, title, show_date, max_tickets_per_user, status, created_at, version)
		VALUES (:id, :title, :show_date, :max_tickets_per_user, :status, :created_at, :version)
	`, newDBShow(show))
	if isErrorUniqueViolation(err) {
		return entity.NewConflictError("Show with ID '%s' already exists.", show.ID)
	}
	if err != nil {
		return fmt.Errorf("could not insert show: %w", err)
	}

	return nil
}

func (r showsRepository) Update(_ context.Context, show *entity.Show) error {
	r.t.stagedShows = append(r.t.stagedShows, newDBShow(show))
	return nil
}
