package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kauatwn/TicketFlow/entity"
)

type DataLake struct {
	db *sqlx.DB
}

func NewDataLake(db *sqlx.DB) DataLake {
	if db == nil {
		panic("db is nil")
	}

	return DataLake{db: db}
}

func (s DataLake) StoreEvent(
	ctx context.Context,
	dataLakeEvent entity.DataLakeEvent,
) error {
	_, err := s.db.ExecContext(
		ctx,
		`
			INSERT INTO 
			    events (event_id, published_at, event_name, event_payload) 
			VALUES 
			    ($1, $2, $3, $4)`,
		dataLakeEvent.ID,
		dataLakeEvent.PublishedAt,
		dataLakeEvent.Name,
		// as text, lib/pq would send []byte as bytea
		string(dataLakeEvent.Payload),
	)
	if isErrorUniqueViolation(err) {
		// handling re-delivery
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not store %s event in data lake: %w", dataLakeEvent.ID, err)
	}

	return nil
}

func (s DataLake) GetEvents(ctx context.Context) ([]entity.DataLakeEvent, error) {
	var events []entity.DataLakeEvent
	err := s.db.SelectContext(ctx, &events, `
		SELECT event_id, published_at, event_name, event_payload
		FROM events
		ORDER BY published_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("could not get events from data lake: %w", err)
	}

	return events, nil
}
