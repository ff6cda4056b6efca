package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

func InitializeDatabaseSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS shows (
			id UUID PRIMARY KEY,
			title VARCHAR(150) NOT NULL,
			show_date TIMESTAMPTZ NOT NULL,
			max_tickets_per_user INT NOT NULL CHECK (max_tickets_per_user > 0),
			status VARCHAR(16) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			version INT NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS tickets (
			id UUID PRIMARY KEY,
			show_id UUID NOT NULL REFERENCES shows (id) ON DELETE RESTRICT,
			seat_sector VARCHAR(20) NOT NULL,
			seat_row VARCHAR(10) NOT NULL,
			seat_number VARCHAR(10) NOT NULL,
			price NUMERIC(18, 2) NOT NULL CHECK (price > 0),
			status VARCHAR(16) NOT NULL,
			customer_id UUID,
			reserved_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			version INT NOT NULL DEFAULT 0,
			UNIQUE (show_id, seat_sector, seat_row, seat_number)
		);

		CREATE INDEX IF NOT EXISTS tickets_show_id_status_idx ON tickets (show_id, status);

		CREATE TABLE IF NOT EXISTS events (
			event_id UUID PRIMARY KEY,
			published_at TIMESTAMPTZ NOT NULL,
			event_name VARCHAR(255) NOT NULL,
			event_payload JSONB NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("could not initialize database schema: %w", err)
	}

	return nil
}
