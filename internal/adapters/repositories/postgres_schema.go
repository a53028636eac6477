package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
	"strings"
)

// Initialize the Postgres schema for stored stops.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createStopsQuery := `
	CREATE TABLE IF NOT EXISTS stops (
		position INTEGER PRIMARY KEY,
		address TEXT NOT NULL,
		earliest TIMESTAMPTZ NULL,
		latest TIMESTAMPTZ NULL,
		CHECK (earliest IS NULL OR latest IS NULL OR earliest <= latest)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_stops_address
    ON stops(address);
	`

	statements := []string{
		createStopsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Read and validate stops from a JSON seed file. Positions must be positive
// and unique; addresses are trimmed and must be non-empty.
func ReadStopSeed(jsonPath string) ([]*domain.Stop, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read stop seed: read %q: %w", jsonPath, err)
	}

	var data []stopRecord
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("read stop seed: parse json: %w", err)
	}

	seen := make(map[int]struct{}, len(data))
	stops := make([]*domain.Stop, 0, len(data))
	for i, item := range data {
		if item.Position <= 0 {
			return nil, fmt.Errorf("read stop seed: invalid position at index %d: %d", i+1, item.Position)
		}
		if _, ok := seen[item.Position]; ok {
			return nil, fmt.Errorf("read stop seed: duplicate position at index %d: %d", i+1, item.Position)
		}
		seen[item.Position] = struct{}{}

		item.Address = strings.TrimSpace(item.Address)
		if item.Address == "" {
			return nil, fmt.Errorf("read stop seed: item at index %d: address cannot be empty", i+1)
		}

		s := item.toStop()
		if err := s.Window.Validate(); err != nil {
			return nil, fmt.Errorf("read stop seed: item at index %d: %w", i+1, err)
		}
		stops = append(stops, s)
	}

	return stops, nil
}

// Replace the stored stops with the contents of a JSON seed file.
func SeedFromJSON(ctx context.Context, repo ports.StopRepository, jsonPath string) error {
	stops, err := ReadStopSeed(jsonPath)
	if err != nil {
		return err
	}

	if err := repo.ReplaceStops(ctx, stops); err != nil {
		return fmt.Errorf("seed stops: %w", err)
	}

	return nil
}
