package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"time"
)

// Postgres-backed implementation of the StopRepository port.
type PostgresStopRepository struct{ DB *sql.DB }

func NewPostgresStopRepository(db *sql.DB) *PostgresStopRepository {
	return &PostgresStopRepository{DB: db}
}

// Return all stored stops ordered by position.
func (s *PostgresStopRepository) ListStops(ctx context.Context) (_ []*domain.Stop, err error) {
	defer obs.Time(ctx, "stops.postgres.List")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres stop repository: DB is nil")
	}

	query := `
	SELECT
		position,
		address,
		earliest,
		latest
	FROM stops
	ORDER BY position;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stops: query stops table: %w", err)
	}
	defer rows.Close()

	stops := make([]*domain.Stop, 0, 64)
	for rows.Next() {
		var (
			position         int
			address          string
			earliest, latest sql.NullTime
		)
		if err := rows.Scan(&position, &address, &earliest, &latest); err != nil {
			return nil, fmt.Errorf("list stops: scan row: %w", err)
		}
		stops = append(stops, &domain.Stop{
			Position: position,
			Address:  address,
			Window: domain.TimeWindow{
				Earliest: nullTimePtr(earliest),
				Latest:   nullTimePtr(latest),
			},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stops: row iteration: %w", err)
	}

	return stops, nil
}

// Replace every stored stop in a single transaction.
func (s *PostgresStopRepository) ReplaceStops(ctx context.Context, stops []*domain.Stop) (err error) {
	defer obs.Time(ctx, "stops.postgres.Replace")(&err)

	if s.DB == nil {
		return errors.New("postgres stop repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace stops: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM stops;`); err != nil {
		return fmt.Errorf("replace stops: clear table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO stops (position, address, earliest, latest)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (position) DO UPDATE
	SET address = EXCLUDED.address,
		earliest = EXCLUDED.earliest,
		latest = EXCLUDED.latest;
	`)
	if err != nil {
		return fmt.Errorf("replace stops: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, st := range stops {
		if _, err := stmt.ExecContext(ctx, st.Position, st.Address, st.Window.Earliest, st.Window.Latest); err != nil {
			return fmt.Errorf("replace stops: insert position=%d: %w", st.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace stops: commit tx: %w", err)
	}

	return nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
