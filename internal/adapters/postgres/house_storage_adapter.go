package postgres

import (
	"context"
	"fmt"

	"eri-tracker-service/internal/core/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HouseStorageAdapter реализует HouseStoragePort для PostgreSQL.
type HouseStorageAdapter struct {
	pool *pgxpool.Pool
}

// NewHouseStorageAdapter создает новый экземпляр адаптера.
func NewHouseStorageAdapter(pool *pgxpool.Pool) (*HouseStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &HouseStorageAdapter{pool: pool}, nil
}

// EnsureSchema создает таблицу houses, если ее еще нет.
func (a *HouseStorageAdapter) EnsureSchema(ctx context.Context) error {
	_, err := a.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS houses (
			id              BIGINT PRIMARY KEY,
			position        TEXT NOT NULL DEFAULT '',
			state_type      TEXT NOT NULL DEFAULT '',
			state_date      TEXT,
			inspection_date TEXT,
			link            TEXT NOT NULL DEFAULT '',
			actual          BOOLEAN NOT NULL DEFAULT TRUE,
			latitude        DOUBLE PRECISION,
			longitude       DOUBLE PRECISION,
			geohash         TEXT
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure houses schema: %w", err)
	}
	return nil
}

// ReplaceRegion приводит строки региона к входящему набору в одной
// транзакции. До коммита прежнее состояние полностью сохраняется.
func (a *HouseStorageAdapter) ReplaceRegion(ctx context.Context, region string, houses []domain.House) (*domain.ReconcileReport, error) {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Шаг 1: идентификаторы всех строк региона
	rows, err := tx.Query(ctx, `SELECT id FROM houses WHERE position ILIKE '%' || $1 || '%'`, region)
	if err != nil {
		return nil, fmt.Errorf("failed to select persisted ids for region: %w", err)
	}
	var persistedIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan persisted id: %w", err)
		}
		persistedIDs = append(persistedIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read persisted ids: %w", err)
	}

	report := &domain.ReconcileReport{}

	// Шаг 2: удаляем строки, которых нет во входящем наборе
	staleIDs := domain.StaleHouseIDs(persistedIDs, houses)
	if len(staleIDs) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM houses WHERE id = ANY($1)`, staleIDs); err != nil {
			return nil, fmt.Errorf("failed to delete stale houses: %w", err)
		}
		report.Deleted = len(staleIDs)
	}

	// Шаг 3: upsert каждой входящей строки; (xmax = 0) отличает вставку
	// от обновления
	const upsertSQL = `
		INSERT INTO houses (id, position, state_type, state_date, inspection_date, link, actual, latitude, longitude, geohash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			position        = EXCLUDED.position,
			state_type      = EXCLUDED.state_type,
			state_date      = EXCLUDED.state_date,
			inspection_date = EXCLUDED.inspection_date,
			link            = EXCLUDED.link,
			actual          = EXCLUDED.actual,
			latitude        = EXCLUDED.latitude,
			longitude       = EXCLUDED.longitude,
			geohash         = EXCLUDED.geohash
		RETURNING (xmax = 0) AS inserted;
	`
	for _, h := range houses {
		var inserted bool
		err := tx.QueryRow(ctx, upsertSQL,
			h.ID, h.Position, h.StateType, h.StateDate, h.InspectionDate,
			h.Link, h.Actual, h.Latitude, h.Longitude, h.Geohash,
		).Scan(&inserted)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert house %d: %w", h.ID, err)
		}
		if inserted {
			report.Added++
			report.Inserted = append(report.Inserted, h)
		} else {
			report.Updated++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit reconciliation: %w", err)
	}
	return report, nil
}

const selectColumns = `id, position, state_type, state_date, inspection_date, link, actual, latitude, longitude, geohash`

// ListAll возвращает все сохраненные строки.
func (a *HouseStorageAdapter) ListAll(ctx context.Context) ([]domain.House, error) {
	rows, err := a.pool.Query(ctx, `SELECT `+selectColumns+` FROM houses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select houses: %w", err)
	}
	defer rows.Close()
	return scanHouses(rows)
}

// GetByID возвращает одну строку или nil, если ее нет.
func (a *HouseStorageAdapter) GetByID(ctx context.Context, id int64) (*domain.House, error) {
	rows, err := a.pool.Query(ctx, `SELECT `+selectColumns+` FROM houses WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to select house %d: %w", id, err)
	}
	defer rows.Close()

	houses, err := scanHouses(rows)
	if err != nil {
		return nil, err
	}
	if len(houses) == 0 {
		return nil, nil
	}
	return &houses[0], nil
}

// ListWithoutCoordinates возвращает строки с незаполненной широтой.
func (a *HouseStorageAdapter) ListWithoutCoordinates(ctx context.Context) ([]domain.House, error) {
	rows, err := a.pool.Query(ctx, `SELECT `+selectColumns+` FROM houses WHERE latitude IS NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select houses without coordinates: %w", err)
	}
	defer rows.Close()
	return scanHouses(rows)
}

// UpdateCoordinates заполняет координаты и geohash одной строки.
func (a *HouseStorageAdapter) UpdateCoordinates(ctx context.Context, id int64, coords domain.Coordinates, geohash string) error {
	tag, err := a.pool.Exec(ctx,
		`UPDATE houses SET latitude = $2, longitude = $3, geohash = $4 WHERE id = $1`,
		id, coords.Lat, coords.Lon, geohash,
	)
	if err != nil {
		return fmt.Errorf("failed to update coordinates for house %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("house %d not found", id)
	}
	return nil
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanHouses(rows pgxRows) ([]domain.House, error) {
	var houses []domain.House
	for rows.Next() {
		var h domain.House
		err := rows.Scan(
			&h.ID, &h.Position, &h.StateType, &h.StateDate, &h.InspectionDate,
			&h.Link, &h.Actual, &h.Latitude, &h.Longitude, &h.Geohash,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan house row: %w", err)
		}
		houses = append(houses, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read house rows: %w", err)
	}
	return houses, nil
}
