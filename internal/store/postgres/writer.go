// Package postgres is the Postgres-backed implementation of
// internal/store.Writer: a time-series point writer adapted from this
// codebase's trade-repository pattern (timeouts per call, prepared
// batch inserts in a transaction, pq error-code handling).
package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"golang.org/x/time/rate"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/store"
)

// Writer implements store.Writer against a `samples` table. Writes are
// throttled per asset_id so one noisy asset's batch flush cannot starve
// the connection pool for the rest.
type Writer struct {
	db      *sqlx.DB
	timeout time.Duration

	limitersMu sync.Mutex
	limiters   map[string]*rate.Limiter
	limit      rate.Limit
	burst      int
}

// New returns a Writer using db, bounding every call with timeout and
// throttling each asset's writes to limit batches/sec with burst.
func New(db *sqlx.DB, timeout time.Duration, limit rate.Limit, burst int) *Writer {
	return &Writer{
		db:       db,
		timeout:  timeout,
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

func (w *Writer) limiterFor(assetID string) *rate.Limiter {
	w.limitersMu.Lock()
	defer w.limitersMu.Unlock()
	l, ok := w.limiters[assetID]
	if !ok {
		l = rate.NewLimiter(w.limit, w.burst)
		w.limiters[assetID] = l
	}
	return l
}

// Schema is the DDL this writer expects; callers run it out-of-band
// (e.g. via a migration tool) before first use.
const Schema = `
CREATE TABLE IF NOT EXISTS samples (
	ts           TIMESTAMPTZ NOT NULL,
	asset_id     TEXT NOT NULL,
	asset_type   TEXT NOT NULL,
	voltage_v    DOUBLE PRECISION NOT NULL,
	current_a    DOUBLE PRECISION NOT NULL,
	power_factor DOUBLE PRECISION NOT NULL,
	vibration_g  DOUBLE PRECISION NOT NULL,
	is_faulty    BOOLEAN NOT NULL,
	PRIMARY KEY (asset_id, ts)
);
CREATE INDEX IF NOT EXISTS samples_asset_ts_idx ON samples (asset_id, ts);
`

// WritePoint inserts a single sample.
func (w *Writer) WritePoint(ctx context.Context, p store.Point) error {
	if err := w.limiterFor(p.AssetID).Wait(ctx); err != nil {
		return fmt.Errorf("store: write_point throttled: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	const query = `
		INSERT INTO samples (ts, asset_id, asset_type, voltage_v, current_a, power_factor, vibration_g, is_faulty)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (asset_id, ts) DO NOTHING`

	_, err := w.db.ExecContext(ctx, query,
		p.Timestamp, p.AssetID, p.AssetType, p.VoltageV, p.CurrentA, p.PowerFactor, p.VibrationG, p.IsFaulty)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("store: insert point (pq code %s): %w", pqErr.Code, err)
		}
		return fmt.Errorf("store: insert point: %w", err)
	}
	return nil
}

// WriteBatch inserts points atomically in one transaction.
func (w *Writer) WriteBatch(ctx context.Context, points []store.Point) error {
	if len(points) == 0 {
		return nil
	}
	if err := w.limiterFor(points[0].AssetID).Wait(ctx); err != nil {
		return fmt.Errorf("store: write_batch throttled: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout*time.Duration(len(points)/100+1))
	defer cancel()

	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO samples (ts, asset_id, asset_type, voltage_v, current_a, power_factor, vibration_g, is_faulty)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (asset_id, ts) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("store: prepare batch: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, p.Timestamp, p.AssetID, p.AssetType, p.VoltageV, p.CurrentA, p.PowerFactor, p.VibrationG, p.IsFaulty); err != nil {
			return fmt.Errorf("store: insert batch point: %w", err)
		}
	}

	return tx.Commit()
}

// QueryWindow returns every point for an asset inside tr, oldest first.
func (w *Writer) QueryWindow(ctx context.Context, assetID string, tr store.TimeRange) ([]store.Point, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	const query = `
		SELECT ts, asset_id, asset_type, voltage_v, current_a, power_factor, vibration_g, is_faulty
		FROM samples
		WHERE asset_id = $1 AND ts >= $2 AND ts <= $3
		ORDER BY ts ASC`

	rows, err := w.db.QueryxContext(ctx, query, assetID, tr.From, tr.To)
	if err != nil {
		return nil, fmt.Errorf("store: query window: %w", err)
	}
	defer rows.Close()

	var points []store.Point
	for rows.Next() {
		var p store.Point
		if err := rows.Scan(&p.Timestamp, &p.AssetID, &p.AssetType, &p.VoltageV, &p.CurrentA, &p.PowerFactor, &p.VibrationG, &p.IsFaulty); err != nil {
			return nil, fmt.Errorf("store: scan point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate window: %w", err)
	}
	return points, nil
}

// DeleteAll removes every point for an asset, used by the lifecycle
// purge operation.
func (w *Writer) DeleteAll(ctx context.Context, assetID string) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	_, err := w.db.ExecContext(ctx, `DELETE FROM samples WHERE asset_id = $1`, assetID)
	if err != nil {
		return fmt.Errorf("store: delete all: %w", err)
	}
	return nil
}
