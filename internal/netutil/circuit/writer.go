// Package circuit wraps the external store.Writer in a circuit breaker
// so a failing store degrades to "logged and counted" rather than
// blocking every subsequent ingestion call on a dead connection.
package circuit

import (
	"context"

	"github.com/sony/gobreaker"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/store"
)

// Writer decorates a store.Writer with a gobreaker.CircuitBreaker. Each
// method call not interruptible mid-call; callers still bound it with
// their own context deadline.
type Writer struct {
	inner   store.Writer
	breaker *gobreaker.CircuitBreaker
}

// New wraps inner with a breaker named name, opening after
// consecutiveFailures in a row and probing again after the breaker's
// default reset timeout.
func New(name string, inner store.Writer, consecutiveFailures uint32) *Writer {
	settings := gobreaker.Settings{
		Name: name,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= consecutiveFailures
		},
	}
	return &Writer{inner: inner, breaker: gobreaker.NewCircuitBreaker(settings)}
}

// State returns the breaker's current state for health/metrics reporting.
func (w *Writer) State() gobreaker.State { return w.breaker.State() }

func (w *Writer) WritePoint(ctx context.Context, p store.Point) error {
	_, err := w.breaker.Execute(func() (interface{}, error) {
		return nil, w.inner.WritePoint(ctx, p)
	})
	return err
}

func (w *Writer) WriteBatch(ctx context.Context, points []store.Point) error {
	_, err := w.breaker.Execute(func() (interface{}, error) {
		return nil, w.inner.WriteBatch(ctx, points)
	})
	return err
}

func (w *Writer) QueryWindow(ctx context.Context, assetID string, tr store.TimeRange) ([]store.Point, error) {
	result, err := w.breaker.Execute(func() (interface{}, error) {
		return w.inner.QueryWindow(ctx, assetID, tr)
	})
	if err != nil {
		return nil, err
	}
	return result.([]store.Point), nil
}

func (w *Writer) DeleteAll(ctx context.Context, assetID string) error {
	_, err := w.breaker.Execute(func() (interface{}, error) {
		return nil, w.inner.DeleteAll(ctx, assetID)
	})
	return err
}

var _ store.Writer = (*Writer)(nil)
