// Package memstore is an in-process store.Writer used when no external
// database DSN is configured, for local demos and the CLI's one-shot
// subcommands. It keeps the same per-asset locking shape as
// internal/state.Store rather than one global mutex.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/store"
)

type assetLog struct {
	mu     sync.RWMutex
	points []store.Point
}

// Writer is an in-memory store.Writer, durable only for the life of the
// process.
type Writer struct {
	mapMu sync.RWMutex
	logs  map[string]*assetLog
}

// New returns an empty Writer.
func New() *Writer {
	return &Writer{logs: make(map[string]*assetLog)}
}

func (w *Writer) logFor(assetID string) *assetLog {
	w.mapMu.RLock()
	l, ok := w.logs[assetID]
	w.mapMu.RUnlock()
	if ok {
		return l
	}

	w.mapMu.Lock()
	defer w.mapMu.Unlock()
	if l, ok = w.logs[assetID]; ok {
		return l
	}
	l = &assetLog{}
	w.logs[assetID] = l
	return l
}

func (w *Writer) WritePoint(ctx context.Context, p store.Point) error {
	l := w.logFor(p.AssetID)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.points = append(l.points, p)
	return nil
}

func (w *Writer) WriteBatch(ctx context.Context, points []store.Point) error {
	for _, p := range points {
		if err := w.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// QueryWindow returns every point for assetID with ts in [tr.From,
// tr.To], oldest first.
func (w *Writer) QueryWindow(ctx context.Context, assetID string, tr store.TimeRange) ([]store.Point, error) {
	l := w.logFor(assetID)
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]store.Point, 0, len(l.points))
	for _, p := range l.points {
		if !p.Timestamp.Before(tr.From) && !p.Timestamp.After(tr.To) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (w *Writer) DeleteAll(ctx context.Context, assetID string) error {
	l := w.logFor(assetID)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.points = nil
	return nil
}
