// Package store defines the external durability contract: a point-writer
// that the ingestion pipeline persists every sample (or a sampled
// fraction) to, independent of the in-memory StateStore. Failures here
// are logged and counted but never block ingestion.
package store

import (
	"context"
	"time"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
)

// TimeRange bounds a query_window call.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// Point is the canonical persisted sample record: asset_id and
// asset_type are low-cardinality tags, everything else (including
// is_faulty) is a field, to avoid series cardinality blow-up.
type Point struct {
	Timestamp   time.Time
	AssetID     string
	AssetType   string
	VoltageV    float64
	CurrentA    float64
	PowerFactor float64
	VibrationG  float64
	IsFaulty    bool
}

// PointFromSample adapts a domain.RawSample into a persisted Point.
func PointFromSample(s domain.RawSample, assetType string) Point {
	return Point{
		Timestamp:   s.Timestamp,
		AssetID:     s.AssetID,
		AssetType:   assetType,
		VoltageV:    s.VoltageV,
		CurrentA:    s.CurrentA,
		PowerFactor: s.PowerFactor,
		VibrationG:  s.VibrationG,
		IsFaulty:    s.IsFaulty,
	}
}

// Writer is the external point-writer contract used by the ingestion
// pipeline and the lifecycle workers for durability.
type Writer interface {
	WritePoint(ctx context.Context, p Point) error
	WriteBatch(ctx context.Context, points []Point) error
	QueryWindow(ctx context.Context, assetID string, tr TimeRange) ([]Point, error)
	DeleteAll(ctx context.Context, assetID string) error
}
