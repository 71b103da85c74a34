package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/store"
)

func TestWriteAndQueryWindowFiltersByTimeAndAsset(t *testing.T) {
	w := New()
	now := time.Now().UTC()

	require.NoError(t, w.WritePoint(context.Background(), store.Point{AssetID: "m1", Timestamp: now.Add(-time.Hour)}))
	require.NoError(t, w.WritePoint(context.Background(), store.Point{AssetID: "m1", Timestamp: now}))
	require.NoError(t, w.WritePoint(context.Background(), store.Point{AssetID: "m2", Timestamp: now}))

	points, err := w.QueryWindow(context.Background(), "m1", store.TimeRange{From: now.Add(-time.Minute), To: now.Add(time.Minute)})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "m1", points[0].AssetID)
}

func TestDeleteAllOnlyClearsNamedAsset(t *testing.T) {
	w := New()
	now := time.Now().UTC()
	require.NoError(t, w.WriteBatch(context.Background(), []store.Point{
		{AssetID: "m1", Timestamp: now},
		{AssetID: "m2", Timestamp: now},
	}))

	require.NoError(t, w.DeleteAll(context.Background(), "m1"))

	m1, err := w.QueryWindow(context.Background(), "m1", store.TimeRange{From: now.Add(-time.Hour), To: now.Add(time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, m1)

	m2, err := w.QueryWindow(context.Background(), "m2", store.TimeRange{From: now.Add(-time.Hour), To: now.Add(time.Hour)})
	require.NoError(t, err)
	assert.Len(t, m2, 1)
}
