package state

import (
	"sync"
	"testing"
	"time"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sample(i int) domain.RawSample {
	return domain.RawSample{AssetID: "m1", Timestamp: time.Now().UTC(), VoltageV: float64(i)}
}

func TestAppendSamplesRingBounded(t *testing.T) {
	s := New()
	for i := 0; i < HistoryCapacity+50; i++ {
		s.AppendSamples("m1", []domain.RawSample{sample(i)})
	}
	history := s.History("m1", 0)
	assert.Len(t, history, HistoryCapacity)
	assert.Equal(t, float64(HistoryCapacity+49), history[len(history)-1].VoltageV)
}

func TestHistoryLimit(t *testing.T) {
	s := New()
	for i := 0; i < 10; i++ {
		s.AppendSamples("m1", []domain.RawSample{sample(i)})
	}
	history := s.History("m1", 3)
	assert.Len(t, history, 3)
	assert.Equal(t, float64(9), history[2].VoltageV)
}

func TestSetDetectorNilLeavesNoDetector(t *testing.T) {
	s := New()
	assert.Nil(t, s.Detector("m1"))
	s.SetDetector("m1", nil)
	assert.Nil(t, s.Detector("m1"))
}

func TestClearAllRemovesEveryAsset(t *testing.T) {
	s := New()
	s.AppendSamples("m1", []domain.RawSample{sample(1)})
	s.AppendSamples("m2", []domain.RawSample{sample(2)})
	s.ClearAll()
	assert.False(t, s.HasData("m1"))
	assert.False(t, s.HasData("m2"))
}

func TestConcurrentAccessDoesNotRace(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.AppendSamples("m1", []domain.RawSample{sample(i)})
			_ = s.History("m1", 5)
		}(i)
	}
	wg.Wait()
	assert.True(t, s.HasData("m1"))
}
