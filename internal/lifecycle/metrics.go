package lifecycle

import "sync"

// ValidationMetrics tracks how well classification under a monitoring
// run matched the run's known ground truth (healthy vs. fault-injected).
type ValidationMetrics struct {
	mu              sync.Mutex
	trainingSamples int
	healthyTotal    int
	healthyCorrect  int
	faultyTotal     int
	faultyCorrect   int
}

// ValidationSnapshot is an immutable copy of ValidationMetrics plus its
// derived rates.
type ValidationSnapshot struct {
	TrainingSamples  int
	HealthyTotal     int
	HealthyCorrect   int
	FaultyTotal      int
	FaultyCorrect    int
	HealthyStability float64
	FaultCaptureRate float64
}

func (m *ValidationMetrics) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trainingSamples = 0
	m.healthyTotal = 0
	m.healthyCorrect = 0
	m.faultyTotal = 0
	m.faultyCorrect = 0
}

func (m *ValidationMetrics) recordTrainingSamples(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trainingSamples = n
}

func (m *ValidationMetrics) recordHealthyOutcome(lowRisk bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthyTotal++
	if lowRisk {
		m.healthyCorrect++
	}
}

func (m *ValidationMetrics) recordFaultyOutcome(highRisk bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faultyTotal++
	if highRisk {
		m.faultyCorrect++
	}
}

// Snapshot returns a defensive copy with derived rates, defaulting to
// 1.0 when the corresponding denominator is zero.
func (m *ValidationMetrics) Snapshot() ValidationSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := ValidationSnapshot{
		TrainingSamples: m.trainingSamples,
		HealthyTotal:    m.healthyTotal,
		HealthyCorrect:  m.healthyCorrect,
		FaultyTotal:     m.faultyTotal,
		FaultyCorrect:   m.faultyCorrect,
	}
	if s.HealthyTotal == 0 {
		s.HealthyStability = 1.0
	} else {
		s.HealthyStability = float64(s.HealthyCorrect) / float64(s.HealthyTotal)
	}
	if s.FaultyTotal == 0 {
		s.FaultCaptureRate = 1.0
	} else {
		s.FaultCaptureRate = float64(s.FaultyCorrect) / float64(s.FaultyTotal)
	}
	return s
}
