// Package lifecycle implements the process-wide monitoring state
// machine (C8): calibration, continuous healthy monitoring, and
// fault-injection demo runs, each driven by exactly one background
// worker at a time.
package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/detector"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domainerr"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/events"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/state"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/store"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/synth"
	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/telemetry"
)

// DefaultAssetType tags persisted points when callers don't supply one.
const DefaultAssetType = "motor"

// JoinTimeout bounds how long a transition waits for the previous
// worker to exit before giving up and starting the next one anyway.
const JoinTimeout = 5 * time.Second

// Controller owns the SystemState and the single active background
// worker. All exported methods are safe for concurrent use.
type Controller struct {
	mu        sync.Mutex
	state     domain.SystemState
	assetID   string
	assetType string
	seed      int64

	cancel context.CancelFunc
	done   chan struct{}

	metrics ValidationMetrics

	store          *state.Store
	writer         store.Writer
	tel            *telemetry.Metrics
	events         *events.Engine
	detectorParams detector.Params
	log            zerolog.Logger
}

// New builds a Controller in IDLE state.
func New(st *state.Store, writer store.Writer, tel *telemetry.Metrics, engine *events.Engine, detectorParams detector.Params, logger zerolog.Logger) *Controller {
	return &Controller{
		state:          domain.StateIdle,
		assetType:      DefaultAssetType,
		seed:           1,
		store:          st,
		writer:         writer,
		tel:            tel,
		events:         engine,
		detectorParams: detectorParams,
		log:            logger,
	}
}

// State returns the current SystemState.
func (c *Controller) State() domain.SystemState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// AssetID returns the asset the active (or most recent) run targets.
func (c *Controller) AssetID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.assetID
}

// Metrics returns a snapshot of the validation counters.
func (c *Controller) Metrics() ValidationSnapshot {
	return c.metrics.Snapshot()
}

// stopWorkerLocked cancels and joins the active worker, if any. Caller
// must hold c.mu.
func (c *Controller) stopWorkerLocked() {
	if c.cancel == nil {
		return
	}
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil

	cancel()
	select {
	case <-done:
	case <-time.After(JoinTimeout):
		c.log.Warn().Str("asset_id", c.assetID).Msg("lifecycle: worker join timed out")
	}
}

// startWorkerLocked records the cancel/done handles for a freshly
// started worker. Caller must hold c.mu.
func (c *Controller) startWorkerLocked(cancel context.CancelFunc, done chan struct{}) {
	c.cancel = cancel
	c.done = done
}

// Calibrate starts a calibration run for assetID. Valid only from IDLE.
func (c *Controller) Calibrate(assetID string) error {
	c.mu.Lock()
	if c.state != domain.StateIdle {
		c.mu.Unlock()
		return domainerr.New(domainerr.KindInvalidTransition, "lifecycle: calibrate requires IDLE")
	}
	c.stopWorkerLocked()
	c.metrics.reset()
	c.state = domain.StateCalibrating
	c.assetID = assetID

	workerCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.startWorkerLocked(cancel, done)
	c.mu.Unlock()

	go c.runCalibration(workerCtx, done, assetID)
	return nil
}

// InjectFault starts a fault-injection run. Valid only from
// MONITORING_HEALTHY.
func (c *Controller) InjectFault(kind synth.FaultKind, severity synth.Severity) error {
	c.mu.Lock()
	if c.state != domain.StateMonitoringHealthy {
		c.mu.Unlock()
		return domainerr.New(domainerr.KindInvalidTransition, "lifecycle: inject_fault requires MONITORING_HEALTHY")
	}
	c.stopWorkerLocked()
	c.state = domain.StateFaultInjection
	assetID := c.assetID

	workerCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.startWorkerLocked(cancel, done)
	c.mu.Unlock()

	go c.runFaultInjection(workerCtx, done, assetID, kind, severity)
	return nil
}

// Reset returns to MONITORING_HEALTHY from either MONITORING_HEALTHY or
// FAULT_INJECTION, resuming healthy monitoring without recalibrating.
func (c *Controller) Reset() error {
	c.mu.Lock()
	if c.state != domain.StateFaultInjection && c.state != domain.StateMonitoringHealthy {
		c.mu.Unlock()
		return domainerr.New(domainerr.KindInvalidTransition, "lifecycle: reset requires MONITORING_HEALTHY or FAULT_INJECTION")
	}
	c.stopWorkerLocked()
	c.state = domain.StateMonitoringHealthy
	assetID := c.assetID

	workerCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.startWorkerLocked(cancel, done)
	c.mu.Unlock()

	go c.runHealthyMonitoring(workerCtx, done, assetID)
	return nil
}

// Stop halts the active worker and returns to IDLE. Rejected while
// CALIBRATING.
func (c *Controller) Stop() error {
	c.mu.Lock()
	if c.state == domain.StateCalibrating {
		c.mu.Unlock()
		return domainerr.New(domainerr.KindInvalidTransition, "lifecycle: stop rejected while CALIBRATING")
	}
	c.stopWorkerLocked()
	c.state = domain.StateIdle
	c.mu.Unlock()
	return nil
}

// Purge halts any active worker from any state, wipes the asset's data
// from both the external store and the StateStore, resets validation
// metrics, and returns to IDLE.
func (c *Controller) Purge(ctx context.Context) error {
	c.mu.Lock()
	c.stopWorkerLocked()
	assetID := c.assetID
	c.state = domain.StateIdle
	c.assetID = ""
	c.mu.Unlock()

	c.metrics.reset()

	if assetID == "" {
		return nil
	}
	if c.store != nil {
		c.store.ClearAsset(assetID)
	}
	if c.writer != nil {
		if err := c.writer.DeleteAll(ctx, assetID); err != nil {
			c.log.Warn().Str("asset_id", assetID).Err(err).Msg("lifecycle: purge external store failed")
			return err
		}
	}
	return nil
}
