package main

import (
	"time"

	"github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domain"
)

// waitForState polls c.State() until it equals want or timeout elapses,
// returning the last-observed state either way.
func waitForState(c *app, want domain.SystemState, timeout time.Duration) domain.SystemState {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s := c.controller.State(); s == want {
			return s
		}
		time.Sleep(10 * time.Millisecond)
	}
	return c.controller.State()
}
