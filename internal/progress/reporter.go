// Package progress reports long-running lifecycle phases (calibration
// bursts, training) as structured log lines at a fixed sample interval,
// the headless equivalent of the interactive progress indicators this
// codebase otherwise draws to a terminal.
package progress

import (
	"time"

	"github.com/rs/zerolog"
)

// Reporter emits one log line every interval samples, plus a final
// summary line on Done.
type Reporter struct {
	phase    string
	interval int
	start    time.Time
	logger   zerolog.Logger
}

// New returns a Reporter for phase, logging through logger every
// interval samples. interval <= 0 disables intermediate reporting;
// only Done still logs.
func New(phase string, interval int, logger zerolog.Logger) *Reporter {
	return &Reporter{phase: phase, interval: interval, start: time.Now(), logger: logger}
}

// Report logs current/total progress if current lands on the interval
// boundary or is the final sample.
func (r *Reporter) Report(current, total int, message string) {
	if r.interval <= 0 {
		return
	}
	if current%r.interval != 0 && current != total {
		return
	}
	r.logger.Info().
		Str("phase", r.phase).
		Int("current", current).
		Int("total", total).
		Dur("elapsed", time.Since(r.start)).
		Msg(message)
}

// Done logs a completion summary.
func (r *Reporter) Done(message string) {
	r.logger.Info().
		Str("phase", r.phase).
		Dur("elapsed", time.Since(r.start)).
		Msg(message)
}

// Failed logs a phase failure with its cause.
func (r *Reporter) Failed(err error) {
	r.logger.Warn().
		Str("phase", r.phase).
		Dur("elapsed", time.Since(r.start)).
		Err(err).
		Msg("phase failed")
}
