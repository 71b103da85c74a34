package main

import "github.com/BhaveshBytess/PREDICTIVE-MAINTENANCE/internal/domainerr"

// domainerrTimeout reports a CLI-local wait that never saw the target
// lifecycle state reached within its deadline.
func domainerrTimeout(phase string) error {
	return domainerr.New(domainerr.KindInternal, "pmctl: timed out waiting for "+phase+" to complete")
}
