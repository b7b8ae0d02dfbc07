package metrics

import "time"

// Recorder receives generation run observations.
type Recorder interface {
	ObserveRun(d time.Duration, success bool)
	AddFiles(group string, n int)
	AddRows(group string, n int)
}

// Noop discards everything.
type Noop struct{}

func (Noop) ObserveRun(time.Duration, bool) {}
func (Noop) AddFiles(string, int)           {}
func (Noop) AddRows(string, int)            {}
