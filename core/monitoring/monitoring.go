package monitoring

import "time"

// Stages of a planning run reported with captured errors.
const (
	StageLoad    = "load"
	StageBuild   = "build"
	StageSolve   = "solve"
	StageExtract = "extract"
	StageWrite   = "write"
	StageHistory = "history"
	StagePublish = "publish"
)

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Recover()
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}

var current Monitor = NopMonitor{}

// Init sets the global monitor implementation.
func Init(m Monitor) {
	if m != nil {
		current = m
	}
}

// Current returns the global monitor.
func Current() Monitor { return current }

// RunTags returns the tags identifying a failure of runID at stage.
func RunTags(runID, stage string) map[string]string {
	return map[string]string{"run_id": runID, "stage": stage}
}

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	if current != nil {
		current.CaptureException(err, tags)
	}
}

// CaptureRunError records err as a failure of runID at stage.
func CaptureRunError(runID, stage string, err error) {
	CaptureException(err, RunTags(runID, stage))
}

// Recover captures panics in goroutines.
func Recover() {
	if current != nil {
		current.Recover()
	}
}

// Flush flushes buffered events.
func Flush(d time.Duration) {
	if current != nil {
		current.Flush(d)
	}
}
