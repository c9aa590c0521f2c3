package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordMonitor struct {
	err     error
	tags    map[string]string
	flushed time.Duration
}

func (r *recordMonitor) CaptureException(err error, tags map[string]string) {
	r.err = err
	r.tags = tags
}
func (r *recordMonitor) Recover()              {}
func (r *recordMonitor) Flush(d time.Duration) { r.flushed = d }

func TestCaptureRunError(t *testing.T) {
	mon := &recordMonitor{}
	Init(mon)
	defer Init(NopMonitor{})

	boom := errors.New("boom")
	CaptureRunError("run-1", StageSolve, boom)
	assert.Equal(t, boom, mon.err)
	assert.Equal(t, map[string]string{"run_id": "run-1", "stage": "solve"}, mon.tags)

	Flush(time.Second)
	assert.Equal(t, time.Second, mon.flushed)
	assert.Same(t, mon, Current())
}

func TestInitIgnoresNil(t *testing.T) {
	Init(nil)
	_, ok := Current().(NopMonitor)
	assert.True(t, ok)
}
