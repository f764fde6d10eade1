package supervisor_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/supervisor"
)

func init() {
	logger.InitLogger("test")
}

func TestSupervisor_StartsOnlyEnabledWorkers(t *testing.T) {
	var startedA, startedB int32

	s := supervisor.New()
	s.Register("a", supervisor.NewSimpleWorker(func() { atomic.AddInt32(&startedA, 1) }, func() {}), true)
	s.Register("b", supervisor.NewSimpleWorker(func() { atomic.AddInt32(&startedB, 1) }, func() {}), false)

	err := s.Start()
	assert.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&startedA))
	assert.EqualValues(t, 0, atomic.LoadInt32(&startedB))
}

func TestSupervisor_ShutdownStopsEnabledWorkersOnly(t *testing.T) {
	var stoppedA, stoppedB int32

	s := supervisor.New()
	s.Register("a", supervisor.NewSimpleWorker(func() {}, func() { atomic.AddInt32(&stoppedA, 1) }), true)
	s.Register("b", supervisor.NewSimpleWorker(func() {}, func() { atomic.AddInt32(&stoppedB, 1) }), false)

	require.NoError(t, s.Start())

	done := make(chan struct{})
	go func() {
		s.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not complete")
	}

	assert.EqualValues(t, 1, atomic.LoadInt32(&stoppedA))
	assert.EqualValues(t, 0, atomic.LoadInt32(&stoppedB))
}

func TestSupervisor_ShutdownIsIdempotent(t *testing.T) {
	s := supervisor.New()
	s.Register("a", supervisor.NewSimpleWorker(func() {}, func() {}), true)
	_ = s.Start()

	s.Shutdown()
	s.Shutdown() // must not panic or double-close a channel
}
