package compute

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabstat/adapters/stats/engine"
	"tabstat/domain/core"
	"tabstat/domain/dataset"
	domainstats "tabstat/domain/stats"
	"tabstat/internal"
)

func quietRunner(limit int) *Runner {
	return NewRunner(limit).WithLogger(internal.NewLoggerTo(io.Discard, internal.LogLevelError))
}

func snapshot(t *testing.T) *dataset.NumericSet {
	t.Helper()
	set, err := dataset.NewNumericSet(
		dataset.Floats("AGE", 22, 25, 28, dataset.NA),
		dataset.Floats("HEIGHT", 170, 180, 175, 160),
	)
	require.NoError(t, err)
	return set
}

func wait(t *testing.T, ch <-chan Outcome) Outcome {
	t.Helper()
	select {
	case out := <-ch:
		return out
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for outcome")
		return Outcome{}
	}
}

func TestSubmit_DeliversResultsInOrder(t *testing.T) {
	r := quietRunner(2)
	var calls int32
	ch := make(chan Outcome, 1)

	stats := []domainstats.Statistic{domainstats.Total, domainstats.Mode, domainstats.Correlation}
	id := r.Submit(context.Background(), snapshot(t), stats, func(o Outcome) {
		atomic.AddInt32(&calls, 1)
		ch <- o
	})

	out := wait(t, ch)
	require.NoError(t, out.Err)
	assert.Equal(t, id, out.RequestID)
	assert.False(t, out.Superseded)
	require.Len(t, out.Results, 3)
	for i, res := range out.Results {
		assert.Equal(t, stats[i], res.Statistic)
	}
	total, ok := out.Results[0].Scalar.Get("AGE")
	require.True(t, ok)
	assert.Equal(t, 75.0, total)

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Empty(t, r.Current())
}

func TestSubmit_NewerRequestSupersedes(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	var first int32 = 1

	r := quietRunner(1).WithCompute(func(set *dataset.NumericSet, s domainstats.Statistic) (domainstats.Result, error) {
		if atomic.CompareAndSwapInt32(&first, 1, 0) {
			started <- struct{}{}
			<-release
		}
		return engine.Compute(set, s)
	})

	older := make(chan Outcome, 1)
	newer := make(chan Outcome, 1)
	set := snapshot(t)

	oldID := r.Submit(context.Background(), set, []domainstats.Statistic{domainstats.Average}, func(o Outcome) { older <- o })
	<-started
	newID := r.Submit(context.Background(), set, []domainstats.Statistic{domainstats.Median}, func(o Outcome) { newer <- o })
	assert.NotEqual(t, oldID, newID)

	latest := wait(t, newer)
	require.NoError(t, latest.Err)
	assert.False(t, latest.Superseded)
	assert.Equal(t, newID, latest.RequestID)

	close(release)
	stale := wait(t, older)
	assert.True(t, stale.Superseded)
	assert.Equal(t, oldID, stale.RequestID)
}

func TestSubmit_UnknownStatistic(t *testing.T) {
	r := quietRunner(0)
	ch := make(chan Outcome, 1)
	r.Submit(context.Background(), snapshot(t), []domainstats.Statistic{"Kurtosis"}, func(o Outcome) { ch <- o })

	out := wait(t, ch)
	require.Error(t, out.Err)
	assert.ErrorIs(t, out.Err, core.ErrUnknownStatistic)
	assert.Nil(t, out.Results)
}

func TestRunSync(t *testing.T) {
	r := quietRunner(0)

	results, err := r.RunSync(context.Background(), snapshot(t), domainstats.All())
	require.NoError(t, err)
	assert.Len(t, results, len(domainstats.All()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.RunSync(ctx, snapshot(t), []domainstats.Statistic{domainstats.Total})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSync_NilSnapshot(t *testing.T) {
	results, err := quietRunner(1).RunSync(context.Background(), nil, []domainstats.Statistic{domainstats.Total, domainstats.Covariance})
	require.NoError(t, err)
	assert.Empty(t, results[0].Scalar)
	assert.Equal(t, 0, results[1].Matrix.Len())
}
