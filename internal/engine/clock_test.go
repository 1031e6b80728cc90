package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock_Next(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(0), c.Current())

	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())
}

func TestClock_ConcurrentNextIsUnique(t *testing.T) {
	c := NewClock()
	const goroutines, perGoroutine = 8, 100

	var mu sync.Mutex
	seen := make(map[int64]bool, goroutines*perGoroutine)
	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perGoroutine {
				seq := c.Next()
				mu.Lock()
				seen[seq] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*perGoroutine)
	assert.Equal(t, int64(goroutines*perGoroutine), c.Current())
}

func TestRun_SeqStampsIncrease(t *testing.T) {
	obs := &recordingObserver{}
	r := newRun(closedSequence(2), WithObserver(obs))

	before := r.View().Seq
	require.NoError(t, r.BeginSequence())
	afterBegin := r.View().Seq
	assert.Greater(t, afterBegin, before)

	_, err := r.SubmitAnswer(wrong)
	require.NoError(t, err)
	_, err = r.SubmitAnswer(right)
	require.NoError(t, err)

	require.Len(t, obs.answers, 2)
	assert.Greater(t, obs.answers[0].Seq, afterBegin)
	assert.Greater(t, obs.answers[1].Seq, obs.answers[0].Seq)
	assert.GreaterOrEqual(t, r.View().Seq, obs.answers[1].Seq)
}
