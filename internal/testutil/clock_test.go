package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestStepClock_Advances(t *testing.T) {
	clock := NewStepClock(epoch, time.Second)

	assert.Equal(t, epoch, clock.Now())
	assert.Equal(t, epoch.Add(time.Second), clock.Now())
	assert.Equal(t, epoch.Add(2*time.Second), clock.Peek())
}

func TestStepClock_Reset(t *testing.T) {
	clock := NewStepClock(epoch, time.Minute)
	clock.Now()
	clock.Now()

	clock.Reset()
	assert.Equal(t, epoch, clock.Now())
}

func TestStepClock_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	clock := NewStepClock(epoch.In(loc), 0)

	assert.Equal(t, time.UTC, clock.Now().Location())
}

func TestStepClock_ConcurrentAccess(t *testing.T) {
	clock := NewStepClock(epoch, time.Millisecond)

	const goroutines = 50
	var wg sync.WaitGroup
	seen := make(chan time.Time, goroutines)
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- clock.Now()
		}()
	}
	wg.Wait()
	close(seen)

	unique := map[time.Time]bool{}
	for ts := range seen {
		unique[ts] = true
	}
	require.Len(t, unique, goroutines)
	assert.Equal(t, epoch.Add(goroutines*time.Millisecond), clock.Peek())
}

func TestConstantIDGenerator(t *testing.T) {
	g := NewConstantIDGenerator("fixed")
	assert.Equal(t, "fixed", g.Generate())
	assert.Equal(t, "fixed", g.Generate())

	assert.Equal(t, "test-id-default", NewConstantIDGenerator("").Generate())
}

func TestCaptureLogger(t *testing.T) {
	logger, logs := CaptureLogger()
	logger.Debug("detail", "n", 1)
	logger.Warn("careful")

	assert.Contains(t, logs.String(), "msg=detail n=1")
	assert.Contains(t, logs.String(), "level=WARN msg=careful")

	DiscardLogger().Error("dropped")
}
