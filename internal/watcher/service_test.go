package watcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedDetector struct {
	mu     sync.Mutex
	states []bool
	errs   []error
	calls  int
}

func (d *scriptedDetector) IsScreenLocked() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.calls
	d.calls++
	if i < len(d.errs) && d.errs[i] != nil {
		return false, d.errs[i]
	}
	if i >= len(d.states) {
		return d.states[len(d.states)-1], nil
	}
	return d.states[i], nil
}

type collector struct {
	mu   sync.Mutex
	seen []bool
}

func (c *collector) sink(locked bool) {
	c.mu.Lock()
	c.seen = append(c.seen, locked)
	c.mu.Unlock()
}

func (c *collector) values() []bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]bool(nil), c.seen...)
}

func TestPollDeliversFirstStateThenChanges(t *testing.T) {
	det := &scriptedDetector{states: []bool{false, false, true, true, false}}
	c := &collector{}
	s := NewService(time.Second, det, c.sink)

	for i := 0; i < 5; i++ {
		s.pollOnce()
	}
	assert.Equal(t, []bool{false, true, false}, c.values())
}

func TestPollKeepsStateOnError(t *testing.T) {
	boom := errors.New("boom")
	det := &scriptedDetector{
		states: []bool{true, false, true},
		errs:   []error{nil, boom, nil},
	}
	c := &collector{}
	s := NewService(time.Second, det, c.sink)

	for i := 0; i < 3; i++ {
		s.pollOnce()
	}
	assert.Equal(t, []bool{true}, c.values())
}

func TestStartStop(t *testing.T) {
	det := &scriptedDetector{states: []bool{true}}
	c := &collector{}
	s := NewService(10*time.Millisecond, det, c.sink)

	done := make(chan error, 1)
	go func() { done <- s.Start(context.Background()) }()

	require.Eventually(t, s.IsRunning, time.Second, 5*time.Millisecond)
	assert.Error(t, s.Start(context.Background()), "second Start must fail while running")

	s.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
	assert.False(t, s.IsRunning())
	assert.Equal(t, []bool{true}, c.values())
}

func TestStartEndsWithContext(t *testing.T) {
	det := &scriptedDetector{states: []bool{false}}
	s := NewService(10*time.Millisecond, det, func(bool) {})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	require.Eventually(t, s.IsRunning, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
