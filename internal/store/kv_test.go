package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedRoundTrip(t *testing.T) {
	backend := NewMemory()
	kv, err := Open(backend)
	require.NoError(t, err)

	end := time.Date(2026, 3, 2, 9, 5, 0, 250, time.FixedZone("CET", 3600))
	kv.SetFloat("f", 20.5)
	kv.SetInt("i", -7)
	kv.SetBool("b", true)
	kv.SetString("s", "resting")
	kv.SetTime("t", end)
	require.NoError(t, kv.Flush())

	reopened, err := Open(backend)
	require.NoError(t, err)

	f, ok := reopened.Float("f")
	assert.True(t, ok)
	assert.Equal(t, 20.5, f)

	i, ok := reopened.Int("i")
	assert.True(t, ok)
	assert.Equal(t, -7, i)

	b, ok := reopened.Bool("b")
	assert.True(t, ok)
	assert.True(t, b)

	s, ok := reopened.String("s")
	assert.True(t, ok)
	assert.Equal(t, "resting", s)

	got, ok := reopened.Time("t")
	assert.True(t, ok)
	assert.True(t, end.Equal(got))

	raw, _ := backend.Raw("t")
	assert.Equal(t, "2026-03-02T08:05:00.00000025Z", raw)
}

func TestUnparsableValuesAreAbsent(t *testing.T) {
	backend := NewMemory()
	backend.Put("f", "twenty")
	backend.Put("i", "1.5")
	backend.Put("b", "perhaps")
	backend.Put("t", "tomorrow")

	kv, err := Open(backend)
	require.NoError(t, err)

	_, ok := kv.Float("f")
	assert.False(t, ok)
	_, ok = kv.Int("i")
	assert.False(t, ok)
	_, ok = kv.Bool("b")
	assert.False(t, ok)
	_, ok = kv.Time("t")
	assert.False(t, ok)
	_, ok = kv.String("missing")
	assert.False(t, ok)
}

func TestFlushWritesOnlyChanges(t *testing.T) {
	backend := NewMemory()
	kv, err := Open(backend)
	require.NoError(t, err)

	require.NoError(t, kv.Flush())
	assert.Equal(t, 0, backend.Writes())

	kv.SetInt("i", 1)
	require.NoError(t, kv.Flush())
	assert.Equal(t, 1, backend.Writes())

	kv.SetInt("i", 1)
	require.NoError(t, kv.Flush())
	assert.Equal(t, 1, backend.Writes(), "unchanged value must not be written")
}

func TestRemove(t *testing.T) {
	backend := NewMemory()
	backend.Put("gone", "x")
	kv, err := Open(backend)
	require.NoError(t, err)

	kv.Remove("gone")
	kv.Remove("never-there")
	_, ok := kv.String("gone")
	assert.False(t, ok)
	require.NoError(t, kv.Flush())

	_, ok = backend.Raw("gone")
	assert.False(t, ok)

	// Setting a removed key again cancels the removal.
	kv.SetString("gone", "back")
	require.NoError(t, kv.Flush())
	v, ok := backend.Raw("gone")
	assert.True(t, ok)
	assert.Equal(t, "back", v)
}

func TestFailedFlushKeepsChanges(t *testing.T) {
	backend := NewMemory()
	kv, err := Open(backend)
	require.NoError(t, err)

	backend.FailWrites(errors.New("disk full"))
	kv.SetInt("i", 3)
	err = kv.Flush()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	backend.FailWrites(nil)
	require.NoError(t, kv.Flush())
	v, ok := backend.Raw("i")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
}

func TestClose(t *testing.T) {
	backend := NewMemory()
	kv, err := Open(backend)
	require.NoError(t, err)

	kv.SetBool("b", false)
	require.NoError(t, kv.Close())
	_, ok := backend.Raw("b")
	assert.True(t, ok)

	assert.ErrorIs(t, kv.Flush(), ErrClosed)
}

type failingBackend struct{}

func (failingBackend) LoadAll() (map[string]string, error) { return nil, errors.New("locked") }

func (failingBackend) Apply(map[string]string, []string) error { return nil }

func TestOpenFailure(t *testing.T) {
	_, err := Open(failingBackend{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load settings")
}
