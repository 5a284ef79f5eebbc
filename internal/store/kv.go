// Package store provides the typed key-value persistence used by the
// reminder engine. Values are kept as strings by a Backend; KV caches them,
// parses on read and buffers writes until Flush.
package store

import (
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// ErrClosed is returned by Flush after Close.
var ErrClosed = errors.New("store is closed")

// Backend persists raw string values.
type Backend interface {
	// LoadAll returns every stored key.
	LoadAll() (map[string]string, error)
	// Apply writes set and deletes removed in one transaction.
	Apply(set map[string]string, removed []string) error
}

// KV is a typed view over a Backend.
type KV struct {
	mu      sync.Mutex
	backend Backend
	values  map[string]string
	dirty   map[string]string
	removed map[string]struct{}
	closed  bool
}

// Open loads every value from backend.
func Open(backend Backend) (*KV, error) {
	values, err := backend.LoadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load settings")
	}
	if values == nil {
		values = make(map[string]string)
	}
	return &KV{
		backend: backend,
		values:  values,
		dirty:   make(map[string]string),
		removed: make(map[string]struct{}),
	}, nil
}

func (kv *KV) raw(key string) (string, bool) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.values[key]
	return v, ok
}

func (kv *KV) put(key, value string) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if cur, ok := kv.values[key]; ok && cur == value {
		return
	}
	kv.values[key] = value
	kv.dirty[key] = value
	delete(kv.removed, key)
}

// Float returns the value for key; unparsable values count as absent.
func (kv *KV) Float(key string) (float64, bool) {
	s, ok := kv.raw(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (kv *KV) Int(key string) (int, bool) {
	s, ok := kv.raw(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (kv *KV) Bool(key string) (bool, bool) {
	s, ok := kv.raw(key)
	if !ok {
		return false, false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, false
	}
	return v, true
}

func (kv *KV) String(key string) (string, bool) {
	return kv.raw(key)
}

// Time values are stored as RFC 3339 with nanoseconds.
func (kv *KV) Time(key string) (time.Time, bool) {
	s, ok := kv.raw(key)
	if !ok {
		return time.Time{}, false
	}
	v, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return v, true
}

func (kv *KV) SetFloat(key string, v float64) {
	kv.put(key, strconv.FormatFloat(v, 'g', -1, 64))
}

func (kv *KV) SetInt(key string, v int) {
	kv.put(key, strconv.Itoa(v))
}

func (kv *KV) SetBool(key string, v bool) {
	kv.put(key, strconv.FormatBool(v))
}

func (kv *KV) SetString(key string, v string) {
	kv.put(key, v)
}

func (kv *KV) SetTime(key string, v time.Time) {
	kv.put(key, v.UTC().Format(time.RFC3339Nano))
}

// Remove deletes key.
func (kv *KV) Remove(key string) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if _, ok := kv.values[key]; !ok {
		return
	}
	delete(kv.values, key)
	delete(kv.dirty, key)
	kv.removed[key] = struct{}{}
}

// Flush writes buffered changes to the backend. Nothing is written when
// nothing changed. On failure the changes stay buffered for the next Flush.
func (kv *KV) Flush() error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.closed {
		return ErrClosed
	}
	if len(kv.dirty) == 0 && len(kv.removed) == 0 {
		return nil
	}

	removed := make([]string, 0, len(kv.removed))
	for k := range kv.removed {
		removed = append(removed, k)
	}
	if err := kv.backend.Apply(kv.dirty, removed); err != nil {
		return errors.Wrap(err, "failed to write settings")
	}
	kv.dirty = make(map[string]string)
	kv.removed = make(map[string]struct{})
	return nil
}

// Close flushes pending changes and rejects further flushes.
func (kv *KV) Close() error {
	err := kv.Flush()
	kv.mu.Lock()
	kv.closed = true
	kv.mu.Unlock()
	return err
}
