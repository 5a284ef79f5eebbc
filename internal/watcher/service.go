// Package watcher polls the session lock state and feeds changes into the
// reminder engine.
package watcher

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// LockDetector reports whether the user's session is locked.
type LockDetector interface {
	IsScreenLocked() (bool, error)
}

// Sink receives lock state changes.
type Sink func(locked bool)

type Service struct {
	interval time.Duration
	detector LockDetector
	sink     Sink

	mu       sync.Mutex
	stopChan chan struct{}
	running  bool
	known    bool
	last     bool
}

func NewService(interval time.Duration, detector LockDetector, sink Sink) *Service {
	return &Service{
		interval: interval,
		detector: detector,
		sink:     sink,
		stopChan: make(chan struct{}),
	}
}

// Start polls until ctx is done or Stop is called. The first observed state
// is always delivered; after that only changes are.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("lock watcher is already running")
	}
	s.running = true
	stop := s.stopChan
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	log.Printf("Starting lock watcher with %v poll interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.pollOnce()

	for {
		select {
		case <-ctx.Done():
			log.Println("Lock watcher stopped by context")
			return ctx.Err()

		case <-stop:
			log.Println("Lock watcher stopped")
			return nil

		case <-ticker.C:
			s.pollOnce()
		}
	}
}

func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		close(s.stopChan)
		s.stopChan = make(chan struct{})
	}
}

func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// pollOnce keeps the last known state when detection fails.
func (s *Service) pollOnce() {
	locked, err := s.detector.IsScreenLocked()
	if err != nil {
		log.Printf("Failed to query screen lock state: %v", err)
		return
	}

	s.mu.Lock()
	changed := !s.known || locked != s.last
	s.known = true
	s.last = locked
	s.mu.Unlock()

	if !changed {
		return
	}
	log.Printf("Screen lock state: locked=%v", locked)
	s.sink(locked)
}
