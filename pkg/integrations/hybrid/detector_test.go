package hybrid

import (
	"errors"
	"strings"
	"testing"

	"github.com/eyebreak/eyebreak/pkg/window"
)

type stubDetector struct {
	locked     bool
	lockErr    error
	fullscreen bool
}

func (s *stubDetector) IsScreenLocked() (bool, error)         { return s.locked, s.lockErr }
func (s *stubDetector) IsForegroundFullscreen() (bool, error) { return s.fullscreen, nil }
func (s *stubDetector) IsAvailable() bool                     { return true }
func (s *stubDetector) GetDisplayServer() string              { return "stub" }
func (s *stubDetector) Close() error                          { return nil }

func TestIsScreenLocked(t *testing.T) {
	detector, err := NewDetector()
	if err != nil {
		t.Fatalf("Failed to create detector: %v", err)
	}

	locked, err := detector.IsScreenLocked()
	t.Logf("Screen is locked: %v (err: %v)", locked, err)
}

func TestLockedByWindowDetector(t *testing.T) {
	d := &Detector{windowDetector: &stubDetector{locked: true}}

	locked, err := d.IsScreenLocked()
	if err != nil {
		t.Fatalf("IsScreenLocked() error: %v", err)
	}
	if !locked {
		t.Error("IsScreenLocked() = false, want true")
	}
	if d.lastLockMethod != "stub" {
		t.Errorf("lastLockMethod = %s, want stub", d.lastLockMethod)
	}
}

func TestFullscreenDelegates(t *testing.T) {
	d := &Detector{windowDetector: &stubDetector{fullscreen: true}}
	fs, err := d.IsForegroundFullscreen()
	if err != nil || !fs {
		t.Errorf("IsForegroundFullscreen() = %v, %v; want true, nil", fs, err)
	}

	d = &Detector{}
	if _, err := d.IsForegroundFullscreen(); !errors.Is(err, window.ErrUnsupported) {
		t.Errorf("IsForegroundFullscreen() without detector error = %v, want ErrUnsupported", err)
	}
}

func TestParseScreenSaverActive(t *testing.T) {
	if !parseScreenSaverActive("(true,)\n") {
		t.Error("parseScreenSaverActive((true,)) = false")
	}
	if parseScreenSaverActive("(false,)\n") {
		t.Error("parseScreenSaverActive((false,)) = true")
	}
}

func TestGetStatus(t *testing.T) {
	d := &Detector{windowDetector: &stubDetector{locked: true}}
	if _, err := d.IsScreenLocked(); err != nil {
		t.Fatalf("IsScreenLocked() error: %v", err)
	}

	status := d.GetStatus()
	for _, want := range []string{"Window Detector: stub (available: true)", "Last lock method: stub"} {
		if !strings.Contains(status, want) {
			t.Errorf("GetStatus() = %q, missing %q", status, want)
		}
	}

	if status := (&Detector{}).GetStatus(); !strings.Contains(status, "Window Detector: unavailable") {
		t.Errorf("GetStatus() without detector = %q", status)
	}
}
