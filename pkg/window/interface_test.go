package window

import (
	"errors"
	"testing"
)

type MockDetector struct {
	locked        bool
	fullscreen    bool
	fullscreenErr error
	isAvailable   bool
	displayServer string
	closeError    error
}

func (m *MockDetector) IsScreenLocked() (bool, error) {
	return m.locked, nil
}

func (m *MockDetector) IsForegroundFullscreen() (bool, error) {
	return m.fullscreen, m.fullscreenErr
}

func (m *MockDetector) IsAvailable() bool {
	return m.isAvailable
}

func (m *MockDetector) GetDisplayServer() string {
	return m.displayServer
}

func (m *MockDetector) Close() error {
	return m.closeError
}

func TestMockDetector(t *testing.T) {
	var _ Detector = (*MockDetector)(nil)

	mock := &MockDetector{
		locked:        true,
		fullscreen:    false,
		isAvailable:   true,
		displayServer: "x11",
	}

	locked, err := mock.IsScreenLocked()
	if err != nil {
		t.Errorf("IsScreenLocked() error: %v", err)
	}
	if !locked {
		t.Error("IsScreenLocked() = false, want true")
	}

	fs, err := mock.IsForegroundFullscreen()
	if err != nil {
		t.Errorf("IsForegroundFullscreen() error: %v", err)
	}
	if fs {
		t.Error("IsForegroundFullscreen() = true, want false")
	}

	if !mock.IsAvailable() {
		t.Error("IsAvailable() = false, want true")
	}

	if mock.GetDisplayServer() != "x11" {
		t.Errorf("GetDisplayServer() = %s, want x11", mock.GetDisplayServer())
	}

	if err := mock.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestUnsupportedIsMatchable(t *testing.T) {
	mock := &MockDetector{fullscreenErr: ErrUnsupported}

	_, err := mock.IsForegroundFullscreen()
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("IsForegroundFullscreen() error = %v, want ErrUnsupported", err)
	}
}
