package window

import "errors"

// ErrUnsupported is returned when a detector cannot answer a query on the
// current desktop.
var ErrUnsupported = errors.New("not supported by this display server")

// Detector is the interface that all desktop state implementations must satisfy
type Detector interface {
	// IsScreenLocked reports whether the session is locked
	IsScreenLocked() (bool, error)

	// IsForegroundFullscreen reports whether the focused window is full-screen
	IsForegroundFullscreen() (bool, error)

	// IsAvailable checks if this detector can run on the current system
	IsAvailable() bool

	// GetDisplayServer returns the display server type ("x11" or "wayland")
	GetDisplayServer() string

	// Close cleans up any resources used by the detector
	Close() error
}
