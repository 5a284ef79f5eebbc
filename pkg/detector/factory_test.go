package detector

import (
	"testing"
)

func TestNew(t *testing.T) {
	detector, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if detector == nil {
		t.Fatal("New() returned nil detector without error")
	}
	defer detector.Close()

	t.Logf("Detected display server: %s", detector.GetDisplayServer())

	locked, err := detector.IsScreenLocked()
	t.Logf("Locked: %v (err: %v)", locked, err)

	fs, err := detector.IsForegroundFullscreen()
	t.Logf("Foreground fullscreen: %v (err: %v)", fs, err)
}

func TestDetectDisplayServer(t *testing.T) {
	tests := []struct {
		name           string
		sessionType    string
		waylandDisplay string
		x11Display     string
		expected       string
	}{
		{"Wayland session", "wayland", "wayland-0", "", "wayland"},
		{"X11 session", "x11", "", ":0", "x11"},
		{"Unknown session", "", "", "", "unknown"},
		{"Wayland display set", "", "wayland-1", "", "wayland"},
		{"X11 display set", "", "", ":1", "x11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_SESSION_TYPE", tt.sessionType)
			t.Setenv("WAYLAND_DISPLAY", tt.waylandDisplay)
			t.Setenv("DISPLAY", tt.x11Display)

			result := DetectDisplayServer()
			if result != tt.expected {
				t.Errorf("DetectDisplayServer() = %s, want %s", result, tt.expected)
			}
		})
	}
}
