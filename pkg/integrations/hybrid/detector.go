package hybrid

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/eyebreak/eyebreak/pkg/integrations/wayland"
	"github.com/eyebreak/eyebreak/pkg/integrations/x11"
	"github.com/eyebreak/eyebreak/pkg/window"
)

// Detector picks the best display-server detector and falls back to
// session-level D-Bus and logind queries for lock state.
type Detector struct {
	windowDetector window.Detector

	lastLockMethod string
}

func NewDetector() (*Detector, error) {
	d := &Detector{}

	if det := detectWindowDetector(); det != nil {
		d.windowDetector = det
		log.Printf("Window detector initialized: %s", det.GetDisplayServer())
	} else {
		log.Printf("Window detector unavailable, using session lock queries only")
	}

	return d, nil
}

func detectWindowDetector() window.Detector {
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	xdgSessionType := os.Getenv("XDG_SESSION_TYPE")

	if waylandDisplay != "" || xdgSessionType == "wayland" {
		det := wayland.NewDetector()
		if det.IsAvailable() {
			return det
		}
	}

	if os.Getenv("DISPLAY") != "" {
		det := x11.NewDetector()
		if det.IsAvailable() {
			return det
		}
	}

	return nil
}

// IsScreenLocked asks the display-server detector first. Any positive answer
// wins; session queries cover desktops whose locker is not a known process.
func (d *Detector) IsScreenLocked() (bool, error) {
	var detErr error
	if d.windowDetector != nil {
		locked, err := d.windowDetector.IsScreenLocked()
		if err == nil && locked {
			d.lastLockMethod = d.windowDetector.GetDisplayServer()
			return true, nil
		}
		detErr = err
	}

	locked, err := d.isSessionLocked()
	if err != nil && detErr != nil {
		return false, fmt.Errorf("all lock queries failed - detector: %v, session: %w", detErr, err)
	}
	if locked {
		d.lastLockMethod = "session"
	}
	return locked, nil
}

// IsForegroundFullscreen is answered by the display-server detector only.
func (d *Detector) IsForegroundFullscreen() (bool, error) {
	if d.windowDetector == nil {
		return false, window.ErrUnsupported
	}
	return d.windowDetector.IsForegroundFullscreen()
}

func (d *Detector) isSessionLocked() (bool, error) {
	var lastErr error

	cmd := exec.Command("gdbus", "call", "--session", "--dest", "org.gnome.ScreenSaver", "--object-path", "/org/gnome/ScreenSaver", "--method", "org.gnome.ScreenSaver.GetActive")
	if output, err := cmd.Output(); err == nil {
		if parseScreenSaverActive(string(output)) {
			return true, nil
		}
	} else {
		lastErr = err
	}

	cmd = exec.Command("loginctl", "show-session", "-p", "LockedHint")
	if output, err := cmd.Output(); err == nil {
		return strings.Contains(string(output), "LockedHint=yes"), nil
	} else {
		lastErr = err
	}

	return false, lastErr
}

// parseScreenSaverActive reads gdbus output such as "(true,)"
func parseScreenSaverActive(output string) bool {
	return strings.Contains(output, "true")
}

func (d *Detector) IsAvailable() bool {
	return true
}

func (d *Detector) Close() error {
	if d.windowDetector != nil {
		if err := d.windowDetector.Close(); err != nil {
			log.Printf("Error closing window detector: %v", err)
		}
	}
	return nil
}

func (d *Detector) GetStatus() string {
	status := "Hybrid Detector Status:\n"

	if d.windowDetector != nil {
		status += fmt.Sprintf("  Window Detector: %s (available: %v)\n",
			d.windowDetector.GetDisplayServer(),
			d.windowDetector.IsAvailable())
	} else {
		status += "  Window Detector: unavailable\n"
	}

	status += fmt.Sprintf("  Last lock method: %s\n", d.lastLockMethod)

	return status
}

func (d *Detector) GetDisplayServer() string {
	if d.windowDetector != nil {
		return d.windowDetector.GetDisplayServer()
	}
	return "session"
}
