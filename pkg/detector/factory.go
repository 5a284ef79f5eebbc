package detector

import (
	"os"

	"github.com/eyebreak/eyebreak/pkg/integrations/hybrid"
	"github.com/eyebreak/eyebreak/pkg/window"
)

// New returns the detector for the current desktop session.
func New() (window.Detector, error) {
	d, err := hybrid.NewDetector()
	if err != nil {
		return nil, err
	}
	return d, nil
}

func DetectDisplayServer() string {
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if sessionType == "wayland" || waylandDisplay != "" {
		return "wayland"
	}

	if sessionType == "x11" || x11Display != "" {
		return "x11"
	}

	return "unknown"
}
