package wayland

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/eyebreak/eyebreak/pkg/window"
)

// Detector implements window.Detector for Wayland
type Detector struct {
	compositor  string
	hasSwaymsg  bool
	hasHyprctl  bool
	hasLoginctl bool
}

// NewDetector creates a new Wayland detector
func NewDetector() *Detector {
	d := &Detector{}
	d.hasSwaymsg = d.commandExists("swaymsg")
	d.hasHyprctl = d.commandExists("hyprctl")
	d.hasLoginctl = d.commandExists("loginctl")
	d.detectCompositor()
	return d
}

// commandExists checks if a command is available in PATH
func (d *Detector) commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// detectCompositor attempts to detect the Wayland compositor
func (d *Detector) detectCompositor() {
	compositors := map[string]string{
		"sway":         "sway",
		"Hyprland":     "hyprland",
		"wayfire":      "wayfire",
		"river":        "river",
		"gnome-shell":  "gnome",
		"kwin_wayland": "kde",
	}

	for process, name := range compositors {
		cmd := exec.Command("pgrep", "-x", process)
		if err := cmd.Run(); err == nil {
			d.compositor = name
			return
		}
	}

	d.compositor = "unknown"
}

// IsAvailable checks if Wayland detection is available
func (d *Detector) IsAvailable() bool {
	switch d.compositor {
	case "sway":
		return d.hasSwaymsg
	case "hyprland":
		return d.hasHyprctl
	case "unknown":
		return d.hasLoginctl
	default:
		return true
	}
}

// GetDisplayServer returns "wayland"
func (d *Detector) GetDisplayServer() string {
	return "wayland"
}

// IsForegroundFullscreen asks the compositor about the focused window
func (d *Detector) IsForegroundFullscreen() (bool, error) {
	switch d.compositor {
	case "sway":
		output, err := exec.Command("swaymsg", "-t", "get_tree", "-r").Output()
		if err != nil {
			return false, fmt.Errorf("failed to execute swaymsg: %w", err)
		}
		return parseSwayFullscreen(output)
	case "hyprland":
		output, err := exec.Command("hyprctl", "activewindow", "-j").Output()
		if err != nil {
			return false, fmt.Errorf("failed to execute hyprctl: %w", err)
		}
		return parseHyprlandFullscreen(output)
	default:
		return false, fmt.Errorf("fullscreen query on %s: %w", d.compositor, window.ErrUnsupported)
	}
}

type swayNode struct {
	Focused        bool       `json:"focused"`
	FullscreenMode int        `json:"fullscreen_mode"`
	Nodes          []swayNode `json:"nodes"`
	FloatingNodes  []swayNode `json:"floating_nodes"`
}

// parseSwayFullscreen walks the sway tree to the focused node
func parseSwayFullscreen(data []byte) (bool, error) {
	var root swayNode
	if err := json.Unmarshal(data, &root); err != nil {
		return false, fmt.Errorf("failed to parse sway tree: %w", err)
	}
	node, ok := findFocused(&root)
	if !ok {
		return false, fmt.Errorf("no focused sway node")
	}
	return node.FullscreenMode > 0, nil
}

func findFocused(n *swayNode) (*swayNode, bool) {
	if n.Focused {
		return n, true
	}
	for i := range n.Nodes {
		if f, ok := findFocused(&n.Nodes[i]); ok {
			return f, true
		}
	}
	for i := range n.FloatingNodes {
		if f, ok := findFocused(&n.FloatingNodes[i]); ok {
			return f, true
		}
	}
	return nil, false
}

// parseHyprlandFullscreen accepts both the old boolean and the newer numeric
// "fullscreen" field of hyprctl activewindow -j
func parseHyprlandFullscreen(data []byte) (bool, error) {
	var win struct {
		Fullscreen json.RawMessage `json:"fullscreen"`
	}
	if err := json.Unmarshal(data, &win); err != nil {
		return false, fmt.Errorf("failed to parse hyprctl output: %w", err)
	}

	raw := strings.TrimSpace(string(win.Fullscreen))
	switch raw {
	case "", "null":
		return false, fmt.Errorf("no active hyprland window")
	case "true":
		return true, nil
	case "false", "0":
		return false, nil
	}

	var mode int
	if err := json.Unmarshal(win.Fullscreen, &mode); err != nil {
		return false, fmt.Errorf("unexpected fullscreen value %s", raw)
	}
	return mode > 0, nil
}

// IsScreenLocked checks for a running locker, then logind's LockedHint
func (d *Detector) IsScreenLocked() (bool, error) {
	lockers := []string{
		"swaylock",
		"waylock",
		"gtklock",
		"hyprlock",
		"gnome-screensaver-dialog",
	}

	for _, locker := range lockers {
		cmd := exec.Command("pgrep", "-x", locker)
		if err := cmd.Run(); err == nil {
			return true, nil
		}
	}

	if !d.hasLoginctl {
		return false, nil
	}

	cmd := exec.Command("loginctl", "show-session", "-p", "LockedHint")
	output, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("failed to query loginctl: %w", err)
	}
	return parseLockedHint(string(output)), nil
}

// parseLockedHint reads "LockedHint=yes" style loginctl output
func parseLockedHint(output string) bool {
	return strings.Contains(output, "LockedHint=yes")
}

// Close cleans up resources
func (d *Detector) Close() error {
	return nil
}
