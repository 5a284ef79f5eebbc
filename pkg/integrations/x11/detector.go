package x11

import (
	"encoding/binary"
	"fmt"
	"os"
	"os/exec"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Detector implements window.Detector for X11
type Detector struct {
	hasPgrep bool
}

// NewDetector creates a new X11 detector
func NewDetector() *Detector {
	d := &Detector{}
	d.hasPgrep = d.commandExists("pgrep")
	return d
}

// commandExists checks if a command is available in PATH
func (d *Detector) commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// IsAvailable checks if an X display can be reached
func (d *Detector) IsAvailable() bool {
	return os.Getenv("DISPLAY") != ""
}

// GetDisplayServer returns "x11"
func (d *Detector) GetDisplayServer() string {
	return "x11"
}

// IsForegroundFullscreen checks _NET_WM_STATE of the active window for
// _NET_WM_STATE_FULLSCREEN
func (d *Detector) IsForegroundFullscreen() (bool, error) {
	client, err := newClient()
	if err != nil {
		return false, fmt.Errorf("failed to connect to X server: %w", err)
	}
	defer client.close()

	win := client.activeWindow()
	if win == 0 {
		return false, fmt.Errorf("no active x11 window")
	}

	data, err := client.getProperty(win, client.atoms["_NET_WM_STATE"], xproto.AtomAtom, 32)
	if err != nil {
		return false, fmt.Errorf("failed to read _NET_WM_STATE: %w", err)
	}

	return containsAtom(data, client.atoms["_NET_WM_STATE_FULLSCREEN"]), nil
}

// IsScreenLocked checks for a running screen locker
func (d *Detector) IsScreenLocked() (bool, error) {
	if !d.hasPgrep {
		return false, fmt.Errorf("pgrep not available")
	}

	lockers := []string{
		"gnome-screensaver-dialog",
		"kscreenlocker_greet",
		"i3lock",
		"slock",
		"xscreensaver-auth",
		"xsecurelock",
		"light-locker",
	}

	for _, locker := range lockers {
		cmd := exec.Command("pgrep", "-x", locker)
		if err := cmd.Run(); err == nil {
			return true, nil
		}
	}

	return false, nil
}

// Close cleans up resources
func (d *Detector) Close() error {
	return nil
}

type client struct {
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
}

func newClient() (*client, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}

	setup := xproto.Setup(conn)
	c := &client{
		conn:  conn,
		root:  setup.DefaultScreen(conn).Root,
		atoms: make(map[string]xproto.Atom),
	}

	for _, name := range []string{"_NET_ACTIVE_WINDOW", "_NET_WM_STATE", "_NET_WM_STATE_FULLSCREEN"} {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, err
		}
		c.atoms[name] = reply.Atom
	}

	return c, nil
}

func (c *client) close() {
	c.conn.Close()
}

func (c *client) getProperty(win xproto.Window, atom, atomType xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(c.conn, false, win, atom, atomType, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}

// activeWindow prefers _NET_ACTIVE_WINDOW and falls back to the input focus
func (c *client) activeWindow() xproto.Window {
	data, err := c.getProperty(c.root, c.atoms["_NET_ACTIVE_WINDOW"], xproto.AtomWindow, 1)
	if err == nil && len(data) >= 4 {
		if win := xproto.Window(binary.LittleEndian.Uint32(data)); win != 0 {
			return win
		}
	}

	reply, err := xproto.GetInputFocus(c.conn).Reply()
	if err != nil || reply.Focus == c.root {
		return 0
	}
	return reply.Focus
}

// containsAtom scans a 32-bit ATOM[] property value
func containsAtom(data []byte, atom xproto.Atom) bool {
	for i := 0; i+4 <= len(data); i += 4 {
		if xproto.Atom(binary.LittleEndian.Uint32(data[i:])) == atom {
			return true
		}
	}
	return false
}
