// Package notify delivers rest reminders as desktop notifications.
package notify

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/eyebreak/eyebreak/internal/engine"
)

const confirmAction = "confirm"

// CommandFunc builds the command for name and args.
type CommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// Desktop sends notifications through notify-send and closes them through
// the org.freedesktop.Notifications D-Bus interface.
type Desktop struct {
	appName  string
	command  CommandFunc
	onAction func()

	mu  sync.Mutex
	ids []uint32
}

// NewDesktop creates a notifier. onAction runs, on its own goroutine, when
// the user clicks the notification's action button.
func NewDesktop(appName string, onAction func()) *Desktop {
	return &Desktop{appName: appName, command: exec.CommandContext, onAction: onAction}
}

// RequestAuthorization checks that notify-send can be found. Linux desktops
// have no permission prompt.
func (d *Desktop) RequestAuthorization(ctx context.Context) error {
	if _, err := exec.LookPath("notify-send"); err != nil {
		return fmt.Errorf("notify-send not found: %w", err)
	}
	return nil
}

// Send shows n and returns once its id is known. notify-send stays alive
// until the notification is answered or closed; that wait happens in the
// background.
func (d *Desktop) Send(ctx context.Context, n engine.Notification) error {
	args := []string{
		"--app-name", d.appName,
		"--urgency", "normal",
		"--print-id",
	}
	if n.ActionLabel != "" {
		args = append(args, "--action", confirmAction+"="+n.ActionLabel)
	}
	args = append(args, n.Title, n.Body)

	cmd := d.command(ctx, "notify-send", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to attach to notify-send: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start notify-send: %w", err)
	}

	sc := bufio.NewScanner(stdout)
	if sc.Scan() {
		if id, ok := parseNotificationID(sc.Text()); ok {
			d.mu.Lock()
			d.ids = append(d.ids, id)
			d.mu.Unlock()
		}
	}

	go func() {
		action := ""
		if sc.Scan() {
			action = strings.TrimSpace(sc.Text())
		}
		if err := cmd.Wait(); err != nil {
			log.Printf("notify-send exited: %v", err)
		}
		if action == confirmAction && d.onAction != nil {
			d.onAction()
		}
	}()
	return nil
}

// ClearAll closes every notification sent since the last ClearAll.
func (d *Desktop) ClearAll(ctx context.Context) error {
	d.mu.Lock()
	ids := d.ids
	d.ids = nil
	d.mu.Unlock()

	var firstErr error
	for _, id := range ids {
		cmd := d.command(ctx, "gdbus", "call", "--session",
			"--dest", "org.freedesktop.Notifications",
			"--object-path", "/org/freedesktop/Notifications",
			"--method", "org.freedesktop.Notifications.CloseNotification",
			strconv.FormatUint(uint64(id), 10))
		if err := cmd.Run(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close notification %d: %w", id, err)
		}
	}
	return firstErr
}

// Pending returns the ids not yet closed.
func (d *Desktop) Pending() []uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]uint32(nil), d.ids...)
}

func parseNotificationID(line string) (uint32, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(line), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(id), true
}

// Log is a Notifier that only writes to the log. It is used when desktop
// notifications are disabled.
type Log struct{}

func (Log) Send(_ context.Context, n engine.Notification) error {
	log.Printf("Reminder: %s - %s", n.Title, n.Body)
	return nil
}

func (Log) ClearAll(context.Context) error {
	return nil
}
