package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/eyebreak/eyebreak/internal/config"
	"github.com/eyebreak/eyebreak/internal/daemon"
	"github.com/eyebreak/eyebreak/internal/engine"
	"github.com/eyebreak/eyebreak/internal/overlay"
	"github.com/eyebreak/eyebreak/internal/web"
)

func clientContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

func showStatus() {
	cfg := config.New()
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}
	if !running {
		fmt.Println("Status: Not running")
		return
	}

	ctx, cancel := clientContext()
	defer cancel()

	st, err := web.NewClient(cfg.BaseURL()).Status(ctx)
	if err != nil {
		fmt.Printf("Status: Running (PID: %d)\n", pid)
		fmt.Printf("Could not read reminder state: %v\n", err)
		return
	}
	fmt.Print(renderStatus(pid, st))
}

func sendAction(action string) {
	cfg := config.New()
	client := web.NewClient(cfg.BaseURL())

	ctx, cancel := clientContext()
	defer cancel()

	var (
		st  *web.Status
		err error
	)
	switch action {
	case "confirm":
		st, err = client.ConfirmRest(ctx)
	case "snooze":
		st, err = client.Snooze(ctx)
	case "skip":
		st, err = client.SkipRest(ctx)
	}
	if err != nil {
		log.Fatalf("Failed to %s: %v", action, err)
	}
	fmt.Println(st.StatusText)
}

// overlayAnswers are the answers the API accepts for a shown overlay.
var overlayAnswers = map[string]overlay.Kind{
	"confirm": overlay.KindPrompt,
	"later":   overlay.KindPrompt,
	"exit":    overlay.KindBreakCountdown,
}

func parseOverlayAnswer(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: overlay <confirm|later|exit>")
	}
	answer := strings.ToLower(args[0])
	if _, ok := overlayAnswers[answer]; !ok {
		return "", fmt.Errorf("unknown overlay answer %q (valid: confirm, later, exit)", args[0])
	}
	return answer, nil
}

func answerOverlay(args []string) {
	answer, err := parseOverlayAnswer(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\n", err)
		printUsage()
		os.Exit(1)
	}

	cfg := config.New()
	ctx, cancel := clientContext()
	defer cancel()

	st, err := web.NewClient(cfg.BaseURL()).Overlay(ctx, answer)
	if err != nil {
		log.Fatalf("No %s overlay to answer: %v", overlayAnswers[answer], err)
	}
	fmt.Println(st.StatusText)
}

func updateSetting(args []string) {
	cfg := config.New()
	client := web.NewClient(cfg.BaseURL())

	ctx, cancel := clientContext()
	defer cancel()

	if len(args) == 2 && strings.HasPrefix(args[0], "nudge-") {
		delta, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			log.Fatalf("Invalid delta %q: %v", args[1], err)
		}
		st, err := client.Nudge(ctx, strings.TrimPrefix(args[0], "nudge-"), delta)
		if err != nil {
			log.Fatalf("Failed to update setting: %v", err)
		}
		fmt.Printf("Work interval: %s, break: %s\n", st.IntervalText, st.BreakText)
		return
	}

	req, err := parseSetting(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\n", err)
		printUsage()
		os.Exit(1)
	}

	st, err := client.UpdateSettings(ctx, req)
	if err != nil {
		log.Fatalf("Failed to update setting: %v", err)
	}
	fmt.Printf("Work interval: %s, break: %s\n", st.IntervalText, st.BreakText)
}

// parseSetting turns "set" arguments into an API request.
func parseSetting(args []string) (web.SettingsRequest, error) {
	var req web.SettingsRequest
	if len(args) < 2 {
		return req, fmt.Errorf("usage: set <key> <value>")
	}

	values := make([]float64, 0, 2)
	if args[0] != "allow-exit" {
		for _, a := range args[1:] {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return req, fmt.Errorf("invalid number %q", a)
			}
			values = append(values, v)
		}
	}

	switch args[0] {
	case "work", "break":
		if len(values) != 1 {
			return req, fmt.Errorf("usage: set %s <minutes>", args[0])
		}
		if args[0] == "work" {
			req.WorkIntervalMinutes = &values[0]
		} else {
			req.BreakDurationMinutes = &values[0]
		}
	case "work-range", "break-range":
		if len(values) != 2 {
			return req, fmt.Errorf("usage: set %s <min> <max>", args[0])
		}
		if args[0] == "work-range" {
			req.WorkMinMinutes, req.WorkMaxMinutes = &values[0], &values[1]
		} else {
			req.BreakMinMinutes, req.BreakMaxMinutes = &values[0], &values[1]
		}
	case "allow-exit":
		var allow bool
		switch strings.ToLower(args[1]) {
		case "on", "true", "yes", "1":
			allow = true
		case "off", "false", "no", "0":
			allow = false
		default:
			return req, fmt.Errorf("invalid value %q for allow-exit (use on or off)", args[1])
		}
		req.AllowExitFullscreenDuringBreak = &allow
	default:
		return req, fmt.Errorf("unknown setting %q", args[0])
	}
	return req, nil
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	workingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	restStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226"))
	alertStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

func renderStatus(pid int, st *web.Status) string {
	var b strings.Builder
	s := st.Session

	fmt.Fprintf(&b, "%s Running (PID: %d)\n\n", headerStyle.Render("eyebreak:"), pid)

	phase := workingStyle.Render("Working")
	switch {
	case s.Phase == engine.PhaseResting:
		phase = restStyle.Render("Resting")
	case s.WaitingForRestConfirmation:
		phase = alertStyle.Render("Rest due")
	}
	fmt.Fprintf(&b, "%s %s\n", phase, st.StatusText)
	fmt.Fprintf(&b, "%s\n", progressBar(st.Progress, 30))
	if st.ReminderCountdownText != "" {
		fmt.Fprintf(&b, "%s\n", st.ReminderCountdownText)
	}
	if st.Overlay != overlay.KindNone && st.Overlay != "" {
		fmt.Fprintf(&b, "%s %s\n", dimStyle.Render("overlay:"), st.Overlay)
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s (%s - %s)\n", dimStyle.Render("Work interval: "), st.IntervalText,
		engine.DurationText(s.WorkMinMinutes), engine.DurationText(s.WorkMaxMinutes))
	fmt.Fprintf(&b, "%s %s (%s - %s)\n", dimStyle.Render("Break duration:"), st.BreakText,
		engine.DurationText(s.BreakMinMinutes), engine.DurationText(s.BreakMaxMinutes))
	fmt.Fprintf(&b, "%s %d\n", dimStyle.Render("Reminders sent:"), s.RemindersSent)
	fmt.Fprintf(&b, "%s %v\n", dimStyle.Render("Allow exit:    "), s.AllowExitFullscreenDuringBreak)
	if !st.Running {
		fmt.Fprintf(&b, "%s\n", alertStyle.Render("Timer is not ticking; run `eyebreak start`."))
	}
	if st.NotificationStatus != "" {
		fmt.Fprintf(&b, "%s %s\n", dimStyle.Render("Notifications: "), st.NotificationStatus)
	}
	return b.String()
}

func progressBar(p float64, width int) string {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	filled := int(p*float64(width) + 0.5)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]" +
		fmt.Sprintf(" %3.0f%%", p*100)
}
