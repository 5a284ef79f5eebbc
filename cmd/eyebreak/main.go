package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eyebreak/eyebreak/internal/config"
	"github.com/eyebreak/eyebreak/internal/daemon"
	"github.com/eyebreak/eyebreak/internal/database"
	"github.com/eyebreak/eyebreak/internal/engine"
	"github.com/eyebreak/eyebreak/internal/history"
	"github.com/eyebreak/eyebreak/internal/notify"
	"github.com/eyebreak/eyebreak/internal/overlay"
	"github.com/eyebreak/eyebreak/internal/reporter"
	"github.com/eyebreak/eyebreak/internal/store"
	"github.com/eyebreak/eyebreak/internal/watcher"
	"github.com/eyebreak/eyebreak/internal/web"
	"github.com/eyebreak/eyebreak/pkg/detector"
)

var (
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)

const childEnv = "EYEBREAK_DAEMON_CHILD"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "start":
		startDaemon(true)
	case "serve":
		startDaemon(false)
	case "run":
		runForeground()
	case "stop":
		stopDaemon()
	case "status":
		showStatus()
	case "confirm", "snooze", "skip":
		sendAction(command)
	case "overlay":
		answerOverlay(os.Args[2:])
	case "set":
		updateSetting(os.Args[2:])
	case "report":
		generateReport()
	case "version":
		fmt.Printf("eyebreak version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`eyebreak - 20-20-20 eye rest reminders

Usage:
  eyebreak <command> [options]

Commands:
  start              Start the reminder daemon and the timer
  serve              Start the daemon; resume the timer only if it was started before
  run                Run the daemon in the foreground and start the timer
  stop               Stop the reminder daemon
  status             Show the current reminder state
  confirm            Start a rest now
  snooze             Remind me again in 5 minutes
  skip               End the current rest early
  overlay <answer>   Answer the shown overlay (confirm, later, exit)
  set <key> <value>  Change a setting (see below)
  report [period]    Show rest history (period: day, week, month) [--json]
                     report --clear deletes all rest history
  version            Show version information
  help               Show this help message

Settings:
  set work <minutes>             Work interval
  set break <minutes>            Break duration
  set work-range <min> <max>     Allowed work interval range
  set break-range <min> <max>    Allowed break duration range
  set allow-exit <on|off>        Allow leaving a break early
  set nudge-work <delta>         Adjust the work interval by delta minutes
  set nudge-break <delta>        Adjust the break duration by delta minutes

Examples:
  eyebreak start
  eyebreak status
  eyebreak set work 25
  eyebreak report week
  eyebreak stop

Environment Variables:
  EYEBREAK_CONFIG              Config file path (default ~/.config/eyebreak/config.yaml)
  EYEBREAK_DB_PATH             Database file path
  EYEBREAK_TICK_INTERVAL       Engine tick interval (Go duration, default 1s)
  EYEBREAK_LOCK_POLL_INTERVAL  Screen lock poll interval in seconds (1-60)
  EYEBREAK_LOCK_WATCH          Watch the screen lock state (true/false)
  EYEBREAK_NOTIFY              Send desktop notifications (true/false)
  EYEBREAK_PID_FILE            PID file path
  EYEBREAK_LOG_FILE            Daemon log file path
  EYEBREAK_TIMEZONE            Report time zone
  EYEBREAK_RETENTION_DAYS      Days of history to keep (0 keeps everything)
  EYEBREAK_WEB_HOST            API host
  EYEBREAK_WEB_PORT            API port

Version: %s
`, version)
}

func loadConfig() *config.Config {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func startDaemon(startTimer bool) {
	cfg := loadConfig()

	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}

	if os.Getenv(childEnv) != "1" {
		if running {
			if startTimer {
				// An already running daemon only needs its timer started.
				if _, err := web.NewClient(cfg.BaseURL()).StartTimer(context.Background()); err != nil {
					log.Fatalf("Daemon is running (PID: %d) but did not start the timer: %v", pid, err)
				}
				fmt.Printf("Timer started (PID: %d)\n", pid)
				return
			}
			log.Fatalf("Daemon is already running (PID: %d)", pid)
		}
		daemonize(cfg)
		return
	}

	logFile, err := os.OpenFile(cfg.Daemon.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	if err := runDaemon(cfg, dm, startTimer); err != nil {
		log.Fatalf("Daemon error: %v", err)
	}
}

func runForeground() {
	cfg := loadConfig()
	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}
	if running {
		log.Fatalf("Daemon is already running (PID: %d)", pid)
	}

	if err := runDaemon(cfg, dm, true); err != nil {
		log.Fatalf("Daemon error: %v", err)
	}
}

// runDaemon wires the engine to its collaborators and blocks until SIGINT
// or SIGTERM.
func runDaemon(cfg *config.Config, dm *daemon.Daemon, startTimer bool) error {
	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	repo := database.NewRepository(db)
	if _, err := history.Prune(repo, cfg.Report.RetentionDays, time.Now()); err != nil {
		log.Printf("Keeping old history: %v", err)
	}

	kv, err := store.Open(repo)
	if err != nil {
		return err
	}
	defer func() {
		if err := kv.Close(); err != nil {
			log.Printf("Failed to flush settings: %v", err)
		}
	}()

	det, err := detector.New()
	if err != nil {
		log.Printf("Display detector unavailable, reminders fall back to notifications: %v", err)
	} else {
		defer det.Close()
		log.Printf("Display detector initialized: %s", det.GetDisplayServer())
	}

	if err := dm.WritePID(); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	defer dm.RemovePID()

	relay := overlay.NewRelay()
	var runner *engine.Runner

	var notifier engine.Notifier = notify.Log{}
	var announcer engine.Notifier = notify.Log{}
	if cfg.Notify.Enabled {
		notifier = notify.NewDesktop(cfg.Notify.AppName, func() {
			runner.Do(func(e *engine.Engine) { e.ConfirmRest() })
		})
		announcer = notify.NewDesktop(cfg.Notify.AppName, func() {
			runner.Do(func(*engine.Engine) {
				if err := relay.Confirm(); err != nil {
					log.Printf("Ignoring rest prompt action: %v", err)
				}
			})
		})
	}
	relay.Announce(announcer)

	deps := engine.Deps{
		Notifier:  notifier,
		Presenter: relay,
		Recorder:  history.NewRecorder(repo),
	}
	if det != nil {
		deps.Fullscreen = det
	}
	eng := engine.New(kv, deps)
	runner = engine.NewRunner(eng, cfg.Timer.TickInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var lockWatcher *watcher.Service
	if cfg.Lock.Enabled && det != nil {
		lockWatcher = watcher.NewService(cfg.Lock.PollInterval, det, func(locked bool) {
			runner.Do(func(e *engine.Engine) { e.SetScreenLocked(locked) })
		})
		go func() {
			if err := lockWatcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Lock watcher error: %v", err)
			}
		}()
	}

	handler := web.NewHandler(ctx, cfg, runner, relay, reporter.New(cfg, repo))
	webServer := web.NewServer(cfg, handler)
	go func() {
		if err := webServer.Start(); err != nil && err != http.ErrServerClosed {
			log.Printf("Web server error: %v", err)
		}
	}()

	resume := false
	runner.Do(func(e *engine.Engine) { resume = e.HasStartedTimer() })
	if startTimer || resume {
		runner.Start(ctx)
	}

	log.Println("Starting eyebreak daemon...")
	log.Printf("API available at: %s", cfg.BaseURL())
	log.Printf("Configuration:\n%s", cfg.String())

	<-sigChan
	log.Println("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	runner.Stop()
	if lockWatcher != nil {
		lockWatcher.Stop()
	}
	cancel()

	if err := webServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down web server: %v", err)
	}

	log.Println("Daemon stopped successfully")
	return nil
}

func stopDaemon() {
	cfg := config.New()
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}

	if !running {
		fmt.Println("Daemon is not running")
		return
	}

	fmt.Printf("Stopping daemon (PID: %d)...\n", pid)
	if err := dm.Stop(); err != nil {
		if errors.Is(err, daemon.ErrNotRunning) {
			fmt.Println("Daemon is not running")
			return
		}
		log.Fatalf("Failed to stop daemon: %v", err)
	}

	fmt.Println("Daemon stopped successfully")
}

func generateReport() {
	periodType := "day"
	jsonOutput := false
	clearHistory := false
	for _, arg := range os.Args[2:] {
		switch arg {
		case "--json":
			jsonOutput = true
		case "--clear":
			clearHistory = true
		default:
			periodType = arg
		}
	}

	cfg := config.New()

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	repo := database.NewRepository(db)
	if clearHistory {
		if err := repo.ClearEvents(); err != nil {
			log.Fatalf("Failed to clear history: %v", err)
		}
		fmt.Println("Rest history cleared")
		return
	}

	rep := reporter.New(cfg, repo)

	report, err := rep.GenerateReport(periodType)
	if err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}

	if jsonOutput {
		jsonStr, err := rep.FormatReportJSON(report)
		if err != nil {
			log.Fatalf("Failed to format JSON: %v", err)
		}
		fmt.Println(jsonStr)
	} else {
		fmt.Println(rep.FormatReportText(report))
	}
}

func daemonize(cfg *config.Config) {
	env := os.Environ()
	env = append(env, childEnv+"=1")

	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	procAttr := &os.ProcAttr{
		Env:   env,
		Files: []*os.File{nil, nil, nil}, // stdin, stdout, stderr to /dev/null
		Sys: &syscall.SysProcAttr{
			Setsid: true,
		},
	}

	process, err := os.StartProcess(exe, os.Args, procAttr)
	if err != nil {
		log.Fatalf("Failed to start daemon process: %v", err)
	}

	fmt.Printf("Daemon started successfully (PID: %d)\n", process.Pid)
	fmt.Printf("API available at: %s\n", cfg.BaseURL())
	fmt.Printf("Logs: %s\n", cfg.Daemon.LogFile)
}
