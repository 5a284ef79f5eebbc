package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// LoadFromEnv loads configuration from environment variables
// Environment variables override default and file values
func LoadFromEnv(cfg *Config) {
	// Database configuration
	if dbPath := os.Getenv("EYEBREAK_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	// Timer configuration
	if tick := os.Getenv("EYEBREAK_TICK_INTERVAL"); tick != "" {
		if d, err := time.ParseDuration(tick); err == nil && d > 0 {
			cfg.Timer.TickInterval = d
		}
	}

	// Lock configuration
	if poll := os.Getenv("EYEBREAK_LOCK_POLL_INTERVAL"); poll != "" {
		if seconds, err := strconv.Atoi(poll); err == nil && seconds > 0 {
			interval := time.Duration(seconds) * time.Second
			if interval >= cfg.Lock.MinPollInterval && interval <= cfg.Lock.MaxPollInterval {
				cfg.Lock.PollInterval = interval
			}
		}
	}

	if lock := os.Getenv("EYEBREAK_LOCK_WATCH"); lock != "" {
		if val, err := strconv.ParseBool(lock); err == nil {
			cfg.Lock.Enabled = val
		}
	}

	// Notify configuration
	if notify := os.Getenv("EYEBREAK_NOTIFY"); notify != "" {
		if val, err := strconv.ParseBool(notify); err == nil {
			cfg.Notify.Enabled = val
		}
	}

	// Daemon configuration
	if pidFile := os.Getenv("EYEBREAK_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	if logFile := os.Getenv("EYEBREAK_LOG_FILE"); logFile != "" {
		cfg.Daemon.LogFile = logFile
	}

	// Report configuration
	if timeZone := os.Getenv("EYEBREAK_TIMEZONE"); timeZone != "" {
		cfg.Report.TimeZone = timeZone
	}

	if retention := os.Getenv("EYEBREAK_RETENTION_DAYS"); retention != "" {
		if days, err := strconv.Atoi(retention); err == nil && days >= 0 {
			cfg.Report.RetentionDays = days
		}
	}

	// Web configuration
	if webHost := os.Getenv("EYEBREAK_WEB_HOST"); webHost != "" {
		cfg.Web.Host = webHost
	}

	if webPort := os.Getenv("EYEBREAK_WEB_PORT"); webPort != "" {
		if port, err := strconv.Atoi(webPort); err == nil && port > 0 && port <= 65535 {
			cfg.Web.Port = port
		}
	}
}

// New creates a new Config from defaults, the config file and the environment
func New() *Config {
	cfg := Default()
	path, err := FilePath()
	if err == nil {
		if err := LoadFile(cfg, path); err != nil {
			log.Printf("Ignoring config file: %v", err)
		}
	}
	LoadFromEnv(cfg)
	return cfg
}
