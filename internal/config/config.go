package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig `yaml:"database"`

	// Timer configuration
	Timer TimerConfig `yaml:"timer"`

	// Screen lock watcher configuration
	Lock LockConfig `yaml:"lock"`

	// Notification configuration
	Notify NotifyConfig `yaml:"notify"`

	// Daemon configuration
	Daemon DaemonConfig `yaml:"daemon"`

	// Report configuration
	Report ReportConfig `yaml:"report"`

	// Web server configuration
	Web WebConfig `yaml:"web"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string `yaml:"path"` // Path to SQLite database file
}

// TimerConfig holds ticking behavior configuration
type TimerConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"` // How often the engine advances by one second
}

// LockConfig holds screen lock polling configuration
type LockConfig struct {
	Enabled         bool          `yaml:"enabled"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	MinPollInterval time.Duration `yaml:"-"`
	MaxPollInterval time.Duration `yaml:"-"`
}

// NotifyConfig holds desktop notification configuration
type NotifyConfig struct {
	Enabled bool   `yaml:"enabled"`
	AppName string `yaml:"app_name"`
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string `yaml:"pid_file"` // Path to PID file for daemon management
	LogFile string `yaml:"log_file"`
}

// ReportConfig holds report generation configuration
type ReportConfig struct {
	TimeZone      string `yaml:"time_zone"`
	RetentionDays int    `yaml:"retention_days"` // 0 keeps history forever
}

// WebConfig holds web server configuration
type WebConfig struct {
	Host string `yaml:"host"` // Host to bind web server to
	Port int    `yaml:"port"` // Port for web server
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "", // Empty means use default ~/.config/eyebreak/eyebreak.db
		},
		Timer: TimerConfig{
			TickInterval: time.Second,
		},
		Lock: LockConfig{
			Enabled:         true,
			PollInterval:    5 * time.Second,
			MinPollInterval: time.Second,
			MaxPollInterval: 60 * time.Second,
		},
		Notify: NotifyConfig{
			Enabled: true,
			AppName: "eyebreak",
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/eyebreak-%d.pid", os.Getuid()),
			LogFile: fmt.Sprintf("/tmp/eyebreak-%d.log", os.Getuid()),
		},
		Report: ReportConfig{
			TimeZone:      "Local",
			RetentionDays: 365,
		},
		Web: WebConfig{
			Host: "localhost",
			Port: 20000 + os.Getuid()%10000, // Per-user default port
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Timer.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %v", c.Timer.TickInterval)
	}

	if c.Lock.Enabled {
		if c.Lock.PollInterval < c.Lock.MinPollInterval {
			return fmt.Errorf("lock poll interval (%v) cannot be less than minimum (%v)",
				c.Lock.PollInterval, c.Lock.MinPollInterval)
		}
		if c.Lock.PollInterval > c.Lock.MaxPollInterval {
			return fmt.Errorf("lock poll interval (%v) cannot be greater than maximum (%v)",
				c.Lock.PollInterval, c.Lock.MaxPollInterval)
		}
	}

	// Validate web config
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}

	if c.Web.Host == "" {
		return fmt.Errorf("web host cannot be empty")
	}

	// Validate daemon config
	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	if c.Report.RetentionDays < 0 {
		return fmt.Errorf("report retention days cannot be negative, got %d", c.Report.RetentionDays)
	}

	if c.Report.TimeZone != "" && c.Report.TimeZone != "Local" {
		if _, err := time.LoadLocation(c.Report.TimeZone); err != nil {
			return fmt.Errorf("invalid report time zone %q: %w", c.Report.TimeZone, err)
		}
	}

	return nil
}

// SetLockPollInterval sets the lock poll interval with validation
func (c *Config) SetLockPollInterval(interval time.Duration) error {
	if interval < c.Lock.MinPollInterval {
		return fmt.Errorf("lock poll interval cannot be less than %v", c.Lock.MinPollInterval)
	}
	if interval > c.Lock.MaxPollInterval {
		return fmt.Errorf("lock poll interval cannot be greater than %v", c.Lock.MaxPollInterval)
	}
	c.Lock.PollInterval = interval
	return nil
}

// SetWebPort sets the web server port with validation
func (c *Config) SetWebPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	c.Web.Port = port
	return nil
}

// BaseURL is the address CLI commands use to reach a running daemon.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Web.Host, c.Web.Port)
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Database:
    Path: %s
  Timer:
    Tick Interval: %v
  Lock:
    Enabled: %v
    Poll Interval: %v
  Notify:
    Enabled: %v
  Daemon:
    PID File: %s
    Log File: %s
  Report:
    Time Zone: %s
    Retention Days: %d
  Web:
    Host: %s
    Port: %d`,
		c.Database.Path,
		c.Timer.TickInterval,
		c.Lock.Enabled,
		c.Lock.PollInterval,
		c.Notify.Enabled,
		c.Daemon.PIDFile,
		c.Daemon.LogFile,
		c.Report.TimeZone,
		c.Report.RetentionDays,
		c.Web.Host,
		c.Web.Port,
	)
}
