package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Sites
		Sessions
		Autocomplete
		Tasks
		History
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Sites struct {
		UserAgent       string
		RequestTimeout  time.Duration
		RequestInterval time.Duration // Minimum spacing between requests to one site
		Enabled         []string      // Empty means every registered site
		File            string        // Optional YAML file with extra dapi sites
	}
	Sessions struct {
		IdleTTL       time.Duration // Sessions untouched for this long are reaped
		SweepSchedule string        // Cron format: "*/5 * * * *" = every 5 minutes
	}
	Autocomplete struct {
		MaxSuggestions int
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	History struct {
		RetentionDays   int    // Days to keep favourite events (default: 90)
		CleanupSchedule string // Cron format: "30 3 * * *" = daily at 03:30
	}
)

// loadDotEnv loads a .env file from the working directory if one exists.
// Variables already present in the environment win.
func loadDotEnv(filenames ...string) {
	if err := godotenv.Load(filenames...); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}
}

// splitList parses a comma-separated env value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func NewConfig() *Config {
	loadDotEnv()
	return newConfig(viper.New())
}

func newConfig(v *viper.Viper) *Config {
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Site client defaults
	v.SetDefault("site_user_agent", DefaultUserAgent)
	v.SetDefault("site_request_timeout", "10s")
	v.SetDefault("site_request_interval", "500ms")
	v.SetDefault("sites_enabled", "")

	// Session defaults
	v.SetDefault("session_idle_ttl", "15m")
	v.SetDefault("session_sweep_schedule", "*/5 * * * *")

	v.SetDefault("autocomplete_max_suggestions", MaxAutocompleteSuggestions)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Favourite history defaults
	v.SetDefault("history_retention_days", 90)
	v.SetDefault("history_cleanup_schedule", "30 3 * * *")

	maxSuggestions := v.GetInt("AUTOCOMPLETE_MAX_SUGGESTIONS")
	if maxSuggestions <= 0 || maxSuggestions > MaxAutocompleteSuggestions {
		maxSuggestions = MaxAutocompleteSuggestions
	}

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Sites: Sites{
			UserAgent:       v.GetString("SITE_USER_AGENT"),
			RequestTimeout:  v.GetDuration("SITE_REQUEST_TIMEOUT"),
			RequestInterval: v.GetDuration("SITE_REQUEST_INTERVAL"),
			Enabled:         splitList(v.GetString("SITES_ENABLED")),
			File:            v.GetString("SITES_FILE"),
		},
		Sessions: Sessions{
			IdleTTL:       v.GetDuration("SESSION_IDLE_TTL"),
			SweepSchedule: v.GetString("SESSION_SWEEP_SCHEDULE"),
		},
		Autocomplete: Autocomplete{
			MaxSuggestions: maxSuggestions,
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		History: History{
			RetentionDays:   v.GetInt("HISTORY_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("HISTORY_CLEANUP_SCHEDULE"),
		},
	}
}
