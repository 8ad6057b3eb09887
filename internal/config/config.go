package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port   int    `yaml:"port"`
		APIKey string `yaml:"api_key"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		IntervalHours int    `yaml:"interval_hours"`
		Path          string `yaml:"path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Calendar struct {
		HourHeight     float64 `yaml:"hour_height"`
		MinEventHeight float64 `yaml:"min_event_height"`
	} `yaml:"calendar"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Watcher struct {
		APIBaseURL         string `yaml:"api_base_url"`
		APIKey             string `yaml:"api_key"`
		Schedule           string `yaml:"schedule"`
		CacheTTLSeconds    int    `yaml:"cache_ttl_seconds"`
		AwaitingPartsAlert int    `yaml:"awaiting_parts_alert"`
		ReportPath         string `yaml:"report_path"`
		ReportSchedule     string `yaml:"report_schedule"`
	} `yaml:"watcher"`

	Telegram struct {
		BotToken         string `yaml:"bot_token"`
		DispatcherChatID int64  `yaml:"dispatcher_chat_id"`
	} `yaml:"telegram"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/fieldsvc.db"
	}
	if cfg.Watcher.Schedule == "" {
		cfg.Watcher.Schedule = "@every 15m"
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) BackupInterval() time.Duration {
	if c.Backup.IntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Backup.IntervalHours) * time.Hour
}

func (c *Config) BackupRetention() time.Duration {
	if c.Backup.RetentionDays <= 0 {
		return 14 * 24 * time.Hour
	}
	return time.Duration(c.Backup.RetentionDays) * 24 * time.Hour
}

func (c *Config) WatcherCacheTTL() time.Duration {
	return time.Duration(c.Watcher.CacheTTLSeconds) * time.Second
}
