package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server Server `yaml:"server" json:"server"`
	Tasks  Tasks  `yaml:"tasks" json:"tasks"`
	Alerts Alerts `yaml:"alerts" json:"alerts"`
	Auth   Auth   `yaml:"auth" json:"auth"`
}

type Server struct {
	Addr      string `yaml:"addr" json:"addr"`
	DataDir   string `yaml:"data_dir" json:"data_dir"`
	StaticDir string `yaml:"static_dir" json:"static_dir"`
}

type Tasks struct {
	// PageSize is the fixed page size of the console task views.
	PageSize int `yaml:"page_size" json:"page_size"`
}

type Alerts struct {
	// OverdueGraceMinutes is how long past due a task may run before
	// the overdue scan raises an alert.
	OverdueGraceMinutes int `yaml:"overdue_grace_minutes" json:"overdue_grace_minutes"`

	// ScanSpec is the cron expression of the overdue scan.
	ScanSpec string `yaml:"scan_spec" json:"scan_spec"`
}

type Auth struct {
	OTPTTLMinutes   int `yaml:"otp_ttl_minutes" json:"otp_ttl_minutes"`
	SessionTTLHours int `yaml:"session_ttl_hours" json:"session_ttl_hours"`
	MaxOTPAttempts  int `yaml:"max_otp_attempts" json:"max_otp_attempts"`
}

func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.DataDir == "" {
		c.Server.DataDir = "data"
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = "static"
	}
	if c.Tasks.PageSize <= 0 {
		c.Tasks.PageSize = 20
	}
	if c.Alerts.OverdueGraceMinutes <= 0 {
		c.Alerts.OverdueGraceMinutes = 20
	}
	if c.Alerts.ScanSpec == "" {
		c.Alerts.ScanSpec = "@every 5m"
	}
	if c.Auth.OTPTTLMinutes <= 0 {
		c.Auth.OTPTTLMinutes = 10
	}
	if c.Auth.SessionTTLHours <= 0 {
		c.Auth.SessionTTLHours = 7 * 24
	}
	if c.Auth.MaxOTPAttempts <= 0 {
		c.Auth.MaxOTPAttempts = 5
	}
}

func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	return &c, nil
}
