package config

import (
	"os"
	"strconv"
)

// ApplyEnv overrides configuration from environment variables. Unset or
// unparsable values leave the config untouched.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("GESTAPP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("GESTAPP_DATA_DIR"); v != "" {
		c.Server.DataDir = v
	}
	if v := getEnvInt("GESTAPP_PAGE_SIZE"); v > 0 {
		c.Tasks.PageSize = v
	}
	if v := getEnvInt("GESTAPP_OVERDUE_GRACE_MINUTES"); v > 0 {
		c.Alerts.OverdueGraceMinutes = v
	}
	if v := os.Getenv("GESTAPP_ALERT_SCAN_SPEC"); v != "" {
		c.Alerts.ScanSpec = v
	}
	if v := getEnvInt("GESTAPP_SESSION_TTL_HOURS"); v > 0 {
		c.Auth.SessionTTLHours = v
	}
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}
