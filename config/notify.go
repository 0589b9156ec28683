package config

import (
	"strconv"

	"github.com/knhuang/robotaxi-safety-tracker/infra/notify"
)

// NotifyConfig selects the delivery channels for the weekly summary.
type NotifyConfig struct {
	SMTP notify.SMTPConfig `json:"smtp"`

	MQTTEnabled bool              `json:"mqtt_enabled"`
	MQTT        notify.MQTTConfig `json:"mqtt"`
}

// SetDefaults applies provider defaults.
func (c *NotifyConfig) SetDefaults() {
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 465
	}
	if c.SMTP.FromName == "" {
		c.SMTP.FromName = "Robotaxi Safety Tracker"
	}
	if c.MQTT.Topic == "" {
		c.MQTT.Topic = "safety-tracker/summary"
	}
}

// applySMTPEnv layers the legacy SMTP_* environment variables over the
// file values, matching how the scheduled job has always been
// credentialed.
func (c *NotifyConfig) applySMTPEnv(getenv func(string) string) {
	if v := getenv("SMTP_HOST"); v != "" {
		c.SMTP.Host = v
	}
	if v := getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.SMTP.Port = p
		}
	}
	if v := getenv("SMTP_USER"); v != "" {
		c.SMTP.User = v
	}
	if v := getenv("SMTP_PASS"); v != "" {
		c.SMTP.Password = v
	}
}
