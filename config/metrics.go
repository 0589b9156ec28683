package config

import "fmt"

// MetricsConfig selects the metrics backends. Both are optional; a run
// with neither enabled records nothing.
type MetricsConfig struct {
	PushgatewayEnabled bool   `json:"pushgateway_enabled"`
	PushgatewayURL     string `json:"pushgateway_url"`
	JobName            string `json:"job_name"`

	InfluxEnabled bool   `json:"influx_enabled"`
	InfluxURL     string `json:"influx_url"`
	InfluxToken   string `json:"influx_token"`
	InfluxOrg     string `json:"influx_org"`
	InfluxBucket  string `json:"influx_bucket"`
}

// Validate checks that enabled backends are addressable.
func (c MetricsConfig) Validate() error {
	if c.PushgatewayEnabled && c.PushgatewayURL == "" {
		return fmt.Errorf("metrics.pushgateway_url is required when the pushgateway is enabled")
	}
	if c.InfluxEnabled && c.InfluxURL == "" {
		return fmt.Errorf("metrics.influx_url is required when influx is enabled")
	}
	return nil
}

// Job returns the pushgateway job name, defaulted.
func (c MetricsConfig) Job() string {
	if c.JobName == "" {
		return "robotaxi-safety-tracker"
	}
	return c.JobName
}
