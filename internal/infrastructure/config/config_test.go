package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig drops a YAML config into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "iiod.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "{}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("default logging level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("default logging output = %q, want stderr", cfg.Logging.Output)
	}
	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("default MQTT port = %d, want 1883", cfg.MQTT.Broker.Port)
	}
	if cfg.MQTT.Broker.ClientID != "iiod" {
		t.Errorf("default MQTT client id = %q, want iiod", cfg.MQTT.Broker.ClientID)
	}
	if cfg.MQTT.Enabled || cfg.InfluxDB.Enabled {
		t.Error("telemetry backends must default to disabled")
	}
}

func TestLoadDevices(t *testing.T) {
	path := writeConfig(t, `
stream:
  read_chunk_bytes: 512
devices:
  - id: iio:device0
    name: adc0
    sample_size: 2
    waveform: ramp
    attributes:
      sampling_frequency: "1000"
  - id: iio:device1
    name: accel
    sample_size: 4
    waveform: random
    seed: 42
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Stream.ReadChunkBytes != 512 {
		t.Errorf("read_chunk_bytes = %d, want 512", cfg.Stream.ReadChunkBytes)
	}
	if len(cfg.Devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(cfg.Devices))
	}
	if cfg.Devices[0].ID != "iio:device0" || cfg.Devices[0].SampleSize != 2 {
		t.Errorf("first device parsed as %+v", cfg.Devices[0])
	}
	if cfg.Devices[0].Attributes["sampling_frequency"] != "1000" {
		t.Errorf("attributes not parsed: %+v", cfg.Devices[0].Attributes)
	}
	if cfg.Devices[1].Seed != 42 {
		t.Errorf("seed = %d, want 42", cfg.Devices[1].Seed)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "devices: [\n")
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("IIOD_MQTT_HOST", "broker.lab")
	t.Setenv("IIOD_MQTT_USERNAME", "daq")
	t.Setenv("IIOD_MQTT_PASSWORD", "secret")
	t.Setenv("IIOD_INFLUXDB_TOKEN", "tok123")

	path := writeConfig(t, `
mqtt:
  broker:
    host: localhost
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MQTT.Broker.Host != "broker.lab" {
		t.Errorf("env override missed: host = %q", cfg.MQTT.Broker.Host)
	}
	if cfg.MQTT.Auth.Username != "daq" || cfg.MQTT.Auth.Password != "secret" {
		t.Errorf("env override missed: auth = %+v", cfg.MQTT.Auth)
	}
	if cfg.InfluxDB.Token != "tok123" {
		t.Errorf("env override missed: token = %q", cfg.InfluxDB.Token)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "bad qos",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: "mqtt.qos",
		},
		{
			name: "mqtt enabled without host",
			mutate: func(c *Config) {
				c.MQTT.Enabled = true
				c.MQTT.Broker.Host = ""
			},
			wantErr: "mqtt.broker.host",
		},
		{
			name:    "influx enabled without url",
			mutate:  func(c *Config) { c.InfluxDB.Enabled = true },
			wantErr: "influxdb.url",
		},
		{
			name:    "negative chunk",
			mutate:  func(c *Config) { c.Stream.ReadChunkBytes = -1 },
			wantErr: "read_chunk_bytes",
		},
		{
			name: "device without id",
			mutate: func(c *Config) {
				c.Devices = []DeviceConfig{{SampleSize: 2}}
			},
			wantErr: "id is required",
		},
		{
			name: "duplicate device id",
			mutate: func(c *Config) {
				c.Devices = []DeviceConfig{
					{ID: "d", SampleSize: 2},
					{ID: "d", SampleSize: 4},
				}
			},
			wantErr: "duplicated",
		},
		{
			name: "bad sample size",
			mutate: func(c *Config) {
				c.Devices = []DeviceConfig{{ID: "d"}}
			},
			wantErr: "sample_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestDurationGetters(t *testing.T) {
	cfg := defaultConfig()
	if got := cfg.GetReconnectInitialDelay().Seconds(); got != 1 {
		t.Errorf("initial delay = %vs, want 1s", got)
	}
	if got := cfg.GetReconnectMaxDelay().Seconds(); got != 60 {
		t.Errorf("max delay = %vs, want 60s", got)
	}
}
