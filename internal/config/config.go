package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type ConnectionConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password,omitempty"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"sslmode"`
	AuthMethod     string `yaml:"auth_method,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

// TripsConfig holds defaults for `taxiload trips`. Zero values mean "not set".
type TripsConfig struct {
	URL         string `yaml:"url,omitempty"`
	Taxi        string `yaml:"taxi,omitempty"`
	Year        int    `yaml:"year,omitempty"`
	Month       int    `yaml:"month,omitempty"`
	TargetTable string `yaml:"target_table,omitempty"`
	ChunkSize   int64  `yaml:"chunksize,omitempty"`
}

type ZonesConfig struct {
	URL         string `yaml:"url,omitempty"`
	TargetTable string `yaml:"target_table,omitempty"`
}

// S3Config configures s3:// sources. Credentials come from the AWS chain.
type S3Config struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	Region    string `yaml:"region,omitempty"`
	PathStyle bool   `yaml:"path_style,omitempty"`
}

type ProjectConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	Trips      TripsConfig      `yaml:"trips"`
	Zones      ZonesConfig      `yaml:"zones"`
	S3         S3Config         `yaml:"s3"`
	Timeout    string           `yaml:"timeout"`
}

const ConfigFileName = "taxiload.yaml"

// Load reads taxiload.yaml from dir.
func Load(dir string) (*ProjectConfig, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads the config file at path.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrConfigNotFound)
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// TimeoutDuration parses Timeout. An empty value returns 0.
func (c *ProjectConfig) TimeoutDuration() (time.Duration, error) {
	if c == nil || c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q in %s: %w", c.Timeout, ConfigFileName, err)
	}
	return d, nil
}
