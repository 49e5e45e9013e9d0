package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/taxiload/taxiload/internal/config"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

// ConnFlags holds the connection flags the user actually set.
// Unset flags are zero values; defaults are applied by the resolver, not by cobra.
type ConnFlags struct {
	Connection string

	Host     string
	Port     int
	Username string
	Password string
	Database string
	SSLMode  string

	Auth           string
	AWSRegion      string
	GoogleInstance string
	AzureTenantID  string
	AzureClientID  string
}

// hasGranular reports whether any host/port/user/password flag was set.
// Database and sslmode may be combined with --connection to override it.
func (f *ConnFlags) hasGranular() bool {
	return f.Host != "" || f.Port != 0 || f.Username != "" || f.Password != ""
}

// EnvVars holds libpq and cloud SDK environment variables.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST       string
	PGPORT       string
	PGUSER       string
	PGPASSWORD   string
	PGDATABASE   string
	PGSSLMODE    string
	DATABASE_URL string

	AWS_REGION string

	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string
}

func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:              os.Getenv("PGHOST"),
		PGPORT:              os.Getenv("PGPORT"),
		PGUSER:              os.Getenv("PGUSER"),
		PGPASSWORD:          os.Getenv("PGPASSWORD"),
		PGDATABASE:          os.Getenv("PGDATABASE"),
		PGSSLMODE:           os.Getenv("PGSSLMODE"),
		DATABASE_URL:        os.Getenv("DATABASE_URL"),
		AWS_REGION:          os.Getenv("AWS_REGION"),
		AZURE_TENANT_ID:     os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:     os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET: os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

// ResolveConnectionParams merges flags, environment, taxiload.yaml and
// defaults, in that order of precedence.
//
// A full connection string comes from --connection, or from $DATABASE_URL
// when no granular flag is set. It cannot be combined with --pg-host,
// --pg-port, --pg-user or --pg-pass. Parts the string leaves out are filled
// from the environment as libpq does.
func ResolveConnectionParams(flags *ConnFlags, env *EnvVars, pc *config.ProjectConfig) (*taxiload.ConnectionConfig, error) {
	if flags == nil {
		flags = &ConnFlags{}
	}
	if env == nil {
		env = &EnvVars{}
	}
	var file config.ConnectionConfig
	if pc != nil {
		file = pc.Connection
	}

	if flags.Connection != "" && flags.hasGranular() {
		return nil, fmt.Errorf("cannot combine --connection with --pg-host, --pg-port, --pg-user or --pg-pass: %w", taxiload.ErrInvalidConfig)
	}

	var cfg *taxiload.ConnectionConfig
	var err error

	connStr := flags.Connection
	if connStr == "" && !flags.hasGranular() {
		connStr = env.DATABASE_URL
	}

	if connStr != "" {
		cfg, err = ParseConnectionString(connStr)
		if err != nil {
			return nil, err
		}
		cfg.Username = firstNonEmpty(cfg.Username, env.PGUSER)
		cfg.Password = firstNonEmpty(cfg.Password, env.PGPASSWORD)
		cfg.Database = firstNonEmpty(flags.Database, cfg.Database, env.PGDATABASE, taxiload.DefaultPGDatabase)
		cfg.SSLMode = firstNonEmpty(flags.SSLMode, cfg.SSLMode, env.PGSSLMODE)
	} else {
		cfg, err = resolveGranular(flags, env, file)
		if err != nil {
			return nil, err
		}
	}

	if err := applyAuth(cfg, flags, env, file); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveGranular(flags *ConnFlags, env *EnvVars, file config.ConnectionConfig) (*taxiload.ConnectionConfig, error) {
	cfg := &taxiload.ConnectionConfig{
		Host:             firstNonEmpty(flags.Host, env.PGHOST, file.Host, taxiload.DefaultPGHost),
		Username:         firstNonEmpty(flags.Username, env.PGUSER, file.Username, taxiload.DefaultPGUser),
		Password:         firstNonEmpty(flags.Password, env.PGPASSWORD, file.Password, taxiload.DefaultPGPassword),
		Database:         firstNonEmpty(flags.Database, env.PGDATABASE, file.Database, taxiload.DefaultPGDatabase),
		SSLMode:          firstNonEmpty(flags.SSLMode, env.PGSSLMODE, file.SSLMode),
		AuthMethod:       taxiload.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case env.PGPORT != "":
		port, err := strconv.Atoi(env.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value %q: must be an integer: %w", env.PGPORT, taxiload.ErrInvalidConfig)
		}
		cfg.Port = port
	case file.Port != 0:
		cfg.Port = file.Port
	default:
		cfg.Port = taxiload.DefaultPGPort
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port %d out of range: %w", cfg.Port, taxiload.ErrInvalidConfig)
	}
	return cfg, nil
}

// applyAuth selects the auth method. Explicit --azure-* flags imply Azure
// when --auth is not given; environment variables alone never switch it.
func applyAuth(cfg *taxiload.ConnectionConfig, flags *ConnFlags, env *EnvVars, file config.ConnectionConfig) error {
	authName := firstNonEmpty(flags.Auth, file.AuthMethod)
	if authName == "" && (flags.AzureTenantID != "" || flags.AzureClientID != "") {
		authName = "azure"
	}

	method, err := taxiload.ParseAuthMethod(authName)
	if err != nil {
		return err
	}
	cfg.AuthMethod = method

	switch method {
	case taxiload.AuthMethodAWSIAM:
		cfg.AWSRegion = firstNonEmpty(flags.AWSRegion, env.AWS_REGION, file.AWSRegion)
	case taxiload.AuthMethodGoogleIAM:
		cfg.GoogleInstance = firstNonEmpty(flags.GoogleInstance, file.GoogleInstance)
	case taxiload.AuthMethodAzureEntraID:
		cfg.AzureTenantID = firstNonEmpty(flags.AzureTenantID, env.AZURE_TENANT_ID, file.AzureTenantID)
		cfg.AzureClientID = firstNonEmpty(flags.AzureClientID, env.AZURE_CLIENT_ID, file.AzureClientID)
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
