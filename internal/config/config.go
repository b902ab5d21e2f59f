// Package config loads connector configuration from environment variables.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"

	"github.com/opsbridge/oracle-db-connector/internal/app/domain"
)

const (
	oracleEnvPrefix    = "ORACLE_"
	connectorEnvPrefix = "CONNECTOR_"

	defaultListenAddr     = ":8080"
	defaultConnectTimeout = 10 * time.Second
)

// Config holds the connector configuration loaded from environment variables.
type Config struct {
	// Connection holds the effective database connection values. The
	// ORACLE_HOST, ORACLE_PORT, ORACLE_SERVICE, ORACLE_USER and
	// ORACLE_PASSWORD variables populate the individual fields; a
	// pre-composed ORACLE_DSN descriptor of the form host:port/service
	// overrides host, port and service.
	Connection domain.Connection

	// ListenAddr is the bind address for the HTTP server (CONNECTOR_LISTEN_ADDR).
	ListenAddr string
	// ConnectTimeout bounds each connect and query round trip (CONNECTOR_CONNECT_TIMEOUT).
	ConnectTimeout time.Duration
	// PayloadKeyFile is the path of the payload encryption private key (CONNECTOR_PAYLOAD_KEY_FILE).
	PayloadKeyFile string
}

// HasCredentials returns true when both a username and a password are set.
func (c *Config) HasCredentials() bool {
	return len(c.Connection.Username) > 0 && len(c.Connection.Password) > 0
}

// Load reads the connector configuration from the environment, applies the
// documented defaults (localhost:1521/FREEPDB1) and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(confmap.Provider(map[string]interface{}{
		"oracle.host":                domain.DefaultHost,
		"oracle.port":                strconv.Itoa(domain.DefaultPort),
		"oracle.service":             domain.DefaultServiceName,
		"connector.listen_addr":      defaultListenAddr,
		"connector.connect_timeout":  defaultConnectTimeout.String(),
		"connector.payload_key_file": "/keys/payload-encryption-key.pem",
	}, "."), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration defaults: %w", err)
	}

	err = k.Load(env.Provider(oracleEnvPrefix, ".", func(name string) string {
		return "oracle." + strings.ToLower(strings.TrimPrefix(name, oracleEnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s environment variables: %w", oracleEnvPrefix, err)
	}

	err = k.Load(env.Provider(connectorEnvPrefix, ".", func(name string) string {
		return "connector." + strings.ToLower(strings.TrimPrefix(name, connectorEnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s environment variables: %w", connectorEnvPrefix, err)
	}

	port, err := strconv.Atoi(k.String("oracle.port"))
	if err != nil {
		return nil, fmt.Errorf("ORACLE_PORT has invalid value %q: %w", k.String("oracle.port"), err)
	}

	cfg := &Config{
		Connection: domain.Connection{
			HostnameOrAddress: k.String("oracle.host"),
			Port:              port,
			ServiceName:       k.String("oracle.service"),
			Username:          k.String("oracle.user"),
			Password:          k.String("oracle.password"),
		},
		ListenAddr:     k.String("connector.listen_addr"),
		PayloadKeyFile: k.String("connector.payload_key_file"),
	}

	if dsn := k.String("oracle.dsn"); len(dsn) > 0 {
		descriptor, err := domain.ParseDescriptor(dsn)
		if err != nil {
			return nil, fmt.Errorf("ORACLE_DSN is not a valid connection descriptor: %w", err)
		}

		cfg.Connection.HostnameOrAddress = descriptor.Host
		cfg.Connection.Port = descriptor.Port
		cfg.Connection.ServiceName = descriptor.ServiceName
	}

	timeout := k.String("connector.connect_timeout")
	cfg.ConnectTimeout, err = time.ParseDuration(timeout)
	if err != nil {
		return nil, fmt.Errorf("CONNECTOR_CONNECT_TIMEOUT has invalid duration %q: %w", timeout, err)
	}

	if err = cfg.Connection.Descriptor().Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
