package connector

import (
	"errors"
	"time"
)

// Config represents database connection configuration.
//
// DSN, Username and Password are the three values a host environment must
// supply. When DSN is empty it is assembled from Host, Port and Database.
type Config struct {
	Driver         string            `json:"driver" yaml:"driver" mapstructure:"driver"`
	DSN            string            `json:"dsn" yaml:"dsn" mapstructure:"dsn"`
	Username       string            `json:"username" yaml:"username" mapstructure:"username"`
	Password       string            `json:"password" yaml:"password" mapstructure:"password"`
	Host           string            `json:"host" yaml:"host" mapstructure:"host"`
	Port           int               `json:"port" yaml:"port" mapstructure:"port"`
	Database       string            `json:"database" yaml:"database" mapstructure:"database"`
	SSLMode        string            `json:"ssl_mode" yaml:"ssl_mode" mapstructure:"ssl_mode"`
	Params         map[string]string `json:"params" yaml:"params" mapstructure:"params"`
	Pool           PoolConfig        `json:"pool" yaml:"pool" mapstructure:"pool"`
	ConnectTimeout time.Duration     `json:"connect_timeout" yaml:"connect_timeout" mapstructure:"connect_timeout"`
	QueryTimeout   time.Duration     `json:"query_timeout" yaml:"query_timeout" mapstructure:"query_timeout"`
	Retry          *RetryConfig      `json:"retry,omitempty" yaml:"retry,omitempty" mapstructure:"retry"`
}

// PoolConfig defines connection pool settings.
type PoolConfig struct {
	MaxOpen     int           `json:"max_open" yaml:"max_open" mapstructure:"max_open"`
	MaxIdle     int           `json:"max_idle" yaml:"max_idle" mapstructure:"max_idle"`
	MaxLifetime time.Duration `json:"max_lifetime" yaml:"max_lifetime" mapstructure:"max_lifetime"`
	MaxIdleTime time.Duration `json:"max_idle_time" yaml:"max_idle_time" mapstructure:"max_idle_time"`
}

// RetryConfig defines connection retry behavior.
type RetryConfig struct {
	MaxRetries int           `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
	BaseDelay  time.Duration `json:"base_delay" yaml:"base_delay" mapstructure:"base_delay"`
	MaxDelay   time.Duration `json:"max_delay" yaml:"max_delay" mapstructure:"max_delay"`
	Backoff    float64       `json:"backoff" yaml:"backoff" mapstructure:"backoff"`
}

// Validate checks that enough is set to open a connection. A Database
// alone is enough for file-backed stores.
func (c Config) Validate() error {
	if c.DSN == "" && c.Host == "" && c.Database == "" {
		return errors.New("connector: dsn, host or database is required")
	}
	if c.Pool.MaxOpen < 0 || c.Pool.MaxIdle < 0 {
		return errors.New("connector: pool sizes must not be negative")
	}
	return nil
}
