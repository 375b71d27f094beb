// Package config loads connection settings from the environment and an
// optional dao.yaml file.
//
// Environment variables take priority over the file. The three a host must
// supply are DB_DSN, DB_USERNAME and DB_PASSWORD; DB_DRIVER selects the
// provider and defaults to postgres. Nested keys map to underscored names,
// so pool.max_open is read from DB_POOL_MAX_OPEN.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Konsultn-Engineering/dao/connector"
)

const (
	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "DB"
	// FileName is the config file searched for in "." and "./conf".
	FileName = "dao"
	// DefaultDriver is used when no driver is configured.
	DefaultDriver = "postgres"
)

// keys lists every setting that may come from the environment. Viper only
// consults the environment for keys it already knows about.
var keys = []string{
	"driver",
	"dsn",
	"username",
	"password",
	"host",
	"port",
	"database",
	"ssl_mode",
	"connect_timeout",
	"query_timeout",
	"pool.max_open",
	"pool.max_idle",
	"pool.max_lifetime",
	"pool.max_idle_time",
	"retry.max_retries",
	"retry.base_delay",
	"retry.max_delay",
	"retry.backoff",
}

// Load reads the configuration from the environment, merged over dao.yaml
// when one is found in the working directory or ./conf.
func Load() (connector.Config, error) {
	v := newViper()
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./conf")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return connector.Config{}, fmt.Errorf("config: read %s.yaml: %w", FileName, err)
		}
	}
	return decode(v)
}

// LoadFile reads the configuration from path, with the environment taking
// priority. The file must exist.
func LoadFile(path string) (connector.Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return connector.Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		// BindEnv only fails when called without a key.
		_ = v.BindEnv(k)
	}
	v.SetDefault("driver", DefaultDriver)
	return v
}

func decode(v *viper.Viper) (connector.Config, error) {
	var cfg connector.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return connector.Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if cfg.Retry != nil && *cfg.Retry == (connector.RetryConfig{}) {
		cfg.Retry = nil
	}
	return cfg, nil
}
