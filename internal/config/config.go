/*
 * config.go, part of ffinspector.
 *
 * Copyright 2026 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package config loads the settings of the ffinspect command and server from a YAML
//file, FFINSPECT_* environment variables and built-in defaults, in increasing order of
//precedence: defaults, file, environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//EnvPrefix is the prefix of the environment variables read. The nested key
//"server.addr" is read from FFINSPECT_SERVER_ADDR.
const EnvPrefix = "FFINSPECT"

type Server struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	//Workers bounds the conformers evaluated concurrently in one request.
	Workers int `mapstructure:"workers"`
	//MaxBodyBytes bounds the size of request bodies.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
}

type Log struct {
	Level  string `mapstructure:"level"`  //debug, info, warn or error
	Format string `mapstructure:"format"` //json or console
}

//Registry configures where force fields, beyond the built-in ones, are loaded from.
type Registry struct {
	Dir   string `mapstructure:"dir"`
	Watch bool   `mapstructure:"watch"`
}

//Cache configures the cache of energy results. With an empty RedisAddr an in-memory
//cache of MemoryEntries entries is used.
type Cache struct {
	Enabled       bool          `mapstructure:"enabled"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
	MemoryEntries int           `mapstructure:"memory_entries"`
}

type Minimizer struct {
	Tolerance         float64 `mapstructure:"tolerance"`
	MaxIterations     int     `mapstructure:"max_iterations"`
	GradientThreshold float64 `mapstructure:"gradient_threshold"`
}

type Config struct {
	Server    Server    `mapstructure:"server"`
	Log       Log       `mapstructure:"log"`
	Registry  Registry  `mapstructure:"registry"`
	Cache     Cache     `mapstructure:"cache"`
	Minimizer Minimizer `mapstructure:"minimizer"`
}

var defaults = map[string]interface{}{
	"server.addr":                  ":8080",
	"server.read_timeout":          "30s",
	"server.write_timeout":         "5m",
	"server.shutdown_timeout":      "15s",
	"server.workers":               4,
	"server.max_body_bytes":        8 << 20,
	"log.level":                    "info",
	"log.format":                   "json",
	"registry.dir":                 "",
	"registry.watch":               false,
	"cache.enabled":                true,
	"cache.redis_addr":             "",
	"cache.redis_password":         "",
	"cache.redis_db":               0,
	"cache.ttl":                    "1h",
	"cache.memory_entries":         1024,
	"minimizer.tolerance":          1e-6,
	"minimizer.max_iterations":     2000,
	"minimizer.gradient_threshold": 1e-4,
}

//New returns a viper instance set up with the defaults and the environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

//Load reads the configuration. An empty path means defaults and environment only.
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %q: %w", path, err)
		}
	}
	return FromViper(v)
}

//FromViper builds and validates a Config from v. It allows the command line to bind
//its flags to v before the configuration is built.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

//Validate checks that the values in C are usable.
func (C *Config) Validate() error {
	switch strings.ToLower(C.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", C.Log.Level)
	}
	if f := strings.ToLower(C.Log.Format); f != "json" && f != "console" {
		return fmt.Errorf("config: unknown log format %q", C.Log.Format)
	}
	if C.Server.Workers < 1 {
		return fmt.Errorf("config: server.workers must be positive, got %d", C.Server.Workers)
	}
	if C.Minimizer.Tolerance <= 0 || C.Minimizer.GradientThreshold <= 0 {
		return fmt.Errorf("config: minimizer tolerance and gradient threshold must be positive")
	}
	if C.Minimizer.MaxIterations < 1 {
		return fmt.Errorf("config: minimizer.max_iterations must be positive, got %d", C.Minimizer.MaxIterations)
	}
	if C.Cache.Enabled && C.Cache.RedisAddr == "" && C.Cache.MemoryEntries < 1 {
		return fmt.Errorf("config: cache.memory_entries must be positive for the in-memory cache")
	}
	return nil
}
