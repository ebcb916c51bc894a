package internal

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/tuannm99/novaresult/internal/collection"
	"github.com/tuannm99/novaresult/internal/render"
)

const EnvPrefix = "NOVARESULT"

type NovaResultConfig struct {
	AppName string `mapstructure:"app_name"`

	Collection struct {
		ChunkCapacity int `mapstructure:"chunk_capacity"`
	} `mapstructure:"collection"`

	Render render.Config `mapstructure:"render"`

	Server struct {
		Addr           string `mapstructure:"addr"`
		Debug          bool   `mapstructure:"debug"`
		MaxOpenResults int    `mapstructure:"max_open_results"`
		BatchRows      int    `mapstructure:"batch_rows"`
	} `mapstructure:"server"`

	Log LogConfig `mapstructure:"log"`

	// Datasets maps a dataset name to a CSV or JSON-lines file.
	Datasets map[string]string `mapstructure:"datasets"`
}

func setDefaults(v *viper.Viper) {
	r := render.DefaultConfig()
	v.SetDefault("app_name", "novaresult")
	v.SetDefault("collection.chunk_capacity", collection.DefaultChunkCapacity)
	v.SetDefault("render.max_rows", r.MaxRows)
	v.SetDefault("render.max_width", r.MaxWidth)
	v.SetDefault("render.max_col_width", r.MaxColWidth)
	v.SetDefault("render.null_value", r.NullValue)
	v.SetDefault("server.addr", "127.0.0.1:8866")
	v.SetDefault("server.debug", false)
	v.SetDefault("server.max_open_results", 16)
	v.SetDefault("server.batch_rows", 1024)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("datasets", map[string]string{})
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultConfig returns the built-in defaults, ignoring the environment.
func DefaultConfig() *NovaResultConfig {
	v := viper.New()
	setDefaults(v)
	var cfg NovaResultConfig
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// LoadConfig reads a yaml file on top of the defaults. An empty path loads
// defaults and environment only.
func LoadConfig(path string) (*NovaResultConfig, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return decode(v)
}

func decode(v *viper.Viper) (*NovaResultConfig, error) {
	var cfg NovaResultConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Collection.ChunkCapacity <= 0 {
		return nil, fmt.Errorf("config: collection.chunk_capacity must be positive, got %d", cfg.Collection.ChunkCapacity)
	}
	if cfg.Server.MaxOpenResults <= 0 {
		return nil, fmt.Errorf("config: server.max_open_results must be positive, got %d", cfg.Server.MaxOpenResults)
	}
	if cfg.Server.BatchRows <= 0 {
		return nil, fmt.Errorf("config: server.batch_rows must be positive, got %d", cfg.Server.BatchRows)
	}
	return &cfg, nil
}
