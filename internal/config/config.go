package config

import (
	"fmt"
	"time"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

// PathEnv names the variable holding an optional YAML config file.
const PathEnv = "TASKFLOW_CONFIG"

var globalConfig *Config

// Global returns the configuration installed by SetGlobal, or nil.
func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	Postgres PostgresConfig `yaml:"postgres"`
	Layout   LayoutConfig   `yaml:"layout"`
	Memo     MemoConfig     `yaml:"memo"`
}

type HTTPConfig struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"127.0.0.1"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"7777"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// PostgresConfig is optional; an empty DSN means tasks come from a file.
type PostgresConfig struct {
	DSN            string        `yaml:"dsn" env:"POSTGRES_DSN"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	EnsureSchema   bool          `yaml:"ensure_schema" env:"POSTGRES_ENSURE_SCHEMA" env-default:"false"`
}

// LayoutConfig holds the pixel geometry of the Gantt and PERT layouts.
type LayoutConfig struct {
	UnitWidth       float64 `yaml:"unit_width" env:"LAYOUT_UNIT_WIDTH" env-default:"40"`
	RowHeight       float64 `yaml:"row_height" env:"LAYOUT_ROW_HEIGHT" env-default:"40"`
	PertColumnWidth float64 `yaml:"pert_column_width" env:"LAYOUT_PERT_COLUMN_WIDTH" env-default:"220"`
	PertRowHeight   float64 `yaml:"pert_row_height" env:"LAYOUT_PERT_ROW_HEIGHT" env-default:"110"`
	PertPadding     float64 `yaml:"pert_padding" env:"LAYOUT_PERT_PADDING" env-default:"40"`
}

type MemoConfig struct {
	Size int `yaml:"size" env:"MEMO_SIZE" env-default:"128"`
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("unknown env: %s", c.Env)
	}
	if c.Layout.UnitWidth <= 0 || c.Layout.RowHeight <= 0 {
		return fmt.Errorf("layout unit width and row height must be positive")
	}
	if c.Layout.PertColumnWidth <= 0 || c.Layout.PertRowHeight <= 0 || c.Layout.PertPadding < 0 {
		return fmt.Errorf("invalid pert geometry")
	}
	if c.Memo.Size <= 0 {
		return fmt.Errorf("memo size must be positive, got %d", c.Memo.Size)
	}
	return nil
}
