package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	_ "github.com/joho/godotenv/autoload"
)

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// FileReader reads a YAML file and then applies environment variables on
// top of it.
type FileReader struct {
	path string
}

func NewFileReader(path string) FileReader {
	return FileReader{path: path}
}

func (r FileReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadConfig(r.path, cfg)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", r.path, err)
	}

	return cfg, cfg.Validate()
}

// NewReader returns a FileReader when TASKFLOW_CONFIG is set and an
// EnvReader otherwise.
func NewReader() Reader {
	if path := os.Getenv(PathEnv); path != "" {
		return NewFileReader(path)
	}
	return NewEnvReader()
}
