// Package config loads application configuration from a TOML file with
// environment-variable overrides. File values are defaults; environment
// variables win so deployments can override without editing files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"archcanvas/pkg/errors"
)

// Defaults.
const (
	DefaultListenAddr = ":8420"
	DefaultExportDir  = "exports"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Storage backends.
const (
	StorageNone  = "none"
	StorageFile  = "file"
	StorageMongo = "mongo"
)

// Config is the full application configuration.
type Config struct {
	Server  Server  `toml:"server"`
	Docgen  Docgen  `toml:"docgen"`
	Export  Export  `toml:"export"`
	Cache   Cache   `toml:"cache"`
	Storage Storage `toml:"storage"`
}

// Server configures the HTTP server.
type Server struct {
	ListenAddr string `toml:"listen_addr"`
}

// Docgen configures the documentation-generation service client.
type Docgen struct {
	URL   string `toml:"url"`
	Token string `toml:"token"`
}

// Export configures artifact delivery.
type Export struct {
	Dir string `toml:"dir"`
}

// Cache configures the layout cache. The file backend is the default;
// redis shares cached layouts across instances.
type Cache struct {
	Backend  string `toml:"backend"`
	RedisURL string `toml:"redis_url"`
}

// Storage configures diagram persistence across restarts. With the
// default backend the server starts empty every time.
type Storage struct {
	Backend  string `toml:"backend"`
	Path     string `toml:"path"`
	MongoURI string `toml:"mongo_uri"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		Server:  Server{ListenAddr: DefaultListenAddr},
		Export:  Export{Dir: DefaultExportDir},
		Cache:   Cache{Backend: CacheFile},
		Storage: Storage{Backend: StorageNone},
	}
}

// Load reads configuration in precedence order: defaults, then the TOML
// file at path (skipped when path is empty and the default file does not
// exist), then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = defaultPath()
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if explicit || !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("load config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// defaultPath returns the conventional config file location, or "" when the
// home directory cannot be determined.
func defaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "archcanvas", "config.toml")
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ARCHCANVAS_LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("ARCHCANVAS_DOCGEN_URL"); v != "" {
		cfg.Docgen.URL = v
	}
	if v := os.Getenv("ARCHCANVAS_DOCGEN_TOKEN"); v != "" {
		cfg.Docgen.Token = v
	}
	if v := os.Getenv("ARCHCANVAS_EXPORT_DIR"); v != "" {
		cfg.Export.Dir = v
	}
	if v := os.Getenv("ARCHCANVAS_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("ARCHCANVAS_REDIS_URL"); v != "" {
		cfg.Cache.RedisURL = v
	}
	if v := os.Getenv("ARCHCANVAS_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("ARCHCANVAS_MONGO_URI"); v != "" {
		cfg.Storage.MongoURI = v
	}
}

func (c Config) validate() error {
	if c.Docgen.URL != "" {
		if err := errors.ValidateURL(c.Docgen.URL); err != nil {
			return err
		}
	}
	if c.Server.ListenAddr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "server listen address is required")
	}
	if _, err := strconv.Atoi(portOf(c.Server.ListenAddr)); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "invalid listen address %q", c.Server.ListenAddr)
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache backend %q requires redis_url", c.Cache.Backend)
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Storage.Backend {
	case StorageNone, StorageFile:
	case StorageMongo:
		if c.Storage.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidInput, "storage backend %q requires mongo_uri", c.Storage.Backend)
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

func portOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i+1:]
		}
	}
	return addr
}
