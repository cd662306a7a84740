package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "ARTICLES_DESK_CONFIG"
	baseURLEnv       = "CATALOG_BASE_URL"
	storagePrefixEnv = "CATALOG_STORAGE_PREFIX"
	logLevelEnv      = "LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog"`
	Links     LinkConfig      `yaml:"links"`
	Clipboard ClipboardConfig `yaml:"clipboard"`
	Upload    UploadConfig    `yaml:"upload"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// CatalogConfig describes how to reach the catalog origin.
type CatalogConfig struct {
	BaseURL   string        `yaml:"baseUrl"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"userAgent"`
}

// LinkConfig couples rendered links to the backend's storage layout.
type LinkConfig struct {
	StoragePrefix string `yaml:"storagePrefix"`
	ViewBase      string `yaml:"viewBase"`
	ArticleBase   string `yaml:"articleBase"`
}

// ClipboardConfig tunes the copy controls.
type ClipboardConfig struct {
	RevertAfter          time.Duration `yaml:"revertAfter"`
	RestartRevertOnClick bool          `yaml:"restartRevertOnClick"`
}

// UploadConfig sets the double-submission policy.
type UploadConfig struct {
	AllowConcurrent bool `yaml:"allowConcurrent"`
}

// LoggingConfig sets the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	return LoadFile(os.Getenv(configPathEnv))
}

// LoadFile is Load with an explicit config path; an empty path skips the file.
func LoadFile(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(baseURLEnv); v != "" {
		c.Catalog.BaseURL = v
	}

	if v := os.Getenv(storagePrefixEnv); v != "" {
		c.Links.StoragePrefix = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Catalog.BaseURL != "" {
		base.Catalog.BaseURL = override.Catalog.BaseURL
	}
	if override.Catalog.Timeout > 0 {
		base.Catalog.Timeout = override.Catalog.Timeout
	}
	if override.Catalog.UserAgent != "" {
		base.Catalog.UserAgent = override.Catalog.UserAgent
	}

	if override.Links.StoragePrefix != "" {
		base.Links.StoragePrefix = override.Links.StoragePrefix
	}
	if override.Links.ViewBase != "" {
		base.Links.ViewBase = override.Links.ViewBase
	}
	if override.Links.ArticleBase != "" {
		base.Links.ArticleBase = override.Links.ArticleBase
	}

	if override.Clipboard.RevertAfter > 0 {
		base.Clipboard.RevertAfter = override.Clipboard.RevertAfter
	}
	if override.Clipboard.RestartRevertOnClick {
		base.Clipboard.RestartRevertOnClick = true
	}

	if override.Upload.AllowConcurrent {
		base.Upload.AllowConcurrent = true
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Catalog: CatalogConfig{
			BaseURL:   "http://localhost:28100",
			Timeout:   15 * time.Second,
			UserAgent: "ArticlesDesk/1.0",
		},
		Links: LinkConfig{
			StoragePrefix: "static/",
			ViewBase:      "/",
			ArticleBase:   "/articles/",
		},
		Clipboard: ClipboardConfig{RevertAfter: 2 * time.Second},
		Logging:   LoggingConfig{Level: "info"},
	}
}
