package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Store contains connection settings for the S3-compatible object store.
type Store struct {
	Endpoint          string `toml:"endpoint"`
	Region            string `toml:"region"`
	Bucket            string `toml:"bucket"`
	AccessKey         string `toml:"access_key"`
	SecretKey         string `toml:"secret_key"`
	UseSSL            bool   `toml:"use_ssl"`
	PublicBaseURL     string `toml:"public_base_url"`
	VerifyDestination bool   `toml:"verify_destination"`
}

// Catalog contains settings for the relational catalog database.
type Catalog struct {
	DBPath string `toml:"db_path"`
}

// Reconciler contains tuning knobs for the batch passes.
type Reconciler struct {
	ListPageSize   int `toml:"list_page_size"`
	ListingScanCap int `toml:"listing_scan_cap"`
}

// Paths contains directory configuration.
type Paths struct {
	LogDir string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for restow.
type Config struct {
	Store      Store      `toml:"store"`
	Catalog    Catalog    `toml:"catalog"`
	Reconciler Reconciler `toml:"reconciler"`
	Paths      Paths      `toml:"paths"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/restow/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and store credentials overlaid from the
// environment (RESTOW_STORE_ACCESS_KEY / RESTOW_STORE_SECRET_KEY).
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Catalog.DBPath, err = ExpandPath(c.Catalog.DBPath); err != nil {
		return fmt.Errorf("catalog.db_path: %w", err)
	}

	if key := os.Getenv("RESTOW_STORE_ACCESS_KEY"); key != "" {
		c.Store.AccessKey = key
	}
	if key := os.Getenv("RESTOW_STORE_SECRET_KEY"); key != "" {
		c.Store.SecretKey = key
	}

	c.Store.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.Store.PublicBaseURL), "/")
	if c.Reconciler.ListPageSize <= 0 {
		c.Reconciler.ListPageSize = defaultListPageSize
	}
	if c.Reconciler.ListingScanCap <= 0 {
		c.Reconciler.ListingScanCap = defaultListingScanCap
	}
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

// EnsureDirectories creates the directories restow writes to.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, filepath.Dir(c.Catalog.DBPath)}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// SampleConfig returns the embedded sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// ExpandPath expands a leading ~ to the user's home directory and returns an
// absolute path. An empty input stays empty.
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
