package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIURL          = "http://127.0.0.1:7420"
	DefaultDBFileName      = ".blogd.db"
	DefaultLogLevel        = "info"
	DefaultTokenTTLMinutes = 60 * 24

	DefaultMaxUploadBytes     int64 = 10 * 1024 * 1024
	DefaultMultipartMaxMemory int64 = 8 * 1024 * 1024

	configFileName  = ".blogd.toml"
	configDirEnvKey = "BLOGD_CONFIG_DIR"

	jwtSecretEnvKey   = "BLOGD_JWT_SECRET"
	dbPathEnvKey      = "BLOGD_DB_PATH"
	s3AccessKeyEnvKey = "BLOGD_S3_ACCESS_KEY_ID"
	s3SecretKeyEnvKey = "BLOGD_S3_ACCESS_KEY_SECRET"

	// Blob backends.
	BlobBackendLocal = "local"
	BlobBackendS3    = "s3"
)

// UploadsConfig defines runtime limits for multipart image uploads.
type UploadsConfig struct {
	MaxUploadBytes     int64 `toml:"max_upload_bytes"`
	MultipartMaxMemory int64 `toml:"multipart_max_memory"`
}

// BlobsConfig selects and configures the blob-store backend.
type BlobsConfig struct {
	Backend    string `toml:"backend"`
	LocalRoot  string `toml:"local_root"`
	S3Bucket   string `toml:"s3_bucket"`
	S3Region   string `toml:"s3_region"`
	S3Endpoint string `toml:"s3_endpoint"`

	// Credentials come from the environment only, never the config file.
	S3AccessKeyID     string `toml:"-"`
	S3AccessKeySecret string `toml:"-"`
}

// Config defines runtime configuration for blogd.
type Config struct {
	APIURL          string        `toml:"api_url"`
	DBPath          string        `toml:"db_path"`
	JWTSecret       string        `toml:"jwt_secret"`
	TokenTTLMinutes int           `toml:"token_ttl_minutes"`
	LogLevel        string        `toml:"log_level"`
	Uploads         UploadsConfig `toml:"uploads"`
	Blobs           BlobsConfig   `toml:"blobs"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		APIURL:          DefaultAPIURL,
		DBPath:          "",
		TokenTTLMinutes: DefaultTokenTTLMinutes,
		LogLevel:        DefaultLogLevel,
		Uploads: UploadsConfig{
			MaxUploadBytes:     DefaultMaxUploadBytes,
			MultipartMaxMemory: DefaultMultipartMaxMemory,
		},
		Blobs: BlobsConfig{
			Backend: BlobBackendLocal,
		},
	}
}

// Load reads configuration from the config file (when present) and applies
// environment overrides and defaults.
func Load() (*Config, error) {
	cfg := Default()

	path, err := configPath()
	if err != nil {
		return nil, err
	}
	if _, err := loadFileIfExists(path, &cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func configPath() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(configDirEnvKey)); dir != "" {
		return filepath.Join(dir, configFileName), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, configFileName), nil
}

func loadFileIfExists(path string, cfg *Config) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return true, nil
}

func applyEnvOverrides(cfg *Config) {
	if secret := strings.TrimSpace(os.Getenv(jwtSecretEnvKey)); secret != "" {
		cfg.JWTSecret = secret
	}
	if path := strings.TrimSpace(os.Getenv(dbPathEnvKey)); path != "" {
		cfg.DBPath = path
	}
	cfg.Blobs.S3AccessKeyID = strings.TrimSpace(os.Getenv(s3AccessKeyEnvKey))
	cfg.Blobs.S3AccessKeySecret = strings.TrimSpace(os.Getenv(s3SecretKeyEnvKey))
}

func applyDefaults(cfg *Config) {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.DBPath == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.DBPath = filepath.Join(wd, DefaultDBFileName)
		}
	}
	if cfg.TokenTTLMinutes <= 0 {
		cfg.TokenTTLMinutes = DefaultTokenTTLMinutes
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.Uploads.MaxUploadBytes <= 0 {
		cfg.Uploads.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Uploads.MultipartMaxMemory <= 0 {
		cfg.Uploads.MultipartMaxMemory = DefaultMultipartMaxMemory
	}
	if cfg.Blobs.Backend == "" {
		cfg.Blobs.Backend = BlobBackendLocal
	}
	if cfg.Blobs.Backend == BlobBackendLocal && cfg.Blobs.LocalRoot == "" && cfg.DBPath != "" {
		cfg.Blobs.LocalRoot = filepath.Join(filepath.Dir(cfg.DBPath), ".blogd", "blobs")
	}
}

func validate(cfg *Config) error {
	switch cfg.Blobs.Backend {
	case BlobBackendLocal, BlobBackendS3:
	default:
		return fmt.Errorf("invalid blobs.backend %q (expected local or s3)", cfg.Blobs.Backend)
	}
	if cfg.Blobs.Backend == BlobBackendS3 && strings.TrimSpace(cfg.Blobs.S3Bucket) == "" {
		return fmt.Errorf("blobs.s3_bucket is required for the s3 backend")
	}
	return nil
}
