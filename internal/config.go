package internal

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const (
	defaultBackendURL   = "http://localhost:8000"
	defaultChatPath     = "/chat"
	defaultUploadPath   = "/upload/pdf"
	defaultUploadField  = "pdf"
	defaultTimeout      = 2 * time.Minute
	defaultMaxUploadMiB = 50

	configRelPath = "docchat/config.yaml"
	envPrefix     = "DOCCHAT"
)

// Config holds the client settings
type Config struct {
	Backend   BackendConfig   `mapstructure:"backend" yaml:"backend"`
	Upload    UploadConfig    `mapstructure:"upload" yaml:"upload"`
	Downloads DownloadsConfig `mapstructure:"downloads" yaml:"downloads"`
}

// BackendConfig locates the chat and ingestion endpoints
type BackendConfig struct {
	URL         string        `mapstructure:"url" yaml:"url"`
	ChatPath    string        `mapstructure:"chat_path" yaml:"chat_path"`
	UploadPath  string        `mapstructure:"upload_path" yaml:"upload_path"`
	UploadField string        `mapstructure:"upload_field" yaml:"upload_field"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"` // 0 disables
}

// UploadConfig constrains what the picker accepts
type UploadConfig struct {
	MaxSize int64 `mapstructure:"max_size" yaml:"max_size"` // bytes, 0 disables
}

// DownloadsConfig controls where citation files are written
type DownloadsConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:         defaultBackendURL,
			ChatPath:    defaultChatPath,
			UploadPath:  defaultUploadPath,
			UploadField: defaultUploadField,
			Timeout:     defaultTimeout,
		},
		Upload: UploadConfig{
			MaxSize: defaultMaxUploadMiB << 20,
		},
		Downloads: DownloadsConfig{
			Dir: defaultDownloadDir(),
		},
	}
}

func defaultDownloadDir() string {
	if xdg.UserDirs.Download != "" {
		return xdg.UserDirs.Download
	}
	return "."
}

// SetConfigDefaults registers defaults on v so env vars and flags can override them
func SetConfigDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("backend.url", d.Backend.URL)
	v.SetDefault("backend.chat_path", d.Backend.ChatPath)
	v.SetDefault("backend.upload_path", d.Backend.UploadPath)
	v.SetDefault("backend.upload_field", d.Backend.UploadField)
	v.SetDefault("backend.timeout", d.Backend.Timeout)
	v.SetDefault("upload.max_size", d.Upload.MaxSize)
	v.SetDefault("downloads.dir", d.Downloads.Dir)
}

// LoadConfig reads configuration from path (or the XDG config file when path
// is empty), DOCCHAT_* environment variables and any flags already bound to v.
// A missing default config file is not an error; a missing explicit one is.
func LoadConfig(v *viper.Viper, path string) (*Config, error) {
	SetConfigDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		if found, err := xdg.SearchConfigFile(configRelPath); err == nil {
			path = found
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
		LogDebug("Loaded config from %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the endpoint settings are usable
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil {
		return fmt.Errorf("invalid backend.url %q: %w", c.Backend.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid backend.url %q: scheme must be http or https", c.Backend.URL)
	}
	if c.Backend.UploadField == "" {
		return fmt.Errorf("backend.upload_field must not be empty")
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative")
	}
	return nil
}

// ChatURL returns the full chat endpoint address
func (c *Config) ChatURL() string {
	return joinURL(c.Backend.URL, c.Backend.ChatPath)
}

// UploadURL returns the full ingestion endpoint address
func (c *Config) UploadURL() string {
	return joinURL(c.Backend.URL, c.Backend.UploadPath)
}

func joinURL(base, path string) string {
	joined, err := url.JoinPath(base, path)
	if err != nil {
		return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	}
	return joined
}

// LogFilePath returns where logs go while the chat screen owns the terminal
func LogFilePath() (string, error) {
	return xdg.StateFile("docchat/docchat.log")
}
