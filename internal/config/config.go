package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/semmidev/fileup/internal/domain"
)

const (
	ProtocolFTP   = "ftp"
	ProtocolSCP   = "scp"
	ProtocolS3    = "s3"
	ProtocolLocal = "local"
)

type Config struct {
	App          AppConfig     `mapstructure:"app"`
	Protocol     string        `mapstructure:"protocol"`
	Hostname     string        `mapstructure:"hostname"`
	BaseFolder   string        `mapstructure:"base_folder"`
	FileUpFolder string        `mapstructure:"file_up_folder"`
	URL          string        `mapstructure:"url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FTP          FTPConfig     `mapstructure:"ftp"`
	SCP          SCPConfig     `mapstructure:"scp"`
	S3           S3Config      `mapstructure:"s3"`
}

type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

type FTPConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type SCPConfig struct {
	Username   string `mapstructure:"username"`
	PrivateKey string `mapstructure:"private_key"`
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Endpoint  string `mapstructure:"endpoint"`
}

// Target is the resolved, protocol specific description of one remote
// directory. Transports are built from it.
type Target struct {
	Protocol     string
	Hostname     string
	BaseFolder   string
	FileUpFolder string
	URL          string
	Timeout      time.Duration

	Username   string
	Password   string
	PrivateKey string

	// S3
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
}

// RemoteDir is base_folder/file_up_folder with forward slashes.
func (t *Target) RemoteDir() string {
	return joinRemote(t.BaseFolder, t.FileUpFolder)
}

func joinRemote(parts ...string) string {
	var kept []string
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i > 0 {
			p = strings.TrimLeft(p, "/")
		}
		kept = append(kept, strings.TrimRight(p, "/"))
	}
	return strings.Join(kept, "/")
}

// DefaultPath returns ~/.config/fileup/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "fileup", "config.yaml")
	}
	return filepath.Join(home, ".config", "fileup", "config.yaml")
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("yaml")
	}

	v.SetDefault("app.log_level", "info")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("base_folder", "")
	v.SetDefault("file_up_folder", "")
	v.SetDefault("url", "")
	for _, key := range []string{
		"ftp.username", "ftp.password",
		"scp.username", "scp.private_key",
		"s3.bucket", "s3.region", "s3.access_key", "s3.secret_key", "s3.endpoint",
	} {
		v.SetDefault(key, "")
	}

	v.SetEnvPrefix("fileup")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found at %s, please create one following the documentation: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.URL == "" {
		cfg.URL = cfg.Hostname
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Protocol {
	case ProtocolFTP, ProtocolSCP:
		if c.Hostname == "" {
			return &domain.ConfigError{Field: "hostname", Reason: "required for " + c.Protocol}
		}
	case ProtocolS3:
		if c.S3.Bucket == "" {
			return &domain.ConfigError{Field: "s3.bucket", Reason: "required for s3"}
		}
	case ProtocolLocal:
		if c.BaseFolder == "" {
			return &domain.ConfigError{Field: "base_folder", Reason: "required for local"}
		}
	case "":
		return &domain.ConfigError{Field: "protocol", Reason: "required"}
	default:
		return &domain.ConfigError{Field: "protocol", Reason: fmt.Sprintf("invalid protocol: %s", c.Protocol)}
	}

	if c.URL == "" {
		return &domain.ConfigError{Field: "url", Reason: "required when hostname is empty"}
	}

	if c.Timeout < 0 {
		return &domain.ConfigError{Field: "timeout", Reason: "must not be negative"}
	}

	return nil
}

// Target resolves the credentials of the selected protocol.
func (c *Config) Target() *Target {
	t := &Target{
		Protocol:     c.Protocol,
		Hostname:     c.Hostname,
		BaseFolder:   c.BaseFolder,
		FileUpFolder: c.FileUpFolder,
		URL:          c.URL,
		Timeout:      c.Timeout,
	}

	switch c.Protocol {
	case ProtocolFTP:
		t.Username = c.FTP.Username
		t.Password = c.FTP.Password
	case ProtocolSCP:
		t.Username = c.SCP.Username
		t.PrivateKey = expandHome(c.SCP.PrivateKey)
	case ProtocolS3:
		t.Bucket = c.S3.Bucket
		t.Region = c.S3.Region
		t.AccessKey = c.S3.AccessKey
		t.SecretKey = c.S3.SecretKey
		t.Endpoint = c.S3.Endpoint
	}

	return t
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
