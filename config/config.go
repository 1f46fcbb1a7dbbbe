package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mcuadros/go-defaults"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the mail section.
const (
	EnvEmailUser      = "EMAIL_USER"
	EnvEmailPassword  = "EMAIL_PASSWORD"
	EnvEmailRecipient = "EMAIL_RECIPIENT"
	EnvPort           = "PORT"
)

// Scratch backends for raw upload copies.
const (
	ScratchLocal = "local"
	ScratchMinio = "minio"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Mail      MailConfig      `yaml:"mail"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Minio     MinioConfig     `yaml:"minio"`
	Auth      AuthConfig      `yaml:"auth"`
	Users     []User          `yaml:"users"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"60s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"5s"`
	// MaxUploadBytes caps multipart bodies on /api/upload
	MaxUploadBytes int64 `yaml:"max_upload_bytes" default:"33554432"`
	// StaticDir serves the built wizard front end when set
	StaticDir string `yaml:"static_dir"`
}

type MailConfig struct {
	Host      string        `yaml:"host" default:"smtp.gmail.com"`
	Port      int           `yaml:"port" default:"587"`
	User      string        `yaml:"user"`
	Password  string        `yaml:"password"`
	Recipient string        `yaml:"recipient"`
	Timeout   time.Duration `yaml:"timeout" default:"30s"`
	// IncludeAttachment attaches the buyer profile workbook to the email
	IncludeAttachment bool `yaml:"include_attachment" default:"true"`
}

type IngestConfig struct {
	ScratchBackend string        `yaml:"scratch_backend" default:"local"`
	ScratchDir     string        `yaml:"scratch_dir" default:"temp"`
	ParseTimeout   time.Duration `yaml:"parse_timeout" default:"30s"`
	// MaxUnzipBytes caps the uncompressed size of an xlsx upload
	MaxUnzipBytes int64 `yaml:"max_unzip_bytes" default:"268435456"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket" default:"buyerform-uploads"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// AuthConfig protects the upload utility. An empty secret leaves it public.
type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours" default:"24"`
}

type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"text"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" default:"100"`
	Burst             int `yaml:"burst" default:"20"`
}

// LoadDotEnv reads .env style files into the process environment. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment, in that order.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	defaults.SetDefaults(cfg)

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigUnmarshal, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvEmailUser); v != "" {
		c.Mail.User = v
	}
	if v := os.Getenv(EnvEmailPassword); v != "" {
		c.Mail.Password = v
	}
	if v := os.Getenv(EnvEmailRecipient); v != "" {
		c.Mail.Recipient = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

// Validate fails fast on settings the service cannot run without.
func (c *Config) Validate() error {
	var missing []string
	if c.Mail.User == "" {
		missing = append(missing, EnvEmailUser)
	}
	if c.Mail.Password == "" {
		missing = append(missing, EnvEmailPassword)
	}
	if c.Mail.Recipient == "" {
		missing = append(missing, EnvEmailRecipient)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	switch c.Ingest.ScratchBackend {
	case ScratchLocal:
	case ScratchMinio:
		if c.Minio.Endpoint == "" || c.Minio.Bucket == "" {
			return ErrMinioNotConfigured
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownScratchBackend, c.Ingest.ScratchBackend)
	}

	return nil
}

// AuthEnabled reports whether the upload utility requires a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.Auth.JWTSecret != ""
}

// FindUser finds a user by username
func (c *Config) FindUser(username string) *User {
	for i := range c.Users {
		if c.Users[i].Username == username {
			return &c.Users[i]
		}
	}
	return nil
}
