package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGigaChat = "gigachat"
	ProviderGemini   = "gemini"
)

type Config struct {
	Server     ServerConfig
	Upload     UploadConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Classifier ClassifierConfig
	GigaChat   GigaChatConfig
	Gemini     GeminiConfig
	Logger     LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

// UploadConfig controls the input gate and the staging copy of uploads.
type UploadConfig struct {
	MaxFileSize    int64
	FieldName      string
	StagingDir     string
	StagingEnabled bool
}

type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

// Enabled reports whether a database host has been configured.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

type JWTConfig struct {
	SecretKey string
}

type ClassifierConfig struct {
	Provider string
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	Model              string
	InsecureSkipVerify bool
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	APIVersion string
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work for Docker/K8s.
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, err := getEnvInt("SERVER_READ_TIMEOUT", 30)
	if err != nil {
		return nil, err
	}
	writeTimeout, err := getEnvInt("SERVER_WRITE_TIMEOUT", 30)
	if err != nil {
		return nil, err
	}
	bodyLimit, err := getEnvInt("SERVER_BODY_LIMIT", 16*1024*1024)
	if err != nil {
		return nil, err
	}
	maxFileSize, err := getEnvInt("UPLOAD_MAX_FILE_SIZE", 5*1024*1024)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
			BodyLimit:    bodyLimit,
		},
		Upload: UploadConfig{
			MaxFileSize:    int64(maxFileSize),
			FieldName:      getEnv("UPLOAD_FIELD_NAME", "receipt"),
			StagingDir:     getEnv("UPLOAD_STAGING_DIR", os.TempDir()),
			StagingEnabled: getEnvBool("UPLOAD_STAGING_ENABLED", true),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", ""),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "statement_parser"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET_KEY", ""),
		},
		Classifier: ClassifierConfig{
			Provider: strings.ToLower(getEnv("CLASSIFIER_PROVIDER", ProviderGigaChat)),
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			Model:              getEnv("GIGACHAT_MODEL", "GigaChat"),
			InsecureSkipVerify: getEnvBool("GIGACHAT_INSECURE_SKIP_VERIFY", true),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			APIVersion: getEnv("GEMINI_API_VERSION", "v1"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants that the rest of the service relies on.
func (c *Config) Validate() error {
	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("UPLOAD_MAX_FILE_SIZE must be positive, got %d", c.Upload.MaxFileSize)
	}
	if int64(c.Server.BodyLimit) <= c.Upload.MaxFileSize {
		return fmt.Errorf("SERVER_BODY_LIMIT (%d) must exceed UPLOAD_MAX_FILE_SIZE (%d)", c.Server.BodyLimit, c.Upload.MaxFileSize)
	}
	if c.Upload.FieldName == "" {
		return fmt.Errorf("UPLOAD_FIELD_NAME must not be empty")
	}
	switch c.Classifier.Provider {
	case ProviderGigaChat, ProviderGemini:
	default:
		return fmt.Errorf("unknown CLASSIFIER_PROVIDER %q (expected %s or %s)", c.Classifier.Provider, ProviderGigaChat, ProviderGemini)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
