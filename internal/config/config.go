package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/caarlos0/env/v11"
)

// Key-value backends selectable through KV_BACKEND.
const (
	BackendMemory   = "memory"
	BackendDatabase = "database"
	BackendRedis    = "redis"
	BackendS3       = "s3"
)

// Text providers selectable through TEXT_PROVIDER.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Config holds the application configuration.
type Config struct {
	EnvVars EnvVars  `json:"env"`
	Prompts *Prompts `json:"-"`
}

// EnvVars holds environment variables required by the application.
// Fields tagged `optional:"true"` are skipped by CheckConfigEnvFields.
type EnvVars struct {
	Port                 string        `env:"PORT" envDefault:"8080"`
	WorkspaceHeader      string        `env:"WORKSPACE_HEADER" envDefault:"X-IngredAI-Workspace"`
	GeminiAPIKey         string        `env:"GEMINI_API_KEY" optional:"true"`
	GeminiModel          string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	OpenAIAPIKey         string        `env:"OPENAI_API_KEY"`
	AnthropicAPIKey      string        `env:"ANTHROPIC_API_KEY" optional:"true"`
	TextProvider         string        `env:"TEXT_PROVIDER" envDefault:"gemini"`
	ImageAspectRatio     string        `env:"IMAGE_ASPECT_RATIO" envDefault:"4:3"`
	KVBackend            string        `env:"KV_BACKEND" envDefault:"memory"`
	DatabaseUrl          string        `env:"DATABASE_URL" optional:"true"`
	RedisURL             string        `env:"REDIS_URL" optional:"true"`
	AWSRegion            string        `env:"AWS_REGION" optional:"true"`
	AWSAccessKeyID       string        `env:"AWS_ACCESS_KEY_ID" optional:"true"`
	AWSSecretAccessKey   string        `env:"AWS_SECRET_ACCESS_KEY" optional:"true"`
	S3Bucket             string        `env:"S3_BUCKET" optional:"true"`
	PromptsPath          string        `env:"PROMPTS_PATH" optional:"true"`
	GenerateRPS          int           `env:"GENERATE_RPS" envDefault:"2"`
	MaxWorkspaces        int           `env:"MAX_WORKSPACES" envDefault:"10000" optional:"true"`
	WorkspaceIdleTimeout time.Duration `env:"WORKSPACE_IDLE_TIMEOUT" envDefault:"30m" optional:"true"`
}

// LoadConfig parses environment variables into the Config struct.
func LoadConfig() (*Config, error) {
	var config Config
	if err := env.Parse(&config.EnvVars); err != nil {
		return nil, err
	}
	return &config, nil
}

// CheckConfigEnvFields validates that all required EnvVars fields are set,
// then checks the settings the selected backends depend on.
func (c *Config) CheckConfigEnvFields() error {
	if err := checkFieldsRecursive(reflect.ValueOf(c.EnvVars)); err != nil {
		return err
	}
	return c.checkBackends()
}

func (c *Config) checkBackends() error {
	e := c.EnvVars
	switch e.KVBackend {
	case BackendMemory:
	case BackendDatabase:
		if e.DatabaseUrl == "" {
			return fmt.Errorf("$DatabaseUrl must be set for KV_BACKEND=%s", e.KVBackend)
		}
	case BackendRedis:
		if e.RedisURL == "" {
			return fmt.Errorf("$RedisURL must be set for KV_BACKEND=%s", e.KVBackend)
		}
	case BackendS3:
		if e.AWSRegion == "" || e.S3Bucket == "" {
			return fmt.Errorf("$AWSRegion and $S3Bucket must be set for KV_BACKEND=%s", e.KVBackend)
		}
	default:
		return fmt.Errorf("unknown KV_BACKEND %q", e.KVBackend)
	}

	switch e.TextProvider {
	case ProviderGemini:
		if e.GeminiAPIKey == "" {
			return fmt.Errorf("$GeminiAPIKey must be set for TEXT_PROVIDER=%s", e.TextProvider)
		}
	case ProviderAnthropic:
		if e.AnthropicAPIKey == "" {
			return fmt.Errorf("$AnthropicAPIKey must be set for TEXT_PROVIDER=%s", e.TextProvider)
		}
	default:
		return fmt.Errorf("unknown TEXT_PROVIDER %q", e.TextProvider)
	}
	return nil
}

func checkFieldsRecursive(v reflect.Value) error {
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := v.Type().Field(i)
		if fieldType.Tag.Get("optional") == "true" {
			continue
		}
		if isZeroValue(field) {
			return fmt.Errorf("$%s must be set", fieldType.Name)
		}
		if field.Kind() == reflect.Struct {
			if err := checkFieldsRecursive(field); err != nil {
				return err
			}
		}
	}
	return nil
}

func isZeroValue(v reflect.Value) bool {
	return v.Interface() == reflect.Zero(v.Type()).Interface()
}
