package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port              string   `mapstructure:"PORT"`
	Env               string   `mapstructure:"ENV"`
	DatabaseURL       string   `mapstructure:"DATABASE_URL"`
	DBMaxConns        int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns        int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins       []string `mapstructure:"CORS_ORIGINS"`
	AIEndpoint        string   `mapstructure:"AI_ENDPOINT"`
	AIAPIKey          string   `mapstructure:"AI_API_KEY"`
	AIDeployment      string   `mapstructure:"AI_DEPLOYMENT"`
	AIAPIVersion      string   `mapstructure:"AI_API_VERSION"`
	AITimeoutSeconds  int      `mapstructure:"AI_TIMEOUT_SECONDS"`
	ReportsDir        string   `mapstructure:"REPORTS_DIR"`
	ReportTemplate    string   `mapstructure:"REPORT_TEMPLATE_PATH"`
	PDFRendererCmd    string   `mapstructure:"PDF_RENDERER_CMD"`
	PDFTimeoutSeconds int      `mapstructure:"PDF_TIMEOUT_SECONDS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "5174")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("AI_DEPLOYMENT", "gpt-4o")
	v.SetDefault("AI_API_VERSION", "2024-10-01-preview")
	v.SetDefault("AI_TIMEOUT_SECONDS", 30)
	v.SetDefault("REPORTS_DIR", "reports")
	v.SetDefault("PDF_TIMEOUT_SECONDS", 60)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("AI_ENDPOINT")
	v.BindEnv("AI_API_KEY")
	v.BindEnv("AI_DEPLOYMENT")
	v.BindEnv("AI_API_VERSION")
	v.BindEnv("AI_TIMEOUT_SECONDS")
	v.BindEnv("REPORTS_DIR")
	v.BindEnv("REPORT_TEMPLATE_PATH")
	v.BindEnv("PDF_RENDERER_CMD")
	v.BindEnv("PDF_TIMEOUT_SECONDS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// AIConfigured reports whether the narrative/chat AI endpoint is usable.
// When false the service degrades to placeholder narratives instead of
// calling out.
func (c *Config) AIConfigured() bool {
	return c.AIEndpoint != "" && c.AIAPIKey != ""
}

// Validate checks that the configuration is internally consistent. Timeouts
// must be positive because the AI call and the PDF subprocess are always run
// under a deadline.
func (c *Config) Validate() error {
	if c.AITimeoutSeconds <= 0 {
		return fmt.Errorf("AI_TIMEOUT_SECONDS must be positive, got %d", c.AITimeoutSeconds)
	}
	if c.PDFTimeoutSeconds <= 0 {
		return fmt.Errorf("PDF_TIMEOUT_SECONDS must be positive, got %d", c.PDFTimeoutSeconds)
	}
	if c.ReportsDir == "" {
		return fmt.Errorf("REPORTS_DIR is required")
	}
	if c.AIEndpoint != "" && c.AIAPIKey == "" {
		return fmt.Errorf("AI_API_KEY is required when AI_ENDPOINT is set")
	}
	return nil
}
