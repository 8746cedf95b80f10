package config

import (
	"errors"
	"time"
)

// Config is the application configuration root.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	AI     AIConfig     `mapstructure:"ai"`
	Render RenderConfig `mapstructure:"render"`
	Mail   MailConfig   `mapstructure:"mail"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AIConfig configures the LLM text generator.
// Models is the ordered candidate list tried by the generator; the first
// model that produces a result wins. The API key is expected from the
// environment (FABLE_AI_API_KEY).
type AIConfig struct {
	Provider string          `mapstructure:"provider"`
	APIKey   string          `mapstructure:"api_key"`
	BaseURL  string          `mapstructure:"base_url"`
	Models   []string        `mapstructure:"models"`
	Options  AIOptionsConfig `mapstructure:"options"`
}

// AIOptionsConfig holds model sampling parameters.
type AIOptionsConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TopP        float64 `mapstructure:"top_p"`
}

// RenderConfig configures the headless-browser page renderer and the
// artifact directory that holds the rendered images.
type RenderConfig struct {
	ArtifactDir string        `mapstructure:"artifact_dir"`
	PublicPath  string        `mapstructure:"public_path"`
	Width       int           `mapstructure:"width"`
	Height      int           `mapstructure:"height"`
	Margin      int           `mapstructure:"margin"`
	FontSize    int           `mapstructure:"font_size"`
	FontFamily  string        `mapstructure:"font_family"`
	SettleDelay time.Duration `mapstructure:"settle_delay"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// MailConfig configures the SMTP relay used for gallery delivery.
// The password is expected from the environment (FABLE_MAIL_PASSWORD).
type MailConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	From          string `mapstructure:"from"`
	AllowedDomain string `mapstructure:"allowed_domain"`
}

// LogConfig configures zerolog.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// Validate checks the configuration for values that would make the
// server unable to start.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	if len(c.AI.Models) == 0 {
		return errors.New("ai.models must list at least one candidate model")
	}

	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return errors.New("render.width and render.height must be positive")
	}
	if c.Render.ArtifactDir == "" {
		return errors.New("render.artifact_dir is required")
	}

	return nil
}
