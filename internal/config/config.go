package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Port                          string        `mapstructure:"PORT" validate:"required,numeric"`
	BoardPort                     string        `mapstructure:"BOARD_PORT" validate:"required,numeric"`
	APIBaseURL                    string        `mapstructure:"API_BASE_URL" validate:"required,url"`
	DatabasePath                  string        `mapstructure:"DATABASE_PATH" validate:"required"`
	DatabaseURL                   string        `mapstructure:"DATABASE_URL" validate:"omitempty,url"`
	SeedData                      bool          `mapstructure:"SEED_DATA"`
	DiscordBotToken               string        `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string        `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID" validate:"required_with=DiscordBotToken"`
	MessageTimeout                time.Duration `mapstructure:"MESSAGE_TIMEOUT" validate:"gt=0"`
	RequestTimeout                time.Duration `mapstructure:"REQUEST_TIMEOUT" validate:"gt=0"`
	CSRFKey                       string        `mapstructure:"CSRF_KEY" validate:"omitempty,len=32"`
	CSRFSecure                    bool          `mapstructure:"CSRF_SECURE"`
	SessionKey                    string        `mapstructure:"SESSION_KEY" validate:"omitempty,min=32"`
	LogEnv                        string        `mapstructure:"LOG_ENV" validate:"oneof=dev prod"`
	LogFile                       string        `mapstructure:"LOG_FILE"`
}

// NotificationsEnabled reports whether a Discord channel is configured.
func (c *Config) NotificationsEnabled() bool {
	return c.DiscordBotToken != "" && c.DiscordNotificationsChannelID != ""
}

// LoadConfig reads the configuration from the environment on top of the
// defaults and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8000")
	v.SetDefault("BOARD_PORT", "8080")
	v.SetDefault("API_BASE_URL", "http://127.0.0.1:8000")
	v.SetDefault("DATABASE_PATH", "activities.db")
	v.SetDefault("SEED_DATA", true)
	v.SetDefault("MESSAGE_TIMEOUT", 5*time.Second)
	v.SetDefault("REQUEST_TIMEOUT", 10*time.Second)
	v.SetDefault("CSRF_SECURE", false)
	v.SetDefault("LOG_ENV", "dev")

	v.BindEnv("DATABASE_URL")
	v.BindEnv("DISCORD_BOT_TOKEN")
	v.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")
	v.BindEnv("CSRF_KEY")
	v.BindEnv("SESSION_KEY")
	v.BindEnv("LOG_FILE")

	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}
