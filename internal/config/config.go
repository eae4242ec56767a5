package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env             string        `mapstructure:"ENV"`
	Port            string        `mapstructure:"PORT"`
	Dataset         string        `mapstructure:"DATASET"`
	CSVURL          string        `mapstructure:"CSV_URL"`
	WebhookURL      string        `mapstructure:"WEBHOOK_URL"`
	AdminKey        string        `mapstructure:"ADMIN_KEY"`
	CORSAllowed     string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	FetchTimeout    time.Duration `mapstructure:"FETCH_TIMEOUT"`
	RelayTimeout    time.Duration `mapstructure:"RELAY_TIMEOUT"`
	RefreshInterval time.Duration `mapstructure:"REFRESH_INTERVAL"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATASET", "reservations")
	v.SetDefault("CSV_URL", "")
	v.SetDefault("WEBHOOK_URL", "")
	v.SetDefault("ADMIN_KEY", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("FETCH_TIMEOUT", "30s")
	v.SetDefault("RELAY_TIMEOUT", "28s")
	v.SetDefault("REFRESH_INTERVAL", "30s")
	v.SetDefault("LOG_LEVEL", "info")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
