package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"alcyxob/vidfeed/internal/domain"
)

// Config holds all configuration for the client and the dev server.
// Values are read by Viper from a config file or environment variables.
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Upload UploadConfig `mapstructure:"upload"`
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
}

type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type UploadConfig struct {
	// MaxSizeBytes caps uploads client-side, mirroring server validation.
	MaxSizeBytes int64 `mapstructure:"max_size_bytes"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// ServerConfig configures the dev stub server only.
type ServerConfig struct {
	Address string `mapstructure:"address"`
	// PublicURL prefixes the manifest URLs handed out in video details.
	PublicURL string `mapstructure:"public_url"`
	// ProcessingDelay is how long an uploaded video stays UPLOADING before
	// flipping to READY. Zero or negative means immediately ready.
	ProcessingDelay time.Duration `mapstructure:"processing_delay"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Environment overrides, e.g. api.base_url -> API_BASE_URL.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("api.base_url", "http://localhost:8080")
	viper.SetDefault("upload.max_size_bytes", domain.MaxUploadSizeBytes)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.pretty", true)
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.public_url", "http://localhost:8080")
	viper.SetDefault("server.processing_delay", "3s")

	err = viper.ReadInConfig()
	// A missing config file is fine; defaults and env vars carry the config.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
