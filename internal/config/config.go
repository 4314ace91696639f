package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application settings, read from configs/app.env and
// overridable through environment variables.
type Config struct {
	DBSource      string `mapstructure:"DB_SOURCE"`
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	AdminKey      string `mapstructure:"ADMIN_KEY"`

	NominatimBaseURL string        `mapstructure:"NOMINATIM_BASE_URL"`
	NominatimTimeout time.Duration `mapstructure:"NOMINATIM_TIMEOUT"`
	// GeocodeDelay spaces out calls to the shared public geocoding service.
	GeocodeDelay time.Duration `mapstructure:"GEOCODE_DELAY"`

	EnrichRetryInterval  time.Duration `mapstructure:"ENRICH_RETRY_INTERVAL"`
	EntryRefreshInterval time.Duration `mapstructure:"ENTRY_REFRESH_INTERVAL"`

	AWSRegion          string `mapstructure:"AWS_REGION"`
	AWSAccessKeyID     string `mapstructure:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `mapstructure:"AWS_SECRET_ACCESS_KEY"`
	S3Bucket           string `mapstructure:"S3_BUCKET"`
	S3PublicBaseURL    string `mapstructure:"S3_PUBLIC_BASE_URL"`
}

// LoadConfig reads configuration from app.env in the given directory.
// Environment variables take precedence over file values.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	// Defaults double as the key registry so AutomaticEnv picks them up.
	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("ADMIN_KEY", "")
	v.SetDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("NOMINATIM_TIMEOUT", "10s")
	v.SetDefault("GEOCODE_DELAY", "1s")
	v.SetDefault("ENRICH_RETRY_INTERVAL", "3s")
	v.SetDefault("ENTRY_REFRESH_INTERVAL", "30s")
	v.SetDefault("AWS_REGION", "")
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_PUBLIC_BASE_URL", "")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, err
	}

	if config.DBSource == "" {
		return Config{}, errors.New("config: DB_SOURCE is required")
	}
	if config.NominatimTimeout <= 0 {
		return Config{}, errors.New("config: NOMINATIM_TIMEOUT must be positive")
	}
	if config.EnrichRetryInterval <= 0 {
		return Config{}, errors.New("config: ENRICH_RETRY_INTERVAL must be positive")
	}

	return config, nil
}
