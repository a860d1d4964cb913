// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper fron a config file or environement variables.
type Config struct {
	DBDriver          string        `mapstructure:"DB_DRIVER"`
	DBSource          string        `mapstructure:"DB_SOURCE"`
	MigrationURL      string        `mapstructure:"MIGRATION_URL"`
	ServerAddress     string        `mapstructure:"SERVER_ADDRESS"`
	TokenSymmetricKey string        `mapstructure:"TOKEN_SYMMETRIC_KEY"`
	TokenType         string        `mapstructure:"TOKEN_TYPE"`
	Environement      string        `mapstructure:"GO_ENV"`
	RequirePIN        bool          `mapstructure:"ACCOUNT_REQUIRE_PIN"`
	HistoryWindow     time.Duration `mapstructure:"LEDGER_HISTORY_WINDOW"`
	DefaultPageSize   int32         `mapstructure:"LEDGER_DEFAULT_PAGE_SIZE"`
	MaxPageSize       int32         `mapstructure:"LEDGER_MAX_PAGE_SIZE"`
	ReferenceRetries  int           `mapstructure:"LEDGER_REFERENCE_RETRIES"`
}

// SetDefaults registers the values used when neither the file nor the environment set them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("MIGRATION_URL", "")
	v.SetDefault("TOKEN_SYMMETRIC_KEY", "")
	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("TOKEN_TYPE", "paseto")
	v.SetDefault("GO_ENV", "production")
	v.SetDefault("ACCOUNT_REQUIRE_PIN", false)
	v.SetDefault("LEDGER_HISTORY_WINDOW", 30*24*time.Hour)
	v.SetDefault("LEDGER_DEFAULT_PAGE_SIZE", 20)
	v.SetDefault("LEDGER_MAX_PAGE_SIZE", 100)
	v.SetDefault("LEDGER_REFERENCE_RETRIES", 3)
}

// Load read configuration from file or environment variables.
//
// A missing app.env is not an error, the environment alone is enough.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()
	SetDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	err = v.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}
