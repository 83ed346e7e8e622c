// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environment variables.
type Config struct {
	DBDriver            string        `mapstructure:"DB_DRIVER"`
	DBSource            string        `mapstructure:"DB_SOURCE"`
	MigrationURL        string        `mapstructure:"MIGRATION_URL"`
	ServerAddress       string        `mapstructure:"SERVER_ADDRESS"`
	TokenSymmetricKey   string        `mapstructure:"TOKEN_SYMMETRIC_KEY"`
	AccessTokenDuration time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`
	Environement        string        `mapstructure:"GO_ENV"`
	AccrualInterval     time.Duration `mapstructure:"ACCRUAL_INTERVAL"`
	BankSeedBalance     string        `mapstructure:"BANK_SEED_BALANCE"`
	ProposalTTL         time.Duration `mapstructure:"PROPOSAL_TTL"`
	RedisAddr           string        `mapstructure:"REDIS_ADDR"`
	KafkaBrokers        []string      `mapstructure:"KAFKA_BROKERS"`
	NotifyTopic         string        `mapstructure:"NOTIFY_TOPIC"`
	DisplayNames        string        `mapstructure:"DISPLAY_NAMES"`
}

// Load read configuration from file or environment variables.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("ACCESS_TOKEN_DURATION", 24*time.Hour)
	v.SetDefault("ACCRUAL_INTERVAL", time.Minute)
	v.SetDefault("BANK_SEED_BALANCE", "0")
	v.SetDefault("PROPOSAL_TTL", 10*time.Minute)
	v.SetDefault("NOTIFY_TOPIC", "economy_notifications")

	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		return c, err
	}

	err = v.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}
