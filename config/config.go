// Package config holds the service configuration.
package config

import (
	"fmt"
)

// Config holds all service configuration.
type Config struct {
	ListenAddr string          `mapstructure:"listen_addr"`
	Postgres   PostgresConfig  `mapstructure:"postgres"`
	Redis      RedisConfig     `mapstructure:"redis"`
	Reactions  ReactionsConfig `mapstructure:"reactions"`
}

// PostgresConfig configures the reaction store connection.
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig configures the remote reaction cache connection.
type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

// ReactionsConfig configures the reaction feature itself.
type ReactionsConfig struct {
	// AvailableEmojis lists the emoji slugs users may react with. Empty
	// means the catalog default (thumbs up).
	AvailableEmojis []string `mapstructure:"available_emojis"`
	// PrimaryUserID is the local user representing the remote feed's own
	// reaction activity.
	PrimaryUserID int64 `mapstructure:"primary_user_id"`
}

// Validate checks if the config is usable.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}

	if c.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required")
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}

	if c.Reactions.PrimaryUserID <= 0 {
		return fmt.Errorf("reactions.primary_user_id must be positive")
	}

	return nil
}
