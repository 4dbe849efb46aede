package main

import (
	"encoding/json"
	"fmt"
	"os"

	"inkwell/feed"
)

type Config struct {
	Port int    `json:"port"`
	Env  string `json:"env"`
	// PageSize is the number of posts per feed page.
	PageSize int `json:"page_size"`
	// TokenSecret is shared with the identity provider to verify
	// viewer tokens.
	TokenSecret string         `json:"token_secret"`
	CSRFKey     string         `json:"csrf_key"`
	LogLevel    string         `json:"log_level"`
	Database    PostgresConfig `json:"database"`
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (pc PostgresConfig) ConnectionInfo() string {
	if pc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Password, pc.Name)
}

func DefaultConfig() Config {
	return Config{
		Port:        1111,
		Env:         "dev",
		PageSize:    feed.DefaultPageSize,
		TokenSecret: "secret-token-key",
		CSRFKey:     "32-byte-long-auth-key-impl-dev-1",
		LogLevel:    "debug",
		Database:    DefaultPostgresConfig(),
	}
}

func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "",
		Name:     "inkwell",
	}
}

// LoadConfig loads configuration from a .config.json file if present,
// otherwise it returns the default dev setup. In production the file
// is required.
func LoadConfig(prod bool) Config {
	f, err := os.Open(".config.json")
	if err != nil {
		if prod {
			panic("a .config.json file is required in production")
		}
		return DefaultConfig()
	}
	defer f.Close()
	var c Config
	if err := json.NewDecoder(f).Decode(&c); err != nil {
		panic(err)
	}
	if c.PageSize < 1 {
		c.PageSize = feed.DefaultPageSize
	}
	return c
}
