package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	PORT string

	DB_HOST     string
	DB_PORT     string
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string

	JWT_SECRET string
	JWT_EXPIRY string

	KAFKA_ADDRESS string

	ES_URL      string
	ES_USER     string
	ES_PASSWORD string

	REDIS_ADDR string

	FIG_API_URL     string
	FIG_TIMEOUT     time.Duration
	FIG_IMAGE_MAX   int64
	IMAGE_CACHE_TTL time.Duration
	LOG_LEVEL       string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		PORT:        EnvDefault("PORT", "8080"),
		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_USER:     os.Getenv("DB_USER"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_NAME:     os.Getenv("DB_NAME"),

		JWT_SECRET: os.Getenv("JWT_SECRET"),
		JWT_EXPIRY: os.Getenv("JWT_EXPIRY"),

		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),

		ES_URL:      os.Getenv("ES_URL"),
		ES_USER:     os.Getenv("ES_USER"),
		ES_PASSWORD: os.Getenv("ES_PASSWORD"),

		REDIS_ADDR: os.Getenv("REDIS_ADDR"),

		FIG_API_URL:     EnvDefault("FIG_API_URL", "https://www.gymnastics.sport/api"),
		FIG_TIMEOUT:     time.Duration(EnvIntDefault("FIG_TIMEOUT_SECONDS", 10)) * time.Second,
		FIG_IMAGE_MAX:   int64(EnvIntDefault("FIG_IMAGE_MAX_BYTES", 2<<20)),
		IMAGE_CACHE_TTL: time.Duration(EnvIntDefault("IMAGE_CACHE_TTL_SECONDS", 3600)) * time.Second,
		LOG_LEVEL:       EnvDefault("LOG_LEVEL", "info"),
	}

	return config, nil
}

// DSN is the postgres connection string shared by gorm and the
// migration runner.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DB_USER, c.DB_PASSWORD, c.DB_HOST, c.DB_PORT, c.DB_NAME,
	)
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}
