package config

import (
	"os"
	"strconv"
)

// Config holds all runtime settings, loaded from environment variables.
type Config struct {
	ServiceName string
	Env         string
	Port        int

	// DataFile switches persistence to a JSON file when set.
	DataFile string
	// MySQLDSN switches catalog and order persistence to MySQL when set.
	MySQLDSN string
	// RedisAddr switches the cart store to Redis when set.
	RedisAddr string

	RabbitMQURL   string
	RabbitMQQueue string
}

func Load() Config {
	return Config{
		ServiceName:   getEnv("SERVICE_NAME", "fashionstore"),
		Env:           getEnv("ENV", "development"),
		Port:          getEnvAsInt("PORT", 8080),
		DataFile:      getEnv("DATA_FILE", ""),
		MySQLDSN:      getEnv("MYSQL_DSN", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RabbitMQURL:   getEnv("RABBITMQ_URL", ""),
		RabbitMQQueue: getEnv("RABBITMQ_QUEUE", "fashionstore.orders"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
