// Package env reads settings from the environment and an optional .env file.
package env

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnv loads .env from the working directory, if present. Variables
// already set in the environment win.
func LoadEnv() error {
	return godotenv.Load()
}

func GetEnv(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
