package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"fjacquet/taxstmt/internal/logging"
)

// LoadEnv loads a .env file from the current directory, or its parent,
// into the process environment. Variables already set win. It returns the
// file loaded, or "" when there was none.
func LoadEnv(logger logging.Logger) string {
	logger = logging.OrDefault(logger)
	for _, envFile := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			logger.WithError(err).Warn("Error loading .env file", logging.F(logging.FieldFile, envFile))
			return ""
		}
		logger.Debug("Loaded environment variables", logging.F(logging.FieldFile, envFile))
		return envFile
	}
	return ""
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
