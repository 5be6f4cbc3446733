package config

import (
	"os"
	"strconv"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// MongoDB
	MongoURI string
	MongoDB  string

	// Redis
	RedisURL string

	// Object storage
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string

	// Events
	NatsURL string

	// Import limits
	MaxImportFileBytes int64
}

func Load() *Config {
	minioUseSSL, _ := strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))
	maxImportMB, _ := strconv.Atoi(getEnv("MAX_IMPORT_FILE_MB", "50"))

	return &Config{
		Port:        getEnv("PORT", "8086"),
		Environment: getEnv("ENVIRONMENT", "development"),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "catalog_db"),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "catalog-media"),
		MinioUseSSL:    minioUseSSL,
		MinioPublicURL: getEnv("MINIO_PUBLIC_URL", ""),

		NatsURL: getEnv("NATS_URL", ""),

		MaxImportFileBytes: int64(maxImportMB) * 1024 * 1024,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
