package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Database driver and storage backend selectors.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StorageS3    = "s3"
	StorageMinio = "minio"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Upload   UploadConfig
	Access   AccessConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// DatabaseConfig selects and configures the persistence backend.
type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	URL        string // postgres connection string
	SQLitePath string // sqlite database file
}

// StorageConfig selects and configures the object storage backend.
type StorageConfig struct {
	Backend string // "s3" or "minio"

	// AWS S3
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string

	// MinIO / S3-compatible
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
}

// UploadConfig holds staging settings for inbound files.
type UploadConfig struct {
	TmpDir string // directory for staged uploads; empty = os.TempDir()
}

// AccessConfig holds the diagnostic IP allow-list.
type AccessConfig struct {
	AllowedIPs []string // comma-separated in env
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env

	readTimeout, _ := strconv.Atoi(getEnv("READ_TIMEOUT_SEC", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("WRITE_TIMEOUT_SEC", "30"))

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        readTimeout,
			WriteTimeout:       writeTimeout,
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DATABASE_DRIVER", DriverSQLite),
			URL:        getEnv("DATABASE_URL", "postgres://localhost:5432/voiceover?sslmode=disable"),
			SQLitePath: getEnv("SQLITE_PATH", "db/db.sqlite"),
		},
		Storage: StorageConfig{
			Backend:         getEnv("STORAGE_BACKEND", StorageS3),
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("S3_BUCKET", ""),
			MinioEndpoint:   getEnv("MINIO_ENDPOINT", ""),
			MinioAccessKey:  getEnv("MINIO_ACCESS_KEY", ""),
			MinioSecretKey:  getEnv("MINIO_SECRET_KEY", ""),
			MinioBucket:     getEnv("MINIO_BUCKET", ""),
		},
		Upload: UploadConfig{
			TmpDir: getEnv("UPLOAD_TMP_DIR", ""),
		},
		Access: AccessConfig{
			AllowedIPs: splitTrim(getEnv("ALLOWED_IPS", ""), ","),
		},
	}
	return cfg, nil
}

func splitTrim(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(s, sep) {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
