package config

import (
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Config struct {
	HTTPPort           string
	DBDriver           string // postgres or sqlite
	DBDSN              string
	BlobDir            string
	BlobCompression    string // gzip or none
	RedisAddr          string // empty disables the redis tenancy cache
	AuditRetentionDays int
	AuditSweepSchedule string // cron expression
}

func LoadConfig() *Config {
	return &Config{
		HTTPPort:           env("HTTP_PORT", "4030"),
		DBDriver:           env("DB_DRIVER", "sqlite"),
		DBDSN:              env("DB_DSN", ".data/compliance.db"),
		BlobDir:            env("BLOB_DIR", ".data/blobs"),
		BlobCompression:    env("BLOB_COMPRESSION", "none"),
		RedisAddr:          env("REDIS_ADDR", ""),
		AuditRetentionDays: envInt("AUDIT_RETENTION_DAYS", 365),
		AuditSweepSchedule: env("AUDIT_SWEEP_SCHEDULE", "0 0 3 * * *"),
	}
}

func GetDb(cnf *Config) *gorm.DB {
	var dialector gorm.Dialector
	switch cnf.DBDriver {
	case "postgres":
		dialector = postgres.Open(cnf.DBDSN)
	default:
		dialector = sqlite.Open(cnf.DBDSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to %s database: %v", cnf.DBDriver, err)
	}

	return db
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.Warnf("invalid value for %s: %v", key, err)
		return fallback
	}
	return n
}
