package config

import (
	"log"
	"os"
)

type Config struct {
	HTTPPort       string
	DatabaseDSN    string
	StorageDriver  string // "postgres" or "memory"
	JWTSecret      string
	CORSOrigins    string
	LogLevel       string
	LogFormat      string
	PaymentAPIBase string
	PaymentAPIKey  string
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=clinicpro port=5432 sslmode=disable"),
		StorageDriver:  getEnv("STORAGE_DRIVER", "postgres"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		CORSOrigins:    getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		PaymentAPIBase: getEnv("PAYMENT_API_BASE", "https://api.payments.example.com"),
		PaymentAPIKey:  getEnv("PAYMENT_API_KEY", ""),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is not set. It is required in every environment.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters long.")
	}
	if cfg.StorageDriver != "postgres" && cfg.StorageDriver != "memory" {
		log.Fatalf("[FATAL] STORAGE_DRIVER must be 'postgres' or 'memory', got %q", cfg.StorageDriver)
	}
	if cfg.StorageDriver == "memory" {
		log.Println("[WARN] STORAGE_DRIVER=memory keeps all data in process memory. Do not use in production.")
	}
	if cfg.PaymentAPIKey == "" {
		log.Println("[WARN] PAYMENT_API_KEY is not set, payment intents will be created locally only.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
