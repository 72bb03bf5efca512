package config

import (
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"arland/models"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	Razorpay    RazorpayConfig
	Storage     StorageConfig
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
}

type StorageConfig struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, for DO Spaces / R2 / MinIO
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string // optional override for public object URLs
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Razorpay: RazorpayConfig{
			KeyID:     os.Getenv("RAZORPAY_KEY_ID"),
			KeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		},
		Storage: StorageConfig{
			Bucket:          getEnv("STORAGE_BUCKET", "property-images"),
			Region:          getEnv("STORAGE_REGION", "ap-south-1"),
			Endpoint:        os.Getenv("STORAGE_ENDPOINT"),
			AccessKeyID:     os.Getenv("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("STORAGE_SECRET_ACCESS_KEY"),
			PublicBaseURL:   os.Getenv("STORAGE_PUBLIC_BASE_URL"),
		},
	}
}

var DB *gorm.DB

func ConnectDB(cfg *Config) *gorm.DB {
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Property{}, &models.Transaction{}); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	DB = db
	return db
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
