package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/edubridge/university-lms/internal/models"
)

type Config struct {
	DB_HOST     string
	DB_PORT     string
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string

	JWT_SECRET_KEY                  string
	JWT_ALGORITHM                   string
	JWT_ACCESS_TOKEN_EXPIRE_MINUTES int
	JWT_REFRESH_TOKEN_EXPIRE_DAYS   int

	SMTP_HOST          string
	SMTP_PORT          string
	SMTP_USER          string
	SMTP_PASSWORD      string
	DEFAULT_FROM_EMAIL string
	FRONTEND_URL       string

	EVERYCRED_API_URL    string
	EVERYCRED_API_TOKEN  string
	EVERYCRED_ISSUER_ID  string
	EVERYCRED_GROUP_ID   string
	EVERYCRED_SUBJECT_ID string
	EVERYCRED_MOCK_MODE  bool

	KAFKA_ADDRESS string

	ES_URL      string
	ES_USER     string
	ES_PASSWORD string

	LOG_LEVEL string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_USER:     os.Getenv("DB_USER"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_NAME:     os.Getenv("DB_NAME"),

		JWT_SECRET_KEY:                  os.Getenv("JWT_SECRET_KEY"),
		JWT_ALGORITHM:                   getenvDefault("JWT_ALGORITHM", "HS256"),
		JWT_ACCESS_TOKEN_EXPIRE_MINUTES: getenvInt("JWT_ACCESS_TOKEN_EXPIRE_MINUTES", 30),
		JWT_REFRESH_TOKEN_EXPIRE_DAYS:   getenvInt("JWT_REFRESH_TOKEN_EXPIRE_DAYS", 7),

		SMTP_HOST:          os.Getenv("SMTP_HOST"),
		SMTP_PORT:          getenvDefault("SMTP_PORT", "587"),
		SMTP_USER:          os.Getenv("SMTP_USER"),
		SMTP_PASSWORD:      os.Getenv("SMTP_PASSWORD"),
		DEFAULT_FROM_EMAIL: getenvDefault("DEFAULT_FROM_EMAIL", "noreply@everycred.com"),
		FRONTEND_URL:       getenvDefault("FRONTEND_URL", "http://localhost:3000"),

		EVERYCRED_API_URL:    getenvDefault("EVERYCRED_API_URL", "http://localhost:8000/api/v1"),
		EVERYCRED_API_TOKEN:  os.Getenv("EVERYCRED_API_TOKEN"),
		EVERYCRED_ISSUER_ID:  os.Getenv("EVERYCRED_ISSUER_ID"),
		EVERYCRED_GROUP_ID:   os.Getenv("EVERYCRED_GROUP_ID"),
		EVERYCRED_SUBJECT_ID: os.Getenv("EVERYCRED_SUBJECT_ID"),
		EVERYCRED_MOCK_MODE:  os.Getenv("EVERYCRED_MOCK_MODE") == "true",

		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),

		ES_URL:      os.Getenv("ES_URL"),
		ES_USER:     os.Getenv("ES_USER"),
		ES_PASSWORD: os.Getenv("ES_PASSWORD"),

		LOG_LEVEL: getenvDefault("LOG_LEVEL", "info"),
	}

	// The signing secret and algorithm must be present at startup;
	// running without them is not a degraded mode.
	if config.JWT_SECRET_KEY == "" {
		return nil, errors.New("JWT_SECRET_KEY is required but not set in environment variables")
	}
	if config.JWT_ALGORITHM == "" {
		return nil, errors.New("JWT_ALGORITHM is required but not set in environment variables")
	}

	return config, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Notice: %s=%q is not an integer, using default %d", key, v, def)
		return def
	}
	return n
}

func InitDB(configuration *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		configuration.DB_USER, configuration.DB_PASSWORD,
		configuration.DB_HOST, configuration.DB_PORT, configuration.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to database: %w", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Student{},
		&models.CredentialRecord{},
		&models.UsedResetToken{},
	); err != nil {
		return nil, fmt.Errorf("cannot run migrations: %w", err)
	}
	return db, nil
}
