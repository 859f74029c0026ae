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
	Environment    string
	DBDSN          string
	HTTPAddr       string
	StoreURL       string
	PsychologistID string
	TelegramToken  string
	TelegramChatID int64
	HTTPTimeout    time.Duration
	Timezone       string
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		Environment:    os.Getenv("ENV"),
		DBDSN:          os.Getenv("DB_DSN"),
		HTTPAddr:       os.Getenv("HTTP_ADDR"),
		StoreURL:       os.Getenv("STORE_URL"),
		PsychologistID: os.Getenv("PSYCHOLOGIST_ID"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		Timezone:       os.Getenv("TIMEZONE"),
		HTTPTimeout:    10 * time.Second,
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.StoreURL == "" {
		cfg.StoreURL = "http://localhost:8080"
	}

	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = chatID
	}

	if raw := os.Getenv("HTTP_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse HTTP_TIMEOUT: %w", err)
		}
		cfg.HTTPTimeout = timeout
	}

	return cfg, nil
}

// RequireDB проверяет настройки сервера хранилища
func (c *Config) RequireDB() error {
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required but not set")
	}
	return nil
}

// RequireBot проверяет настройки Telegram-бота
func (c *Config) RequireBot() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if c.PsychologistID == "" {
		return fmt.Errorf("PSYCHOLOGIST_ID is required but not set")
	}
	return nil
}

// Location возвращает часовой пояс календаря; без TIMEZONE - локальный
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load TIMEZONE: %w", err)
	}
	return loc, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}
