package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	OpenAIAPIKey    string
	OpenAIModel     string
	MaxTokens       int64
	SecretKey       string
	SessionTTL      time.Duration
	AssetDir        string
	MaxUploadBytes  int64
	JPEGQuality     int
	WkhtmltopdfPath string
}

func LoadConfig() (Config, error) {
	cfg := Config{}

	cfg.Port = envOrDefault("PORT", "8080")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAIModel = envOrDefault("OPENAI_MODEL", "gpt-4o")
	cfg.SecretKey = envOrDefault("SECRET_KEY", "change-me")
	cfg.AssetDir = envOrDefault("ASSET_DIR", filepath.Join("static", "asset"))
	cfg.WkhtmltopdfPath = os.Getenv("WKHTMLTOPDF_PATH")

	maxTokens, err := parseIntEnv("OPENAI_MAX_TOKENS", 4000)
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENAI_MAX_TOKENS: %w", err)
	}
	cfg.MaxTokens = maxTokens

	ttlMinutes, err := parseIntEnv("SESSION_TTL_MINUTES", 60)
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSION_TTL_MINUTES: %w", err)
	}
	cfg.SessionTTL = time.Duration(ttlMinutes) * time.Minute

	maxUploadMB, err := parseIntEnv("MAX_UPLOAD_MB", 50)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAX_UPLOAD_MB: %w", err)
	}
	cfg.MaxUploadBytes = maxUploadMB * 1024 * 1024

	jpegQuality, err := parseIntEnv("JPEG_QUALITY", 85)
	if err != nil {
		return Config{}, fmt.Errorf("parse JPEG_QUALITY: %w", err)
	}
	if jpegQuality < 1 || jpegQuality > 100 {
		return Config{}, fmt.Errorf("JPEG_QUALITY must be between 1 and 100, got %d", jpegQuality)
	}
	cfg.JPEGQuality = int(jpegQuality)

	absAssetDir, err := filepath.Abs(cfg.AssetDir)
	if err != nil {
		return Config{}, fmt.Errorf("resolve asset dir: %w", err)
	}
	cfg.AssetDir = absAssetDir

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseIntEnv(key string, fallback int64) (int64, error) {
	value := envOrDefault(key, "")
	if value == "" {
		return fallback, nil
	}

	num, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, err
	}
	return num, nil
}
