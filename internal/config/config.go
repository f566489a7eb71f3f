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
	Server    ServerConfig
	Storage   StorageConfig
	Watermark WatermarkConfig
	Retention RetentionConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxUploadSize   int64
}

type StorageConfig struct {
	UploadPath      string
	WatermarkedPath string
}

type WatermarkConfig struct {
	LogoPath   string
	WidthRatio float64
	Opacity    float64
	Margin     int
}

type RetentionConfig struct {
	MaxAge        time.Duration
	SweepInterval time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDuration("WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
			MaxUploadSize:   getEnvAsInt64("MAX_UPLOAD_SIZE", 25*1024*1024), // 25MB
		},
		Storage: StorageConfig{
			UploadPath:      getEnv("UPLOAD_PATH", "./uploads"),
			WatermarkedPath: getEnv("WATERMARKED_PATH", "./watermarked"),
		},
		Watermark: WatermarkConfig{
			LogoPath:   getEnv("WATERMARK_LOGO_PATH", "./logo.png"),
			WidthRatio: getEnvAsFloat("WATERMARK_WIDTH_RATIO", 0.2),
			Opacity:    getEnvAsFloat("WATERMARK_OPACITY", 0.5),
			Margin:     getEnvAsInt("WATERMARK_MARGIN", 20),
		},
		Retention: RetentionConfig{
			MaxAge:        getDuration("RETENTION_MAX_AGE", 24*time.Hour),
			SweepInterval: getDuration("RETENTION_SWEEP_INTERVAL", time.Hour),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Watermark.WidthRatio <= 0 || c.Watermark.WidthRatio > 1 {
		return fmt.Errorf("watermark width ratio must be in (0, 1], got %v", c.Watermark.WidthRatio)
	}
	if c.Watermark.Opacity < 0 || c.Watermark.Opacity > 1 {
		return fmt.Errorf("watermark opacity must be in [0, 1], got %v", c.Watermark.Opacity)
	}
	if c.Watermark.Margin < 0 {
		return fmt.Errorf("watermark margin must not be negative, got %d", c.Watermark.Margin)
	}
	if c.Server.MaxUploadSize <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d", c.Server.MaxUploadSize)
	}
	if c.Retention.MaxAge <= 0 {
		return fmt.Errorf("retention max age must be positive, got %v", c.Retention.MaxAge)
	}
	if c.Retention.SweepInterval <= 0 {
		return fmt.Errorf("retention sweep interval must be positive, got %v", c.Retention.SweepInterval)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}
