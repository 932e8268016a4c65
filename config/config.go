package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       DBConfig
	Redis    RedisConfig
	Telegram TelegramConfig
	Store    StoreConfig
	Cart     CartConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type TelegramConfig struct {
	Token      string
	VendorChat int64  // chat allowed to run admin commands
	OrderToken string // separate token for delivering order messages; falls back to Token
}

type StoreConfig struct {
	Backend string // "postgres" or "memory"
}

type CartConfig struct {
	Path string // directory for per-chat cart files
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	vendorChat, _ := strconv.ParseInt(getEnv("VENDOR_CHAT_ID", "0"), 10, 64)

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "qrmenu"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Telegram: TelegramConfig{
			Token:      getEnv("TOKEN", ""),
			VendorChat: vendorChat,
			OrderToken: getEnv("ORDER_TOKEN", ""),
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", "postgres"),
		},
		Cart: CartConfig{
			Path: getEnv("CART_DIR", "carts"),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
