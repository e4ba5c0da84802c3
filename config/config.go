package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB          int    `mapstructure:"REDIS_AUTH_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Slot generation rule: fixed-width slots within the operating window.
	SlotWindowOpenHour  int `mapstructure:"SLOT_WINDOW_OPEN_HOUR"`
	SlotWindowCloseHour int `mapstructure:"SLOT_WINDOW_CLOSE_HOUR"`
	SlotWidthMinutes    int `mapstructure:"SLOT_WIDTH_MINUTES"`

	// E-token settings.
	TokenTTLMinutes int `mapstructure:"TOKEN_TTL_MINUTES"`

	// Per-kg CNG price used to compute booking amounts, as a decimal string.
	FuelPricePerKg string `mapstructure:"FUEL_PRICE_PER_KG"`

	// Payment gateway.
	StripeKey string `mapstructure:"STRIPE_KEY"`

	// Cloudinary (QR image storage).
	CloudinaryURL string `mapstructure:"CLOUDINARY_URL"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "fuelq")
	viper.SetDefault("SLOT_WINDOW_OPEN_HOUR", 6)
	viper.SetDefault("SLOT_WINDOW_CLOSE_HOUR", 18)
	viper.SetDefault("SLOT_WIDTH_MINUTES", 60)
	viper.SetDefault("TOKEN_TTL_MINUTES", 20)
	viper.SetDefault("FUEL_PRICE_PER_KG", "75.50")
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("CLOUDINARY_URL", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
