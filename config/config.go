package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort            string        `mapstructure:"APP_PORT"`
	DatabaseURL        string        `mapstructure:"DATABASE_URL"`
	DatabaseName       string        `mapstructure:"DATABASE_NAME"`
	Env                string        `mapstructure:"ENV"`
	JWTSecret          string        `mapstructure:"JWT_SECRET"`
	JWTExpiry          time.Duration `mapstructure:"JWT_EXPIRY"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin  int           `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AuthRequestsPerMin int           `mapstructure:"AUTH_REQUESTS_PER_MIN"`
	AllowedOrigins     []string      `mapstructure:"ALLOWED_ORIGINS"`
	// Proxies whose X-Forwarded-For is believed. Empty trusts none.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES"`

	// Pagination.
	DefaultPageSize int `mapstructure:"DEFAULT_PAGE_SIZE"`
	MaxPageSize     int `mapstructure:"MAX_PAGE_SIZE"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Background completion of confirmed appointments.
	AutoCompleteAppointments bool `mapstructure:"AUTO_COMPLETE_APPOINTMENTS"`

	// Cloudinary media storage for provider images.
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string `mapstructure:"CLOUDINARY_FOLDER"`
}

var AppConfig Config

func setDefaults() {
	viper.SetDefault("APP_PORT", "8081")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "slotwise")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_EXPIRY", "24h")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("AUTH_REQUESTS_PER_MIN", 20)
	viper.SetDefault("ALLOWED_ORIGINS", []string{"*"})
	viper.SetDefault("TRUSTED_PROXIES", []string{})
	viper.SetDefault("DEFAULT_PAGE_SIZE", 10)
	viper.SetDefault("MAX_PAGE_SIZE", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 3)
	viper.SetDefault("AUTO_COMPLETE_APPOINTMENTS", true)
	viper.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	viper.SetDefault("CLOUDINARY_API_KEY", "")
	viper.SetDefault("CLOUDINARY_API_SECRET", "")
	viper.SetDefault("CLOUDINARY_FOLDER", "slotwise/providers")
}

func LoadConfig() {
	// A .env file is optional; values already in the environment win.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if AppConfig.JWTSecret == "" {
		if IsProduction() {
			log.Fatal("JWT_SECRET must be set in production")
		}
		log.Println("WARNING: JWT_SECRET not set, using development secret")
		AppConfig.JWTSecret = devJWTSecret
	}
}

const devJWTSecret = "slotwise-development-secret"

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// CloudinaryEnabled reports whether media upload credentials are configured.
func CloudinaryEnabled() bool {
	return AppConfig.CloudinaryCloudName != "" &&
		AppConfig.CloudinaryAPIKey != "" &&
		AppConfig.CloudinaryAPISecret != ""
}
