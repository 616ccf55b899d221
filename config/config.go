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
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisTaskDB   int    `mapstructure:"REDIS_TASK_DB"`

	// Booking lifecycle.
	HoldWindowHours   int `mapstructure:"HOLD_WINDOW_HOURS"`
	DepositPercentage int `mapstructure:"DEPOSIT_PERCENTAGE"`

	// VNPay payment-provider boundary.
	VNPayTmnCode    string `mapstructure:"VNPAY_TMN_CODE"`
	VNPayHashSecret string `mapstructure:"VNPAY_HASH_SECRET"`
	VNPayPayURL     string `mapstructure:"VNPAY_PAY_URL"`
	VNPayReturnURL  string `mapstructure:"VNPAY_RETURN_URL"`
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
	// Empty defaults register the keys so AutomaticEnv can fill them on
	// Unmarshal even without a config file.
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("VNPAY_TMN_CODE", "")
	viper.SetDefault("VNPAY_HASH_SECRET", "")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_TASK_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "stayhub")
	viper.SetDefault("HOLD_WINDOW_HOURS", 24)
	viper.SetDefault("DEPOSIT_PERCENTAGE", 30)
	viper.SetDefault("VNPAY_PAY_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html")
	viper.SetDefault("VNPAY_RETURN_URL", "http://localhost:8080/api/payment/vnpay-return")

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
