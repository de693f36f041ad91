package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	FrontendURL       string `mapstructure:"FRONTEND_URL"`

	// Storage.
	StoreDriver  string `mapstructure:"STORE_DRIVER"` // "mongo" or "memory"
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Payment gateway.
	PaymentGateway       string        `mapstructure:"PAYMENT_GATEWAY"` // "razorpay" or "stripe"
	PaymentCurrency      string        `mapstructure:"PAYMENT_CURRENCY"`
	PaymentSigningSecret string        `mapstructure:"PAYMENT_SIGNING_SECRET"`
	RazorpayKeyID        string        `mapstructure:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret    string        `mapstructure:"RAZORPAY_KEY_SECRET"`
	RazorpayBaseURL      string        `mapstructure:"RAZORPAY_BASE_URL"`
	StripeKey            string        `mapstructure:"STRIPE_KEY"`
	GatewayTimeout       time.Duration `mapstructure:"GATEWAY_TIMEOUT"`
	GatewayMaxAttempts   uint          `mapstructure:"GATEWAY_MAX_ATTEMPTS"`
	GatewayBackoffBase   time.Duration `mapstructure:"GATEWAY_BACKOFF_BASE"`
	OrderLockTTL         time.Duration `mapstructure:"ORDER_LOCK_TTL"`

	// Booking lifecycle.
	BookingExpiryWindow time.Duration `mapstructure:"BOOKING_EXPIRY_WINDOW"`
	ExpirySweepInterval time.Duration `mapstructure:"EXPIRY_SWEEP_INTERVAL"`
	ReconcileInterval   time.Duration `mapstructure:"RECONCILE_INTERVAL"`
	ReconcileGrace      time.Duration `mapstructure:"RECONCILE_GRACE"`

	// Lifecycle events. Empty brokers disables Kafka and events are only logged.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`
}

var AppConfig Config

func LoadConfig() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on process environment")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("FRONTEND_URL", "http://localhost:5173")
	viper.SetDefault("STORE_DRIVER", "mongo")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "fitbook")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("PAYMENT_GATEWAY", "razorpay")
	viper.SetDefault("PAYMENT_CURRENCY", "INR")
	viper.SetDefault("PAYMENT_SIGNING_SECRET", "")
	viper.SetDefault("RAZORPAY_KEY_ID", "")
	viper.SetDefault("RAZORPAY_KEY_SECRET", "")
	viper.SetDefault("RAZORPAY_BASE_URL", "https://api.razorpay.com")
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("GATEWAY_TIMEOUT", 10*time.Second)
	viper.SetDefault("GATEWAY_MAX_ATTEMPTS", 3)
	viper.SetDefault("GATEWAY_BACKOFF_BASE", 200*time.Millisecond)
	viper.SetDefault("ORDER_LOCK_TTL", 45*time.Second)
	viper.SetDefault("BOOKING_EXPIRY_WINDOW", 30*time.Minute)
	viper.SetDefault("EXPIRY_SWEEP_INTERVAL", time.Minute)
	viper.SetDefault("RECONCILE_INTERVAL", 5*time.Minute)
	viper.SetDefault("RECONCILE_GRACE", 2*time.Minute)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "booking-events")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Razorpay signs checkout results with the key secret unless a dedicated secret is set.
	if AppConfig.PaymentSigningSecret == "" {
		AppConfig.PaymentSigningSecret = AppConfig.RazorpayKeySecret
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// KafkaBrokerList splits the comma separated KAFKA_BROKERS value.
func KafkaBrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(AppConfig.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
