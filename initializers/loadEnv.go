package initializers

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment.")
	}
}

type Config struct {
	Port              string
	DatabaseDSN       string
	RazorpayURL       string
	RazorpayKeyID     string
	RazorpayKeySecret string
	PaymentAPIURL     string
	Currency          string
	GatewayTimeout    time.Duration
	WidgetTimeout     time.Duration
	WriteTimeout      time.Duration
	SessionIdle       time.Duration
	ReconcileInterval time.Duration
	ReconcileStale    time.Duration
	S3Bucket          string
	JWTSecret         string
	FrontendURL       string
}

func LoadConfig() Config {
	return Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseDSN:       os.Getenv("DB_DSN"),
		RazorpayURL:       getEnv("RAZORPAY_URL", "https://api.razorpay.com"),
		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		PaymentAPIURL:     os.Getenv("PAYMENT_API_URL"),
		Currency:          getEnv("CURRENCY", "INR"),
		GatewayTimeout:    getDuration("GATEWAY_TIMEOUT", 30*time.Second),
		WidgetTimeout:     getDuration("WIDGET_TIMEOUT", 15*time.Minute),
		WriteTimeout:      getDuration("WRITE_TIMEOUT", 30*time.Second),
		SessionIdle:       getDuration("SESSION_IDLE_TIMEOUT", 2*time.Hour),
		ReconcileInterval: getDuration("RECONCILE_INTERVAL", time.Minute),
		ReconcileStale:    getDuration("RECONCILE_STALE_AFTER", 2*time.Minute),
		S3Bucket:          os.Getenv("AWS_S3_BUCKET"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:4200"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getDuration accepts Go durations ("90s") or plain seconds ("90").
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Invalid %s=%q, using %s", key, v, fallback)
	return fallback
}
