package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/hoversale/internal/search"
	"github.com/Skotchmaster/hoversale/pkg/config"
)

type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled reports whether invoice emails can be sent.
func (s SMTP) Enabled() bool { return s.Host != "" && s.User != "" }

type ServiceConfig struct {
	config.Config

	KafkaTopic    string
	NotifyTimeout time.Duration

	SMTP SMTP

	ES search.Config

	RazorpayKeyID     string
	RazorpayKeySecret []byte

	CookieSecure bool
	AuthTimeout  time.Duration
}

// LoadEnv reads path into the environment when it exists. Variables already
// set win.
func LoadEnv(path string) {
	if err := godotenv.Load(path); err != nil {
		log.Printf("notice: %s not loaded: %v. Using system environment variables", path, err)
	}
}

func Load() ServiceConfig {
	cfg := config.Load()

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustOneOf(cfg.DBDriver, "DB_DRIVER", "pgx", "postgres")

	return ServiceConfig{
		Config: cfg,

		KafkaTopic:    config.EnvDefault("KAFKA_ORDER_TOPIC", "order_events"),
		NotifyTimeout: config.EnvDurationDefault("NOTIFY_TIMEOUT", 30*time.Second),

		SMTP: SMTP{
			Host:     config.EnvDefault("SMTP_HOST", "smtp.gmail.com"),
			Port:     config.EnvIntDefault("SMTP_PORT", 587),
			User:     os.Getenv("EMAIL_USER"),
			Password: os.Getenv("EMAIL_PASS"),
			From:     os.Getenv("EMAIL_FROM"),
		},

		ES: search.Config{
			URL:      os.Getenv("ES_URL"),
			User:     os.Getenv("ES_USER"),
			Password: os.Getenv("ES_PASSWORD"),
			Index:    config.EnvDefault("ES_INDEX", search.DefaultIndex),
		},

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: []byte(os.Getenv("RAZORPAY_KEY_SECRET")),

		CookieSecure: os.Getenv("COOKIE_SECURE") == "true",
		AuthTimeout:  config.EnvDurationDefault("AUTH_TIMEOUT", 5*time.Second),
	}
}
