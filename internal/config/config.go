package config

import (
	"os"
	"time"
)

// Config holds everything read from the environment. Loaded once in main and
// passed down; nothing else touches os.Getenv.
type Config struct {
	Port string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// Public base URL used for tracking links, pixels and webhooks.
	AppBaseURL string

	// Shared secret for the cron trigger endpoint.
	CronSecret string

	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	// Optional RabbitMQ event feed. Empty URL disables publishing.
	AMQPURL     string
	EventsQueue string

	// Pause between consecutive channel sends.
	SendPause time.Duration
}

func Load() *Config {
	return &Config{
		Port: getenv("PORT", "8080"),

		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBName:     os.Getenv("DB_NAME"),

		AppBaseURL: getenv("APP_BASE_URL", "http://localhost:8080"),
		CronSecret: os.Getenv("CRON_SECRET"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		EmailFrom:      getenv("EMAIL_FROM", "onboarding@followback.app"),
		EmailFromName:  getenv("EMAIL_FROM_NAME", "FollowBack"),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber: os.Getenv("TWILIO_PHONE_NUMBER"),

		AMQPURL:     os.Getenv("AMQP_URL"),
		EventsQueue: getenv("EVENTS_QUEUE", "campaign_events"),

		SendPause: 100 * time.Millisecond,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
