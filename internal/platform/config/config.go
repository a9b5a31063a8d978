package config

import (
	"os"
	"strings"
	"time"
)

// Config captures process-level configuration. FromEnv keeps main lean;
// every external resource handle is built from this once at startup.
type Config struct {
	Addr string

	MongoURI      string
	MongoDatabase string

	// RedisURL is optional; when empty the reconciled-session cache is
	// disabled and every confirmation runs the full procedure.
	RedisURL string

	// AuditPostgresDSN is optional; when empty audit events are kept in
	// memory only.
	AuditPostgresDSN string

	// KafkaBrokers is optional; when empty the audit ops stream is disabled.
	KafkaBrokers    []string
	KafkaAuditTopic string

	StripeSecretKey string
	// CheckoutSuccessURL must contain the {CHECKOUT_SESSION_ID} placeholder
	// the gateway substitutes on redirect.
	CheckoutSuccessURL string
	CheckoutCancelURL  string

	JWTSigningKey string

	ShutdownTimeout time.Duration
}

func FromEnv() Config {
	cfg := Config{
		Addr:               getenv("CLUBSPHERE_ADDR", ":8080"),
		MongoURI:           getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getenv("MONGODB_DATABASE", "clubSphere"),
		RedisURL:           os.Getenv("REDIS_URL"),
		AuditPostgresDSN:   os.Getenv("AUDIT_POSTGRES_DSN"),
		KafkaAuditTopic:    getenv("KAFKA_AUDIT_TOPIC", "payment-audit"),
		StripeSecretKey:    os.Getenv("STRIPE_SECRET_KEY"),
		CheckoutSuccessURL: getenv("CHECKOUT_SUCCESS_URL", "http://localhost:5173/payment/success?session_id={CHECKOUT_SESSION_ID}"),
		CheckoutCancelURL:  getenv("CHECKOUT_CANCEL_URL", "http://localhost:5173/payment/cancel"),
		// Default for development only; override in production.
		JWTSigningKey:   getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		ShutdownTimeout: 10 * time.Second,
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
