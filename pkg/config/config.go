package config

import (
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultPort           = "8080"
	DefaultStaticDir      = "views"
	DefaultRequestTimeout = 10 * time.Second
	DefaultLogLevel       = "info"
	DefaultGinMode        = "release"
)

// Config holds all application configuration values
type Config struct {
	// Mailchimp relay settings
	MailchimpInstance string
	MailchimpListID   string
	MailchimpAPIKey   string
	RequestTimeout    time.Duration

	// Server settings
	Port           string
	StaticDir      string
	LogLevel       string
	GinMode        string
	AllowedOrigins []string
}

// LoadConfig reads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		MailchimpInstance: os.Getenv("DB_mailchimpInstance"),
		MailchimpListID:   os.Getenv("DB_listUniqueId"),
		MailchimpAPIKey:   os.Getenv("DB_mailchimpApiKey"),
		RequestTimeout:    durationOrDefault("MAILCHIMP_TIMEOUT", DefaultRequestTimeout),
		Port:              stringOrDefault("PORT", DefaultPort),
		StaticDir:         stringOrDefault("STATIC_DIR", DefaultStaticDir),
		LogLevel:          stringOrDefault("LOG_LEVEL", DefaultLogLevel),
		GinMode:           stringOrDefault("GIN_MODE", DefaultGinMode),
		AllowedOrigins:    SplitOrigins(stringOrDefault("CORS_ALLOWED_ORIGINS", "*")),
	}
}

// SplitOrigins parses a comma separated origin list, dropping blanks.
func SplitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// ParseTimeout parses a duration, returning the default when raw is empty or invalid.
func ParseTimeout(raw string) time.Duration {
	if raw == "" {
		return DefaultRequestTimeout
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logrus.Warnf("Invalid timeout %q, using %s", raw, DefaultRequestTimeout)
		return DefaultRequestTimeout
	}
	return d
}

func stringOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return ParseTimeout(v)
}
