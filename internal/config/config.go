package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ProjectID                    string
	Port                         string
	AllowedOrigins               []string
	StorageBucket                string
	SignedURLServiceAccountEmail string

	LogLevel  string
	LogFormat string

	DefaultLocale string
	TimeZone      string

	OrdersCollection      string
	UsersCollection       string
	PriceOverrideRole     string
	SignInProviders       []string
	NameLookupConcurrency int
	ExportURLTTL          time.Duration
}

func Load() Config {
	// FIREBASE_PROJECT_ID または GOOGLE_CLOUD_PROJECT を読む
	projectID := getenv("FIREBASE_PROJECT_ID", "")
	if projectID == "" {
		projectID = getenv("GOOGLE_CLOUD_PROJECT", "")
	}

	storageBucket := getenv("FIREBASE_STORAGE_BUCKET", "")
	if storageBucket == "" && projectID != "" {
		storageBucket = projectID + ".appspot.com"
	}

	return Config{
		ProjectID:                    projectID,
		Port:                         getenv("PORT", "8080"),
		AllowedOrigins:               splitList(getenv("ALLOWED_ORIGINS", "http://localhost:3000")),
		StorageBucket:                storageBucket,
		SignedURLServiceAccountEmail: getenv("SIGNED_URL_SERVICE_ACCOUNT_EMAIL", ""),
		LogLevel:                     strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat:                    strings.ToLower(getenv("LOG_FORMAT", "json")),
		DefaultLocale:                getenv("DEFAULT_LOCALE", "ko-KR"),
		TimeZone:                     getenv("TZ_NAME", "Asia/Seoul"),
		OrdersCollection:             getenv("ORDERS_COLLECTION", "taobaoOrders"),
		UsersCollection:              getenv("USERS_COLLECTION", "users"),
		PriceOverrideRole:            strings.TrimSpace(getenv("PRICE_OVERRIDE_ROLE", "")),
		SignInProviders:              splitList(getenv("SIGN_IN_PROVIDERS", "google.com")),
		NameLookupConcurrency:        getenvInt("NAME_LOOKUP_CONCURRENCY", 8),
		ExportURLTTL:                 getenvDuration("EXPORT_URL_TTL", 15*time.Minute),
	}
}

// Validate reports the first setting the server cannot start with.
func (c Config) Validate() error {
	if c.ProjectID == "" {
		return errors.New("missing FIREBASE_PROJECT_ID or GOOGLE_CLOUD_PROJECT")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("TZ_NAME: %w", err)
	}
	if c.NameLookupConcurrency <= 0 {
		return fmt.Errorf("NAME_LOOKUP_CONCURRENCY must be positive, got %d", c.NameLookupConcurrency)
	}
	if len(c.SignInProviders) == 0 {
		return errors.New("SIGN_IN_PROVIDERS must list at least one provider")
	}
	return nil
}

// Location resolves TimeZone, falling back to UTC when it is empty.
func (c Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.TimeZone)
}

func splitList(s string) []string {
	out := []string{}
	for _, o := range strings.Split(s, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
