package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "demo-project")
	t.Setenv("FIREBASE_STORAGE_BUCKET", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("NAME_LOOKUP_CONCURRENCY", "")
	t.Setenv("EXPORT_URL_TTL", "")

	cfg := Load()

	assert.Equal(t, "demo-project", cfg.ProjectID)
	assert.Equal(t, "demo-project.appspot.com", cfg.StorageBucket)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "taobaoOrders", cfg.OrdersCollection)
	assert.Equal(t, "users", cfg.UsersCollection)
	assert.Equal(t, []string{"google.com"}, cfg.SignInProviders)
	assert.Equal(t, 8, cfg.NameLookupConcurrency)
	assert.Equal(t, 15*time.Minute, cfg.ExportURLTTL)
	assert.Equal(t, "ko-KR", cfg.DefaultLocale)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "prod")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("NAME_LOOKUP_CONCURRENCY", "3")
	t.Setenv("EXPORT_URL_TTL", "5m")
	t.Setenv("LOG_FORMAT", "CONSOLE")
	t.Setenv("PRICE_OVERRIDE_ROLE", " staff ")

	cfg := Load()

	assert.Equal(t, "prod", cfg.ProjectID)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 3, cfg.NameLookupConcurrency)
	assert.Equal(t, 5*time.Minute, cfg.ExportURLTTL)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, "staff", cfg.PriceOverrideRole)
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	t.Setenv("NAME_LOOKUP_CONCURRENCY", "many")
	t.Setenv("EXPORT_URL_TTL", "-1s")

	cfg := Load()

	assert.Equal(t, 8, cfg.NameLookupConcurrency)
	assert.Equal(t, 15*time.Minute, cfg.ExportURLTTL)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		ProjectID:             "p",
		LogFormat:             "json",
		TimeZone:              "UTC",
		NameLookupConcurrency: 1,
		SignInProviders:       []string{"google.com"},
	}
	require.NoError(t, valid.Validate())

	t.Run("MissingProject", func(t *testing.T) {
		c := valid
		c.ProjectID = ""
		assert.ErrorContains(t, c.Validate(), "FIREBASE_PROJECT_ID")
	})

	t.Run("BadLogFormat", func(t *testing.T) {
		c := valid
		c.LogFormat = "xml"
		assert.ErrorContains(t, c.Validate(), "LOG_FORMAT")
	})

	t.Run("BadTimeZone", func(t *testing.T) {
		c := valid
		c.TimeZone = "Mars/Olympus"
		assert.ErrorContains(t, c.Validate(), "TZ_NAME")
	})

	t.Run("ZeroConcurrency", func(t *testing.T) {
		c := valid
		c.NameLookupConcurrency = 0
		assert.ErrorContains(t, c.Validate(), "NAME_LOOKUP_CONCURRENCY")
	})

	t.Run("NoProviders", func(t *testing.T) {
		c := valid
		c.SignInProviders = nil
		assert.ErrorContains(t, c.Validate(), "SIGN_IN_PROVIDERS")
	})
}

func TestConfig_LocationEmptyIsUTC(t *testing.T) {
	loc, err := Config{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}
