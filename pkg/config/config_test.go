package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		MongoURI:          "mongodb://localhost:27017",
		MongoDatabaseName: "styledecor",
		MongoConnTimeout:  10 * time.Second,
		Port:              "8080",
		PublicDomain:      "https://styledecor.example.com",
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    30 * time.Second,
		IdempotencyTTL:    time.Hour,
		MaxRequestSize:    1 << 20,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsBadMongoURI(t *testing.T) {
	cfg := validConfig()
	cfg.MongoURI = "http://localhost:27017"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "MongoURI") {
		t.Errorf("expected MongoURI in the problem list, got: %v", err)
	}
}

func TestValidateServerRequiresCredentials(t *testing.T) {
	cfg := validConfig()

	err := cfg.ValidateServer()
	if err == nil {
		t.Fatal("expected a configuration error when no credentials are set")
	}
	if !strings.Contains(err.Error(), EnvFirebaseServiceKey) {
		t.Errorf("expected %s in the problem list, got: %v", EnvFirebaseServiceKey, err)
	}
	if !strings.Contains(err.Error(), EnvStripeSecretKey) {
		t.Errorf("expected %s in the problem list, got: %v", EnvStripeSecretKey, err)
	}

	cfg.FirebaseServiceKey = []byte(`{"type":"service_account"}`)
	cfg.StripeSecretKey = "sk_test_123"
	if err := cfg.ValidateServer(); err != nil {
		t.Fatalf("unexpected error with credentials set: %v", err)
	}
}
