package config

import (
	"crypto/rsa"
	"encoding/base64"
	"os"

	"github.com/Code-Fusion-3/job-portal-sub000/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

const AppName = "request-workflow-service"

type Config struct {
	Env     string
	AppPort string
	AppUrl  string
	DBUrl   string

	// Public half of the auth service's signing key. This service only
	// verifies tokens, it never mints them.
	RSAPublicKey *rsa.PublicKey

	SendgridAPIKey    string
	SendgridFromEmail string
	SendgridFromName  string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	SeedTestData bool
}

func requiredEnv(name string) string {
	v := os.Getenv(name)
	if v == "" {
		utils.Logger.Fatalf("%s env var is missing", name)
	}
	return v
}

// LoadConfig reads all configuration from the environment and fails fast
// on anything missing or malformed. Notification credentials are the only
// optional group: without them both channels degrade to no-ops.
func LoadConfig() *Config {
	utils.Logger.Info("Loading config for app: ", AppName)

	cfg := &Config{
		Env:     requiredEnv("ENV"),
		AppPort: requiredEnv("APP_PORT"),
		AppUrl:  requiredEnv("APP_URL"),
		DBUrl:   requiredEnv("DB_URL"),
	}

	pubB64 := requiredEnv("RSA_PUBLIC_KEY_BASE64")
	pubPEM, err := base64.StdEncoding.DecodeString(pubB64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("RSA_PUBLIC_KEY_BASE64 is not valid base64")
	}
	cfg.RSAPublicKey, err = jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key PEM")
	}

	cfg.SendgridAPIKey = os.Getenv("SENDGRID_API_KEY")
	cfg.SendgridFromEmail = os.Getenv("SENDGRID_FROM_EMAIL")
	cfg.SendgridFromName = os.Getenv("SENDGRID_FROM_NAME")
	if cfg.SendgridAPIKey != "" && cfg.SendgridFromEmail == "" {
		utils.Logger.Fatal("SENDGRID_FROM_EMAIL is required when SENDGRID_API_KEY is set")
	}

	cfg.TwilioAccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	cfg.TwilioAuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	cfg.TwilioFromNumber = os.Getenv("TWILIO_FROM_NUMBER")
	if cfg.TwilioAccountSID != "" && (cfg.TwilioAuthToken == "" || cfg.TwilioFromNumber == "") {
		utils.Logger.Fatal("TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER are required when TWILIO_ACCOUNT_SID is set")
	}

	cfg.SeedTestData = os.Getenv("SEED_TEST_DATA") == "true"
	if cfg.SeedTestData && cfg.Env == "production" {
		utils.Logger.Fatal("SEED_TEST_DATA must not be enabled in production")
	}

	return cfg
}
