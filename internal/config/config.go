package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EditorAccount is one privileged credential pair from EDITOR_ACCOUNTS.
// Anyone logging in outside this list is enrolled as a viewer.
type EditorAccount struct {
	Email    string
	Password string
}

type Config struct {
	HTTPPort       string
	DatabaseDSN    string
	JWTSecret      string
	CORSOrigins    string
	EditorAccounts []EditorAccount
}

const defaultDSN = "host=localhost user=postgres password=postgres dbname=doctor_manager port=5432 sslmode=disable"

func Load() *Config {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:    getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		CORSOrigins:    getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		EditorAccounts: ParseEditorAccounts(getEnv("EDITOR_ACCOUNTS", "")),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is not set, it is required")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters")
	}
	if cfg.DatabaseDSN == defaultDSN {
		log.Println("[WARN] DATABASE_DSN is using the default value, set your own Postgres connection for production")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS is using the default value, set your own domain for production")
	}
	if len(cfg.EditorAccounts) == 0 {
		log.Println("[WARN] EDITOR_ACCOUNTS is empty, every login will be enrolled as viewer")
	}

	return cfg
}

// ParseEditorAccounts reads "email:password,email:password". Entries without
// a password are skipped rather than silently becoming passwordless editors.
func ParseEditorAccounts(raw string) []EditorAccount {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var accounts []EditorAccount
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			log.Printf("[WARN] EDITOR_ACCOUNTS entry %q is not email:password, skipping", entry)
			continue
		}
		accounts = append(accounts, EditorAccount{
			Email:    strings.ToLower(strings.TrimSpace(parts[0])),
			Password: parts[1],
		})
	}
	return accounts
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
