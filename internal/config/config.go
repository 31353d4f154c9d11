package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Account struct {
	Username string
	Password string
	Role     string
}

type Config struct {
	ServerPort int

	DatabasePath string
	DatabaseURL  string

	JWTSecret       []byte
	JWTIssuer       string
	JWTAudience     string
	ExpiryInMinutes int

	ReadWriteAccount Account
	ReadOnlyAccount  Account

	RestrictedProductIDs []int

	KafkaAddress string

	ESURL      string
	ESUser     string
	ESPassword string

	LogLevel string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DatabasePath: EnvDefault("DATABASE_PATH", "./database/product_management.db"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),

		JWTSecret:       []byte(os.Getenv("JWT_SECRET")),
		JWTIssuer:       os.Getenv("JWT_ISSUER"),
		JWTAudience:     os.Getenv("JWT_AUDIENCE"),
		ExpiryInMinutes: EnvIntDefault("JWT_EXPIRY_MINUTES", 120),

		ReadWriteAccount: Account{
			Username: os.Getenv("READWRITE_USERNAME"),
			Password: os.Getenv("READWRITE_PASSWORD"),
			Role:     "Admin",
		},
		ReadOnlyAccount: Account{
			Username: os.Getenv("READONLY_USERNAME"),
			Password: os.Getenv("READONLY_PASSWORD"),
			Role:     "User",
		},

		RestrictedProductIDs: IntCSV(EnvDefault("RESTRICTED_PRODUCT_IDS", "101,102,103")),

		KafkaAddress: os.Getenv("KAFKA_ADDRESS"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),

		LogLevel: EnvDefault("LOG_LEVEL", "info"),
	}

	return config, nil
}

// Require dies on values the service cannot run without.
func (c *Config) Require() {
	MustNonEmptyBytes(c.JWTSecret, "JWT_SECRET")
	MustNonEmpty(c.JWTIssuer, "JWT_ISSUER")
	MustNonEmpty(c.JWTAudience, "JWT_AUDIENCE")
	MustNonEmpty(c.ReadWriteAccount.Username, "READWRITE_USERNAME")
	MustNonEmpty(c.ReadWriteAccount.Password, "READWRITE_PASSWORD")
	MustNonEmpty(c.ReadOnlyAccount.Username, "READONLY_USERNAME")
	MustNonEmpty(c.ReadOnlyAccount.Password, "READONLY_PASSWORD")
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func IntCSV(v string) []int {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
