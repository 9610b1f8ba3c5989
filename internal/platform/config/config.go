package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	StorageDriver     string
	MigrationsPath    string
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	RateLimit         string
	CORSOrigins       []string
	Accounting        AccountingConfig
}

// AccountingConfig holds the tolerances the posting and matching rules use.
type AccountingConfig struct {
	BalanceTolerance         decimal.Decimal
	ReconcileAmountTolerance decimal.Decimal
	ReconcileDateWindowDays  int
}

// DefaultAccountingConfig is one cent for balancing and matching and a three day window.
func DefaultAccountingConfig() AccountingConfig {
	return AccountingConfig{
		BalanceTolerance:         decimal.New(1, -2),
		ReconcileAmountTolerance: decimal.New(1, -2),
		ReconcileDateWindowDays:  3,
	}
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "smb-books-app")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("BALANCE_TOLERANCE", "0.01")
	viper.SetDefault("RECONCILE_AMOUNT_TOLERANCE", "0.01")
	viper.SetDefault("RECONCILE_DATE_WINDOW_DAYS", 3)

	// Environment variables override .env values, which override defaults.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.StorageDriver = strings.ToLower(viper.GetString("STORAGE_DRIVER"))
	if cfg.StorageDriver != StoragePostgres && cfg.StorageDriver != StorageMemory {
		log.Printf("Warning: unknown STORAGE_DRIVER %q. Defaulting to %s.\n", cfg.StorageDriver, StoragePostgres)
		cfg.StorageDriver = StoragePostgres
	}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" && cfg.StorageDriver == StoragePostgres {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	// Load JWT Secret
	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	// Load JWT Expiry Duration (e.g., "60m", "1h")
	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour * 1 // Default to 1 hour
		if jwtExpiryStr != "" {
			log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
		}
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "smb-books-app"
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSOrigins = strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",")

	cfg.Accounting = DefaultAccountingConfig()
	if tol, err := decimal.NewFromString(viper.GetString("BALANCE_TOLERANCE")); err == nil && !tol.IsNegative() {
		cfg.Accounting.BalanceTolerance = tol
	} else {
		log.Printf("Warning: Invalid BALANCE_TOLERANCE. Defaulting to %s.\n", cfg.Accounting.BalanceTolerance)
	}
	if tol, err := decimal.NewFromString(viper.GetString("RECONCILE_AMOUNT_TOLERANCE")); err == nil && !tol.IsNegative() {
		cfg.Accounting.ReconcileAmountTolerance = tol
	} else {
		log.Printf("Warning: Invalid RECONCILE_AMOUNT_TOLERANCE. Defaulting to %s.\n", cfg.Accounting.ReconcileAmountTolerance)
	}
	if days := viper.GetInt("RECONCILE_DATE_WINDOW_DAYS"); days >= 0 {
		cfg.Accounting.ReconcileDateWindowDays = days
	}

	return cfg, nil
}
