package config // package config loads application configuration from environment variables

import (
	"log" // log is used to report configuration errors and halt execution
	"os"  // os provides access to environment variables
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, durations for
// operation deadlines.
type Config struct {
	Env          string        // application environment (e.g. "dev", "prod")
	Port         string        // HTTP port to listen on
	PublicBase   string        // external base URL used in retrieval links (e.g. "https://tickets.example.com")
	StoreDriver  string        // persistence backend: "memory" or "mysql"
	DBUser       string        // database username (mysql driver only)
	DBPass       string        // database password (optional)
	DBHost       string        // database host address
	DBPort       string        // database port number
	DBName       string        // database name
	JWTSecret    string        // secret used to verify staff gate tokens
	AdminPinHash string        // bcrypt hash of the admin PIN guarding destructive operations
	CacheDir     string        // directory for the on-disk ticket cache
	ReceiptDir   string        // directory where uploaded payment receipts are stored
	OpTimeout    time.Duration // deadline applied to each outbound step of a workflow
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Database variables
// are only required when the mysql store driver is selected.
func Load() Config {
	cfg := Config{
		Env:          must("APP_ENV"),                        // environment (dev/test/prod)
		Port:         must("APP_PORT"),                       // port to bind the HTTP server
		PublicBase:   must("PUBLIC_BASE_URL"),                // base URL embedded in notification links
		StoreDriver:  getenv("STORE_DRIVER", "mysql"),        // "memory" or "mysql"
		JWTSecret:    must("JWT_SECRET"),                     // secret for gate staff tokens
		AdminPinHash: must("ADMIN_PIN_HASH"),                 // bcrypt hash, never the raw PIN
		CacheDir:     getenv("CACHE_DIR", "data/ticketdb"),   // badger directory
		ReceiptDir:   getenv("RECEIPT_DIR", "data/receipts"), // receipt image directory
		OpTimeout:    mustDur("OP_TIMEOUT", 10*time.Second),  // per-step deadline
	}
	if cfg.StoreDriver == "mysql" {
		cfg.DBUser = must("DB_USER")      // database user
		cfg.DBPass = os.Getenv("DB_PASS") // database password (empty allowed)
		cfg.DBHost = must("DB_HOST")      // database host
		cfg.DBPort = must("DB_PORT")      // database port
		cfg.DBName = must("DB_NAME")      // database name
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustDur reads an optional duration variable, falling back to def when
// unset.  A present but unparsable value is a fatal configuration error.
func mustDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid duration for %s: %q", key, v)
	}
	return d
}
