package config // package config loads application configuration from environment variables

import (
    "fmt"
    "log"  // log is used to report configuration errors and halt execution
    "os"   // os provides access to environment variables
    "time"

    "github.com/joho/godotenv"
    "golang.org/x/crypto/bcrypt"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
    Env         string // application environment (dev, test, prod)
    Port        string // HTTP port to listen on
    SecretKey   string // HMAC key used to sign session cookies

    DBDriver string // "sqlite" or "mysql"
    DBPath   string // sqlite file path
    DBUser   string // mysql username
    DBPass   string // mysql password (optional)
    DBHost   string // mysql host address
    DBPort   string // mysql port number
    DBName   string // mysql database name

    SessionTTL             time.Duration // lifetime of a login session
    BcryptCost             int           // bcrypt cost for password hashing
    CookieSecure           bool          // mark session cookies Secure
    AllowAdminRegistration bool          // allow the public form to create admins

    RabbitURL            string // AMQP broker url; empty disables publishing
    AlertConsumerEnabled bool   // run the high-risk alert consumer in-process
    AlertLogDir          string // directory for the consumer's alerts.log

    RateLimit RateLimitConfig
    Cache     CacheConfig
}

// Load reads configuration values from a .env file (when present) and the
// environment.  Missing required values or an unknown DB driver cause the
// program to exit with a fatal log message.
func Load() Config {
    if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
        log.Printf("config: .env not loaded: %v", err)
    }

    cfg := Config{
        Env:       envStr("APP_ENV", "dev"),
        Port:      envStr("APP_PORT", "5000"),
        SecretKey: must("SECRET_KEY"),

        DBDriver: envStr("DB_DRIVER", "sqlite"),
        DBPath:   envStr("DB_PATH", "site.db"),

        SessionTTL:             time.Duration(envInt("SESSION_TTL_HOURS", 24)) * time.Hour,
        BcryptCost:             clampCost(envInt("BCRYPT_COST", 12)),
        AllowAdminRegistration: envBool("ALLOW_ADMIN_REGISTRATION", false),

        RabbitURL:            firstEnv("RABBITMQ_URL", "AMQP_URL"),
        AlertConsumerEnabled: envBool("ALERT_CONSUMER_ENABLED", false),
        AlertLogDir:          envStr("ALERT_LOG_DIR", "logs"),

        RateLimit: LoadRateLimitConfig(),
        Cache:     LoadCacheConfig(),
    }

    // secure cookies by default in production
    cfg.CookieSecure = envBool("COOKIE_SECURE", cfg.IsProd())

    switch cfg.DBDriver {
    case "sqlite":
    case "mysql":
        cfg.DBUser = must("DB_USER")
        cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
        cfg.DBHost = must("DB_HOST")
        cfg.DBPort = envStr("DB_PORT", "3306")
        cfg.DBName = must("DB_NAME")
    default:
        log.Fatalf("unsupported DB_DRIVER: %q", cfg.DBDriver)
    }
    return cfg
}

// DSN builds the data source name for the configured driver.
func (c Config) DSN() string {
    if c.DBDriver == "mysql" {
        auth := c.DBUser
        if c.DBPass != "" {
            auth = fmt.Sprintf("%s:%s", c.DBUser, c.DBPass)
        }
        // parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
        return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
            auth, c.DBHost, c.DBPort, c.DBName)
    }
    return c.DBPath
}

// IsProd reports whether the app runs in production mode.
func (c Config) IsProd() bool { return c.Env == "prod" || c.Env == "production" }

// clampCost keeps the bcrypt cost inside the range bcrypt accepts.
func clampCost(n int) int {
    if n < bcrypt.MinCost {
        return bcrypt.MinCost
    }
    if n > bcrypt.MaxCost {
        return bcrypt.MaxCost
    }
    return n
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

func firstEnv(keys ...string) string {
    for _, k := range keys {
        if v := os.Getenv(k); v != "" {
            return v
        }
    }
    return ""
}
