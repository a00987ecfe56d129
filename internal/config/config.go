package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. CHARKLI_HTTP_ADDRESS.
const EnvPrefix = "CHARKLI_"

// ServerConfig holds server-wide configuration settings.
type ServerConfig struct {
	HTTP        HTTPConfig        `yaml:"http"        envPrefix:"HTTP_"`
	Database    DatabaseConfig    `yaml:"database"    envPrefix:"DB_"`
	Session     SessionConfig     `yaml:"session"     envPrefix:"SESSION_"`
	WebSocket   WebSocketConfig   `yaml:"websocket"   envPrefix:"WS_"`
	Password    PasswordConfig    `yaml:"password"    envPrefix:"PASSWORD_"`
	Connections ConnectionsConfig `yaml:"connections" envPrefix:"CONN_"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"  envPrefix:"RATE_LIMIT_"`

	// BcryptCost is the work factor for password hashes.
	BcryptCost int `yaml:"bcrypt_cost" env:"BCRYPT_COST"`
}

// HTTPConfig holds the web listener settings.
type HTTPConfig struct {
	Address         string        `yaml:"address"          env:"ADDRESS"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`

	// StaticDir serves /static from disk instead of the embedded assets.
	StaticDir string `yaml:"static_dir" env:"STATIC_DIR"`

	// SecureCookies marks the session cookie Secure. Enable behind TLS.
	SecureCookies bool `yaml:"secure_cookies" env:"SECURE_COOKIES"`
}

// DatabaseConfig selects and configures the storage backend.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver     string         `yaml:"driver"      env:"DRIVER"`
	SQLitePath string         `yaml:"sqlite_path" env:"SQLITE_PATH"`
	Postgres   PostgresConfig `yaml:"postgres"    envPrefix:"POSTGRES_"`
}

// PostgresConfig holds PostgreSQL connection and pool settings.
type PostgresConfig struct {
	Host            string        `yaml:"host"              env:"HOST"`
	Port            int           `yaml:"port"              env:"PORT"`
	User            string        `yaml:"user"              env:"USER"`
	Password        string        `yaml:"password"          env:"PASSWORD"`
	Database        string        `yaml:"database"          env:"DATABASE"`
	SSLMode         string        `yaml:"sslmode"           env:"SSLMODE"`
	MaxOpenConns    int           `yaml:"max_open_conns"    env:"MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"max_idle_conns"    env:"MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`
}

// SessionConfig holds login session settings.
type SessionConfig struct {
	CookieName string        `yaml:"cookie_name" env:"COOKIE_NAME"`
	TTL        time.Duration `yaml:"ttl"         env:"TTL"`

	// Store is "sql" (the web_sessions table) or "redis".
	Store         string `yaml:"store"          env:"STORE"`
	RedisAddr     string `yaml:"redis_addr"     env:"REDIS_ADDR"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db"       env:"REDIS_DB"`
	RedisPrefix   string `yaml:"redis_prefix"   env:"REDIS_PREFIX"`
}

// RateLimitConfig holds rate limiting settings for login attempts.
type RateLimitConfig struct {
	// MaxAttempts is the maximum login attempts before lockout.
	MaxAttempts int `yaml:"max_attempts" env:"MAX_ATTEMPTS"`

	// LockoutSeconds is the initial lockout duration in seconds.
	LockoutSeconds int `yaml:"lockout_seconds" env:"LOCKOUT_SECONDS"`

	// MaxLockoutSeconds caps the exponential backoff.
	MaxLockoutSeconds int `yaml:"max_lockout_seconds" env:"MAX_LOCKOUT_SECONDS"`
}

// ConnectionsConfig limits concurrent live-sheet sockets.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent sockets from one address. 0 means unlimited.
	MaxPerIP int `yaml:"max_per_ip" env:"MAX_PER_IP"`

	// MaxTotal is the maximum concurrent sockets overall. 0 means unlimited.
	MaxTotal int `yaml:"max_total" env:"MAX_TOTAL"`
}

// PasswordConfig holds password validation settings.
type PasswordConfig struct {
	MinLength        int  `yaml:"min_length"        env:"MIN_LENGTH"`
	RequireUppercase bool `yaml:"require_uppercase" env:"REQUIRE_UPPERCASE"`
	RequireLowercase bool `yaml:"require_lowercase" env:"REQUIRE_LOWERCASE"`
	RequireDigit     bool `yaml:"require_digit"     env:"REQUIRE_DIGIT"`
	RequireSpecial   bool `yaml:"require_special"   env:"REQUIRE_SPECIAL"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// AllowedOrigins lists origins allowed to open a live socket. Empty
	// enforces same-origin; "*" allows all.
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size" env:"MAX_MESSAGE_SIZE"`
}

// DefaultConfig returns a ServerConfig with secure defaults.
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		HTTP: HTTPConfig{
			Address:         ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: "data/charkli.db",
			Postgres: PostgresConfig{
				Host:            "localhost",
				Port:            5432,
				User:            "charkli",
				Database:        "charkli",
				SSLMode:         "disable",
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: 5 * time.Minute,
			},
		},
		Session: SessionConfig{
			CookieName:  "charkli_session",
			TTL:         7 * 24 * time.Hour,
			Store:       "sql",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "charkli:session:",
		},
		WebSocket: WebSocketConfig{
			AllowedOrigins: []string{},
			MaxMessageSize: 64 * 1024,
		},
		Password: PasswordConfig{
			MinLength:        8,
			RequireUppercase: true,
			RequireLowercase: true,
			RequireDigit:     true,
		},
		Connections: ConnectionsConfig{
			MaxPerIP: 10,
			MaxTotal: 500,
		},
		RateLimit: RateLimitConfig{
			MaxAttempts:       5,
			LockoutSeconds:    30,
			MaxLockoutSeconds: 300,
		},
		BcryptCost: 12,
	}
}

// Load builds the configuration from defaults, the YAML file at path, a .env
// file in the working directory and CHARKLI_* environment variables, each
// overriding the previous. Missing files are skipped.
func Load(path string) (*ServerConfig, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads server configuration from a YAML file.
// If the file doesn't exist, returns default config.
func LoadConfig(path string) (*ServerConfig, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("parse %s: %w", path, err)
	}
	return config, nil
}

// ApplyEnv overrides fields from CHARKLI_* environment variables.
func (c *ServerConfig) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate rejects settings the server cannot run with.
func (c *ServerConfig) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.Driver == "sqlite" && c.Database.SQLitePath == "" {
		return errors.New("database.sqlite_path is required for the sqlite driver")
	}
	switch c.Session.Store {
	case "sql", "redis":
	default:
		return fmt.Errorf("session.store must be sql or redis, got %q", c.Session.Store)
	}
	if c.Session.TTL <= 0 {
		return errors.New("session.ttl must be positive")
	}
	if c.Session.CookieName == "" {
		return errors.New("session.cookie_name is required")
	}
	if c.HTTP.Address == "" {
		return errors.New("http.address is required")
	}
	return nil
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// isSameOrigin checks if the origin matches the request host.
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // non-browser client
	}
	originHost := origin
	if _, rest, ok := strings.Cut(origin, "://"); ok {
		originHost = rest
	}
	originHost = strings.TrimSuffix(originHost, "/")
	return originHost == requestHost
}

func (c *PasswordConfig) minLength() int {
	if c.MinLength <= 0 {
		return 8
	}
	return c.MinLength
}

// ValidatePassword checks a password against the policy. It returns a
// message describing the first failed rule, or "" if the password is valid.
func (c *PasswordConfig) ValidatePassword(password string) string {
	minLen := c.minLength()
	if len([]rune(password)) < minLen {
		return "Password must be at least " + strconv.Itoa(minLen) + " characters."
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if c.RequireUppercase && !hasUpper {
		return "Password must contain at least one uppercase letter."
	}
	if c.RequireLowercase && !hasLower {
		return "Password must contain at least one lowercase letter."
	}
	if c.RequireDigit && !hasDigit {
		return "Password must contain at least one digit."
	}
	if c.RequireSpecial && !hasSpecial {
		return "Password must contain at least one special character."
	}
	return ""
}

// RequirementsText describes the password policy for the register form.
func (c *PasswordConfig) RequirementsText() string {
	parts := []string{"min " + strconv.Itoa(c.minLength()) + " chars"}
	if c.RequireUppercase {
		parts = append(parts, "uppercase")
	}
	if c.RequireLowercase {
		parts = append(parts, "lowercase")
	}
	if c.RequireDigit {
		parts = append(parts, "digit")
	}
	if c.RequireSpecial {
		parts = append(parts, "special char")
	}
	return strings.Join(parts, ", ")
}
