package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath    = "CONFIG_PATH"
	EnvDBConnection  = "DB_CONNECTION"
	EnvJWTSecret     = "JWT_SECRET"
	EnvJWTExpiry     = "JWT_EXPIRY"
	EnvPort          = "PORT"
	EnvAdminLogin    = "ADMIN_LOGIN"
	EnvAdminPassword = "ADMIN_PASSWORD"
)

// AppConfig holds resolved application configuration values.
type AppConfig struct {
	ConfigPath string
}

// LoadFromEnv loads app config from environment variables.
func LoadFromEnv() (AppConfig, error) {
	return AppConfig{ConfigPath: ResolveConfigPath(os.Getenv(EnvConfigPath))}, nil
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// defaultSQLitePath is the SQLite database file used when no DSN is configured.
const defaultSQLitePath = "evcatalog.db"

// JWTConfig holds session token secret and expiry settings.
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Expiry time.Duration `yaml:"expiry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int      `yaml:"port"`            // Listen port.
	Production     bool     `yaml:"production"`      // Enables the Secure cookie flag and release mode.
	AllowedOrigins []string `yaml:"allowed-origins"` // Origins allowed to send credentialed requests.
}

// AdminSeed holds the administrator account provisioned at startup.
type AdminSeed struct {
	Login    string `yaml:"login"`
	Password string `yaml:"password"`
}

// fileConfig maps the YAML configuration file.
type fileConfig struct {
	DatabaseDSN string `yaml:"database-dsn"`
	Database    struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`
	JWT    JWTConfig    `yaml:"jwt"`
	Server ServerConfig `yaml:"server"`
	Admin  AdminSeed    `yaml:"admin"`
}

// readFileConfig parses the YAML config file, tolerating a missing file.
func readFileConfig(configPath string) (fileConfig, error) {
	var cfg fileConfig
	data, errRead := os.ReadFile(configPath)
	if errRead != nil {
		if os.IsNotExist(errRead) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", errRead)
	}
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return cfg, fmt.Errorf("parse config file: %w", errUnmarshal)
	}
	return cfg, nil
}

// LoadDatabaseDSN resolves the database DSN from env or the YAML config file.
// A missing DSN falls back to a local SQLite file.
func LoadDatabaseDSN(configPath string) (string, error) {
	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		return dsn, nil
	}

	cfg, errRead := readFileConfig(configPath)
	if errRead != nil {
		return "", errRead
	}

	if dsn := strings.TrimSpace(cfg.DatabaseDSN); dsn != "" {
		return dsn, nil
	}
	if dsn := strings.TrimSpace(cfg.Database.DSN); dsn != "" {
		return dsn, nil
	}
	return buildSQLiteDSN(defaultSQLitePath), nil
}

// buildSQLiteDSN constructs a SQLite DSN with default parameters.
func buildSQLiteDSN(path string) string {
	dsn := strings.TrimSpace(path)
	if dsn == "" {
		dsn = defaultSQLitePath
	}
	if !strings.HasPrefix(strings.ToLower(dsn), "file:") {
		dsn = "file:" + dsn
	}
	separator := "?"
	if strings.Contains(dsn, "?") {
		separator = "&"
	}
	return dsn + separator + strings.Join([]string{
		"_busy_timeout=5000",
		"_journal_mode=WAL",
		"_foreign_keys=on",
	}, "&")
}

// defaultJWTExpiry bounds session credential validity when unconfigured.
const defaultJWTExpiry = time.Hour

// LoadJWTConfig loads session token settings from the YAML config file,
// with JWT_SECRET and JWT_EXPIRY env overrides.
func LoadJWTConfig(configPath string) (JWTConfig, error) {
	result := JWTConfig{Expiry: defaultJWTExpiry}

	cfg, errRead := readFileConfig(configPath)
	if errRead == nil && (cfg.JWT.Secret != "" || cfg.JWT.Expiry > 0) {
		result = cfg.JWT
	}

	if secret := strings.TrimSpace(os.Getenv(EnvJWTSecret)); secret != "" {
		result.Secret = secret
	}
	if expiryRaw := strings.TrimSpace(os.Getenv(EnvJWTExpiry)); expiryRaw != "" {
		if expiry, errParse := time.ParseDuration(expiryRaw); errParse == nil && expiry > 0 {
			result.Expiry = expiry
		}
	}

	if result.Expiry <= 0 {
		result.Expiry = defaultJWTExpiry
	}
	return result, nil
}

// defaultPort matches the port the browser app expects.
const defaultPort = 5000

// LoadServerConfig loads HTTP server settings from the YAML config file,
// with a PORT env override.
func LoadServerConfig(configPath string) (ServerConfig, error) {
	cfg, errRead := readFileConfig(configPath)
	if errRead != nil {
		return ServerConfig{}, errRead
	}
	result := cfg.Server
	if portRaw := strings.TrimSpace(os.Getenv(EnvPort)); portRaw != "" {
		if port, errParse := strconv.Atoi(portRaw); errParse == nil {
			result.Port = port
		}
	}
	if result.Port <= 0 || result.Port > 65535 {
		result.Port = defaultPort
	}
	return result, nil
}

// LoadAdminSeed loads the administrator account to provision at startup,
// with ADMIN_LOGIN and ADMIN_PASSWORD env overrides.
func LoadAdminSeed(configPath string) (AdminSeed, error) {
	cfg, errRead := readFileConfig(configPath)
	if errRead != nil {
		return AdminSeed{}, errRead
	}
	seed := cfg.Admin
	if login := strings.TrimSpace(os.Getenv(EnvAdminLogin)); login != "" {
		seed.Login = login
	}
	if password := os.Getenv(EnvAdminPassword); password != "" {
		seed.Password = password
	}
	seed.Login = strings.TrimSpace(seed.Login)
	return seed, nil
}
