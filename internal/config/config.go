package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
)

// DefaultJWTSecret is only suitable for local development.
const DefaultJWTSecret = "guides-dev-secret-change-me"

type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	DBPath     string `yaml:"db_path"`
	UploadDir  string `yaml:"upload_dir"`

	JWTSecret         string `yaml:"jwt_secret"`
	JWTIssuer         string `yaml:"jwt_issuer"`
	JWTExpiresMinutes int    `yaml:"jwt_expires_minutes"`

	AdminUsername string `yaml:"admin_username"`
	AdminPassword string `yaml:"admin_password"`
	SeedDemo      bool   `yaml:"seed_demo"`

	PasswordChangeCooldownDays int `yaml:"password_change_cooldown_days"`

	TemplateBackend string `yaml:"template_backend"`
	ClaudeAPIKey    string `yaml:"claude_api_key"`
	ClaudeModel     string `yaml:"claude_model"`
	OllamaHost      string `yaml:"ollama_host"`
	OllamaModel     string `yaml:"ollama_model"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

func Default() *Config {
	return &Config{
		ListenAddr:                 ":8082",
		DBPath:                     "./data/guides.db",
		UploadDir:                  "./uploads",
		JWTSecret:                  DefaultJWTSecret,
		JWTIssuer:                  "guides",
		JWTExpiresMinutes:          1440,
		AdminUsername:              "admin",
		AdminPassword:              "admin123",
		SeedDemo:                   true,
		PasswordChangeCooldownDays: 7,
		TemplateBackend:            "builtin",
		ClaudeModel:                "claude-sonnet-4-5",
		OllamaHost:                 "http://localhost:11434",
		OllamaModel:                "llama3",
		LogLevel:                   "info",
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by CONFIG_FILE, and finally environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.UploadDir = getEnv("UPLOAD_DIR", cfg.UploadDir)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTIssuer = getEnv("JWT_ISSUER", cfg.JWTIssuer)
	cfg.AdminUsername = getEnv("ADMIN_USERNAME", cfg.AdminUsername)
	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", cfg.AdminPassword)
	cfg.TemplateBackend = getEnv("TEMPLATE_BACKEND", cfg.TemplateBackend)
	cfg.ClaudeAPIKey = getEnv("CLAUDE_API_KEY", cfg.ClaudeAPIKey)
	cfg.ClaudeModel = getEnv("CLAUDE_MODEL", cfg.ClaudeModel)
	cfg.OllamaHost = getEnv("OLLAMA_HOST", cfg.OllamaHost)
	cfg.OllamaModel = getEnv("OLLAMA_MODEL", cfg.OllamaModel)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)

	var err error
	if cfg.JWTExpiresMinutes, err = getEnvInt("JWT_EXPIRES_MINUTES", cfg.JWTExpiresMinutes); err != nil {
		return nil, err
	}
	if cfg.PasswordChangeCooldownDays, err = getEnvInt("PASSWORD_CHANGE_COOLDOWN_DAYS", cfg.PasswordChangeCooldownDays); err != nil {
		return nil, err
	}
	if cfg.SeedDemo, err = getEnvBool("SEED_DEMO", cfg.SeedDemo); err != nil {
		return nil, err
	}

	if cfg.JWTExpiresMinutes <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRES_MINUTES must be positive")
	}
	if cfg.PasswordChangeCooldownDays < 0 {
		return nil, fmt.Errorf("PASSWORD_CHANGE_COOLDOWN_DAYS must not be negative")
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
