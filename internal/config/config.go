package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Environment string `yaml:"environment"`
	Port        int    `yaml:"port"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type TokenConfig struct {
	TTL           string `yaml:"ttl"`
	SweepInterval string `yaml:"sweep_interval"`
}

type OTPConfig struct {
	TTL         string `yaml:"ttl"`
	Length      int    `yaml:"length"`
	MaxAttempts int    `yaml:"max_attempts"`
}

type SMTPConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Token    TokenConfig    `yaml:"token"`
	OTP      OTPConfig      `yaml:"otp"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Casbin   CasbinConfig   `yaml:"casbin"`
}

type Config struct {
	Environment     string
	Port            string
	DSN             string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	TokenTTL        time.Duration
	SweepInterval   time.Duration
	OTP_TTL         time.Duration
	OTP_Length      int
	OTP_MaxAttempts int
	SMTPHost        string
	SMTPPort        int
	SMTPUsername    string
	SMTPPassword    string
	SMTPFromEmail   string
	SMTPFromName    string
	CasbinModelPath string
}

// IsProduction reports whether the service runs with production hardening
// (generic error responses, release gin mode).
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Load reads config/config.yml, then lets environment variables override
// the secrets and connection settings. A .env file is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile, err := loadConfigFile(env("CONFIG_PATH", "config/config.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	tokenTTL, err := time.ParseDuration(configFile.Token.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid token TTL: %w", err)
	}

	sweepInterval, err := time.ParseDuration(configFile.Token.SweepInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	otpTTL, err := time.ParseDuration(configFile.OTP.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}

	return &Config{
		Environment:     env("ENVIRONMENT", configFile.App.Environment),
		Port:            fmt.Sprintf("%d", configFile.App.Port),
		DSN:             env("DATABASE_URL", configFile.Database.DSN),
		RedisAddr:       env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:   env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:         envInt("REDIS_DB", configFile.Redis.DB),
		TokenTTL:        tokenTTL,
		SweepInterval:   sweepInterval,
		OTP_TTL:         otpTTL,
		OTP_Length:      configFile.OTP.Length,
		OTP_MaxAttempts: configFile.OTP.MaxAttempts,
		SMTPHost:        env("SMTP_HOST", configFile.SMTP.Host),
		SMTPPort:        envInt("SMTP_PORT", configFile.SMTP.Port),
		SMTPUsername:    env("SMTP_USER", configFile.SMTP.Username),
		SMTPPassword:    env("SMTP_PASSWORD", configFile.SMTP.Password),
		SMTPFromEmail:   env("SMTP_FROM_EMAIL", configFile.SMTP.FromEmail),
		SMTPFromName:    env("SMTP_FROM_NAME", configFile.SMTP.FromName),
		CasbinModelPath: configFile.Casbin.ModelPath,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
