package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Email    EmailConfig
	OTP      OTPConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string

	// AllowedOrigins feeds CORS; "*" disables credentialed requests.
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	SessionTTLHours        int
	PendingLoginTTLMinutes int
	PostLoginRedirect      string

	// PasswordHashing switches credential checks from exact match to bcrypt.
	PasswordHashing bool
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type OTPConfig struct {
	ExpiryMinutes int
}

func (c AuthConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c AuthConfig) PendingLoginTTL() time.Duration {
	return time.Duration(c.PendingLoginTTLMinutes) * time.Minute
}

func (c OTPConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiryMinutes) * time.Minute
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "omylab")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SESSION_TTL_HOURS", 24)
	viper.SetDefault("PENDING_LOGIN_TTL_MINUTES", 10)
	viper.SetDefault("POST_LOGIN_REDIRECT", "/")
	viper.SetDefault("AUTH_PASSWORD_HASHING", false)
	viper.SetDefault("SMTP_PORT", 465)
	viper.SetDefault("OTP_EXPIRY_MINUTES", 5)

	// .env is optional; environment variables are enough in containers
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:           viper.GetString("APP_NAME"),
			Port:           viper.GetString("PORT"),
			Debug:          viper.GetBool("DEBUG"),
			LogPath:        viper.GetString("LOG_PATH"),
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASS"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			SessionTTLHours:        viper.GetInt("SESSION_TTL_HOURS"),
			PendingLoginTTLMinutes: viper.GetInt("PENDING_LOGIN_TTL_MINUTES"),
			PostLoginRedirect:      viper.GetString("POST_LOGIN_REDIRECT"),
			PasswordHashing:        viper.GetBool("AUTH_PASSWORD_HASHING"),
		},
		Email: EmailConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("EMAIL_FROM"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: viper.GetInt("OTP_EXPIRY_MINUTES"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects windows that would disable expiry. The pending login
// must outlive the code so an expired code is told apart from a lost login.
func (c *Config) Validate() error {
	switch {
	case c.OTP.ExpiryMinutes <= 0:
		return fmt.Errorf("OTP_EXPIRY_MINUTES must be positive, got %d", c.OTP.ExpiryMinutes)
	case c.Auth.PendingLoginTTLMinutes <= 0:
		return fmt.Errorf("PENDING_LOGIN_TTL_MINUTES must be positive, got %d", c.Auth.PendingLoginTTLMinutes)
	case c.Auth.PendingLoginTTLMinutes <= c.OTP.ExpiryMinutes:
		return fmt.Errorf("PENDING_LOGIN_TTL_MINUTES (%d) must exceed OTP_EXPIRY_MINUTES (%d)",
			c.Auth.PendingLoginTTLMinutes, c.OTP.ExpiryMinutes)
	case c.Auth.SessionTTLHours <= 0:
		return fmt.Errorf("SESSION_TTL_HOURS must be positive, got %d", c.Auth.SessionTTLHours)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
