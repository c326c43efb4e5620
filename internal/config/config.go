// Package config 載入服務設定：預設值 → .env.<env> → 環境變數
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Provider 描述一個 OpenAI 相容的 completion 供應商
type Provider struct {
	Name    string
	BaseURL string
	APIKey  string
	Model   string
}

type Config struct {
	Env      string
	Port     string
	Domain   string
	LogLevel slog.Level

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	// 依序嘗試，缺少 API key 的供應商會被略過
	Providers []Provider

	CloudinaryName   string
	CloudinaryKey    string
	CloudinarySecret string

	SendgridAPIKey string
	MailFrom       string
	MailFromName   string

	FirebaseProjectID       string
	FirebaseCredentialsFile string
	// 未設定 Firebase 時改用這份名單判斷會員
	RegistrationAllowlist []string

	RollbarToken string
}

var (
	getwd      = os.Getwd
	loadDotEnv = godotenv.Load
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DOMAIN", "http://localhost:8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("AI_API_URL", "https://api.aimlapi.com/v1")
	v.SetDefault("AI_MODEL", "chatgpt-4o-latest")
	v.SetDefault("OPENAI_API_URL", "https://api.openai.com/v1")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("MAIL_FROM", "no-reply@example.com")
	v.SetDefault("MAIL_FROM_NAME", "No Reply")
	v.AutomaticEnv()
	return v
}

// Load 讀取設定並檢查必要欄位
func Load() (*Config, error) {
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		env = "development"
	}

	// .env.<env> 存在時才載入，不覆寫既有環境變數
	wd, err := getwd()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	dotEnvPath := filepath.Join(wd, ".env."+env)
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := loadDotEnv(dotEnvPath); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: stat %s: %w", dotEnvPath, err)
	}

	v := newViper()
	cfg := &Config{
		Env:                     v.GetString("ENV"),
		Port:                    v.GetString("PORT"),
		Domain:                  strings.TrimRight(v.GetString("DOMAIN"), "/"),
		DatabaseURL:             v.GetString("DATABASE_URL"),
		RedisAddr:               v.GetString("REDIS_ADDR"),
		RedisPassword:           v.GetString("REDIS_PASSWORD"),
		JWTSecret:               v.GetString("JWT_SECRET"),
		CloudinaryName:          v.GetString("CLOUDINARY_NAME"),
		CloudinaryKey:           v.GetString("CLOUDINARY_API_KEY"),
		CloudinarySecret:        v.GetString("CLOUDINARY_API_SECRET"),
		SendgridAPIKey:          v.GetString("SENDGRID_API_KEY"),
		MailFrom:                v.GetString("MAIL_FROM"),
		MailFromName:            v.GetString("MAIL_FROM_NAME"),
		FirebaseProjectID:       v.GetString("FIREBASE_PROJECT_ID"),
		FirebaseCredentialsFile: v.GetString("FIREBASE_CREDENTIALS_FILE"),
		RollbarToken:            v.GetString("ROLLBAR_TOKEN"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("環境變數 DATABASE_URL 未設定")
	}
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("環境變數 REDIS_ADDR 未設定")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("環境變數 JWT_SECRET 未設定")
	}

	redisDB, err := strconv.Atoi(v.GetString("REDIS_DB"))
	if err != nil || redisDB < 0 {
		return nil, fmt.Errorf("無效的 REDIS_DB: %q", v.GetString("REDIS_DB"))
	}
	cfg.RedisDB = redisDB

	for _, email := range strings.Split(v.GetString("REGISTRATION_ALLOWLIST"), ",") {
		if email = strings.TrimSpace(email); email != "" {
			cfg.RegistrationAllowlist = append(cfg.RegistrationAllowlist, email)
		}
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("無效的 LOG_LEVEL: %w", err)
	}

	for _, p := range []Provider{
		{Name: "aimlapi", BaseURL: v.GetString("AI_API_URL"), APIKey: v.GetString("AI_API_KEY"), Model: v.GetString("AI_MODEL")},
		{Name: "openai", BaseURL: v.GetString("OPENAI_API_URL"), APIKey: v.GetString("OPENAI_API_KEY"), Model: v.GetString("OPENAI_MODEL")},
	} {
		if p.APIKey != "" {
			cfg.Providers = append(cfg.Providers, p)
		}
	}

	return cfg, nil
}

// IsProduction 回報是否為正式環境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
