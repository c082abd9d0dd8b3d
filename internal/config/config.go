// Package config は環境変数からのアプリケーション設定の読み込みを提供する。
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Supabase
	SupabaseURL            string
	SupabaseKey            string // anonキー。サインアップ/ログイン/トークン検証に使用する
	SupabaseServiceRoleKey string // service_roleキー。profilesテーブルへの書き込みに使用する
	SupabaseJWTSecret      string // トークン検証はGoTrueへのリモート照会で行うため、署名シークレットは設定として保持するのみ

	// Gemini
	GeminiAPIKey string
	GeminiModel  string

	// Timeout
	ProviderTimeout time.Duration // 認証プロバイダー/テーブルストア呼び出しのタイムアウト
	GenerateTimeout time.Duration // テキスト生成呼び出しのタイムアウト

	// Rate Limit
	RateLimitAuth     int // /auth/* のレート（req/min/クライアント）
	RateLimitGenerate int // /generate_text のレート（req/min/ユーザー）

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigins []string

	// Logging
	LogLevel slog.Level
}

// Load は環境変数からConfigを読み込む。
// カレントディレクトリに.envがあれば先に読み込む（未存在は無視）。
// 必須環境変数が未設定の場合は不足分をすべて列挙したエラーを返す。
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.SupabaseURL = os.Getenv("SUPABASE_URL")
	if cfg.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}

	cfg.SupabaseKey = os.Getenv("SUPABASE_KEY")
	if cfg.SupabaseKey == "" {
		missing = append(missing, "SUPABASE_KEY")
	}

	cfg.SupabaseServiceRoleKey = os.Getenv("SUPABASE_SERVICE_ROLE_KEY")
	if cfg.SupabaseServiceRoleKey == "" {
		missing = append(missing, "SUPABASE_SERVICE_ROLE_KEY")
	}

	cfg.SupabaseJWTSecret = os.Getenv("SUPABASE_JWT_SECRET")
	if cfg.SupabaseJWTSecret == "" {
		missing = append(missing, "SUPABASE_JWT_SECRET")
	}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if cfg.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.GeminiModel = getEnvString("GEMINI_MODEL", "gemini-2.0-flash-lite")
	cfg.ProviderTimeout = getEnvDuration("PROVIDER_TIMEOUT", 10*time.Second)
	cfg.GenerateTimeout = getEnvDuration("GENERATE_TIMEOUT", 60*time.Second)
	cfg.RateLimitAuth = getEnvInt("RATE_LIMIT_AUTH", 120)
	cfg.RateLimitGenerate = getEnvInt("RATE_LIMIT_GENERATE", 20)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigins = splitOrigins(getEnvString("CORS_ALLOWED_ORIGINS", "http://localhost:3000"))
	cfg.LogLevel = parseLogLevel(getEnvString("LOG_LEVEL", "info"))

	return cfg, nil
}

// splitOrigins はカンマ区切りのオリジンリストをパースする。
// 空要素は除外し、各要素の前後空白と末尾スラッシュを取り除く。
func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// parseLogLevel はログレベル文字列をslog.Levelに変換する。
// 不明な値はinfoにフォールバックする。
func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
