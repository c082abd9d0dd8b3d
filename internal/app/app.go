// Package app はアプリケーションの起動と依存関係のワイヤリングを提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hitoshi/authgw/internal/config"
	"github.com/hitoshi/authgw/internal/gemini"
	"github.com/hitoshi/authgw/internal/handler"
	"github.com/hitoshi/authgw/internal/logger"
	"github.com/hitoshi/authgw/internal/metrics"
	"github.com/hitoshi/authgw/internal/middleware"
	"github.com/hitoshi/authgw/internal/supabase"
	"github.com/prometheus/client_golang/prometheus"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		// 設定がなくてもエラーを報告できるようデフォルトレベルで初期化する
		logger.SetupDefault(w, slog.LevelInfo)
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.SetupDefault(w, cfg.LogLevel)

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("supabase_url", cfg.SupabaseURL),
		slog.String("gemini_model", cfg.GeminiModel),
	)

	return runServe(cfg)
}

// runServe はAPIサーバーモードで起動する。
// 外部プロバイダーのクライアントを一度だけ構築し、ハンドラーに明示的に注入する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. 外部プロバイダーのクライアント
	providerHTTPClient := &http.Client{Timeout: cfg.ProviderTimeout}
	authClient := supabase.NewAuthClient(cfg.SupabaseURL, cfg.SupabaseKey, providerHTTPClient)
	tableClient := supabase.NewTableClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, providerHTTPClient)

	geminiClient := gemini.NewClient(gemini.Config{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		HTTPClient: &http.Client{Timeout: cfg.GenerateTimeout},
	})

	// 2. メトリクス
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 3. レートリミッター
	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitAuth, cfg.RateLimitGenerate),
	)
	defer rateLimiter.Stop()

	// 4. ルーターの構築
	deps := &handler.RouterDeps{
		Logger:             slog.Default(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        rateLimiter,

		TokenVerifier: authClient,
		Identity:      authClient,
		ProfileStore:  tableClient,
		Inference:     geminiClient,

		Metrics:  collector,
		Gatherer: registry,
	}

	router := handler.NewRouter(deps)

	// 5. HTTPサーバーの起動
	// WriteTimeoutは生成呼び出しのタイムアウトより長く取る
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GenerateTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
