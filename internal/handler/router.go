package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/authgw/internal/metrics"
	"github.com/hitoshi/authgw/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger             *slog.Logger
	CORSAllowedOrigins []string
	RateLimiter        *middleware.RateLimiter

	// 外部プロバイダーのクライアント
	TokenVerifier middleware.TokenVerifier
	Identity      IdentityClientInterface
	ProfileStore  ProfileStoreInterface
	Inference     InferenceClientInterface

	// 観測
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → SecurityHeaders → CORS
//
// 認証エンドポイント（/auth/*）にはクライアントIP単位のレート制限、
// /generate_text には認証ガードと検証済みユーザー単位のレート制限を追加する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Metrics))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigins))

	rootHandler := NewRootHandler()
	authHandler := NewAuthHandler(deps.Identity, deps.ProfileStore, deps.Metrics)
	generateHandler := NewGenerateHandler(deps.Inference, deps.Metrics)

	// --- 認証不要のルート ---

	r.Get("/", rootHandler.Root)
	r.Head("/", rootHandler.RootHead)
	r.Get("/items/{item_id}", rootHandler.GetItem)
	r.Get("/health", Health)

	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	// 認証エンドポイント（クライアントIP単位のレート制限）
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.AuthMiddleware())
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(Generate)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
		r.Use(deps.RateLimiter.GenerateMiddleware())
		r.Post("/generate_text", generateHandler.Generate)
	})

	return r
}
