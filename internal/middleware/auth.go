// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/authgw/internal/model"
)

const bearerPrefix = "Bearer "

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// TokenVerifier はBearerトークンの検証に必要なインターフェース。
// supabase.AuthClientの部分集合として定義する。
type TokenVerifier interface {
	GetUser(ctx context.Context, token string) (string, error)
}

// NewAuthMiddleware はAuthorizationヘッダーからBearerトークンを抽出し、
// 認証プロバイダーへのリモート照会で検証するミドルウェアを返す。
// ヘッダーが欠落または不正な形式の場合は、リモート呼び出しを行わずに401を返す。
// 検証済みユーザーIDをリクエストコンテキストに注入する。
// セッションキャッシュは持たず、リクエストごとに必ず再検証する。
func NewAuthMiddleware(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. ヘッダーからトークンを抽出（リモート呼び出しより前）
			token, ok := extractBearerToken(r)
			if !ok {
				WriteAuthErrorResponse(w, "Not authenticated")
				return
			}

			// 2. プロバイダーへの照会でトークンを検証
			userID, err := verifier.GetUser(r.Context(), token)
			if err != nil {
				slog.Warn("token verification failed",
					slog.String("error", err.Error()),
				)
				WriteAuthErrorResponse(w, "Could not validate credentials: "+model.ErrorMessage(err))
				return
			}

			// 3. 検証済みユーザーIDをコンテキストに注入
			ctx := context.WithValue(r.Context(), userIDContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken はAuthorizationヘッダーからBearerトークンを取り出す。
// ヘッダーの欠落、スキーム不一致、空トークンの場合はfalseを返す。
func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", false
	}
	return token, true
}

// UserIDFromContext はリクエストコンテキストから検証済みユーザーIDを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
