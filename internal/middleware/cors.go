package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// NewCORSMiddleware は指定されたオリジンの許可リストに対するCORSミドルウェアを返す。
// ブラウザクライアントがAuthorizationヘッダー付きで呼び出せるよう、
// credentials送信を許可する。ワイルドカード(*)はcredentialsと共存できないため
// 使用しない。OPTIONSプリフライトはcorsハンドラーが応答する。
func NewCORSMiddleware(allowedOrigins []string) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           86400,
	})
}
