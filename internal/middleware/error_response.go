package middleware

import (
	"encoding/json"
	"net/http"
)

// DetailResponseBody はAPIエラーレスポンスの統一フォーマット。
// すべての失敗はHTTPエラーステータスとdetailフィールドを持つJSONで返す。
type DetailResponseBody struct {
	Detail string `json:"detail"`
}

// WriteDetailResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
func WriteDetailResponse(w http.ResponseWriter, statusCode int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(DetailResponseBody{Detail: detail})
}

// WriteAuthErrorResponse は認証失敗の401レスポンスを書き込む。
// Bearer認証スキームを示すWWW-Authenticateヘッダーを必ず付与する。
func WriteAuthErrorResponse(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	WriteDetailResponse(w, http.StatusUnauthorized, detail)
}
