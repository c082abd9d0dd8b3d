package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/authgw/internal/middleware"
	"github.com/hitoshi/authgw/internal/model"
)

// InferenceClientInterface は生成ハンドラーが必要とする推論プロバイダーの
// インターフェース。gemini.Clientの部分集合として定義する。
type InferenceClientInterface interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GenerateMetricsRecorder は生成ハンドラーが記録するメトリクスのインターフェース。
type GenerateMetricsRecorder interface {
	RecordGenerate(success bool, duration time.Duration)
}

// GenerateHandler はテキスト生成のHTTPハンドラー。
// 認証ミドルウェアの内側に配置される前提で、コンテキストの
// 検証済みユーザーIDを参照する。
type GenerateHandler struct {
	inference InferenceClientInterface
	metrics   GenerateMetricsRecorder
}

// NewGenerateHandler はGenerateHandlerを生成する。
func NewGenerateHandler(inference InferenceClientInterface, metrics GenerateMetricsRecorder) *GenerateHandler {
	return &GenerateHandler{
		inference: inference,
		metrics:   metrics,
	}
}

// generateRequest はテキスト生成のリクエストボディ。
type generateRequest struct {
	Prompt string `json:"prompt"`
}

// Generate はプロンプトを推論プロバイダーに転送し、生成テキストを返す。
// リクエスト間で状態は持たず、同一プロンプトでも毎回プロバイダーを呼び出す。
// POST /generate_text
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteAuthErrorResponse(w, "Not authenticated")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteDetailResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Prompt == "" {
		middleware.WriteDetailResponse(w, http.StatusBadRequest, "prompt must be a non-empty string")
		return
	}

	start := time.Now()
	text, err := h.inference.GenerateText(r.Context(), req.Prompt)
	h.metrics.RecordGenerate(err == nil, time.Since(start))
	if err != nil {
		slog.Error("text generation failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		middleware.WriteDetailResponse(w, http.StatusInternalServerError,
			"Failed to generate text from Gemini: "+model.ErrorMessage(err))
		return
	}

	slog.Debug("text generated",
		slog.String("user_id", userID),
		slog.Int("chars", len(text)),
	)

	writeJSON(w, http.StatusOK, map[string]string{
		"generated_text": text,
	})
}
