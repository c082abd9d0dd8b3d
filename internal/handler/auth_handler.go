package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/authgw/internal/middleware"
	"github.com/hitoshi/authgw/internal/model"
)

// IdentityClientInterface は認証ハンドラーが必要とする認証プロバイダーの
// インターフェース。supabase.AuthClientの部分集合として定義する。
type IdentityClientInterface interface {
	SignUp(ctx context.Context, email, password string) (string, error)
	SignInWithPassword(ctx context.Context, email, password string) (string, error)
}

// ProfileStoreInterface は認証ハンドラーが必要とするテーブルストアの
// インターフェース。
type ProfileStoreInterface interface {
	InsertProfile(ctx context.Context, profile model.Profile) error
}

// MetricsRecorder はハンドラーが記録するメトリクスのインターフェース。
// metrics.Collectorの部分集合として定義する。
type MetricsRecorder interface {
	RecordIdentityRequest(op string, success bool)
	RecordProfileInsert(success bool)
}

// AuthHandler はサインアップ/ログインのHTTPハンドラー。
type AuthHandler struct {
	identity IdentityClientInterface
	store    ProfileStoreInterface
	metrics  MetricsRecorder
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(identity IdentityClientInterface, store ProfileStoreInterface, metrics MetricsRecorder) *AuthHandler {
	return &AuthHandler{
		identity: identity,
		store:    store,
		metrics:  metrics,
	}
}

// signupRequest はサインアップのリクエストボディ。
// Ageはフィールド欠落と0を区別するためポインタにする。
type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Age      *int   `json:"age"`
}

// loginRequest はログインのリクエストボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup はアカウントを作成し、続けてプロフィールを保存する。
// アカウント作成とプロフィール保存はトランザクションで括られないため、
// プロフィール保存に失敗した場合は作成済みのアカウントがそのまま残る
// （補償削除は行わない）。
// POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteDetailResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validateSignup(req); err != nil {
		middleware.WriteDetailResponse(w, http.StatusBadRequest, model.ErrorMessage(err))
		return
	}

	// 1. 認証プロバイダーにアカウントを作成
	userID, err := h.identity.SignUp(r.Context(), req.Email, req.Password)
	h.metrics.RecordIdentityRequest("signup", err == nil)
	if err != nil {
		slog.Warn("signup rejected by provider",
			slog.String("error", err.Error()),
		)
		middleware.WriteDetailResponse(w, http.StatusBadRequest, model.ErrorMessage(err))
		return
	}

	// 2. profilesテーブルにメタデータを保存
	err = h.store.InsertProfile(r.Context(), model.Profile{
		UserID: userID,
		Name:   req.Name,
		Age:    *req.Age,
	})
	h.metrics.RecordProfileInsert(err == nil)
	if err != nil {
		// アカウントはプロバイダー側に残る
		slog.Error("profile creation failed, account left without profile",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		middleware.WriteDetailResponse(w, http.StatusInternalServerError, "Failed to create user profile.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "User registered successfully and profile created",
		"user_id": userID,
	})
}

// Login はパスワード認証を行い、アクセストークンを返す。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteDetailResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		middleware.WriteDetailResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, err := h.identity.SignInWithPassword(r.Context(), req.Email, req.Password)
	h.metrics.RecordIdentityRequest("login", err == nil)
	if err != nil {
		slog.Warn("login rejected by provider",
			slog.String("error", err.Error()),
		)
		middleware.WriteDetailResponse(w, http.StatusUnauthorized, model.ErrorMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":      "User logged in successfully",
		"access_token": token,
	})
}

// validateSignup はサインアップリクエストの形式を検証する。
func validateSignup(req signupRequest) error {
	if req.Email == "" {
		return model.NewValidationError("email is required")
	}
	if req.Password == "" {
		return model.NewValidationError("password is required")
	}
	if req.Name == "" {
		return model.NewValidationError("name is required")
	}
	if req.Age == nil {
		return model.NewValidationError("age is required")
	}
	if *req.Age < 0 {
		return model.NewValidationError("age must be a non-negative integer")
	}
	return nil
}
