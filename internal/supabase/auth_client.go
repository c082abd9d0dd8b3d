// Package supabase はSupabaseの外部API（GoTrue認証とPostgRESTテーブルAPI）の
// HTTPクライアントを提供する。永続状態はすべてSupabase側が持ち、
// 本システムはリクエスト/レスポンス契約のみを扱う。
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hitoshi/authgw/internal/model"
)

const (
	signUpPath        = "/auth/v1/signup"
	passwordGrantPath = "/auth/v1/token?grant_type=password"
	userPath          = "/auth/v1/user"
)

// AuthClient はGoTrue認証エンドポイントのクライアント。
// アカウント作成、パスワードログイン、Bearerトークン検証を提供する。
type AuthClient struct {
	baseURL    string // 例: https://xxxx.supabase.co（末尾スラッシュなし）
	apiKey     string
	httpClient *http.Client
}

// NewAuthClient はAuthClientを生成する。
// httpClientがnilの場合はhttp.DefaultClientを使用する。
func NewAuthClient(baseURL, apiKey string, httpClient *http.Client) *AuthClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &AuthClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// credentials はサインアップ/ログインのリクエストボディ。
type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// signUpResponse はGoTrueのサインアップレスポンス。
// メール確認が有効な場合はユーザーオブジェクトが直接返り、
// 自動確認が有効な場合はセッション付きでuserフィールドにネストされる。
type signUpResponse struct {
	ID   string `json:"id"`
	User *struct {
		ID string `json:"id"`
	} `json:"user"`
}

// tokenResponse はパスワードグラントのレスポンス。
type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// userResponse はトークン検証エンドポイントのレスポンス。
type userResponse struct {
	ID string `json:"id"`
}

// SignUp は認証プロバイダーにアカウントを作成し、ユーザーIDを返す。
// プロバイダーに拒否された場合（メール重複、パスワード強度不足等）は
// プロバイダーのメッセージを保持したIdentityエラーを返す。
func (c *AuthClient) SignUp(ctx context.Context, email, password string) (string, error) {
	status, body, err := c.post(ctx, c.baseURL+signUpPath, credentials{Email: email, Password: password})
	if err != nil {
		return "", model.NewIdentityError(err.Error())
	}

	if status < 200 || status >= 300 {
		return "", model.NewIdentityError(providerMessage(body, status))
	}

	var resp signUpResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", model.NewIdentityError(fmt.Sprintf("failed to parse signup response: %v", err))
	}

	userID := resp.ID
	if resp.User != nil && resp.User.ID != "" {
		userID = resp.User.ID
	}
	if userID == "" {
		return "", model.NewIdentityError("signup response did not contain a user")
	}

	return userID, nil
}

// SignInWithPassword はメールアドレスとパスワードで認証し、
// アクセストークンを返す。認証失敗時はプロバイダーのメッセージを
// 保持したIdentityエラーを返す。
func (c *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (string, error) {
	status, body, err := c.post(ctx, c.baseURL+passwordGrantPath, credentials{Email: email, Password: password})
	if err != nil {
		return "", model.NewIdentityError(err.Error())
	}

	if status < 200 || status >= 300 {
		return "", model.NewIdentityError(providerMessage(body, status))
	}

	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", model.NewIdentityError(fmt.Sprintf("failed to parse token response: %v", err))
	}

	if resp.AccessToken == "" {
		return "", model.NewIdentityError("login response did not contain an access token")
	}

	return resp.AccessToken, nil
}

// GetUser はBearerトークンをプロバイダーに照会し、有効な場合は
// トークンが表すユーザーIDを返す。検証はリクエストごとのリモート呼び出しで、
// 結果のローカルキャッシュは行わない。
func (c *AuthClient) GetUser(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+userPath, nil)
	if err != nil {
		return "", model.NewAuthError(fmt.Sprintf("failed to create user request: %v", err))
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", model.NewAuthError(fmt.Sprintf("user request failed: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", model.NewAuthError(fmt.Sprintf("failed to read user response: %v", err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", model.NewAuthError(providerMessage(body, resp.StatusCode))
	}

	var user userResponse
	if err := json.Unmarshal(body, &user); err != nil {
		return "", model.NewAuthError(fmt.Sprintf("failed to parse user response: %v", err))
	}

	if user.ID == "" {
		return "", model.NewAuthError("user response did not contain an id")
	}

	return user.ID, nil
}

// post はapikeyヘッダー付きでJSONボディをPOSTし、ステータスとボディを返す。
func (c *AuthClient) post(ctx context.Context, url string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, body, nil
}

// providerErrorBody はGoTrue/PostgRESTのエラーレスポンス。
// バージョンによりフィールド名が異なるため、既知のものをすべて受ける。
type providerErrorBody struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
	ErrorField       string `json:"error"`
}

// providerMessage はエラーレスポンスボディから人間向けメッセージを取り出す。
// 既知のフィールドが見つからない場合はボディそのもの、
// ボディが空の場合はHTTPステータス文言を返す。
func providerMessage(body []byte, status int) string {
	var errBody providerErrorBody
	if err := json.Unmarshal(body, &errBody); err == nil {
		for _, msg := range []string{errBody.Msg, errBody.Message, errBody.ErrorDescription, errBody.ErrorField} {
			if msg != "" {
				return msg
			}
		}
	}

	if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
		return trimmed
	}
	return fmt.Sprintf("provider returned status %d", status)
}
