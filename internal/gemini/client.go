// Package gemini はGemini APIによるテキスト生成クライアントを提供する。
package gemini

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

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Config はGeminiクライアントの設定。
type Config struct {
	APIKey string
	Model  string // 例: gemini-2.0-flash-lite

	// テスト用にオーバーライド可能
	BaseURL    string
	HTTPClient *http.Client
}

// Client はGeminiのgenerateContentエンドポイントのクライアント。
// プロンプトを加工せずそのまま転送し、生成テキストを無加工で返す。
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient はClientを生成する。
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}
	return &Client{
		apiKey:     config.APIKey,
		model:      config.Model,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: config.HTTPClient,
	}
}

// generateRequest はgenerateContentのリクエストボディ。
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse はgenerateContentのレスポンスボディ。
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generateErrorResponse はGemini APIのエラーレスポンス。
type generateErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateText はプロンプトをモデルに送信し、生成されたテキストを返す。
// レスポンスにテキストパートが1つも含まれない場合は空文字列を返す
// （セーフティブロック等で候補が空になるケースをエラーにはしない）。
// プロバイダーがエラーを返した場合やタイムアウト時はInferenceエラーを返す。
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", model.NewInferenceError(fmt.Sprintf("failed to encode generate request: %v", err))
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", model.NewInferenceError(fmt.Sprintf("failed to create generate request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", model.NewInferenceError(fmt.Sprintf("generate request failed: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", model.NewInferenceError(fmt.Sprintf("failed to read generate response: %v", err))
	}

	if resp.StatusCode != http.StatusOK {
		var errResp generateErrorResponse
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && errResp.Error.Message != "" {
			return "", model.NewInferenceError(errResp.Error.Message)
		}
		return "", model.NewInferenceError(fmt.Sprintf("provider returned status %d", resp.StatusCode))
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", model.NewInferenceError(fmt.Sprintf("failed to parse generate response: %v", err))
	}

	// 候補が空、またはテキストパートなしの場合は空文字列を返す
	if len(genResp.Candidates) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for _, p := range genResp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}

	return sb.String(), nil
}
