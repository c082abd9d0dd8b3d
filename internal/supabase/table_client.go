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

const profilesPath = "/rest/v1/profiles"

// TableClient はPostgRESTテーブルAPIのクライアント。
// 本システムが行うテーブル操作はprofilesテーブルへのINSERTのみで、
// 読み出し・更新・削除は扱わない。
type TableClient struct {
	baseURL        string
	serviceRoleKey string // 行レベルセキュリティをバイパスするservice_roleキー
	httpClient     *http.Client
}

// NewTableClient はTableClientを生成する。
// httpClientがnilの場合はhttp.DefaultClientを使用する。
func NewTableClient(baseURL, serviceRoleKey string, httpClient *http.Client) *TableClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TableClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		serviceRoleKey: serviceRoleKey,
		httpClient:     httpClient,
	}
}

// InsertProfile はprofilesテーブルにレコードを1件挿入する。
// ストアが書き込みを拒否した場合（制約違反、接続失敗等）は
// ストアのメッセージを保持したStoreエラーを返す。
func (c *TableClient) InsertProfile(ctx context.Context, profile model.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return model.NewStoreError(fmt.Sprintf("failed to encode profile: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+profilesPath, bytes.NewReader(data))
	if err != nil {
		return model.NewStoreError(fmt.Sprintf("failed to create insert request: %v", err))
	}
	req.Header.Set("apikey", c.serviceRoleKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceRoleKey)
	req.Header.Set("Content-Type", "application/json")
	// 挿入した行は使わないため返却を省略する
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewStoreError(fmt.Sprintf("insert request failed: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.NewStoreError(fmt.Sprintf("failed to read insert response: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.NewStoreError(providerMessage(body, resp.StatusCode))
	}

	return nil
}
