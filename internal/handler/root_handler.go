package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/authgw/internal/middleware"
)

// RootHandler はルートおよび疎通確認用エンドポイントのHTTPハンドラー。
// 外部依存を持たない。
type RootHandler struct{}

// NewRootHandler はRootHandlerを生成する。
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// Root は固定のあいさつメッセージを返す。
// GET /
func (h *RootHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Hello, Supabase Auth App!",
	})
}

// RootHead はボディなしの200を返す。
// ホスティング側のヘルスチェックがHEADを送るため明示的にハンドリングする。
// HEAD /
func (h *RootHandler) RootHead(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// itemResponse はGetItemのレスポンスボディ。
// qはクエリパラメータ未指定の場合nullになる。
type itemResponse struct {
	ItemID int     `json:"item_id"`
	Q      *string `json:"q"`
}

// GetItem はパスパラメータとクエリパラメータをそのまま返す。
// GET /items/{item_id}?q=...
func (h *RootHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.Atoi(chi.URLParam(r, "item_id"))
	if err != nil {
		middleware.WriteDetailResponse(w, http.StatusBadRequest, "item_id must be an integer")
		return
	}

	resp := itemResponse{ItemID: itemID}
	if q := r.URL.Query().Get("q"); q != "" {
		resp.Q = &q
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health はプロセスの生存を返す。
// ゲートウェイ自身は永続状態を持たないため、依存先の疎通確認は行わない。
// GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
