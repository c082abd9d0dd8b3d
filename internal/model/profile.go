package model

// Profile はAccountに紐づくアプリケーション固有のメタデータを表す。
// アカウント作成直後に1回だけ外部テーブルストアへ書き込まれる。
// このシステム自身はプロフィールを読み出さない。
type Profile struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
}
