// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// ErrorKind はエラーの発生源カテゴリを表す。
type ErrorKind string

const (
	// KindValidation はリクエストボディの形式不正を表す。
	KindValidation ErrorKind = "validation"
	// KindIdentity は認証プロバイダーによるサインアップ/ログイン拒否を表す。
	KindIdentity ErrorKind = "identity"
	// KindAuth はBearerトークンの欠落・無効・期限切れを表す。
	KindAuth ErrorKind = "auth"
	// KindStore はプロフィールテーブルへの書き込み失敗を表す。
	KindStore ErrorKind = "store"
	// KindInference はテキスト生成プロバイダーの呼び出し失敗を表す。
	KindInference ErrorKind = "inference"
)

// APIError は外部プロバイダー呼び出しと入力検証の失敗を表す統一エラー型。
// Messageはプロバイダーのメッセージをそのまま保持し、
// レスポンスのdetailフィールドとしてクライアントに返される。
type APIError struct {
	Kind    ErrorKind
	Message string
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// NewValidationError はリクエスト形式不正エラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{Kind: KindValidation, Message: message}
}

// NewIdentityError は認証プロバイダーの拒否エラーを生成する。
func NewIdentityError(message string) *APIError {
	return &APIError{Kind: KindIdentity, Message: message}
}

// NewAuthError はトークン検証失敗エラーを生成する。
func NewAuthError(message string) *APIError {
	return &APIError{Kind: KindAuth, Message: message}
}

// NewStoreError はプロフィール書き込み失敗エラーを生成する。
func NewStoreError(message string) *APIError {
	return &APIError{Kind: KindStore, Message: message}
}

// NewInferenceError はテキスト生成失敗エラーを生成する。
func NewInferenceError(message string) *APIError {
	return &APIError{Kind: KindInference, Message: message}
}

// ErrorMessage はerrからユーザー向けメッセージを取り出す。
// APIErrorの場合はプロバイダー由来のMessageを、それ以外はerr.Error()を返す。
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
