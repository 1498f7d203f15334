package model

import (
	"fmt"
	"net/http"
)

// APIError は統一エラーフォーマットを表す。
// HTTPレスポンスには {"error": {"message": ..., "status": ...}} として書き出される。
type APIError struct {
	Message string // エラーメッセージ
	Status  int    // 対応するHTTPステータスコード
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%d] %s", e.Status, e.Message)
}

// NewValidationError は入力不正エラー（400）を生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Message: fmt.Sprintf("invalid request: %s", reason),
		Status:  http.StatusBadRequest,
	}
}

// NewInvalidCredentialsError は認証失敗エラー（400）を生成する。
// ユーザー名の存在有無を区別させないため、メッセージは固定とする。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Message: "invalid username or password",
		Status:  http.StatusBadRequest,
	}
}

// NewUnauthorizedError は認可エラー（401）を生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Message: "unauthorized",
		Status:  http.StatusUnauthorized,
	}
}

// NewUserNotFoundError はユーザー未検出エラー（404）を生成する。
func NewUserNotFoundError(username string) *APIError {
	return &APIError{
		Message: fmt.Sprintf("user not found: %s", username),
		Status:  http.StatusNotFound,
	}
}

// NewDuplicateUserError はユーザー名重複エラー（409）を生成する。
func NewDuplicateUserError(username string) *APIError {
	return &APIError{
		Message: fmt.Sprintf("username already taken: %s", username),
		Status:  http.StatusConflict,
	}
}

// NewUnknownUserError はメッセージ送信先/送信元が存在しない場合のエラー（400）を生成する。
// 外部キー制約違反として永続化層から検出される。
func NewUnknownUserError() *APIError {
	return &APIError{
		Message: "sender or recipient does not exist",
		Status:  http.StatusBadRequest,
	}
}
