package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/messagely/internal/model"
)

// errorBody はAPIエラーレスポンスの統一フォーマット。
// {"error": {"message": ..., "status": ...}} の形で書き出す。
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
// すべてのAPIエンドポイントで一貫したエラーレスポンスを提供する。
func WriteErrorResponse(w http.ResponseWriter, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	json.NewEncoder(w).Encode(errorBody{
		Error: errorDetail{
			Message: apiErr.Message,
			Status:  apiErr.Status,
		},
	})
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, &model.APIError{
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
	})
}
