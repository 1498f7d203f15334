package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/messagely/internal/middleware"
	"github.com/hitoshi/messagely/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// List は全ユーザーの公開可能フィールド一覧を返す。
	List(ctx context.Context) ([]model.UserSummary, error)
	// Get は指定ユーザーの全プロフィールを返す。未検出時は*model.APIError（404）を返す。
	Get(ctx context.Context, username string) (*model.User, error)
}

// MessageListerInterface はユーザー単位のメッセージ一覧取得インターフェース。
type MessageListerInterface interface {
	MessagesFrom(ctx context.Context, username string) ([]model.MessageFromUser, error)
	MessagesTo(ctx context.Context, username string) ([]model.MessageToUser, error)
}

// UserHandler はユーザー照会とユーザー単位メッセージ一覧のHTTPハンドラー。
type UserHandler struct {
	service  UserServiceInterface
	messages MessageListerInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface, messages MessageListerInterface) *UserHandler {
	return &UserHandler{
		service:  service,
		messages: messages,
	}
}

// userSummaryResponse はユーザー一覧の1件。
type userSummaryResponse struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// userDetailResponse はユーザー詳細のAPIレスポンス。
type userDetailResponse struct {
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	JoinAt      time.Time `json:"join_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

// messageFromResponse は送信メッセージ一覧の1件。受信者プロフィールを含む。
type messageFromResponse struct {
	ID     string              `json:"id"`
	Body   string              `json:"body"`
	SentAt time.Time           `json:"sent_at"`
	ReadAt *time.Time          `json:"read_at"`
	ToUser userSummaryResponse `json:"to_user"`
}

// messageToResponse は受信メッセージ一覧の1件。送信者プロフィールを含む。
type messageToResponse struct {
	ID       string              `json:"id"`
	Body     string              `json:"body"`
	SentAt   time.Time           `json:"sent_at"`
	ReadAt   *time.Time          `json:"read_at"`
	FromUser userSummaryResponse `json:"from_user"`
}

// List は全ユーザーの一覧を返す。
// GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	summaries := make([]userSummaryResponse, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, toUserSummaryResponse(u))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"users": summaries,
	})
}

// Get は指定ユーザーの詳細を返す。
// GET /users/{username}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.service.Get(r.Context(), username)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user": userDetailResponse{
			Username:    user.Username,
			FirstName:   user.FirstName,
			LastName:    user.LastName,
			Phone:       user.Phone,
			JoinAt:      user.JoinAt,
			LastLoginAt: user.LastLoginAt,
		},
	})
}

// MessagesTo は指定ユーザーが受信したメッセージ一覧を返す。
// GET /users/{username}/to
func (h *UserHandler) MessagesTo(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	messages, err := h.messages.MessagesTo(r.Context(), username)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	list := make([]messageToResponse, 0, len(messages))
	for _, m := range messages {
		list = append(list, messageToResponse{
			ID:       m.ID,
			Body:     m.Body,
			SentAt:   m.SentAt,
			ReadAt:   m.ReadAt,
			FromUser: toUserSummaryResponse(m.FromUser),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"messages": list,
	})
}

// MessagesFrom は指定ユーザーが送信したメッセージ一覧を返す。
// GET /users/{username}/from
func (h *UserHandler) MessagesFrom(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	messages, err := h.messages.MessagesFrom(r.Context(), username)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	list := make([]messageFromResponse, 0, len(messages))
	for _, m := range messages {
		list = append(list, messageFromResponse{
			ID:     m.ID,
			Body:   m.Body,
			SentAt: m.SentAt,
			ReadAt: m.ReadAt,
			ToUser: toUserSummaryResponse(m.ToUser),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"messages": list,
	})
}

// --- ヘルパー関数 ---

// toUserSummaryResponse はmodel.UserSummaryからAPIレスポンスに変換する。
func toUserSummaryResponse(u model.UserSummary) userSummaryResponse {
	return userSummaryResponse{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}

// writeErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeErrorResponse(w http.ResponseWriter, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, apiErr)
}

// writeInternalServerError は500レスポンスを書き込む。
func writeInternalServerError(w http.ResponseWriter) {
	middleware.WriteInternalServerError(w)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPレスポンスに変換する。
// *model.APIErrorはそのステータスで返し、それ以外は500として扱う。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeErrorResponse(w, apiErr)
		return
	}

	slog.Error("internal server error", slog.String("error", err.Error()))
	writeInternalServerError(w)
}
