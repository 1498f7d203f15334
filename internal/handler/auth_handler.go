// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/hitoshi/messagely/internal/auth"
	"github.com/hitoshi/messagely/internal/model"
)

// validate はリクエストボディの構造検証に使う共有バリデーター。
var validate = validator.New()

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Register は新規ユーザーを登録する。username重複時は*model.APIError（409）を返す。
	Register(ctx context.Context, params auth.RegisterParams) (*model.User, error)
	// Authenticate はユーザー名とパスワードの組を検証する。
	Authenticate(ctx context.Context, username, password string) (bool, error)
	// UpdateLoginTimestamp はlast_login_atを現在時刻に更新する。
	UpdateLoginTimestamp(ctx context.Context, username string) error
}

// TokenIssuer はログイン成功時のトークン発行に必要なインターフェース。
type TokenIssuer interface {
	Issue(username string) (string, error)
}

// AuthMetricsRecorder は認証関連メトリクスの記録インターフェース。
type AuthMetricsRecorder interface {
	RecordRegistration()
	RecordLoginSuccess()
	RecordLoginFailure()
}

// AuthHandler は登録・ログインのHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	issuer  TokenIssuer
	metrics AuthMetricsRecorder
}

// NewAuthHandler はAuthHandlerを生成する。metricsはnil可。
func NewAuthHandler(service AuthServiceInterface, issuer TokenIssuer, metrics AuthMetricsRecorder) *AuthHandler {
	return &AuthHandler{
		service: service,
		issuer:  issuer,
		metrics: metrics,
	}
}

// registerRequest はユーザー登録リクエストのボディ。
type registerRequest struct {
	Username  string `json:"username" validate:"required,max=50"`
	Password  string `json:"password" validate:"required,min=1,max=72"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"required,max=30"`
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// tokenResponse はトークンを返すAPIレスポンス。
type tokenResponse struct {
	Token string `json:"token"`
}

// Register は新規ユーザーを登録し、ログイン済みトークンを返す。
// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, model.NewValidationError("request body must be valid JSON"))
		return
	}

	if err := validate.Struct(&req); err != nil {
		writeErrorResponse(w, model.NewValidationError(err.Error()))
		return
	}

	user, err := h.service.Register(r.Context(), auth.RegisterParams{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	token, err := h.issuer.Issue(user.Username)
	if err != nil {
		slog.Error("failed to issue token after registration",
			slog.String("username", user.Username),
			slog.String("error", err.Error()),
		)
		writeInternalServerError(w)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordRegistration()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(tokenResponse{Token: token})
}

// Login はユーザー名とパスワードを検証し、トークンを返す。
// パスワード不一致・存在しないユーザーはいずれも400を返す。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, model.NewValidationError("request body must be valid JSON"))
		return
	}

	if err := validate.Struct(&req); err != nil {
		writeErrorResponse(w, model.NewValidationError(err.Error()))
		return
	}

	ok, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if !ok {
		if h.metrics != nil {
			h.metrics.RecordLoginFailure()
		}
		slog.Warn("login failed", slog.String("username", req.Username))
		writeErrorResponse(w, model.NewInvalidCredentialsError())
		return
	}

	if err := h.service.UpdateLoginTimestamp(r.Context(), req.Username); err != nil {
		// ログイン自体は成功しているため、タイムスタンプ更新の失敗は記録に留める
		slog.Error("failed to update login timestamp",
			slog.String("username", req.Username),
			slog.String("error", err.Error()),
		)
	}

	token, err := h.issuer.Issue(req.Username)
	if err != nil {
		slog.Error("failed to issue token",
			slog.String("username", req.Username),
			slog.String("error", err.Error()),
		)
		writeInternalServerError(w)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordLoginSuccess()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tokenResponse{Token: token})
}
