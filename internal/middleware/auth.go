// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/messagely/internal/model"
)

// tokenQueryParam はクエリパラメータでのトークン受け渡しに使うキー。
// Authorizationヘッダーが優先され、これは互換用のフォールバック。
const tokenQueryParam = "_token"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// usernameContextKey はリクエストコンテキストに検証済みユーザー名を格納するためのキー。
var usernameContextKey = contextKey("username")

// TokenVerifier はトークン検証に必要なインターフェース。
// auth.TokenServiceの部分集合として定義する。
type TokenVerifier interface {
	Verify(tokenString string) (string, error)
}

// NewRequireLoginMiddleware はリクエストからトークンを取り出して検証するミドルウェアを返す。
// 検証済みユーザー名をリクエストコンテキストに注入する。
// トークンが欠落・不正な場合は401 Unauthorizedを返し、ハンドラーは呼び出さない。
func NewRequireLoginMiddleware(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, ok := verifyRequestToken(verifier, r)
			if !ok {
				WriteErrorResponse(w, model.NewUnauthorizedError())
				return
			}

			ctx := context.WithValue(r.Context(), usernameContextKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewRequireCorrectUserMiddleware はログイン検証に加えて、検証済みユーザー名が
// URLパスパラメータ{username}と一致することを要求するミドルウェアを返す。
// 不一致・未ログインはいずれも401 Unauthorizedを返す。
func NewRequireCorrectUserMiddleware(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, ok := verifyRequestToken(verifier, r)
			if !ok {
				WriteErrorResponse(w, model.NewUnauthorizedError())
				return
			}

			pathUsername := chi.URLParam(r, "username")
			if pathUsername == "" || pathUsername != username {
				slog.Warn("correct-user check failed",
					slog.String("token_username", username),
					slog.String("path_username", pathUsername),
				)
				WriteErrorResponse(w, model.NewUnauthorizedError())
				return
			}

			ctx := context.WithValue(r.Context(), usernameContextKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// verifyRequestToken はリクエストからトークンを抽出して検証する。
// 成功時は検証済みユーザー名とtrueを返す。
func verifyRequestToken(verifier TokenVerifier, r *http.Request) (string, bool) {
	token := extractToken(r)
	if token == "" {
		return "", false
	}

	username, err := verifier.Verify(token)
	if err != nil {
		slog.Warn("token verification failed",
			slog.String("error", err.Error()),
		)
		return "", false
	}

	return username, true
}

// extractToken はAuthorization: Bearerヘッダー、なければ_tokenクエリパラメータから
// トークン文字列を取り出す。見つからない場合は空文字列を返す。
func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		const prefix = "Bearer "
		if strings.HasPrefix(authHeader, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		}
		return ""
	}

	return r.URL.Query().Get(tokenQueryParam)
}

// UsernameFromContext はリクエストコンテキストから検証済みユーザー名を取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func UsernameFromContext(ctx context.Context) (string, error) {
	username, ok := ctx.Value(usernameContextKey).(string)
	if !ok || username == "" {
		return "", fmt.Errorf("username not found in context")
	}
	return username, nil
}

// ContextWithUsername はコンテキストに検証済みユーザー名を注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameContextKey, username)
}
