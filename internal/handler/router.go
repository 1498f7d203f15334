package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/messagely/internal/middleware"
)

// Pinger はヘルスチェックでのDB疎通確認に必要なインターフェース。
// *sql.DBがこれを満たす。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// MetricsRecorder はルーター全体で使うメトリクス記録インターフェース。
type MetricsRecorder interface {
	AuthMetricsRecorder
	MessageMetricsRecorder
	middleware.HTTPMetricsRecorder
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger // nilの場合はslog.Default()を使う

	// メトリクス（nil可。nilの場合は記録・公開を行わない）
	Metrics        MetricsRecorder
	MetricsHandler http.Handler

	// 認証
	AuthService AuthServiceInterface
	TokenIssuer TokenIssuer

	// ユーザー
	UserService UserServiceInterface

	// メッセージ
	MessageService MessageServiceInterface
	MessageLister  MessageListerInterface

	// ヘルスチェック
	DB Pinger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → Metrics
//
// 認証ルート（/auth/*）はIP単位のレート制限のみを適用し、
// それ以外のAPIルートはトークン検証＋ユーザー単位のレート制限を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.TokenIssuer, deps.Metrics)
	userHandler := NewUserHandler(deps.UserService, deps.MessageLister)
	messageHandler := NewMessageHandler(deps.MessageService, deps.Metrics)

	requireLogin := middleware.NewRequireLoginMiddleware(deps.TokenVerifier)
	requireCorrectUser := middleware.NewRequireCorrectUserMiddleware(deps.TokenVerifier)

	// --- 認証不要のルート ---

	r.Route("/auth", func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.AuthMiddleware())
		}
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Get("/health", newHealthHandler(deps.DB))

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- 認証が必要なルート ---

	// ログイン済みであれば誰でも到達できるルート
	r.Group(func(r chi.Router) {
		r.Use(requireLogin)
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		r.Get("/users", userHandler.List)
		r.Post("/messages", messageHandler.Send)
	})

	// トークンのユーザー名とパスの{username}の一致を要求するルート
	r.Route("/users/{username}", func(r chi.Router) {
		r.Use(requireCorrectUser)
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		r.Get("/", userHandler.Get)
		r.Get("/to", userHandler.MessagesTo)
		r.Get("/from", userHandler.MessagesFrom)
	})

	return r
}

// newHealthHandler はDB疎通確認を行うヘルスチェックハンドラーを返す。
// dbがnilの場合は疎通確認をスキップしてokを返す。
func newHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
