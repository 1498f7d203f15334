package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/messagely/internal/middleware"
	"github.com/hitoshi/messagely/internal/model"
)

// MessageServiceInterface はメッセージハンドラーが必要とするサービスインターフェース。
type MessageServiceInterface interface {
	// Send はfromからtoへのメッセージを作成する。
	// 送信元・送信先が存在しない場合は*model.APIError（400）を返す。
	Send(ctx context.Context, from, to, body string) (*model.Message, error)
}

// MessageMetricsRecorder はメッセージ送信メトリクスの記録インターフェース。
type MessageMetricsRecorder interface {
	RecordMessageSent()
}

// MessageHandler はメッセージ送信のHTTPハンドラー。
type MessageHandler struct {
	service MessageServiceInterface
	metrics MessageMetricsRecorder
}

// NewMessageHandler はMessageHandlerを生成する。metricsはnil可。
func NewMessageHandler(service MessageServiceInterface, metrics MessageMetricsRecorder) *MessageHandler {
	return &MessageHandler{
		service: service,
		metrics: metrics,
	}
}

// sendMessageRequest はメッセージ送信リクエストのボディ。
// 送信元は指定できず、常に認証済みユーザーとなる。
type sendMessageRequest struct {
	ToUsername string `json:"to_username" validate:"required,max=50"`
	Body       string `json:"body" validate:"required,max=10000"`
}

// messageResponse は作成されたメッセージのAPIレスポンス。
type messageResponse struct {
	ID           string     `json:"id"`
	FromUsername string     `json:"from_username"`
	ToUsername   string     `json:"to_username"`
	Body         string     `json:"body"`
	SentAt       time.Time  `json:"sent_at"`
	ReadAt       *time.Time `json:"read_at"`
}

// Send は認証済みユーザーから指定ユーザーへメッセージを送信する。
// POST /messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	from, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeErrorResponse(w, model.NewUnauthorizedError())
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, model.NewValidationError("request body must be valid JSON"))
		return
	}

	if err := validate.Struct(&req); err != nil {
		writeErrorResponse(w, model.NewValidationError(err.Error()))
		return
	}

	msg, err := h.service.Send(r.Context(), from, req.ToUsername, req.Body)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordMessageSent()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": messageResponse{
			ID:           msg.ID,
			FromUsername: msg.FromUsername,
			ToUsername:   msg.ToUsername,
			Body:         msg.Body,
			SentAt:       msg.SentAt,
			ReadAt:       msg.ReadAt,
		},
	})
}
