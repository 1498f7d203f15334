package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/messagely/internal/middleware"
	"github.com/hitoshi/messagely/internal/model"
)

// mockMessageService はMessageServiceInterfaceのテスト用モック。
type mockMessageService struct {
	sendFn func(ctx context.Context, from, to, body string) (*model.Message, error)
}

func (m *mockMessageService) Send(ctx context.Context, from, to, body string) (*model.Message, error) {
	return m.sendFn(ctx, from, to, body)
}

func newAuthedSendRequest(username, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(body))
	return req.WithContext(middleware.ContextWithUsername(req.Context(), username))
}

func TestMessageHandler_Send_Success(t *testing.T) {
	service := &mockMessageService{
		sendFn: func(ctx context.Context, from, to, body string) (*model.Message, error) {
			if from != "alice" {
				t.Errorf("from = %q, want alice (sender forced to authenticated user)", from)
			}
			return &model.Message{
				ID:           "m-1",
				FromUsername: from,
				ToUsername:   to,
				Body:         body,
				SentAt:       time.Now(),
			}, nil
		},
	}
	h := NewMessageHandler(service, nil)

	req := newAuthedSendRequest("alice", `{"to_username":"bob","body":"hello"}`)
	w := httptest.NewRecorder()
	h.Send(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}

	var resp struct {
		Message struct {
			ID           string     `json:"id"`
			FromUsername string     `json:"from_username"`
			ToUsername   string     `json:"to_username"`
			Body         string     `json:"body"`
			ReadAt       *time.Time `json:"read_at"`
		} `json:"message"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message.FromUsername != "alice" || resp.Message.ToUsername != "bob" {
		t.Errorf("message = %+v, want alice -> bob", resp.Message)
	}
	if resp.Message.ReadAt != nil {
		t.Error("read_at must be null on a newly sent message")
	}
}

func TestMessageHandler_Send_WithoutAuthContext(t *testing.T) {
	h := NewMessageHandler(&mockMessageService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/messages",
		strings.NewReader(`{"to_username":"bob","body":"hello"}`))
	w := httptest.NewRecorder()
	h.Send(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestMessageHandler_Send_UnknownRecipient(t *testing.T) {
	service := &mockMessageService{
		sendFn: func(ctx context.Context, from, to, body string) (*model.Message, error) {
			return nil, model.NewUnknownUserError()
		},
	}
	h := NewMessageHandler(service, nil)

	req := newAuthedSendRequest("alice", `{"to_username":"ghost","body":"hello"}`)
	w := httptest.NewRecorder()
	h.Send(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	_, status := decodeErrorBody(t, w)
	if status != http.StatusBadRequest {
		t.Errorf("error.status = %d, want %d", status, http.StatusBadRequest)
	}
}

func TestMessageHandler_Send_MissingBody(t *testing.T) {
	h := NewMessageHandler(&mockMessageService{}, nil)

	req := newAuthedSendRequest("alice", `{"to_username":"bob"}`)
	w := httptest.NewRecorder()
	h.Send(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
