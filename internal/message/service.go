// Package message はメッセージ送受信のドメインロジックを提供する。
package message

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/messagely/internal/model"
	"github.com/hitoshi/messagely/internal/repository"
)

// Service はメッセージのサービス層。
type Service struct {
	messageRepo repository.MessageRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(messageRepo repository.MessageRepository) *Service {
	return &Service{messageRepo: messageRepo}
}

// Send はfromからtoへのメッセージを作成する。
// IDを採番し、sent_atに現在時刻を設定する。read_atは未設定のまま永続化する。
// 送信元・送信先が存在しない場合は*model.APIError（400）を返す。
func (s *Service) Send(ctx context.Context, from, to, body string) (*model.Message, error) {
	msg := &model.Message{
		ID:           uuid.NewString(),
		FromUsername: from,
		ToUsername:   to,
		Body:         body,
		SentAt:       time.Now(),
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	slog.Info("message sent",
		slog.String("message_id", msg.ID),
		slog.String("from", from),
		slog.String("to", to),
	)

	return msg, nil
}

// MessagesFrom は指定ユーザーが送信したメッセージを受信者プロフィール付きで返す。
func (s *Service) MessagesFrom(ctx context.Context, username string) ([]model.MessageFromUser, error) {
	messages, err := s.messageRepo.ListFromUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages from %s: %w", username, err)
	}
	return messages, nil
}

// MessagesTo は指定ユーザーが受信したメッセージを送信者プロフィール付きで返す。
func (s *Service) MessagesTo(ctx context.Context, username string) ([]model.MessageToUser, error) {
	messages, err := s.messageRepo.ListToUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages to %s: %w", username, err)
	}
	return messages, nil
}
