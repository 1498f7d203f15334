// Package user はユーザー照会のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"

	"github.com/hitoshi/messagely/internal/model"
	"github.com/hitoshi/messagely/internal/repository"
)

// Service はユーザー照会のサービス層。
type Service struct {
	userRepo repository.UserRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// List は全ユーザーの公開可能フィールド一覧を返す。
// パスワードハッシュはリポジトリ層で選択されないため、ここを通過することはない。
func (s *Service) List(ctx context.Context) ([]model.UserSummary, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Get は指定ユーザーの全プロフィールを返す。
// 見つからない場合は*model.APIError（404）を返す。
func (s *Service) Get(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(username)
	}
	return user, nil
}
