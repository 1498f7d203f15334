package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/messagely/internal/model"
	"github.com/hitoshi/messagely/internal/repository"
)

// RegisterParams はユーザー登録の入力パラメータ。
type RegisterParams struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// Service は認証のサービス層。
// ユーザー登録・パスワード照合・最終ログイン時刻の更新を提供する。
type Service struct {
	userRepo repository.UserRepository
	hasher   *PasswordHasher
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository, hasher *PasswordHasher) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

// Register は新規ユーザーを登録する。
// パスワードはハッシュ化して永続化し、join_at・last_login_atには現在時刻を設定する。
// username重複の場合は*model.APIError（409）を返す。
// 返却するUserにはパスワードハッシュを含めない。
func (s *Service) Register(ctx context.Context, params RegisterParams) (*model.User, error) {
	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password for registration: %w", err)
	}

	now := time.Now()
	user := &model.User{
		Username:    params.Username,
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		Phone:       params.Phone,
		JoinAt:      now,
		LastLoginAt: now,
	}

	if err := s.userRepo.Create(ctx, user, hash); err != nil {
		return nil, err
	}

	slog.Info("user registered", slog.String("username", user.Username))

	return user, nil
}

// Authenticate はユーザー名とパスワードの組を検証する。
// ユーザーが存在しない場合・パスワード不一致の場合はともにfalseを返し、
// エラーは永続化層の失敗時のみ返す。
func (s *Service) Authenticate(ctx context.Context, username, password string) (bool, error) {
	hash, err := s.userRepo.PasswordHashByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("failed to authenticate user: %w", err)
	}
	if hash == "" {
		return false, nil
	}

	return s.hasher.Compare(hash, password), nil
}

// UpdateLoginTimestamp はlast_login_atを現在時刻に更新する。
// ユーザーが存在しない場合は何もしない。
func (s *Service) UpdateLoginTimestamp(ctx context.Context, username string) error {
	return s.userRepo.UpdateLastLogin(ctx, username, time.Now())
}
