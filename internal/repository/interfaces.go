// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/messagely/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。passwordHashには算出済みのハッシュを渡す。
	// username重複の場合は*model.APIError（409）を返す。
	Create(ctx context.Context, user *model.User, passwordHash string) error

	// PasswordHashByUsername は指定ユーザーの格納済みパスワードハッシュを返す。
	// ユーザーが存在しない場合は空文字列を返す（ハッシュが空になることはない）。
	PasswordHashByUsername(ctx context.Context, username string) (string, error)

	// UpdateLastLogin はlast_login_atを指定時刻に更新する。
	// ユーザーが存在しない場合はエラーなしで何もしない。
	UpdateLastLogin(ctx context.Context, username string, at time.Time) error

	// List は全ユーザーの公開可能フィールドをusername昇順で返す。
	List(ctx context.Context) ([]model.UserSummary, error)

	// FindByUsername は指定ユーザーの全プロフィールを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// MessageRepository はメッセージデータの永続化インターフェース。
type MessageRepository interface {
	// Create はメッセージを作成する。
	// 送信元・送信先ユーザーが存在しない場合は*model.APIError（400）を返す。
	Create(ctx context.Context, msg *model.Message) error

	// ListFromUser は指定ユーザーが送信したメッセージを受信者プロフィール付きで
	// sent_at昇順で返す。
	ListFromUser(ctx context.Context, username string) ([]model.MessageFromUser, error)

	// ListToUser は指定ユーザーが受信したメッセージを送信者プロフィール付きで
	// sent_at昇順で返す。
	ListToUser(ctx context.Context, username string) ([]model.MessageToUser, error)
}
