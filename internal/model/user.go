// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// usernameが不変の一意識別子となる。パスワードハッシュはここには載せず、
// リポジトリ層の内部でのみ扱う。
type User struct {
	Username    string
	FirstName   string
	LastName    string
	Phone       string
	JoinAt      time.Time
	LastLoginAt time.Time
}

// UserSummary はユーザー一覧用の公開可能フィールドのみを持つ。
type UserSummary struct {
	Username  string
	FirstName string
	LastName  string
	Phone     string
}

// Summary はUserから公開可能フィールドのみを抜き出す。
func (u *User) Summary() UserSummary {
	return UserSummary{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}
