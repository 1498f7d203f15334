package model

import "time"

// Message はユーザー間の一方向メッセージを表す。
// ReadAtは受信者が閲覧した時点で設定される想定のフィールドだが、
// 現状のAPIには既読化の操作が存在せず、常にnilのまま永続化される。
type Message struct {
	ID           string
	FromUsername string
	ToUsername   string
	Body         string
	SentAt       time.Time
	ReadAt       *time.Time
}

// MessageFromUser は送信メッセージ一覧の1件。受信者プロフィールを含む。
type MessageFromUser struct {
	ID     string
	Body   string
	SentAt time.Time
	ReadAt *time.Time
	ToUser UserSummary
}

// MessageToUser は受信メッセージ一覧の1件。送信者プロフィールを含む。
type MessageToUser struct {
	ID       string
	Body     string
	SentAt   time.Time
	ReadAt   *time.Time
	FromUser UserSummary
}
