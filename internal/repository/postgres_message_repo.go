package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/messagely/internal/model"
)

// PostgresMessageRepo はPostgreSQLを使用したメッセージリポジトリ。
type PostgresMessageRepo struct {
	db *sql.DB
}

// NewPostgresMessageRepo はPostgresMessageRepoを生成する。
func NewPostgresMessageRepo(db *sql.DB) *PostgresMessageRepo {
	return &PostgresMessageRepo{db: db}
}

// Create はメッセージを作成する。送信元・送信先が存在しない場合は400エラーを返す。
func (r *PostgresMessageRepo) Create(ctx context.Context, msg *model.Message) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, from_username, to_username, body, sent_at, read_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		msg.ID, msg.FromUsername, msg.ToUsername, msg.Body, msg.SentAt, msg.ReadAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.NewUnknownUserError()
		}
		return fmt.Errorf("failed to insert message: %w", err)
	}

	return nil
}

// ListFromUser は指定ユーザーの送信メッセージを受信者プロフィール付きで返す。
// sent_at昇順で並べる。
func (r *PostgresMessageRepo) ListFromUser(ctx context.Context, username string) ([]model.MessageFromUser, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.id, m.body, m.sent_at, m.read_at,
		        u.username, u.first_name, u.last_name, u.phone
		 FROM messages AS m
		 JOIN users AS u ON m.to_username = u.username
		 WHERE m.from_username = $1
		 ORDER BY m.sent_at`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages from user: %w", err)
	}
	defer rows.Close()

	messages := []model.MessageFromUser{}
	for rows.Next() {
		var msg model.MessageFromUser
		var readAt sql.NullTime
		if err := rows.Scan(&msg.ID, &msg.Body, &msg.SentAt, &readAt,
			&msg.ToUser.Username, &msg.ToUser.FirstName, &msg.ToUser.LastName, &msg.ToUser.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		if readAt.Valid {
			msg.ReadAt = &readAt.Time
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate message rows: %w", err)
	}

	return messages, nil
}

// ListToUser は指定ユーザーの受信メッセージを送信者プロフィール付きで返す。
// sent_at昇順で並べる。
func (r *PostgresMessageRepo) ListToUser(ctx context.Context, username string) ([]model.MessageToUser, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.id, m.body, m.sent_at, m.read_at,
		        u.username, u.first_name, u.last_name, u.phone
		 FROM messages AS m
		 JOIN users AS u ON m.from_username = u.username
		 WHERE m.to_username = $1
		 ORDER BY m.sent_at`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages to user: %w", err)
	}
	defer rows.Close()

	messages := []model.MessageToUser{}
	for rows.Next() {
		var msg model.MessageToUser
		var readAt sql.NullTime
		if err := rows.Scan(&msg.ID, &msg.Body, &msg.SentAt, &readAt,
			&msg.FromUser.Username, &msg.FromUser.FirstName, &msg.FromUser.LastName, &msg.FromUser.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		if readAt.Valid {
			msg.ReadAt = &readAt.Time
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate message rows: %w", err)
	}

	return messages, nil
}

// compile-time interface check
var _ MessageRepository = (*PostgresMessageRepo)(nil)
