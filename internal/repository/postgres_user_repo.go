package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/hitoshi/messagely/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// Create はユーザーを作成する。username重複の場合は409エラーを返す。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password, first_name, last_name, phone, join_at, last_login_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.Username, passwordHash, user.FirstName, user.LastName, user.Phone,
		user.JoinAt, user.LastLoginAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.NewDuplicateUserError(user.Username)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// PasswordHashByUsername は格納済みパスワードハッシュを返す。未登録の場合は空文字列。
func (r *PostgresUserRepo) PasswordHashByUsername(ctx context.Context, username string) (string, error) {
	var hash string
	err := r.db.QueryRowContext(ctx,
		`SELECT password FROM users WHERE username = $1`,
		username,
	).Scan(&hash)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to find password hash: %w", err)
	}

	return hash, nil
}

// UpdateLastLogin はlast_login_atを更新する。対象が存在しなくてもエラーにしない。
func (r *PostgresUserRepo) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = $1 WHERE username = $2`,
		at, username,
	)
	if err != nil {
		return fmt.Errorf("failed to update last_login_at: %w", err)
	}
	return nil
}

// List は全ユーザーの公開可能フィールドをusername昇順で返す。
func (r *PostgresUserRepo) List(ctx context.Context) ([]model.UserSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT username, first_name, last_name, phone FROM users ORDER BY username`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []model.UserSummary{}
	for rows.Next() {
		var u model.UserSummary
		if err := rows.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}

	return users, nil
}

// FindByUsername は指定ユーザーの全プロフィールを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT username, first_name, last_name, phone, join_at, last_login_at
		 FROM users WHERE username = $1`,
		username,
	).Scan(&user.Username, &user.FirstName, &user.LastName, &user.Phone,
		&user.JoinAt, &user.LastLoginAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}

	return user, nil
}

// isUniqueViolation はPostgreSQLの一意制約違反かどうかを判定する。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation"
}

// isForeignKeyViolation はPostgreSQLの外部キー制約違反かどうかを判定する。
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation"
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
