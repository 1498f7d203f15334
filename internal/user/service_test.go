package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/messagely/internal/model"
)

// --- モック ---

type mockUserRepo struct {
	listFn           func(ctx context.Context) ([]model.UserSummary, error)
	findByUsernameFn func(ctx context.Context, username string) (*model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User, passwordHash string) error {
	return nil
}
func (m *mockUserRepo) PasswordHashByUsername(ctx context.Context, username string) (string, error) {
	return "", nil
}
func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	return nil
}
func (m *mockUserRepo) List(ctx context.Context) ([]model.UserSummary, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, nil
}

// --- テスト ---

// TestService_List_ReturnsSummaries は一覧が公開可能フィールドのみで返ることを検証する。
func TestService_List_ReturnsSummaries(t *testing.T) {
	repo := &mockUserRepo{
		listFn: func(ctx context.Context) ([]model.UserSummary, error) {
			return []model.UserSummary{
				{Username: "alice", FirstName: "Alice", LastName: "Anderson", Phone: "+14155550000"},
				{Username: "bob", FirstName: "Bob", LastName: "Brown", Phone: "+14155550001"},
			}, nil
		},
	}
	svc := NewService(repo)

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("len(users) = %d, want 2", len(users))
	}
	if users[0].Username != "alice" || users[1].Username != "bob" {
		t.Errorf("unexpected user order: %+v", users)
	}
}

// TestService_Get_ReturnsFullProfile は個別取得で全プロフィールが返ることを検証する。
func TestService_Get_ReturnsFullProfile(t *testing.T) {
	joinAt := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			if username != "alice" {
				return nil, nil
			}
			return &model.User{
				Username:    "alice",
				FirstName:   "Alice",
				LastName:    "Anderson",
				Phone:       "+14155550000",
				JoinAt:      joinAt,
				LastLoginAt: joinAt.Add(24 * time.Hour),
			}, nil
		},
	}
	svc := NewService(repo)

	user, err := svc.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q, want %q", user.Username, "alice")
	}
	if !user.JoinAt.Equal(joinAt) {
		t.Errorf("JoinAt = %v, want %v", user.JoinAt, joinAt)
	}
}

// TestService_Get_UnknownUser_Returns404 は未登録ユーザーが404エラーになることを検証する。
func TestService_Get_UnknownUser_Returns404(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewService(repo)

	_, err := svc.Get(context.Background(), "nobody")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != 404 {
		t.Errorf("status = %d, want 404", apiErr.Status)
	}
}

// TestService_List_StoreFailure_ReturnsError は永続化層の失敗が伝播することを検証する。
func TestService_List_StoreFailure_ReturnsError(t *testing.T) {
	repo := &mockUserRepo{
		listFn: func(ctx context.Context) ([]model.UserSummary, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewService(repo)

	if _, err := svc.List(context.Background()); err == nil {
		t.Fatal("expected error on store failure")
	}
}
