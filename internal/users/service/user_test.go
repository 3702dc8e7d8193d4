package service

import (
	"context"
	"testing"
	"time"

	userserrors "styledecor/internal/users/errors"
	"styledecor/pkg/config"
	apperrors "styledecor/pkg/errors"
	"styledecor/pkg/logger"
	"styledecor/pkg/model"
)

type mockUserRepository struct {
	createFunc      func(ctx context.Context, user *model.User) error
	findByEmailFunc func(ctx context.Context, email string) (*model.User, error)
	updateRoleFunc  func(ctx context.Context, email string, role string) error
	created         []*model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.created = append(m.created, user)
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
	return []*model.User{}, nil
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockUserRepository) UpdateRole(ctx context.Context, email string, role string) error {
	if m.updateRoleFunc != nil {
		return m.updateRoleFunc(ctx, email, role)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log:          logger.New(logger.Config{Level: "error", Service: "test"}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func TestRegisterFirstSignIn(t *testing.T) {
	repo := &mockUserRepository{}
	svc := NewUserService(repo, testConfig())

	user := &model.User{Email: "client@example.com", Name: "  New   Client "}
	created, err := svc.Register(context.Background(), "client@example.com", user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected user to be created")
	}
	if user.Role != model.RoleClient {
		t.Errorf("expected default role client, got %s", user.Role)
	}
	if user.Name != "New Client" {
		t.Errorf("expected normalized name, got %q", user.Name)
	}
	if len(repo.created) != 1 {
		t.Errorf("expected one insert, got %d", len(repo.created))
	}
}

func TestRegisterExistingUser(t *testing.T) {
	repo := &mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{Email: email, Role: model.RoleClient}, nil
		},
	}
	svc := NewUserService(repo, testConfig())

	created, err := svc.Register(context.Background(), "client@example.com", &model.User{Email: "client@example.com", Name: "Client"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected no insert for existing user")
	}
	if len(repo.created) != 0 {
		t.Errorf("expected zero inserts, got %d", len(repo.created))
	}
}

func TestRegisterRaceLosesToUniqueIndex(t *testing.T) {
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, user *model.User) error {
			return userserrors.ErrDuplicate
		},
	}
	svc := NewUserService(repo, testConfig())

	created, err := svc.Register(context.Background(), "client@example.com", &model.User{Email: "client@example.com", Name: "Client"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected duplicate-key insert to report existing user")
	}
}

func TestRegisterForeignEmailForbidden(t *testing.T) {
	repo := &mockUserRepository{}
	svc := NewUserService(repo, testConfig())

	_, err := svc.Register(context.Background(), "client@example.com", &model.User{Email: "other@example.com", Name: "Other"})
	if err == nil {
		t.Fatal("expected forbidden error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeForbidden {
		t.Errorf("expected FORBIDDEN, got %s", apperrors.AsAppError(err).Code)
	}
	if len(repo.created) != 0 {
		t.Error("store must not be mutated on forbidden registration")
	}
}

func TestRoleByEmailUnknownUser(t *testing.T) {
	svc := NewUserService(&mockUserRepository{}, testConfig())

	_, err := svc.RoleByEmail(context.Background(), "ghost@example.com")
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	mutated := false
	repo := &mockUserRepository{
		updateRoleFunc: func(ctx context.Context, email string, role string) error {
			mutated = true
			return nil
		},
	}
	svc := NewUserService(repo, testConfig())

	err := svc.UpdateRole(context.Background(), "client@example.com", "superuser")
	if err == nil {
		t.Fatal("expected invalid-input error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", apperrors.AsAppError(err).Code)
	}
	if mutated {
		t.Error("store must not be mutated for an invalid role")
	}
}

func TestUpdateRoleSuccess(t *testing.T) {
	var gotEmail, gotRole string
	repo := &mockUserRepository{
		updateRoleFunc: func(ctx context.Context, email string, role string) error {
			gotEmail, gotRole = email, role
			return nil
		},
	}
	svc := NewUserService(repo, testConfig())

	if err := svc.UpdateRole(context.Background(), "worker@example.com", model.RoleDecorator); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotEmail != "worker@example.com" || gotRole != model.RoleDecorator {
		t.Errorf("unexpected update args: %s %s", gotEmail, gotRole)
	}
}
