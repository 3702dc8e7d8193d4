package service

import (
	"context"
	"errors"
	"sync"

	userserrors "styledecor/internal/users/errors"
	"styledecor/internal/users/repository"
	"styledecor/pkg/config"
	apperrors "styledecor/pkg/errors"
	"styledecor/pkg/model"
	"styledecor/pkg/sanitizer"
)

type UserService interface {
	Register(ctx context.Context, principal string, user *model.User) (bool, error)
	RoleByEmail(ctx context.Context, email string) (string, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error)
	UpdateRole(ctx context.Context, email string, role string) error
}

type userService struct {
	repo repository.UserRepository
	cfg  *config.Config
}

func NewUserService(repo repository.UserRepository, cfg *config.Config) UserService {
	return &userService{
		repo: repo,
		cfg:  cfg,
	}
}

// Register inserts a User on first sign-in. The requester can only
// register their own verified email. Returns false without error when the
// user already exists.
func (s *userService) Register(ctx context.Context, principal string, user *model.User) (bool, error) {
	if user.Email != principal {
		return false, apperrors.Forbidden("users can only register their own email")
	}

	user.Name = sanitizer.NormalizeName(user.Name)
	if user.Role == "" {
		user.Role = model.RoleClient
	}

	if _, err := s.repo.FindByEmail(ctx, user.Email); err == nil {
		return false, nil
	} else if !errors.Is(err, userserrors.ErrNotFound) {
		return false, apperrors.Internal("Failed to check user existence", err)
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// The unique email index closes the race between the existence
		// check and the insert.
		if errors.Is(err, userserrors.ErrDuplicate) {
			return false, nil
		}
		return false, apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User registered", "email", user.Email, "role", user.Role)
	return true, nil
}

// RoleByEmail satisfies the auth gate's RoleLookup. Fresh read per call.
func (s *userService) RoleByEmail(ctx context.Context, email string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return "", apperrors.NotFound("User")
		}
		return "", apperrors.Internal("Failed to look up user role", err)
	}
	return user.Role, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if email == "" {
		return nil, apperrors.InvalidInput("Email cannot be empty")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFound("User")
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}

	return user, nil
}

func (s *userService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error) {
	var count int64
	var users []*model.User
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count users", "error", errCount)
			errCount = apperrors.Internal("Failed to count users", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		users, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list users", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve users", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return users, count, nil
}

func (s *userService) UpdateRole(ctx context.Context, email string, role string) error {
	if email == "" {
		return apperrors.InvalidInput("Email cannot be empty")
	}
	if role != model.RoleClient && role != model.RoleDecorator && role != model.RoleAdmin {
		return apperrors.InvalidInput("Role must be one of: client, decorator, admin")
	}

	if err := s.repo.UpdateRole(ctx, email, role); err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.NotFound("User")
		}
		return apperrors.Internal("Failed to update user role", err)
	}

	s.cfg.Log.Info("User role updated", "email", email, "role", role)
	return nil
}
