package service

import (
	"context"
	"errors"
	"sync"

	decoratorerrors "styledecor/internal/decorators/errors"
	"styledecor/internal/decorators/repository"
	"styledecor/internal/decorators/validator"
	"styledecor/pkg/config"
	apperrors "styledecor/pkg/errors"
	"styledecor/pkg/events"
	"styledecor/pkg/model"
	"styledecor/pkg/sanitizer"
)

type DecoratorService interface {
	Apply(ctx context.Context, principal string, decorator *model.Decorator) error
	Search(ctx context.Context, filter model.DecoratorFilter, limit int, offset int64) ([]*model.Decorator, int64, error)
	TopRated(ctx context.Context) ([]*model.PublicDecorator, error)
	GetByEmail(ctx context.Context, principal string, email string) (*model.Decorator, error)
	AdjustPending(ctx context.Context, id string, delta int) error
	Review(ctx context.Context, id string, review *model.DecoratorReview) error
	Delete(ctx context.Context, id string) error
}

type decoratorService struct {
	repo      repository.DecoratorRepository
	validator *validator.DecoratorValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewDecoratorService(repo repository.DecoratorRepository, v *validator.DecoratorValidator, publisher events.Publisher, cfg *config.Config) DecoratorService {
	return &decoratorService{
		repo:      repo,
		validator: v,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Apply files a workforce application for the requester's own email.
// Profiles start pending with zeroed task counters regardless of what the
// request carried.
func (s *decoratorService) Apply(ctx context.Context, principal string, decorator *model.Decorator) error {
	if decorator.Email != principal {
		return apperrors.Forbidden("decorators can only apply with their own email")
	}

	decorator.Name = sanitizer.NormalizeName(decorator.Name)
	decorator.Phone = sanitizer.NormalizePhone(decorator.Phone)
	decorator.Location = sanitizer.NormalizeLocation(decorator.Location)
	decorator.Specialty = sanitizer.TrimAndNormalize(decorator.Specialty)
	decorator.Status = model.DecoratorPending
	decorator.Rating = 0
	decorator.TaskCompleted = 0
	decorator.TaskPending = 0

	if err := s.validator.Validate(decorator); err != nil {
		s.cfg.Log.Warn("Decorator validation failed", "email", decorator.Email, "error", err)
		return apperrors.Validation("Decorator validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, decorator); err != nil {
		if errors.Is(err, decoratorerrors.ErrDuplicate) {
			return apperrors.Conflict("an application already exists for this email")
		}
		return apperrors.Internal("Failed to create decorator application", err)
	}

	s.cfg.Log.Info("Decorator application filed", "id", decorator.ID, "email", decorator.Email)
	return nil
}

func (s *decoratorService) Search(ctx context.Context, filter model.DecoratorFilter, limit int, offset int64) ([]*model.Decorator, int64, error) {
	filter.Location = sanitizer.NormalizeLocation(filter.Location)
	limit = config.NormalizePaginationLimit(limit)

	var (
		wg         sync.WaitGroup
		decorators []*model.Decorator
		total      int64
		findErr    error
		countErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		decorators, findErr = s.repo.Search(ctx, filter, limit, offset)
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.repo.CountBySearch(ctx, filter)
	}()
	wg.Wait()

	if findErr != nil {
		return nil, 0, apperrors.Internal("Failed to search decorators", findErr)
	}
	if countErr != nil {
		return nil, 0, apperrors.Internal("Failed to count decorators", countErr)
	}

	return decorators, total, nil
}

func (s *decoratorService) TopRated(ctx context.Context) ([]*model.PublicDecorator, error) {
	decorators, err := s.repo.FindTopAccepted(ctx, config.TopDecoratorsCount)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch top decorators", err)
	}
	return decorators, nil
}

func (s *decoratorService) GetByEmail(ctx context.Context, principal string, email string) (*model.Decorator, error) {
	if email != principal {
		return nil, apperrors.Forbidden("decorators can only view their own profile")
	}

	decorator, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, decoratorerrors.ErrNotFound) {
			return nil, apperrors.NotFound("decorator")
		}
		return nil, apperrors.Internal("Failed to fetch decorator", err)
	}

	return decorator, nil
}

// AdjustPending bumps the pending-task counter. An omitted delta means one
// new assignment.
func (s *decoratorService) AdjustPending(ctx context.Context, id string, delta int) error {
	if delta == 0 {
		delta = 1
	}

	if err := s.repo.IncrementPending(ctx, id, delta); err != nil {
		switch {
		case errors.Is(err, decoratorerrors.ErrNotFound):
			return apperrors.NotFoundWithID("decorator", id)
		case errors.Is(err, decoratorerrors.ErrInvalidID):
			return apperrors.InvalidInput("invalid decorator id")
		default:
			return apperrors.Internal("Failed to adjust pending counter", err)
		}
	}

	s.cfg.Log.Info("Decorator pending counter adjusted", "id", id, "delta", delta)
	return nil
}

// Review records the admin's acceptance decision. Status defaults to
// accepted; counters are overwritten only when the request supplies them.
func (s *decoratorService) Review(ctx context.Context, id string, review *model.DecoratorReview) error {
	if review.Status == "" {
		review.Status = model.DecoratorAccepted
	}

	if err := s.validator.ValidateReview(review); err != nil {
		s.cfg.Log.Warn("Decorator review validation failed", "id", id, "error", err)
		return apperrors.Validation("Decorator review validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.UpdateReview(ctx, id, review); err != nil {
		switch {
		case errors.Is(err, decoratorerrors.ErrNotFound):
			return apperrors.NotFoundWithID("decorator", id)
		case errors.Is(err, decoratorerrors.ErrInvalidID):
			return apperrors.InvalidInput("invalid decorator id")
		default:
			return apperrors.Internal("Failed to update decorator review", err)
		}
	}

	if review.Status == model.DecoratorAccepted {
		event := events.NewEvent(events.TypeDecoratorAccepted, id, map[string]any{
			"decorator_id": id,
		})
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.cfg.Log.Error("Failed to publish decorator accepted event", "id", id, "error", err)
		}
	}

	s.cfg.Log.Info("Decorator reviewed", "id", id, "status", review.Status)
	return nil
}

func (s *decoratorService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, decoratorerrors.ErrNotFound):
			return apperrors.NotFoundWithID("decorator", id)
		case errors.Is(err, decoratorerrors.ErrInvalidID):
			return apperrors.InvalidInput("invalid decorator id")
		default:
			return apperrors.Internal("Failed to delete decorator", err)
		}
	}

	s.cfg.Log.Info("Decorator deleted", "id", id)
	return nil
}
