package service

import (
	"context"
	"errors"
	"sync"

	catalogerrors "styledecor/internal/catalog/errors"
	"styledecor/internal/catalog/repository"
	"styledecor/internal/catalog/validator"
	"styledecor/pkg/config"
	apperrors "styledecor/pkg/errors"
	"styledecor/pkg/model"
	"styledecor/pkg/sanitizer"
)

type CatalogService interface {
	Create(ctx context.Context, service *model.Service) error
	GetByID(ctx context.Context, id string) (*model.Service, error)
	Search(ctx context.Context, filter model.ServiceFilter, limit int, offset int64) ([]*model.Service, int64, error)
	Latest(ctx context.Context) ([]*model.Service, error)
	Update(ctx context.Context, id string, service *model.Service) error
	Delete(ctx context.Context, id string) error
}

type catalogService struct {
	repo      repository.ServiceRepository
	validator *validator.ServiceValidator
	cfg       *config.Config
}

func NewCatalogService(repo repository.ServiceRepository, v *validator.ServiceValidator, cfg *config.Config) CatalogService {
	return &catalogService{
		repo:      repo,
		validator: v,
		cfg:       cfg,
	}
}

func (s *catalogService) Create(ctx context.Context, service *model.Service) error {
	service.Name = sanitizer.TrimAndNormalize(service.Name)
	service.Category = sanitizer.NormalizeCategory(service.Category)
	service.Description = sanitizer.TrimAndNormalize(service.Description)

	if err := s.validator.Validate(service); err != nil {
		s.cfg.Log.Warn("Service validation failed", "error", err)
		return apperrors.Validation("Service validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, service); err != nil {
		return apperrors.Internal("Failed to create service", err)
	}

	s.cfg.Log.Info("Service created", "id", service.ID, "name", service.Name)
	return nil
}

func (s *catalogService) GetByID(ctx context.Context, id string) (*model.Service, error) {
	service, err := s.repo.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, catalogerrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("service", id)
		case errors.Is(err, catalogerrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("invalid service id")
		default:
			return nil, apperrors.Internal("Failed to fetch service", err)
		}
	}
	return service, nil
}

// Search runs the page query and the total count concurrently against
// the same filter so the pagination envelope is consistent.
func (s *catalogService) Search(ctx context.Context, filter model.ServiceFilter, limit int, offset int64) ([]*model.Service, int64, error) {
	filter.Name = sanitizer.TrimAndNormalize(filter.Name)
	filter.Category = sanitizer.NormalizeCategory(filter.Category)

	if err := s.validator.ValidateFilter(filter); err != nil {
		return nil, 0, apperrors.Validation("Service filter validation failed", map[string]any{"error": err.Error()})
	}

	limit = config.NormalizePaginationLimit(limit)

	var (
		wg       sync.WaitGroup
		services []*model.Service
		total    int64
		findErr  error
		countErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		services, findErr = s.repo.Search(ctx, filter, limit, offset)
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.repo.CountBySearch(ctx, filter)
	}()
	wg.Wait()

	if findErr != nil {
		return nil, 0, apperrors.Internal("Failed to search services", findErr)
	}
	if countErr != nil {
		return nil, 0, apperrors.Internal("Failed to count services", countErr)
	}

	return services, total, nil
}

func (s *catalogService) Latest(ctx context.Context) ([]*model.Service, error) {
	services, err := s.repo.FindLatest(ctx, config.LatestServicesCount)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch latest services", err)
	}
	return services, nil
}

func (s *catalogService) Update(ctx context.Context, id string, service *model.Service) error {
	service.Name = sanitizer.TrimAndNormalize(service.Name)
	service.Category = sanitizer.NormalizeCategory(service.Category)
	service.Description = sanitizer.TrimAndNormalize(service.Description)

	if err := s.validator.Validate(service); err != nil {
		s.cfg.Log.Warn("Service validation failed", "id", id, "error", err)
		return apperrors.Validation("Service validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, service); err != nil {
		switch {
		case errors.Is(err, catalogerrors.ErrNotFound):
			return apperrors.NotFoundWithID("service", id)
		case errors.Is(err, catalogerrors.ErrInvalidID):
			return apperrors.InvalidInput("invalid service id")
		default:
			return apperrors.Internal("Failed to update service", err)
		}
	}

	s.cfg.Log.Info("Service updated", "id", id)
	return nil
}

func (s *catalogService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, catalogerrors.ErrNotFound):
			return apperrors.NotFoundWithID("service", id)
		case errors.Is(err, catalogerrors.ErrInvalidID):
			return apperrors.InvalidInput("invalid service id")
		default:
			return apperrors.Internal("Failed to delete service", err)
		}
	}

	s.cfg.Log.Info("Service deleted", "id", id)
	return nil
}
