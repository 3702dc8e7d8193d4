package service

import (
	"context"
	"testing"
	"time"

	catalogerrors "styledecor/internal/catalog/errors"
	"styledecor/internal/catalog/validator"
	"styledecor/pkg/config"
	apperrors "styledecor/pkg/errors"
	"styledecor/pkg/logger"
	"styledecor/pkg/model"
)

type mockServiceRepository struct {
	createFunc     func(ctx context.Context, service *model.Service) error
	findByIDFunc   func(ctx context.Context, id string) (*model.Service, error)
	searchFunc     func(ctx context.Context, filter model.ServiceFilter, limit int, offset int64) ([]*model.Service, error)
	countFunc      func(ctx context.Context, filter model.ServiceFilter) (int64, error)
	findLatestFunc func(ctx context.Context, limit int) ([]*model.Service, error)
	updateFunc     func(ctx context.Context, id string, service *model.Service) error
	deleteFunc     func(ctx context.Context, id string) error
}

func (m *mockServiceRepository) Create(ctx context.Context, service *model.Service) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, service)
	}
	return nil
}

func (m *mockServiceRepository) FindByID(ctx context.Context, id string) (*model.Service, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, catalogerrors.ErrNotFound
}

func (m *mockServiceRepository) Search(ctx context.Context, filter model.ServiceFilter, limit int, offset int64) ([]*model.Service, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, filter, limit, offset)
	}
	return []*model.Service{}, nil
}

func (m *mockServiceRepository) CountBySearch(ctx context.Context, filter model.ServiceFilter) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, filter)
	}
	return 0, nil
}

func (m *mockServiceRepository) FindLatest(ctx context.Context, limit int) ([]*model.Service, error) {
	if m.findLatestFunc != nil {
		return m.findLatestFunc(ctx, limit)
	}
	return []*model.Service{}, nil
}

func (m *mockServiceRepository) Update(ctx context.Context, id string, service *model.Service) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, service)
	}
	return nil
}

func (m *mockServiceRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
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

func newTestService(repo *mockServiceRepository) CatalogService {
	cfg := testConfig()
	return NewCatalogService(repo, validator.NewServiceValidator(cfg.Log), cfg)
}

func validService() *model.Service {
	return &model.Service{
		Name:        "Wedding Stage Styling",
		Category:    "Wedding",
		Description: "Full stage styling with florals and backdrop lighting.",
		Cost:        450,
		Unit:        "per event",
	}
}

func TestCreateNormalizesAndStores(t *testing.T) {
	var stored *model.Service
	repo := &mockServiceRepository{
		createFunc: func(ctx context.Context, service *model.Service) error {
			stored = service
			return nil
		},
	}
	svc := newTestService(repo)

	s := validService()
	s.Name = "  Wedding   Stage Styling "
	s.Category = "  WEDDING "
	if err := svc.Create(context.Background(), s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil {
		t.Fatal("expected repository insert")
	}
	if stored.Name != "Wedding Stage Styling" {
		t.Errorf("expected normalized name, got %q", stored.Name)
	}
	if stored.Category != "wedding" {
		t.Errorf("expected lowercased category, got %q", stored.Category)
	}
}

func TestCreateRejectsInvalidService(t *testing.T) {
	inserted := false
	repo := &mockServiceRepository{
		createFunc: func(ctx context.Context, service *model.Service) error {
			inserted = true
			return nil
		},
	}
	svc := newTestService(repo)

	s := validService()
	s.Cost = 0
	err := svc.Create(context.Background(), s)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %s", apperrors.AsAppError(err).Code)
	}
	if inserted {
		t.Error("store must not be mutated on validation failure")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := newTestService(&mockServiceRepository{})

	_, err := svc.GetByID(context.Background(), "66b2f8c01f0a2c4d9e8b4567")
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", appErr.Code)
	}
}

func TestSearchReturnsPageAndTotalFromSameFilter(t *testing.T) {
	min, max := 100.0, 500.0
	var searchFilter, countFilter model.ServiceFilter
	repo := &mockServiceRepository{
		searchFunc: func(ctx context.Context, filter model.ServiceFilter, limit int, offset int64) ([]*model.Service, error) {
			searchFilter = filter
			return []*model.Service{validService()}, nil
		},
		countFunc: func(ctx context.Context, filter model.ServiceFilter) (int64, error) {
			countFilter = filter
			return 7, nil
		},
	}
	svc := newTestService(repo)

	services, total, err := svc.Search(context.Background(), model.ServiceFilter{MinCost: &min, MaxCost: &max}, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(services) != 1 || total != 7 {
		t.Errorf("expected 1 service and total 7, got %d and %d", len(services), total)
	}
	if searchFilter.MinCost == nil || *searchFilter.MinCost != min {
		t.Error("search did not receive the min cost bound")
	}
	if countFilter.MaxCost == nil || *countFilter.MaxCost != max {
		t.Error("count did not receive the max cost bound")
	}
}

func TestSearchRejectsInvertedCostRange(t *testing.T) {
	min, max := 500.0, 100.0
	svc := newTestService(&mockServiceRepository{})

	_, _, err := svc.Search(context.Background(), model.ServiceFilter{MinCost: &min, MaxCost: &max}, 10, 0)
	if err == nil {
		t.Fatal("expected validation error for min_cost > max_cost")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestLatestUsesFixedCount(t *testing.T) {
	var gotLimit int
	repo := &mockServiceRepository{
		findLatestFunc: func(ctx context.Context, limit int) ([]*model.Service, error) {
			gotLimit = limit
			return []*model.Service{}, nil
		},
	}
	svc := newTestService(repo)

	if _, err := svc.Latest(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != config.LatestServicesCount {
		t.Errorf("expected limit %d, got %d", config.LatestServicesCount, gotLimit)
	}
}

func TestUpdateNotFound(t *testing.T) {
	repo := &mockServiceRepository{
		updateFunc: func(ctx context.Context, id string, service *model.Service) error {
			return catalogerrors.ErrNotFound
		},
	}
	svc := newTestService(repo)

	err := svc.Update(context.Background(), "66b2f8c01f0a2c4d9e8b4567", validService())
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestDeleteInvalidID(t *testing.T) {
	repo := &mockServiceRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			return catalogerrors.ErrInvalidID
		},
	}
	svc := newTestService(repo)

	err := svc.Delete(context.Background(), "not-an-object-id")
	if err == nil {
		t.Fatal("expected invalid-input error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", apperrors.AsAppError(err).Code)
	}
}
