package service

import (
	"context"
	"testing"
	"time"

	decoratorerrors "styledecor/internal/decorators/errors"
	"styledecor/internal/decorators/validator"
	"styledecor/pkg/config"
	apperrors "styledecor/pkg/errors"
	"styledecor/pkg/events"
	"styledecor/pkg/logger"
	"styledecor/pkg/model"
)

type mockDecoratorRepository struct {
	createFunc          func(ctx context.Context, decorator *model.Decorator) error
	findByEmailFunc     func(ctx context.Context, email string) (*model.Decorator, error)
	findTopFunc         func(ctx context.Context, limit int) ([]*model.PublicDecorator, error)
	updateReviewFunc    func(ctx context.Context, id string, review *model.DecoratorReview) error
	incrementPendFunc   func(ctx context.Context, id string, delta int) error
	incrementCompleFunc func(ctx context.Context, id string) error
}

func (m *mockDecoratorRepository) Create(ctx context.Context, decorator *model.Decorator) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, decorator)
	}
	return nil
}

func (m *mockDecoratorRepository) FindByID(ctx context.Context, id string) (*model.Decorator, error) {
	return nil, decoratorerrors.ErrNotFound
}

func (m *mockDecoratorRepository) FindByEmail(ctx context.Context, email string) (*model.Decorator, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, decoratorerrors.ErrNotFound
}

func (m *mockDecoratorRepository) Search(ctx context.Context, filter model.DecoratorFilter, limit int, offset int64) ([]*model.Decorator, error) {
	return []*model.Decorator{}, nil
}

func (m *mockDecoratorRepository) CountBySearch(ctx context.Context, filter model.DecoratorFilter) (int64, error) {
	return 0, nil
}

func (m *mockDecoratorRepository) FindTopAccepted(ctx context.Context, limit int) ([]*model.PublicDecorator, error) {
	if m.findTopFunc != nil {
		return m.findTopFunc(ctx, limit)
	}
	return []*model.PublicDecorator{}, nil
}

func (m *mockDecoratorRepository) UpdateReview(ctx context.Context, id string, review *model.DecoratorReview) error {
	if m.updateReviewFunc != nil {
		return m.updateReviewFunc(ctx, id, review)
	}
	return nil
}

func (m *mockDecoratorRepository) IncrementPending(ctx context.Context, id string, delta int) error {
	if m.incrementPendFunc != nil {
		return m.incrementPendFunc(ctx, id, delta)
	}
	return nil
}

func (m *mockDecoratorRepository) IncrementCompletion(ctx context.Context, id string) error {
	if m.incrementCompleFunc != nil {
		return m.incrementCompleFunc(ctx, id)
	}
	return nil
}

func (m *mockDecoratorRepository) Delete(ctx context.Context, id string) error {
	return nil
}

type capturingPublisher struct {
	published []events.Event
}

func (p *capturingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Log:          logger.New(logger.Config{Level: "error", Service: "test"}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func newTestService(repo *mockDecoratorRepository, publisher events.Publisher) DecoratorService {
	cfg := testConfig()
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return NewDecoratorService(repo, validator.NewDecoratorValidator(cfg.Log), publisher, cfg)
}

func validApplication() *model.Decorator {
	return &model.Decorator{
		Name:      "Amal Rahman",
		Email:     "worker@example.com",
		Phone:     "+12125550123",
		Location:  "Dhaka",
		Specialty: "Stage florals",
	}
}

func TestApplyResetsStatusAndCounters(t *testing.T) {
	var stored *model.Decorator
	repo := &mockDecoratorRepository{
		createFunc: func(ctx context.Context, decorator *model.Decorator) error {
			stored = decorator
			return nil
		},
	}
	svc := newTestService(repo, nil)

	app := validApplication()
	app.Status = model.DecoratorAccepted
	app.Rating = 5
	app.TaskCompleted = 40
	app.TaskPending = 3

	if err := svc.Apply(context.Background(), "worker@example.com", app); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil {
		t.Fatal("expected repository insert")
	}
	if stored.Status != model.DecoratorPending {
		t.Errorf("expected pending status, got %s", stored.Status)
	}
	if stored.Rating != 0 || stored.TaskCompleted != 0 || stored.TaskPending != 0 {
		t.Error("expected counters and rating reset on application")
	}
}

func TestApplyForeignEmailForbidden(t *testing.T) {
	inserted := false
	repo := &mockDecoratorRepository{
		createFunc: func(ctx context.Context, decorator *model.Decorator) error {
			inserted = true
			return nil
		},
	}
	svc := newTestService(repo, nil)

	err := svc.Apply(context.Background(), "worker@example.com", &model.Decorator{Email: "other@example.com"})
	if err == nil {
		t.Fatal("expected forbidden error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeForbidden {
		t.Errorf("expected FORBIDDEN, got %s", apperrors.AsAppError(err).Code)
	}
	if inserted {
		t.Error("store must not be mutated on forbidden application")
	}
}

func TestApplyRejectsInvalidPhone(t *testing.T) {
	svc := newTestService(&mockDecoratorRepository{}, nil)

	app := validApplication()
	app.Phone = "not a phone"
	err := svc.Apply(context.Background(), "worker@example.com", app)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestTopRatedUsesFixedCap(t *testing.T) {
	var gotLimit int
	repo := &mockDecoratorRepository{
		findTopFunc: func(ctx context.Context, limit int) ([]*model.PublicDecorator, error) {
			gotLimit = limit
			return []*model.PublicDecorator{}, nil
		},
	}
	svc := newTestService(repo, nil)

	if _, err := svc.TopRated(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != config.TopDecoratorsCount {
		t.Errorf("expected cap %d, got %d", config.TopDecoratorsCount, gotLimit)
	}
}

func TestGetByEmailSelfOnly(t *testing.T) {
	svc := newTestService(&mockDecoratorRepository{}, nil)

	_, err := svc.GetByEmail(context.Background(), "worker@example.com", "other@example.com")
	if err == nil {
		t.Fatal("expected forbidden error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeForbidden {
		t.Errorf("expected FORBIDDEN, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestAdjustPendingDefaultsToOne(t *testing.T) {
	var gotDelta int
	repo := &mockDecoratorRepository{
		incrementPendFunc: func(ctx context.Context, id string, delta int) error {
			gotDelta = delta
			return nil
		},
	}
	svc := newTestService(repo, nil)

	if err := svc.AdjustPending(context.Background(), "66b2f8c01f0a2c4d9e8b4567", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotDelta != 1 {
		t.Errorf("expected default delta 1, got %d", gotDelta)
	}
}

func TestReviewDefaultsToAcceptedAndPublishes(t *testing.T) {
	var gotReview *model.DecoratorReview
	repo := &mockDecoratorRepository{
		updateReviewFunc: func(ctx context.Context, id string, review *model.DecoratorReview) error {
			gotReview = review
			return nil
		},
	}
	publisher := &capturingPublisher{}
	svc := newTestService(repo, publisher)

	if err := svc.Review(context.Background(), "66b2f8c01f0a2c4d9e8b4567", &model.DecoratorReview{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotReview.Status != model.DecoratorAccepted {
		t.Errorf("expected default accepted status, got %s", gotReview.Status)
	}
	if gotReview.TaskCompleted != nil || gotReview.TaskPending != nil {
		t.Error("omitted counters must stay nil so stored values survive")
	}
	if len(publisher.published) != 1 || publisher.published[0].Type != events.TypeDecoratorAccepted {
		t.Error("expected a decorator accepted event")
	}
}

func TestReviewPendingDoesNotPublish(t *testing.T) {
	publisher := &capturingPublisher{}
	svc := newTestService(&mockDecoratorRepository{}, publisher)

	review := &model.DecoratorReview{Status: model.DecoratorPending}
	if err := svc.Review(context.Background(), "66b2f8c01f0a2c4d9e8b4567", review); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(publisher.published) != 0 {
		t.Error("pending review must not publish an acceptance event")
	}
}

func TestReviewUnknownDecorator(t *testing.T) {
	repo := &mockDecoratorRepository{
		updateReviewFunc: func(ctx context.Context, id string, review *model.DecoratorReview) error {
			return decoratorerrors.ErrNotFound
		},
	}
	svc := newTestService(repo, nil)

	err := svc.Review(context.Background(), "66b2f8c01f0a2c4d9e8b4567", &model.DecoratorReview{})
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", apperrors.AsAppError(err).Code)
	}
}
