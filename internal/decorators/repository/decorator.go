package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	decoratorerrors "styledecor/internal/decorators/errors"
	"styledecor/pkg/config"
	"styledecor/pkg/model"
)

const CollectionName = "Decorators"

type DecoratorRepository interface {
	Create(ctx context.Context, decorator *model.Decorator) error
	FindByID(ctx context.Context, id string) (*model.Decorator, error)
	FindByEmail(ctx context.Context, email string) (*model.Decorator, error)
	Search(ctx context.Context, filter model.DecoratorFilter, limit int, offset int64) ([]*model.Decorator, error)
	CountBySearch(ctx context.Context, filter model.DecoratorFilter) (int64, error)
	FindTopAccepted(ctx context.Context, limit int) ([]*model.PublicDecorator, error)
	UpdateReview(ctx context.Context, id string, review *model.DecoratorReview) error
	IncrementPending(ctx context.Context, id string, delta int) error
	IncrementCompletion(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type mongoDecoratorRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoDecoratorRepository(cfg *config.Config, db *mongo.Database) DecoratorRepository {
	return &mongoDecoratorRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoDecoratorRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoDecoratorRepository) Create(ctx context.Context, decorator *model.Decorator) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	decorator.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, decorator)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return decoratorerrors.ErrDuplicate
		}
		return fmt.Errorf("failed to create decorator: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		decorator.ID = oid.Hex()
	}
	return nil
}

func (r *mongoDecoratorRepository) FindByID(ctx context.Context, id string) (*model.Decorator, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, decoratorerrors.ErrInvalidID
	}

	var decorator model.Decorator
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&decorator)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, decoratorerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find decorator: %w", err)
	}

	return &decorator, nil
}

func (r *mongoDecoratorRepository) FindByEmail(ctx context.Context, email string) (*model.Decorator, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var decorator model.Decorator
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&decorator)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, decoratorerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find decorator by email: %w", err)
	}

	return &decorator, nil
}

func (r *mongoDecoratorRepository) Search(ctx context.Context, filter model.DecoratorFilter, limit int, offset int64) ([]*model.Decorator, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, buildSearchFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find decorators: %w", err)
	}
	defer cursor.Close(ctx)

	var decorators []*model.Decorator
	if err = cursor.All(ctx, &decorators); err != nil {
		return nil, fmt.Errorf("failed to decode decorators: %w", err)
	}

	return decorators, nil
}

func (r *mongoDecoratorRepository) CountBySearch(ctx context.Context, filter model.DecoratorFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildSearchFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count decorators by search: %w", err)
	}
	return count, nil
}

// FindTopAccepted serves the public landing strip: accepted profiles
// ranked by rating, then delivery record, then tenure. Contact fields are
// projected away before the data leaves the repository.
func (r *mongoDecoratorRepository) FindTopAccepted(ctx context.Context, limit int) ([]*model.PublicDecorator, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{
			{Key: "rating", Value: -1},
			{Key: "task_completed", Value: -1},
			{Key: "experience_years", Value: -1},
		}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{
			"name":             1,
			"location":         1,
			"specialty":        1,
			"experience_years": 1,
			"rating":           1,
			"task_completed":   1,
		})

	cursor, err := r.collection.Find(ctx, bson.M{"status": model.DecoratorAccepted}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find top decorators: %w", err)
	}
	defer cursor.Close(ctx)

	var decorators []*model.PublicDecorator
	if err = cursor.All(ctx, &decorators); err != nil {
		return nil, fmt.Errorf("failed to decode top decorators: %w", err)
	}

	return decorators, nil
}

func (r *mongoDecoratorRepository) UpdateReview(ctx context.Context, id string, review *model.DecoratorReview) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return decoratorerrors.ErrInvalidID
	}

	set := bson.M{"status": review.Status}
	if review.TaskCompleted != nil {
		set["task_completed"] = *review.TaskCompleted
	}
	if review.TaskPending != nil {
		set["task_pending"] = *review.TaskPending
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update decorator review: %w", err)
	}

	if result.MatchedCount == 0 {
		return decoratorerrors.ErrNotFound
	}
	return nil
}

func (r *mongoDecoratorRepository) IncrementPending(ctx context.Context, id string, delta int) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return decoratorerrors.ErrInvalidID
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"task_pending": delta}},
	)
	if err != nil {
		return fmt.Errorf("failed to adjust pending counter: %w", err)
	}

	if result.MatchedCount == 0 {
		return decoratorerrors.ErrNotFound
	}
	return nil
}

// IncrementCompletion moves one task from pending to completed. Runs
// inside the completion transaction alongside the booking status write.
func (r *mongoDecoratorRepository) IncrementCompletion(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return decoratorerrors.ErrInvalidID
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"task_completed": 1, "task_pending": -1}},
	)
	if err != nil {
		return fmt.Errorf("failed to record task completion: %w", err)
	}

	if result.MatchedCount == 0 {
		return decoratorerrors.ErrNotFound
	}
	return nil
}

func (r *mongoDecoratorRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return decoratorerrors.ErrInvalidID
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete decorator: %w", err)
	}

	if result.DeletedCount == 0 {
		return decoratorerrors.ErrNotFound
	}
	return nil
}

func buildSearchFilter(filter model.DecoratorFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Location != "" {
		query["location"] = filter.Location
	}
	return query
}
