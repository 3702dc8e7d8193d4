package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	catalogerrors "styledecor/internal/catalog/errors"
	"styledecor/pkg/config"
	"styledecor/pkg/model"
)

const CollectionName = "Services"

type ServiceRepository interface {
	Create(ctx context.Context, service *model.Service) error
	FindByID(ctx context.Context, id string) (*model.Service, error)
	Search(ctx context.Context, filter model.ServiceFilter, limit int, offset int64) ([]*model.Service, error)
	CountBySearch(ctx context.Context, filter model.ServiceFilter) (int64, error)
	FindLatest(ctx context.Context, limit int) ([]*model.Service, error)
	Update(ctx context.Context, id string, service *model.Service) error
	Delete(ctx context.Context, id string) error
}

type mongoServiceRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoServiceRepository(cfg *config.Config, db *mongo.Database) ServiceRepository {
	return &mongoServiceRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoServiceRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoServiceRepository) Create(ctx context.Context, service *model.Service) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	service.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, service)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		service.ID = oid.Hex()
	}
	return nil
}

func (r *mongoServiceRepository) FindByID(ctx context.Context, id string) (*model.Service, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, catalogerrors.ErrInvalidID
	}

	var service model.Service
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&service)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find service: %w", err)
	}

	return &service, nil
}

func (r *mongoServiceRepository) Search(ctx context.Context, filter model.ServiceFilter, limit int, offset int64) ([]*model.Service, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(buildSearchSort(filter))

	cursor, err := r.collection.Find(ctx, buildSearchFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []*model.Service
	if err = cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}

	return services, nil
}

func (r *mongoServiceRepository) CountBySearch(ctx context.Context, filter model.ServiceFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildSearchFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count services by search: %w", err)
	}
	return count, nil
}

func (r *mongoServiceRepository) FindLatest(ctx context.Context, limit int) ([]*model.Service, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find latest services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []*model.Service
	if err = cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode latest services: %w", err)
	}

	return services, nil
}

func (r *mongoServiceRepository) Update(ctx context.Context, id string, service *model.Service) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return catalogerrors.ErrInvalidID
	}

	update := bson.M{"$set": bson.M{
		"name":        service.Name,
		"category":    service.Category,
		"description": service.Description,
		"cost":        service.Cost,
		"unit":        service.Unit,
		"rating":      service.Rating,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}

	if result.MatchedCount == 0 {
		return catalogerrors.ErrNotFound
	}
	return nil
}

func (r *mongoServiceRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return catalogerrors.ErrInvalidID
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}

	if result.DeletedCount == 0 {
		return catalogerrors.ErrNotFound
	}
	return nil
}

// buildSearchFilter turns the optional catalog filters into a Mongo
// query. Each absent field omits its clause entirely, so the filters
// combine independently.
func buildSearchFilter(filter model.ServiceFilter) bson.M {
	query := bson.M{}

	if filter.Name != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(filter.Name), "$options": "i"}
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	if filter.HasCostBound() {
		costFilter := bson.M{}
		if filter.MinCost != nil {
			costFilter["$gte"] = *filter.MinCost
		}
		if filter.MaxCost != nil {
			costFilter["$lte"] = *filter.MaxCost
		}
		query["cost"] = costFilter
	}

	return query
}

// A cost bound implies the caller is budget shopping, so the listing
// flips from newest-first to cheapest-first.
func buildSearchSort(filter model.ServiceFilter) bson.D {
	if filter.HasCostBound() {
		return bson.D{{Key: "cost", Value: 1}}
	}
	return bson.D{{Key: "created_at", Value: -1}}
}
