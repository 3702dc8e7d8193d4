package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	paymenterrors "styledecor/internal/payments/errors"
	"styledecor/pkg/config"
	"styledecor/pkg/model"
)

const CollectionName = "Payments"

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	ExistsByTransactionID(ctx context.Context, transactionID string) (bool, error)
	FindByClient(ctx context.Context, email string, limit int, offset int64) ([]*model.Payment, error)
	CountByClient(ctx context.Context, email string) (int64, error)
}

type mongoPaymentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoPaymentRepository(cfg *config.Config, db *mongo.Database) PaymentRepository {
	return &mongoPaymentRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoPaymentRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// Create appends a ledger row. The unique index on transaction_id turns a
// replayed confirmation into ErrDuplicate instead of a second row.
func (r *mongoPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, payment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return paymenterrors.ErrDuplicate
		}
		return fmt.Errorf("failed to record payment: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		payment.ID = oid.Hex()
	}
	return nil
}

func (r *mongoPaymentRepository) ExistsByTransactionID(ctx context.Context, transactionID string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"transaction_id": transactionID})
	if err != nil {
		return false, fmt.Errorf("failed to check payment existence: %w", err)
	}
	return count > 0, nil
}

func (r *mongoPaymentRepository) FindByClient(ctx context.Context, email string, limit int, offset int64) ([]*model.Payment, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "paid_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"client_email": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find client payments: %w", err)
	}
	defer cursor.Close(ctx)

	var payments []*model.Payment
	if err = cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("failed to decode client payments: %w", err)
	}

	return payments, nil
}

func (r *mongoPaymentRepository) CountByClient(ctx context.Context, email string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"client_email": email})
	if err != nil {
		return 0, fmt.Errorf("failed to count client payments: %w", err)
	}
	return count, nil
}
