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

	bookingerrors "styledecor/internal/bookings/errors"
	"styledecor/pkg/config"
	"styledecor/pkg/model"
)

const CollectionName = "Bookings"

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindByClient(ctx context.Context, email string, limit int, offset int64) ([]*model.Booking, error)
	CountByClient(ctx context.Context, email string) (int64, error)
	FindByDecorator(ctx context.Context, decoratorID string) ([]*model.Booking, error)
	Search(ctx context.Context, filter model.BookingFilter, limit int, offset int64, dateAsc bool) ([]*model.Booking, error)
	CountBySearch(ctx context.Context, filter model.BookingFilter) (int64, error)
	UpdateInfo(ctx context.Context, id string, update *model.BookingInfoUpdate) error
	Assign(ctx context.Context, id string, decoratorID string) error
	UpdateStatus(ctx context.Context, id string, status string, completedAt *time.Time) error
	MarkPaid(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config, db *mongo.Database) BookingRepository {
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, bookingerrors.ErrInvalidID
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindByClient(ctx context.Context, email string, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"client_email": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find client bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode client bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) CountByClient(ctx context.Context, email string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"client_email": email})
	if err != nil {
		return 0, fmt.Errorf("failed to count client bookings: %w", err)
	}
	return count, nil
}

// FindByDecorator lists a decorator's workload in event-date order so the
// next job comes first.
func (r *mongoBookingRepository) FindByDecorator(ctx context.Context, decoratorID string) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "booking_date", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"assign_to": decoratorID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find decorator bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode decorator bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) Search(ctx context.Context, filter model.BookingFilter, limit int, offset int64, dateAsc bool) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	order := -1
	if dateAsc {
		order = 1
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "booking_date", Value: order}})

	cursor, err := r.collection.Find(ctx, buildSearchFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) CountBySearch(ctx context.Context, filter model.BookingFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildSearchFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings by search: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) UpdateInfo(ctx context.Context, id string, update *model.BookingInfoUpdate) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return bookingerrors.ErrInvalidID
	}

	set := bson.M{}
	if update.Contact != "" {
		set["contact"] = update.Contact
	}
	if update.Location != "" {
		set["location"] = update.Location
	}
	if update.Unit != nil {
		set["unit"] = *update.Unit
	}
	if update.BookingDate != nil {
		set["booking_date"] = *update.BookingDate
	}
	if update.TotalCost != nil {
		set["total_cost"] = *update.TotalCost
	}

	if len(set) == 0 {
		return nil
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update booking info: %w", err)
	}

	if result.MatchedCount == 0 {
		return bookingerrors.ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepository) Assign(ctx context.Context, id string, decoratorID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return bookingerrors.ErrInvalidID
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"assigned":          true,
			"assign_to":         decoratorID,
			"status":            model.StatusAssigned,
			"status_updated_at": time.Now().UTC().Truncate(time.Millisecond),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to assign booking: %w", err)
	}

	if result.MatchedCount == 0 {
		return bookingerrors.ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, status string, completedAt *time.Time) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return bookingerrors.ErrInvalidID
	}

	set := bson.M{
		"status":            status,
		"status_updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}
	if completedAt != nil {
		set["completed_at"] = *completedAt
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if result.MatchedCount == 0 {
		return bookingerrors.ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepository) MarkPaid(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return bookingerrors.ErrInvalidID
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"paid": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark booking paid: %w", err)
	}

	if result.MatchedCount == 0 {
		return bookingerrors.ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return bookingerrors.ErrInvalidID
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if result.DeletedCount == 0 {
		return bookingerrors.ErrNotFound
	}
	return nil
}

func buildSearchFilter(filter model.BookingFilter) bson.M {
	query := bson.M{}
	if filter.Assigned != nil {
		query["assigned"] = *filter.Assigned
	}
	if filter.Paid != nil {
		query["paid"] = *filter.Paid
	}
	return query
}
