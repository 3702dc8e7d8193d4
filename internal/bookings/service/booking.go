package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	mongodrv "go.mongodb.org/mongo-driver/mongo"

	bookingerrors "styledecor/internal/bookings/errors"
	"styledecor/internal/bookings/repository"
	"styledecor/internal/bookings/validator"
	decoratorerrors "styledecor/internal/decorators/errors"
	decoratorrepo "styledecor/internal/decorators/repository"
	"styledecor/pkg/config"
	"styledecor/pkg/db/mongo"
	apperrors "styledecor/pkg/errors"
	"styledecor/pkg/events"
	"styledecor/pkg/model"
	"styledecor/pkg/sanitizer"
)

type BookingService interface {
	Create(ctx context.Context, principal string, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListMine(ctx context.Context, principal string, limit int, offset int64) ([]*model.Booking, int64, error)
	ListByDecorator(ctx context.Context, principal string) ([]*model.Booking, error)
	ListAll(ctx context.Context, filter model.BookingFilter, limit int, offset int64, dateAsc bool) ([]*model.Booking, int64, error)
	UpdateInfo(ctx context.Context, principal string, id string, update *model.BookingInfoUpdate) error
	Assign(ctx context.Context, id string, assignment *model.BookingAssignment) error
	UpdateStatus(ctx context.Context, principal string, id string, update *model.BookingStatusUpdate) error
	Delete(ctx context.Context, principal string, id string) error
}

type bookingService struct {
	repo          repository.BookingRepository
	decoratorRepo decoratorrepo.DecoratorRepository
	validator     *validator.BookingValidator
	txManager     mongo.TransactionManager
	publisher     events.Publisher
	cfg           *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	decoratorRepo decoratorrepo.DecoratorRepository,
	v *validator.BookingValidator,
	txManager mongo.TransactionManager,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:          repo,
		decoratorRepo: decoratorRepo,
		validator:     v,
		txManager:     txManager,
		publisher:     publisher,
		cfg:           cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, principal string, booking *model.Booking) error {
	if booking.ClientEmail != principal {
		return apperrors.Forbidden("clients can only book for their own email")
	}

	booking.Contact = sanitizer.NormalizePhone(booking.Contact)
	booking.Location = sanitizer.NormalizeLocation(booking.Location)
	booking.Assigned = false
	booking.AssignTo = ""
	booking.Status = ""
	booking.Paid = false
	booking.CompletedAt = nil

	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return apperrors.Internal("Failed to create booking", err)
	}

	s.publish(ctx, events.TypeBookingCreated, booking.ID, map[string]any{
		"booking_id":   booking.ID,
		"client_email": booking.ClientEmail,
		"service_name": booking.ServiceName,
	})

	s.cfg.Log.Info("Booking created", "id", booking.ID, "client", booking.ClientEmail)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapBookingError(err, id, "fetch")
	}
	return booking, nil
}

func (s *bookingService) ListMine(ctx context.Context, principal string, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByClient(ctx, principal)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count client bookings", "client", principal, "error", errCount)
			errCount = apperrors.Internal("Failed to count client bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByClient(ctx, principal, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list client bookings", "client", principal, "error", errFind)
			errFind = apperrors.Internal("Failed to list client bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// ListByDecorator resolves the requester's workforce profile and returns
// the bookings assigned to it, soonest event first.
func (s *bookingService) ListByDecorator(ctx context.Context, principal string) ([]*model.Booking, error) {
	decorator, err := s.decoratorRepo.FindByEmail(ctx, principal)
	if err != nil {
		if errors.Is(err, decoratorerrors.ErrNotFound) {
			return nil, apperrors.NotFound("decorator profile")
		}
		return nil, apperrors.Internal("Failed to resolve decorator profile", err)
	}

	bookings, err := s.repo.FindByDecorator(ctx, decorator.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to list decorator bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) ListAll(ctx context.Context, filter model.BookingFilter, limit int, offset int64, dateAsc bool) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)

	var (
		wg       sync.WaitGroup
		bookings []*model.Booking
		total    int64
		findErr  error
		countErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		bookings, findErr = s.repo.Search(ctx, filter, limit, offset, dateAsc)
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.repo.CountBySearch(ctx, filter)
	}()
	wg.Wait()

	if findErr != nil {
		return nil, 0, apperrors.Internal("Failed to search bookings", findErr)
	}
	if countErr != nil {
		return nil, 0, apperrors.Internal("Failed to count bookings", countErr)
	}

	return bookings, total, nil
}

// UpdateInfo edits client-facing details. Only the owner may edit, and
// only before a decorator is assigned.
func (s *bookingService) UpdateInfo(ctx context.Context, principal string, id string, update *model.BookingInfoUpdate) error {
	if update.Contact != "" {
		update.Contact = sanitizer.NormalizePhone(update.Contact)
		if update.Contact == "" {
			return apperrors.Validation("Booking update validation failed", map[string]any{
				"error": "contact must be a valid phone number",
			})
		}
	}
	if update.Location != "" {
		update.Location = sanitizer.NormalizeLocation(update.Location)
	}

	if err := s.validator.ValidateInfoUpdate(update); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return apperrors.Validation("Booking update validation failed", map[string]any{"error": err.Error()})
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapBookingError(err, id, "fetch")
	}

	if booking.ClientEmail != principal {
		return apperrors.Forbidden("only the booking owner can edit it")
	}
	if booking.Assigned {
		return apperrors.Conflict("booking details are locked once a decorator is assigned")
	}

	if err := s.repo.UpdateInfo(ctx, id, update); err != nil {
		return mapBookingError(err, id, "update")
	}

	s.cfg.Log.Info("Booking info updated", "id", id)
	return nil
}

// Assign pairs a booking with an accepted decorator. The booking write
// and the decorator's pending counter move in one transaction.
func (s *bookingService) Assign(ctx context.Context, id string, assignment *model.BookingAssignment) error {
	if err := s.validator.ValidateAssignment(assignment); err != nil {
		s.cfg.Log.Warn("Booking assignment validation failed", "id", id, "error", err)
		return apperrors.Validation("Booking assignment validation failed", map[string]any{"error": err.Error()})
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapBookingError(err, id, "fetch")
	}
	if booking.Assigned {
		return apperrors.Conflict("booking is already assigned")
	}

	decorator, err := s.decoratorRepo.FindByID(ctx, assignment.DecoratorID)
	if err != nil {
		switch {
		case errors.Is(err, decoratorerrors.ErrNotFound):
			return apperrors.NotFoundWithID("decorator", assignment.DecoratorID)
		case errors.Is(err, decoratorerrors.ErrInvalidID):
			return apperrors.InvalidInput("invalid decorator id")
		default:
			return apperrors.Internal("Failed to fetch decorator", err)
		}
	}
	if decorator.Status != model.DecoratorAccepted {
		return apperrors.Conflict("decorator has not been accepted yet")
	}

	err = s.txManager.ExecuteTransaction(ctx, func(sessCtx mongodrv.SessionContext) error {
		if err := s.repo.Assign(sessCtx, id, decorator.ID); err != nil {
			return err
		}
		return s.decoratorRepo.IncrementPending(sessCtx, decorator.ID, 1)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.Internal("Failed to assign booking", err)
	}

	s.publish(ctx, events.TypeBookingAssigned, id, map[string]any{
		"booking_id":   id,
		"decorator_id": decorator.ID,
	})

	s.cfg.Log.Info("Booking assigned", "id", id, "decorator", decorator.ID)
	return nil
}

// UpdateStatus moves a booking through the workflow. Only the assigned
// decorator may move it, Completed is terminal, and completion updates
// the decorator's task counters atomically with the status write.
func (s *bookingService) UpdateStatus(ctx context.Context, principal string, id string, update *model.BookingStatusUpdate) error {
	if !model.IsAllowedStatus(update.Status) {
		s.cfg.Log.Warn("Booking status not in allow-list", "id", id, "status", update.Status)
		return apperrors.InvalidInput("Status must be one of: " + strings.Join(model.AllowedStatuses, ", "))
	}
	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		s.cfg.Log.Warn("Booking status validation failed", "id", id, "status", update.Status, "error", err)
		return apperrors.Validation("Booking status validation failed", map[string]any{"error": err.Error()})
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapBookingError(err, id, "fetch")
	}
	if booking.Status == model.StatusCompleted {
		return apperrors.Conflict("completed bookings cannot change status")
	}
	if !booking.Assigned {
		return apperrors.Conflict("booking has no decorator assigned")
	}

	decorator, err := s.decoratorRepo.FindByEmail(ctx, principal)
	if err != nil {
		if errors.Is(err, decoratorerrors.ErrNotFound) {
			return apperrors.Forbidden("only the assigned decorator can update booking status")
		}
		return apperrors.Internal("Failed to resolve decorator profile", err)
	}
	if booking.AssignTo != decorator.ID {
		return apperrors.Forbidden("only the assigned decorator can update booking status")
	}

	completed := update.Status == model.StatusCompleted

	var completedAt *time.Time
	if completed {
		now := time.Now().UTC().Truncate(time.Millisecond)
		completedAt = &now
	}

	err = s.txManager.ExecuteTransaction(ctx, func(sessCtx mongodrv.SessionContext) error {
		if err := s.repo.UpdateStatus(sessCtx, id, update.Status, completedAt); err != nil {
			return err
		}
		if completed {
			return s.decoratorRepo.IncrementCompletion(sessCtx, booking.AssignTo)
		}
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.Internal("Failed to update booking status", err)
	}

	s.publish(ctx, events.TypeBookingStatusChanged, id, map[string]any{
		"booking_id": id,
		"status":     update.Status,
	})
	if completed {
		s.publish(ctx, events.TypeBookingCompleted, id, map[string]any{
			"booking_id":   id,
			"decorator_id": booking.AssignTo,
		})
	}

	s.cfg.Log.Info("Booking status updated", "id", id, "status", update.Status)
	return nil
}

func (s *bookingService) Delete(ctx context.Context, principal string, id string) error {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapBookingError(err, id, "fetch")
	}

	if booking.ClientEmail != principal {
		return apperrors.Forbidden("only the booking owner can delete it")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapBookingError(err, id, "delete")
	}

	s.cfg.Log.Info("Booking deleted", "id", id)
	return nil
}

func (s *bookingService) publish(ctx context.Context, eventType, bookingID string, payload map[string]any) {
	event := events.NewEvent(eventType, bookingID, payload)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Error("Failed to publish booking event", "type", eventType, "id", bookingID, "error", err)
	}
}

func mapBookingError(err error, id string, op string) error {
	switch {
	case errors.Is(err, bookingerrors.ErrNotFound):
		return apperrors.NotFoundWithID("booking", id)
	case errors.Is(err, bookingerrors.ErrInvalidID):
		return apperrors.InvalidInput("invalid booking id")
	default:
		return apperrors.Internal("Failed to "+op+" booking", err)
	}
}
