package service

import (
	"context"
	"errors"
	"sync"
	"time"

	mongodrv "go.mongodb.org/mongo-driver/mongo"

	bookingerrors "styledecor/internal/bookings/errors"
	bookingrepo "styledecor/internal/bookings/repository"
	paymenterrors "styledecor/internal/payments/errors"
	"styledecor/internal/payments/provider"
	"styledecor/internal/payments/repository"
	"styledecor/internal/payments/validator"
	"styledecor/pkg/config"
	"styledecor/pkg/db/mongo"
	apperrors "styledecor/pkg/errors"
	"styledecor/pkg/events"
	"styledecor/pkg/model"
)

type PaymentService interface {
	CreateCheckout(ctx context.Context, principal string, req *model.CheckoutRequest) (*model.CheckoutResult, error)
	Confirm(ctx context.Context, principal string, req *model.ConfirmRequest) (*model.ConfirmResult, error)
	ListMine(ctx context.Context, principal string, limit int, offset int64) ([]*model.Payment, int64, error)
}

type paymentService struct {
	repo        repository.PaymentRepository
	bookingRepo bookingrepo.BookingRepository
	provider    provider.CheckoutProvider
	validator   *validator.PaymentValidator
	txManager   mongo.TransactionManager
	publisher   events.Publisher
	cfg         *config.Config
}

func NewPaymentService(
	repo repository.PaymentRepository,
	bookingRepo bookingrepo.BookingRepository,
	checkoutProvider provider.CheckoutProvider,
	v *validator.PaymentValidator,
	txManager mongo.TransactionManager,
	publisher events.Publisher,
	cfg *config.Config,
) PaymentService {
	return &paymentService{
		repo:        repo,
		bookingRepo: bookingRepo,
		provider:    checkoutProvider,
		validator:   v,
		txManager:   txManager,
		publisher:   publisher,
		cfg:         cfg,
	}
}

// CreateCheckout opens a hosted checkout session for an unpaid booking
// owned by the requester and returns the redirect URL.
func (s *paymentService) CreateCheckout(ctx context.Context, principal string, req *model.CheckoutRequest) (*model.CheckoutResult, error) {
	if err := s.validator.ValidateCheckout(req); err != nil {
		return nil, apperrors.Validation("Checkout validation failed", map[string]any{"error": err.Error()})
	}

	booking, err := s.bookingRepo.FindByID(ctx, req.BookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookingerrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("booking", req.BookingID)
		case errors.Is(err, bookingerrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("invalid booking id")
		default:
			return nil, apperrors.Internal("Failed to fetch booking", err)
		}
	}

	if booking.ClientEmail != principal {
		return nil, apperrors.Forbidden("only the booking owner can pay for it")
	}
	if booking.Paid {
		return nil, apperrors.Conflict("booking is already paid")
	}

	session, err := s.provider.CreateSession(ctx, provider.CheckoutParams{
		BookingID:   booking.ID,
		ServiceName: booking.ServiceName,
		ClientEmail: booking.ClientEmail,
		Amount:      booking.TotalCost,
	})
	if err != nil {
		return nil, apperrors.Internal("Failed to open checkout session", err)
	}

	s.cfg.Log.Info("Checkout session created", "booking_id", booking.ID, "session_id", session.ID)

	return &model.CheckoutResult{
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}

// Confirm settles a checkout session. A paid session flips the booking
// and appends the ledger row in one transaction; the unique index on
// transaction_id makes replays return success without a second row.
func (s *paymentService) Confirm(ctx context.Context, principal string, req *model.ConfirmRequest) (*model.ConfirmResult, error) {
	if err := s.validator.ValidateConfirm(req); err != nil {
		return nil, apperrors.Validation("Confirmation validation failed", map[string]any{"error": err.Error()})
	}

	recorded, err := s.repo.ExistsByTransactionID(ctx, req.SessionID)
	if err != nil {
		return nil, apperrors.Internal("Failed to check payment ledger", err)
	}
	if recorded {
		return &model.ConfirmResult{Paid: true, Recorded: false, Message: "payment already confirmed"}, nil
	}

	session, err := s.provider.GetSession(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, paymenterrors.ErrSessionGone) {
			return nil, apperrors.NotFound("checkout session")
		}
		return nil, apperrors.Internal("Failed to retrieve checkout session", err)
	}

	if session.PaymentStatus != provider.StatusPaid {
		return &model.ConfirmResult{Paid: false, Recorded: false, Message: "payment not completed"}, nil
	}

	payment := &model.Payment{
		ClientEmail:   principal,
		TransactionID: session.ID,
		BookingID:     session.Metadata["booking_id"],
		ServiceName:   session.Metadata["service_name"],
		Status:        session.PaymentStatus,
		Amount:        session.AmountTotal,
		PaidAt:        time.Now().UTC().Truncate(time.Millisecond),
	}

	err = s.txManager.ExecuteTransaction(ctx, func(sessCtx mongodrv.SessionContext) error {
		if err := s.bookingRepo.MarkPaid(sessCtx, payment.BookingID); err != nil {
			return err
		}
		return s.repo.Create(sessCtx, payment)
	})
	if err != nil {
		// A concurrent confirmation won the unique-index race.
		if errors.Is(err, paymenterrors.ErrDuplicate) {
			return &model.ConfirmResult{Paid: true, Recorded: false, Message: "payment already confirmed"}, nil
		}
		if errors.Is(err, bookingerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("booking", payment.BookingID)
		}
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Internal("Failed to record payment", err)
	}

	event := events.NewEvent(events.TypePaymentConfirmed, payment.BookingID, map[string]any{
		"booking_id":     payment.BookingID,
		"transaction_id": payment.TransactionID,
		"amount":         payment.Amount,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Error("Failed to publish payment confirmed event", "booking_id", payment.BookingID, "error", err)
	}

	s.cfg.Log.Info("Payment confirmed", "booking_id", payment.BookingID, "transaction_id", payment.TransactionID)

	return &model.ConfirmResult{Paid: true, Recorded: true, Message: "payment confirmed"}, nil
}

func (s *paymentService) ListMine(ctx context.Context, principal string, limit int, offset int64) ([]*model.Payment, int64, error) {
	limit = config.NormalizePaginationLimit(limit)

	var count int64
	var payments []*model.Payment
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByClient(ctx, principal)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count client payments", "client", principal, "error", errCount)
			errCount = apperrors.Internal("Failed to count client payments", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		payments, errFind = s.repo.FindByClient(ctx, principal, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list client payments", "client", principal, "error", errFind)
			errFind = apperrors.Internal("Failed to list client payments", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return payments, count, nil
}
