package service

import (
	"context"
	"testing"
	"time"

	bookingerrors "styledecor/internal/bookings/errors"
	paymenterrors "styledecor/internal/payments/errors"
	"styledecor/internal/payments/provider"
	"styledecor/internal/payments/validator"
	"styledecor/pkg/config"
	"styledecor/pkg/db/mongo"
	apperrors "styledecor/pkg/errors"
	"styledecor/pkg/events"
	"styledecor/pkg/logger"
	"styledecor/pkg/model"
)

type mockPaymentRepository struct {
	createFunc        func(ctx context.Context, payment *model.Payment) error
	existsFunc        func(ctx context.Context, transactionID string) (bool, error)
	findByClientFunc  func(ctx context.Context, email string, limit int, offset int64) ([]*model.Payment, error)
	countByClientFunc func(ctx context.Context, email string) (int64, error)
	created           []*model.Payment
}

func (m *mockPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	if m.createFunc != nil {
		if err := m.createFunc(ctx, payment); err != nil {
			return err
		}
	}
	m.created = append(m.created, payment)
	return nil
}

func (m *mockPaymentRepository) ExistsByTransactionID(ctx context.Context, transactionID string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, transactionID)
	}
	return false, nil
}

func (m *mockPaymentRepository) FindByClient(ctx context.Context, email string, limit int, offset int64) ([]*model.Payment, error) {
	if m.findByClientFunc != nil {
		return m.findByClientFunc(ctx, email, limit, offset)
	}
	return []*model.Payment{}, nil
}

func (m *mockPaymentRepository) CountByClient(ctx context.Context, email string) (int64, error) {
	if m.countByClientFunc != nil {
		return m.countByClientFunc(ctx, email)
	}
	return 0, nil
}

type mockBookingRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Booking, error)
	markedPaid   []string
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingerrors.ErrNotFound
}

func (m *mockBookingRepository) FindByClient(ctx context.Context, email string, limit int, offset int64) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) CountByClient(ctx context.Context, email string) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) FindByDecorator(ctx context.Context, decoratorID string) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) Search(ctx context.Context, filter model.BookingFilter, limit int, offset int64, dateAsc bool) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) CountBySearch(ctx context.Context, filter model.BookingFilter) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) UpdateInfo(ctx context.Context, id string, update *model.BookingInfoUpdate) error {
	return nil
}

func (m *mockBookingRepository) Assign(ctx context.Context, id string, decoratorID string) error {
	return nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status string, completedAt *time.Time) error {
	return nil
}

func (m *mockBookingRepository) MarkPaid(ctx context.Context, id string) error {
	m.markedPaid = append(m.markedPaid, id)
	return nil
}

func (m *mockBookingRepository) Delete(ctx context.Context, id string) error {
	return nil
}

type fakeCheckoutProvider struct {
	createFunc func(ctx context.Context, params provider.CheckoutParams) (*provider.CheckoutSession, error)
	getFunc    func(ctx context.Context, sessionID string) (*provider.CheckoutSession, error)
}

func (f *fakeCheckoutProvider) CreateSession(ctx context.Context, params provider.CheckoutParams) (*provider.CheckoutSession, error) {
	if f.createFunc != nil {
		return f.createFunc(ctx, params)
	}
	return &provider.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.example.com/cs_test_1"}, nil
}

func (f *fakeCheckoutProvider) GetSession(ctx context.Context, sessionID string) (*provider.CheckoutSession, error) {
	if f.getFunc != nil {
		return f.getFunc(ctx, sessionID)
	}
	return nil, paymenterrors.ErrSessionGone
}

type fakeTxManager struct {
	executions int
}

func (f *fakeTxManager) ExecuteTransaction(ctx context.Context, fn mongo.TransactionFunc) error {
	f.executions++
	return fn(nil)
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

type fixture struct {
	payments  *mockPaymentRepository
	bookings  *mockBookingRepository
	provider  *fakeCheckoutProvider
	tx        *fakeTxManager
	publisher *capturingPublisher
	service   PaymentService
}

func newFixture(payments *mockPaymentRepository, bookings *mockBookingRepository, checkout *fakeCheckoutProvider) *fixture {
	cfg := testConfig()
	tx := &fakeTxManager{}
	publisher := &capturingPublisher{}
	svc := NewPaymentService(payments, bookings, checkout, validator.NewPaymentValidator(cfg.Log), tx, publisher, cfg)
	return &fixture{
		payments:  payments,
		bookings:  bookings,
		provider:  checkout,
		tx:        tx,
		publisher: publisher,
		service:   svc,
	}
}

const bookingID = "66b2f8c01f0a2c4d9e8b4567"

func unpaidBooking() *model.Booking {
	return &model.Booking{
		ID:          bookingID,
		ClientEmail: "client@example.com",
		ServiceName: "Wedding Stage Styling",
		TotalCost:   450,
	}
}

func paidSession(id string) *provider.CheckoutSession {
	return &provider.CheckoutSession{
		ID:            id,
		PaymentStatus: provider.StatusPaid,
		AmountTotal:   450,
		Metadata: map[string]string{
			"booking_id":   bookingID,
			"service_name": "Wedding Stage Styling",
		},
	}
}

func TestCreateCheckoutNonOwnerForbidden(t *testing.T) {
	f := newFixture(&mockPaymentRepository{}, &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return unpaidBooking(), nil
		},
	}, &fakeCheckoutProvider{})

	_, err := f.service.CreateCheckout(context.Background(), "other@example.com", &model.CheckoutRequest{BookingID: bookingID})
	if err == nil {
		t.Fatal("expected forbidden error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeForbidden {
		t.Errorf("expected FORBIDDEN, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestCreateCheckoutRejectsPaidBooking(t *testing.T) {
	sessionOpened := false
	f := newFixture(&mockPaymentRepository{}, &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			b := unpaidBooking()
			b.Paid = true
			return b, nil
		},
	}, &fakeCheckoutProvider{
		createFunc: func(ctx context.Context, params provider.CheckoutParams) (*provider.CheckoutSession, error) {
			sessionOpened = true
			return &provider.CheckoutSession{ID: "cs_test_1"}, nil
		},
	})

	_, err := f.service.CreateCheckout(context.Background(), "client@example.com", &model.CheckoutRequest{BookingID: bookingID})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got %s", apperrors.AsAppError(err).Code)
	}
	if sessionOpened {
		t.Error("no session must be opened for a paid booking")
	}
}

func TestCreateCheckoutReturnsRedirect(t *testing.T) {
	var gotParams provider.CheckoutParams
	f := newFixture(&mockPaymentRepository{}, &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return unpaidBooking(), nil
		},
	}, &fakeCheckoutProvider{
		createFunc: func(ctx context.Context, params provider.CheckoutParams) (*provider.CheckoutSession, error) {
			gotParams = params
			return &provider.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.example.com/cs_test_1"}, nil
		},
	})

	result, err := f.service.CreateCheckout(context.Background(), "client@example.com", &model.CheckoutRequest{BookingID: bookingID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SessionID != "cs_test_1" || result.URL == "" {
		t.Error("expected session id and redirect URL")
	}
	if gotParams.BookingID != bookingID || gotParams.Amount != 450 {
		t.Error("expected booking details forwarded to the provider")
	}
}

func TestConfirmPaidSessionRecordsOnce(t *testing.T) {
	payments := &mockPaymentRepository{}
	bookings := &mockBookingRepository{}
	f := newFixture(payments, bookings, &fakeCheckoutProvider{
		getFunc: func(ctx context.Context, sessionID string) (*provider.CheckoutSession, error) {
			return paidSession(sessionID), nil
		},
	})

	result, err := f.service.Confirm(context.Background(), "client@example.com", &model.ConfirmRequest{SessionID: "cs_test_1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Paid || !result.Recorded {
		t.Errorf("expected paid and recorded, got %+v", result)
	}
	if f.tx.executions != 1 {
		t.Errorf("expected one transaction, got %d", f.tx.executions)
	}
	if len(bookings.markedPaid) != 1 || bookings.markedPaid[0] != bookingID {
		t.Error("expected the booking marked paid inside the transaction")
	}
	if len(payments.created) != 1 || payments.created[0].TransactionID != "cs_test_1" {
		t.Error("expected one ledger row keyed by the session id")
	}
	if len(f.publisher.published) != 1 || f.publisher.published[0].Type != events.TypePaymentConfirmed {
		t.Error("expected a payment confirmed event")
	}
}

func TestConfirmUnpaidSessionMutatesNothing(t *testing.T) {
	payments := &mockPaymentRepository{}
	bookings := &mockBookingRepository{}
	f := newFixture(payments, bookings, &fakeCheckoutProvider{
		getFunc: func(ctx context.Context, sessionID string) (*provider.CheckoutSession, error) {
			s := paidSession(sessionID)
			s.PaymentStatus = provider.StatusUnpaid
			return s, nil
		},
	})

	result, err := f.service.Confirm(context.Background(), "client@example.com", &model.ConfirmRequest{SessionID: "cs_test_1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Paid || result.Recorded {
		t.Errorf("expected failure indicator, got %+v", result)
	}
	if f.tx.executions != 0 || len(bookings.markedPaid) != 0 || len(payments.created) != 0 {
		t.Error("an unpaid session must not mutate bookings or the ledger")
	}
	if len(f.publisher.published) != 0 {
		t.Error("no event must be published for an unpaid session")
	}
}

func TestConfirmReplayReturnsSuccessWithoutSecondRow(t *testing.T) {
	payments := &mockPaymentRepository{
		existsFunc: func(ctx context.Context, transactionID string) (bool, error) {
			return true, nil
		},
	}
	bookings := &mockBookingRepository{}
	f := newFixture(payments, bookings, &fakeCheckoutProvider{})

	result, err := f.service.Confirm(context.Background(), "client@example.com", &model.ConfirmRequest{SessionID: "cs_test_1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Paid || result.Recorded {
		t.Errorf("expected paid but not recorded on replay, got %+v", result)
	}
	if f.tx.executions != 0 || len(payments.created) != 0 {
		t.Error("a replayed confirmation must not write a second row")
	}
}

func TestConfirmLosesUniqueIndexRace(t *testing.T) {
	payments := &mockPaymentRepository{
		createFunc: func(ctx context.Context, payment *model.Payment) error {
			return paymenterrors.ErrDuplicate
		},
	}
	f := newFixture(payments, &mockBookingRepository{}, &fakeCheckoutProvider{
		getFunc: func(ctx context.Context, sessionID string) (*provider.CheckoutSession, error) {
			return paidSession(sessionID), nil
		},
	})

	result, err := f.service.Confirm(context.Background(), "client@example.com", &model.ConfirmRequest{SessionID: "cs_test_1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Paid || result.Recorded {
		t.Errorf("expected replay semantics when the unique index rejects, got %+v", result)
	}
	if len(f.publisher.published) != 0 {
		t.Error("no event must be published when another confirmation won")
	}
}

func TestConfirmUnknownSession(t *testing.T) {
	f := newFixture(&mockPaymentRepository{}, &mockBookingRepository{}, &fakeCheckoutProvider{})

	_, err := f.service.Confirm(context.Background(), "client@example.com", &model.ConfirmRequest{SessionID: "cs_missing"})
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestListMineReturnsPageAndTotal(t *testing.T) {
	f := newFixture(&mockPaymentRepository{
		findByClientFunc: func(ctx context.Context, email string, limit int, offset int64) ([]*model.Payment, error) {
			if email != "client@example.com" {
				t.Errorf("expected lookup for the requester, got %s", email)
			}
			return []*model.Payment{{TransactionID: "pi_1", ClientEmail: email}}, nil
		},
		countByClientFunc: func(ctx context.Context, email string) (int64, error) {
			return 12, nil
		},
	}, &mockBookingRepository{}, &fakeCheckoutProvider{})

	payments, total, err := f.service.ListMine(context.Background(), "client@example.com", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payments) != 1 {
		t.Errorf("expected the stored page, got %d payments", len(payments))
	}
	if total != 12 {
		t.Errorf("expected total 12 alongside the page, got %d", total)
	}
}
