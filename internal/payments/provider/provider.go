package provider

import "context"

// Payment status values reported by the checkout provider.
const (
	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"
)

// CheckoutParams describes the purchase a session is opened for. Amount
// is in major currency units; adapters convert as their provider needs.
type CheckoutParams struct {
	BookingID   string
	ServiceName string
	ClientEmail string
	Amount      float64
}

// CheckoutSession is the provider-neutral view of a hosted checkout
// session.
type CheckoutSession struct {
	ID            string
	URL           string
	PaymentStatus string
	AmountTotal   float64
	Metadata      map[string]string
}

// CheckoutProvider opens and retrieves hosted checkout sessions. The
// production adapter talks to Stripe; tests substitute a fake.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}
