package provider

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	paymenterrors "styledecor/internal/payments/errors"
	"styledecor/pkg/logger"
)

// StripeProvider adapts Stripe hosted checkout sessions to the
// CheckoutProvider interface.
type StripeProvider struct {
	api          *client.API
	publicDomain string
	log          *logger.Logger
}

func NewStripeProvider(secretKey string, publicDomain string, log *logger.Logger) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeProvider{
		api:          api,
		publicDomain: publicDomain,
		log:          log,
	}
}

func (p *StripeProvider) CreateSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	sessionParams := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(params.ServiceName),
					},
					UnitAmount: stripe.Int64(toMinorUnits(params.Amount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(params.ClientEmail),
		SuccessURL:    stripe.String(p.publicDomain + "/payment/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(p.publicDomain + "/payment/cancelled"),
	}
	sessionParams.Context = ctx
	sessionParams.AddMetadata("booking_id", params.BookingID)
	sessionParams.AddMetadata("service_name", params.ServiceName)

	sess, err := p.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkout session: %w", err)
	}

	p.log.Info("Checkout session opened", "session_id", sess.ID, "booking_id", params.BookingID)

	return fromStripeSession(sess), nil
}

func (p *StripeProvider) GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := p.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return nil, paymenterrors.ErrSessionGone
		}
		return nil, fmt.Errorf("failed to retrieve checkout session: %w", err)
	}

	return fromStripeSession(sess), nil
}

func fromStripeSession(sess *stripe.CheckoutSession) *CheckoutSession {
	return &CheckoutSession{
		ID:            sess.ID,
		URL:           sess.URL,
		PaymentStatus: string(sess.PaymentStatus),
		AmountTotal:   fromMinorUnits(sess.AmountTotal),
		Metadata:      sess.Metadata,
	}
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func fromMinorUnits(amount int64) float64 {
	return float64(amount) / 100
}
