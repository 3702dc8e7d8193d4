package model

import "time"

// Payment is an append-only ledger row written once per confirmed
// checkout session. TransactionID is the provider session id and is
// unique-indexed, which is what makes confirmation idempotent.
type Payment struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty"`
	ClientEmail   string    `json:"client_email" bson:"client_email"`
	TransactionID string    `json:"transaction_id" bson:"transaction_id"`
	BookingID     string    `json:"booking_id" bson:"booking_id"`
	ServiceName   string    `json:"service_name" bson:"service_name"`
	Status        string    `json:"status" bson:"status"`
	Amount        float64   `json:"amount" bson:"amount"`
	PaidAt        time.Time `json:"paid_at" bson:"paid_at"`
}

type CheckoutRequest struct {
	BookingID string `json:"booking_id" validate:"required,mongodb"`
}

type ConfirmRequest struct {
	SessionID string `json:"session_id" validate:"required,min=1"`
}

// CheckoutResult carries the provider redirect URL back to the client.
type CheckoutResult struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// ConfirmResult reports whether the session was paid and whether this
// call recorded the ledger row (false when replayed).
type ConfirmResult struct {
	Paid     bool   `json:"paid"`
	Recorded bool   `json:"recorded"`
	Message  string `json:"message"`
}
