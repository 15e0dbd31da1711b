package payment

import "context"

// CheckoutSession is what the provider hands back after initializing a
// hosted payment.
type CheckoutSession struct {
	CheckoutURL string
	TxRef       string
}

// VerifiedTransaction is the provider's authoritative record of a
// transaction, fetched server-to-server.
type VerifiedTransaction struct {
	TxRef    string
	Amount   float64
	Currency string
	Paid     bool
}

// Gateway abstracts the hosted payment provider. A nil Gateway puts the
// payment service in degraded mode: records are kept and confirmed manually,
// but no checkout sessions are created and callbacks are rejected.
type Gateway interface {
	Initialize(ctx context.Context, txRef string, amount float64, email string) (*CheckoutSession, error)
	Verify(ctx context.Context, txRef string) (*VerifiedTransaction, error)
}
