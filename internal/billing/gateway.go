// Package billing opens payment-gateway checkout sessions and maps
// product codes to gateway prices.
package billing

import "context"

// LineItem is one priced entry of a checkout session.
type LineItem struct {
	PriceID  string
	Quantity int64
}

// CheckoutParams describe one checkout session to open.
type CheckoutParams struct {
	LineItems  []LineItem
	CustomerID string // Gateway customer to reuse; empty for new customers.
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the gateway's view of an opened session.
type CheckoutSession struct {
	ID        string // Gateway session identifier, unique per attempt.
	URL       string // Hosted checkout redirect URL.
	InvoiceID string // Provisional invoice id; empty until finalized.
	Payload   []byte // Full session payload, stored opaque.
}

// Gateway opens checkout sessions in subscription mode.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
}
