package billing

import (
	"context"
	"encoding/json"
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// StripeGateway implements Gateway against the Stripe checkout API.
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway constructs a StripeGateway from a secret API key.
func NewStripeGateway(secretKey string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api}
}

// CreateCheckoutSession opens a subscription-mode checkout session and
// returns its id, redirect URL, provisional invoice id, and full payload.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(params.LineItems))
	for _, item := range params.LineItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(item.PriceID),
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Params:                   stripe.Params{Context: ctx},
		LineItems:                lineItems,
		Mode:                     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:               stripe.String(params.SuccessURL),
		CancelURL:                stripe.String(params.CancelURL),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
	}
	if params.CustomerID != "" {
		sessionParams.Customer = stripe.String(params.CustomerID)
	}

	created, errCreate := g.api.CheckoutSessions.New(sessionParams)
	if errCreate != nil {
		return nil, fmt.Errorf("billing: create checkout session: %w", errCreate)
	}

	payload, errMarshal := json.Marshal(created)
	if errMarshal != nil {
		return nil, fmt.Errorf("billing: marshal session payload: %w", errMarshal)
	}

	invoiceID := ""
	if created.Invoice != nil {
		invoiceID = created.Invoice.ID
	}

	return &CheckoutSession{
		ID:        created.ID,
		URL:       created.URL,
		InvoiceID: invoiceID,
		Payload:   payload,
	}, nil
}
