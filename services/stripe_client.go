package services

import (
	"strings"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"github.com/stripe/stripe-go/v80/transfer"
	"github.com/stripe/stripe-go/v80/webhook"
)

// PaymentIntentResult carries the identifiers a client needs to complete
// a Stripe payment.
type PaymentIntentResult struct {
	ID           string
	ClientSecret string
}

// PaymentGateway abstracts the Stripe operations used by wallet flows.
// Amounts are in minor units (cents).
type PaymentGateway interface {
	CreatePaymentIntent(amountMinor int64, currency string, metadata map[string]string) (*PaymentIntentResult, error)
	CreateTransfer(amountMinor int64, currency, destination string, metadata map[string]string) (string, error)
}

// StripeClient implements PaymentGateway against the Stripe API.
type StripeClient struct {
	webhookSecret string
}

// NewStripeClient configures the global Stripe key and returns a client.
func NewStripeClient(apiKey, webhookSecret string) *StripeClient {
	stripe.Key = apiKey
	return &StripeClient{webhookSecret: webhookSecret}
}

// CreatePaymentIntent creates a payment intent for a wallet deposit.
func (c *StripeClient) CreatePaymentIntent(amountMinor int64, currency string, metadata map[string]string) (*PaymentIntentResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(strings.ToLower(currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}
	return &PaymentIntentResult{ID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

// CreateTransfer moves payout funds to a connected Stripe account.
func (c *StripeClient) CreateTransfer(amountMinor int64, currency, destination string, metadata map[string]string) (string, error) {
	params := &stripe.TransferParams{
		Amount:      stripe.Int64(amountMinor),
		Currency:    stripe.String(strings.ToLower(currency)),
		Destination: stripe.String(destination),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	tr, err := transfer.New(params)
	if err != nil {
		return "", err
	}
	return tr.ID, nil
}

// ConstructWebhookEvent verifies a webhook payload signature and parses
// the event.
func (c *StripeClient) ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signature, c.webhookSecret)
}
