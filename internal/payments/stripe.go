package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// PaymentSheet carries everything a mobile client needs to present the
// Stripe payment sheet.
type PaymentSheet struct {
	PaymentIntent  string `json:"paymentIntent"`
	EphemeralKey   string `json:"ephemeralKey"`
	CustomerID     string `json:"customer"`
	PublishableKey string `json:"publishableKey"`
}

type StripeRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
}

const stripeAPIVersion = "2023-10-16"

type StripeClient struct {
	api            *client.API
	publishableKey string
}

func NewStripeClient(secretKey, publishableKey string) *StripeClient {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeClient{api: api, publishableKey: publishableKey}
}

func (c *StripeClient) CreatePaymentSheet(ctx context.Context, req StripeRequest) (*PaymentSheet, error) {
	custParams := &stripe.CustomerParams{
		Email: stripe.String(req.Email),
		Name:  stripe.String(req.Name),
	}
	custParams.Context = ctx
	cust, err := c.api.Customers.New(custParams)
	if err != nil {
		return nil, fmt.Errorf("stripe customer: %w", err)
	}

	ekParams := &stripe.EphemeralKeyParams{
		Customer:      stripe.String(cust.ID),
		StripeVersion: stripe.String(stripeAPIVersion),
	}
	ekParams.Context = ctx
	ek, err := c.api.EphemeralKeys.New(ekParams)
	if err != nil {
		return nil, fmt.Errorf("stripe ephemeral key: %w", err)
	}

	piParams := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(req.Amount),
		Currency:    stripe.String(req.Currency),
		Customer:    stripe.String(cust.ID),
		Description: stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	piParams.Context = ctx
	pi, err := c.api.PaymentIntents.New(piParams)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent: %w", err)
	}

	return &PaymentSheet{
		PaymentIntent:  pi.ClientSecret,
		EphemeralKey:   ek.Secret,
		CustomerID:     cust.ID,
		PublishableKey: c.publishableKey,
	}, nil
}
