package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

const DefaultCurrency = "usd"

var (
	ErrGateway       = errors.New("payment gateway error")
	ErrInvalidAmount = errors.New("invalid amount")
)

type Gateway interface {
	CreateIntent(ctx context.Context, price float64, currency string) (string, error)
}

// ToMinorUnits multiplies price by 100 and truncates. The multiplication is
// done on the shortest decimal form of price, so 19.99 yields 1999.
func ToMinorUnits(price float64) int64 {
	return decimal.NewFromFloat(price).Shift(2).IntPart()
}

type StripeGateway struct {
	API *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	return &StripeGateway{API: client.New(secretKey, nil)}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, price float64, currency string) (string, error) {
	amount := ToMinorUnits(price)
	if amount <= 0 {
		return "", fmt.Errorf("%w: %v", ErrInvalidAmount, price)
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := g.API.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGateway, err)
	}
	return pi.ClientSecret, nil
}
