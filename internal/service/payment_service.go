package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// ErrPaymentNotConfirmed is returned when a payment reference exists but the
// processor does not report a completed charge covering the amount due.
var ErrPaymentNotConfirmed = errors.New("payment reference is not a confirmed payment")

// PaymentVerifier confirms a previously-obtained payment reference with the
// processor before it is trusted as proof of payment. A client-supplied
// reference is never trusted without this check.
type PaymentVerifier interface {
	Verify(ctx context.Context, reference string, amount decimal.Decimal) error
}

var minorUnits = decimal.NewFromInt(100)

// StripeVerifier verifies card payments by fetching the PaymentIntent
// server-side. The Stripe API key is set globally during bootstrap.
type StripeVerifier struct {
	log *logrus.Logger
}

func NewStripeVerifier(log *logrus.Logger) *StripeVerifier {
	return &StripeVerifier{log: log}
}

func (v *StripeVerifier) Verify(ctx context.Context, reference string, amount decimal.Decimal) error {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(reference, params)
	if err != nil {
		v.log.Warnf("Failed to fetch payment intent %s: %+v", reference, err)
		return fmt.Errorf("fetch payment intent %s: %w", reference, err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		v.log.Warnf("Payment intent %s has status %s", reference, pi.Status)
		return ErrPaymentNotConfirmed
	}
	if pi.Amount < amount.Mul(minorUnits).IntPart() {
		v.log.Warnf("Payment intent %s amount %d does not cover charge", reference, pi.Amount)
		return ErrPaymentNotConfirmed
	}

	return nil
}

// RazorpayVerifier verifies UPI payments by fetching the payment record
type RazorpayVerifier struct {
	client *razorpay.Client
	log    *logrus.Logger
}

func NewRazorpayVerifier(keyID, keySecret string, log *logrus.Logger) *RazorpayVerifier {
	return &RazorpayVerifier{
		client: razorpay.NewClient(keyID, keySecret),
		log:    log,
	}
}

func (v *RazorpayVerifier) Verify(ctx context.Context, reference string, amount decimal.Decimal) error {
	payment, err := v.client.Payment.Fetch(reference, nil, nil)
	if err != nil {
		v.log.Warnf("Failed to fetch razorpay payment %s: %+v", reference, err)
		return fmt.Errorf("fetch razorpay payment %s: %w", reference, err)
	}

	status, _ := payment["status"].(string)
	if status != "captured" && status != "authorized" {
		v.log.Warnf("Razorpay payment %s has status %q", reference, status)
		return ErrPaymentNotConfirmed
	}

	// Razorpay reports amounts in minor units as a JSON number.
	paid, ok := payment["amount"].(float64)
	if !ok || decimal.NewFromFloat(paid).LessThan(amount.Mul(minorUnits)) {
		v.log.Warnf("Razorpay payment %s does not cover charge", reference)
		return ErrPaymentNotConfirmed
	}

	return nil
}
