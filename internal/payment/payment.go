// Package payment models the three mutually exclusive payment modes a
// purchase can use and the external collaborators behind them. The
// capture provider and receipt object store are black boxes consumed
// through interfaces; this package only turns a payment request into
// the evidence stored on the ticket.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/aramkh/academy-ticketing/internal/model"
)

// Capture is the synchronous confirmation returned by the card
// provider.
type Capture struct {
	TransactionID string
	Status        string
	PayerName     string
}

// CaptureRequest describes the charge handed to the card provider.
type CaptureRequest struct {
	AmountCents uint32
	Description string
	Customer    model.Customer
}

// Provider is the capture-style payment collaborator.
type Provider interface {
	Capture(ctx context.Context, req CaptureRequest) (Capture, error)
}

// ReceiptStore uploads receipt images to external object storage and
// returns a stable URL.
type ReceiptStore interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

// Request carries the caller's payment input for one purchase. Exactly
// the fields for the chosen method are consulted.
type Request struct {
	Method model.PaymentMethod
	// TRANSFER: the user's explicit acknowledgment. No other evidence
	// is required for a manual bank transfer.
	TransferConfirmed bool
	// MOBILE: 4-digit payment reference plus the receipt image.
	MobileReference string
	ReceiptImage    []byte
	ReceiptName     string
}

// Collector failure conditions.
var (
	ErrUnknownMethod      = errors.New("payment: unknown payment method")
	ErrTransferUnconfirmed = errors.New("payment: bank transfer not acknowledged")
	ErrBadMobileReference = errors.New("payment: mobile reference must be 4 digits")
	ErrMissingReceipt     = errors.New("payment: receipt image required")
)

// Collector resolves a Request into the PaymentDetails persisted on
// the ticket.
type Collector struct {
	provider Provider
	receipts ReceiptStore
}

// NewCollector wires the two external collaborators.
func NewCollector(p Provider, r ReceiptStore) *Collector {
	return &Collector{provider: p, receipts: r}
}

// Collect captures payment evidence for the given amount. For MOBILE
// payments the receipt image is uploaded before any ticket exists;
// an upload failure therefore aborts the whole issuance.
func (c *Collector) Collect(ctx context.Context, req Request, amountCents uint32, cust model.Customer) (model.PaymentDetails, error) {
	switch req.Method {
	case model.PayCard:
		cap, err := c.provider.Capture(ctx, CaptureRequest{
			AmountCents: amountCents,
			Description: "event ticket purchase",
			Customer:    cust,
		})
		if err != nil {
			return model.PaymentDetails{}, fmt.Errorf("card capture: %w", err)
		}
		return model.PaymentDetails{TransactionID: cap.TransactionID}, nil

	case model.PayTransfer:
		if !req.TransferConfirmed {
			return model.PaymentDetails{}, ErrTransferUnconfirmed
		}
		return model.PaymentDetails{}, nil

	case model.PayMobile:
		if !isFourDigits(req.MobileReference) {
			return model.PaymentDetails{}, ErrBadMobileReference
		}
		if len(req.ReceiptImage) == 0 {
			return model.PaymentDetails{}, ErrMissingReceipt
		}
		url, err := c.receipts.Upload(ctx, req.ReceiptName, req.ReceiptImage)
		if err != nil {
			return model.PaymentDetails{}, fmt.Errorf("receipt upload: %w", err)
		}
		return model.PaymentDetails{ReferenceLast4: req.MobileReference, ReceiptURL: url}, nil

	default:
		return model.PaymentDetails{}, ErrUnknownMethod
	}
}

func isFourDigits(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
