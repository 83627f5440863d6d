package payment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aramkh/academy-ticketing/internal/model"
)

type failingReceipts struct{}

func (failingReceipts) Upload(ctx context.Context, name string, data []byte) (string, error) {
	return "", errors.New("object store unavailable")
}

func newTestCollector(t *testing.T) *Collector {
	t.Helper()
	rs, err := NewFSReceiptStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSReceiptStore error = %v", err)
	}
	return NewCollector(SandboxProvider{}, rs)
}

func TestCollectCard(t *testing.T) {
	c := newTestCollector(t)
	det, err := c.Collect(context.Background(), Request{Method: model.PayCard}, 4000, model.Customer{FirstName: "Lena", LastName: "Petros"})
	if err != nil {
		t.Fatalf("Collect error = %v", err)
	}
	if !strings.HasPrefix(det.TransactionID, "txn_") {
		t.Errorf("transaction id = %q, want txn_ prefix", det.TransactionID)
	}
	if det.ReceiptURL != "" || det.ReferenceLast4 != "" {
		t.Errorf("card evidence carries mobile fields: %+v", det)
	}
}

func TestCollectTransfer(t *testing.T) {
	c := newTestCollector(t)
	ctx := context.Background()
	if _, err := c.Collect(ctx, Request{Method: model.PayTransfer}, 1200, model.Customer{}); !errors.Is(err, ErrTransferUnconfirmed) {
		t.Errorf("unacknowledged transfer error = %v, want ErrTransferUnconfirmed", err)
	}
	det, err := c.Collect(ctx, Request{Method: model.PayTransfer, TransferConfirmed: true}, 1200, model.Customer{})
	if err != nil {
		t.Fatalf("acknowledged transfer error = %v", err)
	}
	if det != (model.PaymentDetails{}) {
		t.Errorf("transfer evidence = %+v, want empty", det)
	}
}

func TestCollectMobile(t *testing.T) {
	c := newTestCollector(t)
	ctx := context.Background()
	img := []byte{0x89, 'P', 'N', 'G'}

	if _, err := c.Collect(ctx, Request{Method: model.PayMobile, MobileReference: "12a4", ReceiptImage: img}, 1200, model.Customer{}); !errors.Is(err, ErrBadMobileReference) {
		t.Errorf("bad reference error = %v, want ErrBadMobileReference", err)
	}
	if _, err := c.Collect(ctx, Request{Method: model.PayMobile, MobileReference: "1234"}, 1200, model.Customer{}); !errors.Is(err, ErrMissingReceipt) {
		t.Errorf("missing receipt error = %v, want ErrMissingReceipt", err)
	}
	det, err := c.Collect(ctx, Request{Method: model.PayMobile, MobileReference: "1234", ReceiptImage: img, ReceiptName: "r.png"}, 1200, model.Customer{})
	if err != nil {
		t.Fatalf("mobile Collect error = %v", err)
	}
	if det.ReferenceLast4 != "1234" || !strings.HasPrefix(det.ReceiptURL, "file://") {
		t.Errorf("mobile evidence = %+v", det)
	}
}

func TestCollectMobileUploadFailureAborts(t *testing.T) {
	c := NewCollector(SandboxProvider{}, failingReceipts{})
	_, err := c.Collect(context.Background(), Request{
		Method: model.PayMobile, MobileReference: "1234", ReceiptImage: []byte{1},
	}, 1200, model.Customer{})
	if err == nil || !strings.Contains(err.Error(), "receipt upload") {
		t.Errorf("upload failure error = %v, want wrapped receipt upload error", err)
	}
}

func TestCollectUnknownMethod(t *testing.T) {
	c := newTestCollector(t)
	if _, err := c.Collect(context.Background(), Request{Method: "BARTER"}, 1200, model.Customer{}); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("error = %v, want ErrUnknownMethod", err)
	}
}
