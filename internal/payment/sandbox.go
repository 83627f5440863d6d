package payment

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// SandboxProvider is the development capture provider. It confirms
// every charge with a fresh transaction id, the way the real provider
// confirms funds synchronously.
type SandboxProvider struct{}

// Capture returns a successful capture with a random transaction id.
func (SandboxProvider) Capture(ctx context.Context, req CaptureRequest) (Capture, error) {
	if err := ctx.Err(); err != nil {
		return Capture{}, err
	}
	return Capture{
		TransactionID: "txn_" + uuid.NewString(),
		Status:        "COMPLETED",
		PayerName:     req.Customer.FirstName + " " + req.Customer.LastName,
	}, nil
}

// FSReceiptStore stores receipt images on the local filesystem and
// returns file URLs. It stands in for the real object store.
type FSReceiptStore struct {
	dir string
}

// NewFSReceiptStore creates the backing directory when missing.
func NewFSReceiptStore(dir string) (*FSReceiptStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FSReceiptStore{dir: dir}, nil
}

// Upload writes the image under a random name (the caller's name is
// kept as an extension hint only) and returns its URL.
func (s *FSReceiptStore) Upload(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext := filepath.Ext(name)
	if ext == "" {
		ext = ".png"
	}
	fname := uuid.NewString() + ext
	path := filepath.Join(s.dir, fname)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return "file://" + path, nil
}
