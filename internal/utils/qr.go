package utils

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QRPNG renders the given payload as a PNG QR symbol of size×size
// pixels with medium error correction (15% recovery), compatible with
// standard readers.
func QRPNG(payload string, size int) ([]byte, error) {
	qr, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("generate qr: %w", err)
	}
	png, err := qr.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("encode qr png: %w", err)
	}
	return png, nil
}

// QRDataURI renders the payload as a data URI suitable for direct
// embedding in notification HTML.
func QRDataURI(payload string, size int) (string, error) {
	png, err := QRPNG(payload, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
