// services/qrcode_service.go
package services

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

// QRCodeEncoder matches qrcode.Encode so tests can swap it out.
type QRCodeEncoder func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

// GenerateShareQRCode renders a PNG QR code that opens the predictor at shareURL,
// so a prediction started on a big screen can be picked up on a phone.
func GenerateShareQRCode(shareURL string, size int, encode QRCodeEncoder) ([]byte, error) {
	if size <= 0 {
		return nil, errors.New("invalid dimensions: size must be positive")
	}
	if shareURL == "" {
		return nil, errors.New("share URL is empty")
	}

	png, err := encode(shareURL, qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	return png, nil
}
