// Package qrcode renders token payloads as QR code images.
package qrcode

import (
	"fmt"

	qr "github.com/skip2/go-qrcode"
)

// DefaultSize is the pixel width used when callers pass size <= 0.
const DefaultSize = 256

// Renderer turns a payload string into an image.
type Renderer interface {
	Render(payload string, size int) ([]byte, error)
}

// PNGRenderer renders payloads as PNG with medium error correction, which
// keeps codes scannable on scratched or dusty phone screens.
type PNGRenderer struct{}

func NewPNGRenderer() Renderer {
	return &PNGRenderer{}
}

func (r *PNGRenderer) Render(payload string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qr.Encode(payload, qr.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return png, nil
}
