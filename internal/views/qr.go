package views

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/angelmondragon/bottle-amigo/internal/amigos"
)

const qrSize = 256

// QRCard is the caller's amigo code with its rendered image.
type QRCard struct {
	*amigos.QR
	Image string
}

func NewQRCard(qr *amigos.QR) (*QRCard, error) {
	if qr == nil {
		return nil, nil
	}
	img, err := QRDataURL(qr.Payload)
	if err != nil {
		return nil, err
	}
	return &QRCard{QR: qr, Image: img}, nil
}

// QRDataURL renders content as a PNG data URL.
func QRDataURL(content string) (string, error) {
	if content == "" {
		return "", fmt.Errorf("qr content is empty")
	}
	png, err := qrcode.Encode(content, qrcode.Medium, qrSize)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
