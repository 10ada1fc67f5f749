package services

import (
	"fmt"
	"net/url"
)

// QRCodec merender token order menjadi bentuk yang bisa ditampilkan client.
// Rendering gambar sesungguhnya adalah urusan kolaborator eksternal; default
// di sini hanya membangun URL yang bisa dirender frontend.
type QRCodec interface {
	Render(token string) string
}

type LinkQRCodec struct {
	BaseURL string
}

func (c LinkQRCodec) Render(token string) string {
	base := c.BaseURL
	if base == "" {
		base = "/checkin/qr"
	}
	return fmt.Sprintf("%s?token=%s", base, url.QueryEscape(token))
}
