package utils

import (
	"encoding/base64"

	qrcode "github.com/skip2/go-qrcode"
)

// QRPNGBase64 merender data menjadi PNG QR code dan mengembalikan
// base64 string tanpa prefix data:.
func QRPNGBase64(data string) (string, error) {
	png, err := qrcode.Encode(data, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
