package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// NewResetCode menghasilkan kode reset 6 digit (boleh leading zero).
func NewResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
