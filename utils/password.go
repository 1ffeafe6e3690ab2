package utils

import "golang.org/x/crypto/bcrypt"

// bcrypt hanya memakai 72 byte pertama dari input
const maxPasswordBytes = 72

// normalizePassword memotong password ke 72 byte (limit bcrypt).
// Batas yang sama dipakai saat hash dan saat verify.
func normalizePassword(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(normalizePassword(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), normalizePassword(password)) == nil
}
