package create_reservation

import (
	"crypto/rand"
	"fmt"
)

// Алфавит кодов подтверждения без визуально похожих символов (0/O, 1/I/L)
const (
	codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	codeLength   = 6

	// maxCodeAttempts сколько раз перегенерировать код при коллизии
	// уникального индекса (restaurant_id, confirmation_code)
	maxCodeAttempts = 5
)

// generateConfirmationCode генерирует короткий код подтверждения брони
func generateConfirmationCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i := range buf {
		buf[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return string(buf), nil
}
