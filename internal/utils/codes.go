package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// NewLoginCode возвращает код из nBytes случайных байт в верхнем HEX.
// 4 байта → 8 символов (32 бита энтропии). Уникальность кода гарантирует
// не генератор, а условная вставка в хранилище.
func NewLoginCode(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = 4
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}
