package utils

import (
	"encoding/hex"
)

func BytesToHex(bytes []byte) string {
	return hex.EncodeToString(bytes)
}

func HexToBytes(str string) ([]byte, error) {
	bytes, err := hex.DecodeString(str)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}

// ShortenHex keeps the first and last 4 characters of a long hex string,
// e.g. "02ab...9f0c".
func ShortenHex(s string) string {
	if len(s) < 12 {
		return s
	}
	return s[:4] + "..." + s[len(s)-4:]
}
