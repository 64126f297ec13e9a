package model

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// PublicKeySize is the length of a compressed secp256k1 public key.
const PublicKeySize = 33

// PublicKey identifies an account. It is a plain value and can be used as a map key.
type PublicKey [PublicKeySize]byte

// Signature is an opaque signature produced by the signing service.
type Signature []byte

// PublicKeyFromBytes converts a serialized compressed public key.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var pk PublicKey
	if len(b) != PublicKeySize {
		return pk, invalidInput(fmt.Sprintf("public key must be %d bytes, got %d", PublicKeySize, len(b)))
	}
	copy(pk[:], b)
	return pk, nil
}

// ParsePublicKey parses the hex form returned by PublicKey.String.
func ParsePublicKey(s string) (PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return PublicKey{}, invalidInput("public key is not valid hex: " + err.Error())
	}
	return PublicKeyFromBytes(b)
}

func (pk PublicKey) Bytes() []byte {
	return pk[:]
}

func (pk PublicKey) IsZero() bool {
	return pk == PublicKey{}
}

func (pk PublicKey) String() string {
	return hex.EncodeToString(pk[:])
}

func (s Signature) Equal(o Signature) bool {
	return bytes.Equal(s, o)
}

func (s Signature) String() string {
	return hex.EncodeToString(s)
}
