package utils

import (
	"crypto/sha256"
	"errors"

	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcutil/base58"
	"golang.org/x/crypto/ripemd160"
)

// Version byte prepended to address payloads.
const addressVersion = byte(0x00)

// GenerateKeyPair generates a new secp256k1 key pair.
func GenerateKeyPair() (*btcec.PrivateKey, model.PublicKey, error) {
	sk, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, model.PublicKey{}, err
	}
	pk, err := PublicKeyOf(sk)
	if err != nil {
		return nil, model.PublicKey{}, err
	}
	return sk, pk, nil
}

// PublicKeyOf returns the compressed public key of sk.
func PublicKeyOf(sk *btcec.PrivateKey) (model.PublicKey, error) {
	if sk == nil {
		return model.PublicKey{}, errors.New("private key is nil")
	}
	return model.PublicKeyFromBytes(sk.PubKey().SerializeCompressed())
}

// PrivateKeyToBytes returns the 32 byte scalar of sk.
func PrivateKeyToBytes(sk *btcec.PrivateKey) []byte {
	return sk.Serialize()
}

// BytesToPrivateKey is the inverse of PrivateKeyToBytes.
func BytesToPrivateKey(b []byte) (*btcec.PrivateKey, error) {
	if len(b) != btcec.PrivKeyBytesLen {
		return nil, errors.New("private key must be 32 bytes")
	}
	sk, _ := btcec.PrivKeyFromBytes(b)
	return sk, nil
}

// Hash message using SHA256
func SHA256(msg []byte) []byte {
	digest := sha256.Sum256(msg)
	return digest[:]
}

// Sign a message's SHA256 digest with provided private key. The signature is
// DER encoded.
func Sign(msg []byte, sk *btcec.PrivateKey) (model.Signature, error) {
	if sk == nil {
		return nil, errors.New("private key is nil")
	}
	sig := ecdsa.Sign(sk, SHA256(msg))
	return sig.Serialize(), nil
}

// Verify the given signature matches the message. Verify is a model.VerifyFunc.
func Verify(msg []byte, pk model.PublicKey, signature model.Signature) bool {
	pub, err := btcec.ParsePubKey(pk.Bytes())
	if err != nil {
		return false
	}
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(SHA256(msg), pub)
}

// PubKeyToAddress derives a Base58Check address for display.
func PubKeyToAddress(pk model.PublicKey) string {
	rip := ripemd160.New()
	rip.Write(SHA256(pk.Bytes()))
	payload := make([]byte, 0, 1+ripemd160.Size+4)
	payload = append(payload, addressVersion)
	payload = append(payload, rip.Sum(nil)...)
	checksum := SHA256(SHA256(payload))
	payload = append(payload, checksum[:4]...)
	return base58.Encode(payload)
}
