package model

import (
	"crypto/sha256"
)

func testKey(b byte) PublicKey {
	var pk PublicKey
	pk[0] = 0x02
	pk[PublicKeySize-1] = b
	return pk
}

// fakeSign stands in for the signing service: a signature is the digest of
// the key and the message.
func fakeSign(msg []byte, pk PublicKey) Signature {
	h := sha256.New()
	h.Write(pk[:])
	h.Write(msg)
	return h.Sum(nil)
}

func fakeVerify(msg []byte, pk PublicKey, sig Signature) bool {
	return fakeSign(msg, pk).Equal(sig)
}

func signedInput(sender PublicKey, amount uint64, outputs TxOutputList) TxInput {
	u := TxInputUnsigned{Sender: sender, Amount: amount}
	return TxInput{TxInputUnsigned: u, Signature: fakeSign(u.GetMessageToSign(outputs).Bytes(), sender)}
}
