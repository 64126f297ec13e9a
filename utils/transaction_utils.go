package utils

import (
	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/btcsuite/btcd/btcec/v2"
)

// CreateTxInput signs a debit of amount from the owner of sk, bound to the
// given outputs.
func CreateTxInput(sk *btcec.PrivateKey, amount uint64, outputs model.TxOutputList) (model.TxInput, error) {
	pk, err := PublicKeyOf(sk)
	if err != nil {
		return model.TxInput{}, err
	}
	unsigned := model.TxInputUnsigned{Sender: pk, Amount: amount}
	sig, err := Sign(unsigned.GetMessageToSign(outputs).Bytes(), sk)
	if err != nil {
		return model.TxInput{}, err
	}
	return model.TxInput{TxInputUnsigned: unsigned, Signature: sig}, nil
}

// CheckSignature verifies every input of l against outputs with secp256k1.
func CheckSignature(l model.TxInputList, outputs model.TxOutputList) bool {
	return l.CheckSignature(outputs, Verify)
}

// A transaction is valid if:
// 1. All signatures are valid.
// 2. Total outputs are smaller or equal to inputs.
// 3. Each sender can pay its aggregated inputs from the account balance.
func IsValidTransaction(tx model.Transaction, ab *model.AccountBalance) bool {
	return ab.CheckTransactionValid(tx, Verify)
}
