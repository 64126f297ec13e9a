package service

import (
	"encoding/hex"
	"fmt"

	"github.com/Luismorlan/ledger_in_go/model"
)

func TransactionFromModel(tx model.Transaction) *Transaction {
	out := &Transaction{}
	for _, in := range tx.Inputs.ToList() {
		out.Inputs = append(out.Inputs, Input{
			Sender:    in.Sender.String(),
			Amount:    in.Amount,
			Signature: in.Signature.String(),
		})
	}
	for _, o := range tx.Outputs.ToList() {
		out.Outputs = append(out.Outputs, Output{
			Recipient: o.Recipient.String(),
			Amount:    o.Amount,
		})
	}
	return out
}

// ToModel fails with model.ErrInvalidInput on malformed keys or signatures.
func (t *Transaction) ToModel() (model.Transaction, error) {
	if t == nil {
		return model.Transaction{}, fmt.Errorf("%w: transaction is nil", model.ErrInvalidInput)
	}
	inputs := model.NewTxInputList()
	for i, in := range t.Inputs {
		sender, err := model.ParsePublicKey(in.Sender)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("input %d: %w", i, err)
		}
		sig, err := hex.DecodeString(in.Signature)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("%w: input %d signature is not hex", model.ErrInvalidInput, i)
		}
		inputs.Add(model.NewTxInput(sender, in.Amount, sig))
	}
	outputs := model.NewTxOutputList()
	for i, o := range t.Outputs {
		recipient, err := model.ParsePublicKey(o.Recipient)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("output %d: %w", i, err)
		}
		outputs.Add(recipient, o.Amount)
	}
	return model.NewTransaction(inputs, outputs), nil
}
