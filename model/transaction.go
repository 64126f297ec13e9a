package model

import (
	"fmt"
	"math"
	"math/bits"
)

// MaxAmount bounds any single input or output amount.
const MaxAmount uint64 = math.MaxInt64

// VerifyFunc reports whether sig is a valid signature of msg under pk.
type VerifyFunc func(msg []byte, pk PublicKey, sig Signature) bool

type TxOutput struct {
	// Account credited by this output.
	Recipient PublicKey
	// how much value to transfer.
	Amount uint64
}

// TxOutputList is an ordered list of outputs. Order does not change the
// balance effect but is part of the signed message.
type TxOutputList struct {
	outputs []TxOutput
}

func NewTxOutputList(outputs ...TxOutput) TxOutputList {
	l := TxOutputList{}
	for _, o := range outputs {
		l.Add(o.Recipient, o.Amount)
	}
	return l
}

func (l *TxOutputList) Add(recipient PublicKey, amount uint64) {
	l.outputs = append(l.outputs, TxOutput{Recipient: recipient, Amount: amount})
}

func (l TxOutputList) Len() int {
	return len(l.outputs)
}

// ToList returns a copy of the outputs in insertion order.
func (l TxOutputList) ToList() []TxOutput {
	out := make([]TxOutput, len(l.outputs))
	copy(out, l.outputs)
	return out
}

// ToDictPublicKeyAmount sums the amounts per recipient.
func (l TxOutputList) ToDictPublicKeyAmount() map[PublicKey]uint64 {
	d := make(map[PublicKey]uint64)
	for _, o := range l.outputs {
		d[o.Recipient] += o.Amount
	}
	return d
}

// Sum returns the total output amount, failing on overflow.
func (l TxOutputList) Sum() (uint64, error) {
	var total uint64
	for i, o := range l.outputs {
		var carry uint64
		total, carry = bits.Add64(total, o.Amount, 0)
		if carry != 0 {
			return 0, invalidInput(fmt.Sprintf("output sum overflows at output %d", i))
		}
	}
	return total, nil
}

// ToMessage encodes every output as its recipient followed by its amount.
func (l TxOutputList) ToMessage() *Message {
	m := NewMessage()
	for _, o := range l.outputs {
		m.AddPublicKey(o.Recipient)
		m.AddAmount(o.Amount)
	}
	return m
}

// TxInputUnsigned is a debit that has not been signed yet.
type TxInputUnsigned struct {
	// Account debited by this input.
	Sender PublicKey
	// how much value is taken from the sender.
	Amount uint64
}

// GetMessageToSign binds the sender and amount to one exact output list, so
// a signature cannot be replayed for a different spend.
func (u TxInputUnsigned) GetMessageToSign(outputs TxOutputList) *Message {
	m := NewMessage()
	m.AddPublicKey(u.Sender)
	m.AddAmount(u.Amount)
	m.AddBytes(outputs.ToMessage().Bytes())
	return m
}

// TxInput is a signed debit.
type TxInput struct {
	TxInputUnsigned
	// Signature by the sender over GetMessageToSign of the transaction outputs.
	Signature Signature
}

func NewTxInput(sender PublicKey, amount uint64, sig Signature) TxInput {
	return TxInput{
		TxInputUnsigned: TxInputUnsigned{Sender: sender, Amount: amount},
		Signature:       sig,
	}
}

type TxInputList struct {
	inputs []TxInput
}

func NewTxInputList(inputs ...TxInput) TxInputList {
	l := TxInputList{}
	l.inputs = append(l.inputs, inputs...)
	return l
}

func (l *TxInputList) Add(in TxInput) {
	l.inputs = append(l.inputs, in)
}

func (l TxInputList) Len() int {
	return len(l.inputs)
}

// ToList returns a copy of the inputs in insertion order.
func (l TxInputList) ToList() []TxInput {
	out := make([]TxInput, len(l.inputs))
	copy(out, l.inputs)
	return out
}

// ToDictPublicKeyAmount sums the requested amounts per sender. Several inputs
// from one sender accumulate.
func (l TxInputList) ToDictPublicKeyAmount() map[PublicKey]uint64 {
	d := make(map[PublicKey]uint64)
	for _, in := range l.inputs {
		d[in.Sender] += in.Amount
	}
	return d
}

// Sum returns the total input amount, failing on overflow.
func (l TxInputList) Sum() (uint64, error) {
	var total uint64
	for i, in := range l.inputs {
		var carry uint64
		total, carry = bits.Add64(total, in.Amount, 0)
		if carry != 0 {
			return 0, invalidInput(fmt.Sprintf("input sum overflows at input %d", i))
		}
	}
	return total, nil
}

// CheckSignature is true only if every input signature verifies against the
// message derived from that input and outputs.
func (l TxInputList) CheckSignature(outputs TxOutputList, verify VerifyFunc) bool {
	return l.firstBadSignature(outputs, verify) < 0
}

// firstBadSignature returns the index of the first input whose signature
// fails, or -1.
func (l TxInputList) firstBadSignature(outputs TxOutputList, verify VerifyFunc) int {
	for i, in := range l.inputs {
		msg := in.GetMessageToSign(outputs)
		if len(in.Signature) == 0 || !verify(msg.Bytes(), in.Sender, in.Signature) {
			return i
		}
	}
	return -1
}

// Transaction is one atomic state transition.
type Transaction struct {
	Inputs  TxInputList
	Outputs TxOutputList
}

func NewTransaction(inputs TxInputList, outputs TxOutputList) Transaction {
	return Transaction{Inputs: inputs, Outputs: outputs}
}

func (t Transaction) ToTxInputList() TxInputList {
	return t.Inputs
}

func (t Transaction) ToTxOutputList() TxOutputList {
	return t.Outputs
}

// CheckTransactionAmountValid is true when the outputs do not spend more than
// the inputs provide. Any excess is burnt, change must be an explicit output.
func (t Transaction) CheckTransactionAmountValid() bool {
	in, err := t.Inputs.Sum()
	if err != nil {
		return false
	}
	out, err := t.Outputs.Sum()
	if err != nil {
		return false
	}
	return out <= in
}

func (t Transaction) CheckSignatureValid(verify VerifyFunc) bool {
	return t.Inputs.CheckSignature(t.Outputs, verify)
}
