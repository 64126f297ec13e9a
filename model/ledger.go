package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/jinzhu/copier"
)

// AccountBalance maps public keys to balances.
//
// Balances change only through the methods below. The plain mutators
// (SetBalance, AddToBalance, SubtractFromBalance, SubtractTxInputList,
// AddTxOutputList, ProcessTransaction) never check anything and may drive a
// balance negative; ApplyTransaction is the checked entry point.
// AccountBalance is not safe for concurrent use.
type AccountBalance struct {
	// Balance per account. Absent accounts have balance 0.
	Balances map[PublicKey]int64
	// Accounts in the order they were first touched.
	Keys []PublicKey
}

// NewAccountBalance creates a balance from an optional initial snapshot.
func NewAccountBalance(base map[PublicKey]int64) *AccountBalance {
	ab := &AccountBalance{
		Balances: make(map[PublicKey]int64),
	}
	for pk, v := range base {
		ab.AddAccount(pk, v)
	}
	return ab
}

// AddAccount creates or overwrites the account for pk.
func (ab *AccountBalance) AddAccount(pk PublicKey, balance int64) {
	ab.SetBalance(pk, balance)
}

func (ab *AccountBalance) HasAccount(pk PublicKey) bool {
	_, ok := ab.Balances[pk]
	return ok
}

// GetPublicKeys returns the known accounts in first-touched order.
func (ab *AccountBalance) GetPublicKeys() []PublicKey {
	out := make([]PublicKey, len(ab.Keys))
	copy(out, ab.Keys)
	return out
}

// GetBalance returns the balance of pk, or 0 if there is no account.
func (ab *AccountBalance) GetBalance(pk PublicKey) int64 {
	return ab.Balances[pk]
}

// SetBalance creates the account if needed. Negative balances are accepted.
func (ab *AccountBalance) SetBalance(pk PublicKey, balance int64) {
	if ab.Balances == nil {
		ab.Balances = make(map[PublicKey]int64)
	}
	if _, ok := ab.Balances[pk]; !ok {
		ab.Keys = append(ab.Keys, pk)
	}
	ab.Balances[pk] = balance
}

func (ab *AccountBalance) AddToBalance(pk PublicKey, amount int64) {
	ab.SetBalance(pk, ab.GetBalance(pk)+amount)
}

func (ab *AccountBalance) SubtractFromBalance(pk PublicKey, amount int64) {
	ab.SetBalance(pk, ab.GetBalance(pk)-amount)
}

// CheckBalance is true iff the balance of pk is at least amount.
func (ab *AccountBalance) CheckBalance(pk PublicKey, amount uint64) bool {
	if amount > MaxAmount {
		return false
	}
	return ab.GetBalance(pk) >= int64(amount)
}

// CheckDictPublicKeyAmountCanBeDeducted is true iff every amount in d can be
// taken from its account. d must already be aggregated per key.
func (ab *AccountBalance) CheckDictPublicKeyAmountCanBeDeducted(d map[PublicKey]uint64) bool {
	for pk, amount := range d {
		if !ab.CheckBalance(pk, amount) {
			return false
		}
	}
	return true
}

// CheckTxInputListCanBeDeducted aggregates the inputs per sender and checks
// the totals against the current balances.
func (ab *AccountBalance) CheckTxInputListCanBeDeducted(l TxInputList) bool {
	return ab.CheckDictPublicKeyAmountCanBeDeducted(l.ToDictPublicKeyAmount())
}

// SubtractTxInputList debits every input in order without any check.
func (ab *AccountBalance) SubtractTxInputList(l TxInputList) {
	for _, in := range l.inputs {
		ab.SubtractFromBalance(in.Sender, int64(in.Amount))
	}
}

// AddTxOutputList credits every output in order.
func (ab *AccountBalance) AddTxOutputList(l TxOutputList) {
	for _, o := range l.outputs {
		ab.AddToBalance(o.Recipient, int64(o.Amount))
	}
}

// ProcessTransaction subtracts all inputs and then adds all outputs, without
// validating tx. Use ApplyTransaction unless tx has already been validated
// against this exact state.
func (ab *AccountBalance) ProcessTransaction(tx Transaction) {
	ab.SubtractTxInputList(tx.ToTxInputList())
	ab.AddTxOutputList(tx.ToTxOutputList())
}

// ValidateTransaction checks, in order: structure, every signature,
// conservation of amounts and that the aggregated debits are covered by the
// current balances. Credits that would overflow a recipient's balance are
// InvalidInput. The first violation is returned as a *ValidationError.
func (ab *AccountBalance) ValidateTransaction(tx Transaction, verify VerifyFunc) error {
	if err := checkStructure(tx); err != nil {
		return err
	}

	if i := tx.Inputs.firstBadSignature(tx.Outputs, verify); i >= 0 {
		in := tx.Inputs.inputs[i]
		return &ValidationError{
			Kind:   BadSignature,
			Key:    in.Sender,
			Index:  i,
			Reason: fmt.Sprintf("signature of input %d does not verify", i),
		}
	}

	if !tx.CheckTransactionAmountValid() {
		in, _ := tx.Inputs.Sum()
		out, _ := tx.Outputs.Sum()
		return &ValidationError{
			Kind:   AmountMismatch,
			Index:  -1,
			Reason: fmt.Sprintf("outputs total %d exceeds inputs total %d", out, in),
		}
	}

	requested := tx.Inputs.ToDictPublicKeyAmount()
	// Walk the inputs so the reported key is deterministic.
	for _, in := range tx.Inputs.inputs {
		amount := requested[in.Sender]
		if !ab.CheckBalance(in.Sender, amount) {
			return &ValidationError{
				Kind:   InsufficientFunds,
				Key:    in.Sender,
				Index:  -1,
				Reason: fmt.Sprintf("account %s holds %d, debited %d", in.Sender, ab.GetBalance(in.Sender), amount),
			}
		}
	}

	// Inputs are subtracted before outputs are added, so only the final
	// balance of each recipient has to fit.
	credited := tx.Outputs.ToDictPublicKeyAmount()
	for _, o := range tx.Outputs.outputs {
		amount, ok := credited[o.Recipient]
		if !ok {
			continue
		}
		delete(credited, o.Recipient)
		after := ab.GetBalance(o.Recipient) - int64(requested[o.Recipient])
		if after >= 0 && amount > uint64(math.MaxInt64-after) {
			return &ValidationError{
				Kind:   InvalidInput,
				Key:    o.Recipient,
				Index:  -1,
				Reason: fmt.Sprintf("crediting %d to account %s overflows its balance", amount, o.Recipient),
			}
		}
	}
	return nil
}

// CheckTransactionValid is true iff every signature verifies, the outputs do
// not exceed the inputs and all debits can be deducted.
func (ab *AccountBalance) CheckTransactionValid(tx Transaction, verify VerifyFunc) bool {
	return ab.ValidateTransaction(tx, verify) == nil
}

// ApplyTransaction validates tx and processes it. On error the balances are
// left untouched.
func (ab *AccountBalance) ApplyTransaction(tx Transaction, verify VerifyFunc) error {
	if err := ab.ValidateTransaction(tx, verify); err != nil {
		return err
	}
	ab.ProcessTransaction(tx)
	return nil
}

// Total sums all balances.
func (ab *AccountBalance) Total() int64 {
	var total int64
	for _, v := range ab.Balances {
		total += v
	}
	return total
}

// Copy returns a deep copy that shares no state with ab.
func (ab *AccountBalance) Copy() (*AccountBalance, error) {
	c := &AccountBalance{}
	if err := copier.CopyWithOption(c, ab, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	if c.Balances == nil {
		c.Balances = make(map[PublicKey]int64)
	}
	return c, nil
}

// Equal compares balances only, ignoring the order accounts were added in.
func (ab *AccountBalance) Equal(o *AccountBalance) bool {
	if len(ab.Balances) != len(o.Balances) {
		return false
	}
	for pk, v := range ab.Balances {
		ov, ok := o.Balances[pk]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

func (ab *AccountBalance) String() string {
	var sb strings.Builder
	for _, pk := range ab.Keys {
		fmt.Fprintf(&sb, "(PublicKey = %s Amount = %d)\n", pk, ab.GetBalance(pk))
	}
	return sb.String()
}

func checkStructure(tx Transaction) error {
	if tx.Inputs.Len() == 0 {
		return invalidInput("transaction has no inputs")
	}
	for i, in := range tx.Inputs.inputs {
		if in.Sender.IsZero() {
			return &ValidationError{Kind: InvalidInput, Index: i, Reason: fmt.Sprintf("input %d has no sender", i)}
		}
		if in.Amount > MaxAmount {
			return &ValidationError{Kind: InvalidInput, Key: in.Sender, Index: i, Reason: fmt.Sprintf("input %d amount out of range", i)}
		}
	}
	for i, o := range tx.Outputs.outputs {
		if o.Recipient.IsZero() {
			return invalidInput(fmt.Sprintf("output %d has no recipient", i))
		}
		if o.Amount > MaxAmount {
			return &ValidationError{Kind: InvalidInput, Key: o.Recipient, Index: -1, Reason: fmt.Sprintf("output %d amount out of range", i)}
		}
	}
	in, err := tx.Inputs.Sum()
	if err != nil {
		return err
	}
	if in > MaxAmount {
		return invalidInput("inputs total out of range")
	}
	out, err := tx.Outputs.Sum()
	if err != nil {
		return err
	}
	if out > MaxAmount {
		return invalidInput("outputs total out of range")
	}
	return nil
}
