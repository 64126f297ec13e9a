package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBalanceOfUntouchedAccount(t *testing.T) {
	ab := NewAccountBalance(nil)
	assert.Equal(t, int64(0), ab.GetBalance(testKey(9)))
	assert.False(t, ab.HasAccount(testKey(9)))
	assert.Empty(t, ab.GetPublicKeys())
}

func TestSetBalance(t *testing.T) {
	ab := NewAccountBalance(nil)
	for _, v := range []int64{0, 20, -5} {
		ab.SetBalance(testKey(1), v)
		assert.Equal(t, v, ab.GetBalance(testKey(1)))
	}
	assert.Equal(t, []PublicKey{testKey(1)}, ab.GetPublicKeys())
}

func TestAddThenSubtractRestoresBalance(t *testing.T) {
	ab := NewAccountBalance(map[PublicKey]int64{testKey(1): 7})
	ab.AddToBalance(testKey(1), 15)
	assert.Equal(t, int64(22), ab.GetBalance(testKey(1)))
	ab.SubtractFromBalance(testKey(1), 15)
	assert.Equal(t, int64(7), ab.GetBalance(testKey(1)))

	// Untouched accounts start at zero and are created on first use.
	ab.SubtractFromBalance(testKey(2), 5)
	assert.Equal(t, int64(-5), ab.GetBalance(testKey(2)))
}

func TestKeysKeepInsertionOrder(t *testing.T) {
	ab := NewAccountBalance(nil)
	ab.AddAccount(testKey(3), 0)
	ab.AddAccount(testKey(1), 0)
	ab.AddToBalance(testKey(2), 1)
	ab.SetBalance(testKey(3), 4)
	assert.Equal(t, []PublicKey{testKey(3), testKey(1), testKey(2)}, ab.GetPublicKeys())
}

func TestCheckTxInputListCanBeDeducted(t *testing.T) {
	a, b := testKey(1), testKey(2)
	ab := NewAccountBalance(map[PublicKey]int64{a: 20, b: 5})

	tests := []struct {
		name   string
		inputs TxInputList
		want   bool
	}{
		{"empty", NewTxInputList(), true},
		{"within balances", NewTxInputList(NewTxInput(a, 15, nil), NewTxInput(b, 5, nil)), true},
		{"exact balance", NewTxInputList(NewTxInput(a, 20, nil)), true},
		{"single too large", NewTxInputList(NewTxInput(b, 6, nil)), false},
		{"aggregate too large", NewTxInputList(NewTxInput(a, 15, nil), NewTxInput(a, 15, nil)), false},
		{"unknown account", NewTxInputList(NewTxInput(testKey(3), 1, nil)), false},
		{"unknown account zero", NewTxInputList(NewTxInput(testKey(3), 0, nil)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ab.CheckTxInputListCanBeDeducted(tt.inputs))
		})
	}
}

func TestProcessTransactionMovesFunds(t *testing.T) {
	a, b := testKey(1), testKey(2)
	ab := NewAccountBalance(map[PublicKey]int64{a: 20})
	outputs := NewTxOutputList(TxOutput{b, 15})
	tx := NewTransaction(NewTxInputList(signedInput(a, 15, outputs)), outputs)

	require.NoError(t, ab.ApplyTransaction(tx, fakeVerify))
	assert.Equal(t, int64(5), ab.GetBalance(a))
	assert.Equal(t, int64(15), ab.GetBalance(b))
}

func TestProcessTransactionBurnsTheDifference(t *testing.T) {
	a, b, c := testKey(1), testKey(2), testKey(3)
	ab := NewAccountBalance(map[PublicKey]int64{a: 50, b: 10})
	outputs := NewTxOutputList(TxOutput{c, 12}, TxOutput{a, 20})
	tx := NewTransaction(NewTxInputList(signedInput(a, 30, outputs), signedInput(b, 5, outputs)), outputs)
	before := ab.Total()

	require.NoError(t, ab.ApplyTransaction(tx, fakeVerify))
	// Inputs 35, outputs 32.
	assert.Equal(t, before-3, ab.Total())
}

func TestSelfCreditingTransaction(t *testing.T) {
	a := testKey(1)
	ab := NewAccountBalance(map[PublicKey]int64{a: 20})
	outputs := NewTxOutputList(TxOutput{a, 10})
	tx := NewTransaction(NewTxInputList(signedInput(a, 10, outputs)), outputs)

	require.NoError(t, ab.ApplyTransaction(tx, fakeVerify))
	assert.Equal(t, int64(20), ab.GetBalance(a))
}

func TestSpendingEverythingWhileCreditingSelf(t *testing.T) {
	a, b := testKey(1), testKey(2)
	ab := NewAccountBalance(map[PublicKey]int64{a: 20})
	outputs := NewTxOutputList(TxOutput{b, 5}, TxOutput{a, 15})
	tx := NewTransaction(NewTxInputList(signedInput(a, 20, outputs)), outputs)

	require.NoError(t, ab.ApplyTransaction(tx, fakeVerify))
	assert.Equal(t, int64(15), ab.GetBalance(a))
	assert.Equal(t, int64(5), ab.GetBalance(b))
}

func TestValidateTransaction(t *testing.T) {
	a, b, c := testKey(1), testKey(2), testKey(3)
	outputs := NewTxOutputList(TxOutput{b, 10}, TxOutput{c, 20})

	tests := []struct {
		name string
		tx   Transaction
		kind ValidationErrorKind
	}{
		{
			name: "valid",
			tx:   NewTransaction(NewTxInputList(signedInput(a, 30, outputs)), outputs),
		},
		{
			name: "no inputs",
			tx:   NewTransaction(NewTxInputList(), outputs),
			kind: InvalidInput,
		},
		{
			name: "zero recipient",
			tx:   NewTransaction(NewTxInputList(signedInput(a, 1, NewTxOutputList(TxOutput{PublicKey{}, 1}))), NewTxOutputList(TxOutput{PublicKey{}, 1})),
			kind: InvalidInput,
		},
		{
			name: "signed over another output list",
			tx:   NewTransaction(NewTxInputList(signedInput(a, 30, NewTxOutputList(TxOutput{b, 30}))), outputs),
			kind: BadSignature,
		},
		{
			name: "outputs exceed inputs",
			tx:   NewTransaction(NewTxInputList(signedInput(a, 29, outputs)), outputs),
			kind: AmountMismatch,
		},
		{
			name: "sender cannot cover aggregate",
			tx:   NewTransaction(NewTxInputList(signedInput(a, 30, outputs), signedInput(a, 30, outputs)), outputs),
			kind: InsufficientFunds,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ab := NewAccountBalance(map[PublicKey]int64{a: 50})
			err := ab.ValidateTransaction(tt.tx, fakeVerify)
			if tt.kind == 0 {
				assert.NoError(t, err)
				assert.True(t, ab.CheckTransactionValid(tt.tx, fakeVerify))
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.kind, verr.Kind)
			assert.False(t, ab.CheckTransactionValid(tt.tx, fakeVerify))
		})
	}
}

func TestValidationErrorReportsOffender(t *testing.T) {
	a, b := testKey(1), testKey(2)
	outputs := NewTxOutputList(TxOutput{b, 1})
	ab := NewAccountBalance(map[PublicKey]int64{a: 10, b: 0})

	tx := NewTransaction(NewTxInputList(signedInput(a, 1, outputs), NewTxInput(b, 1, Signature{1})), outputs)
	err := ab.ValidateTransaction(tx, fakeVerify)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 1, verr.Index)
	assert.Equal(t, b, verr.Key)
	assert.ErrorIs(t, err, ErrBadSignature)

	tx = NewTransaction(NewTxInputList(signedInput(a, 1, outputs), signedInput(b, 1, outputs)), outputs)
	err = ab.ValidateTransaction(tx, fakeVerify)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, b, verr.Key)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestApplyTransactionLeavesStateOnFailure(t *testing.T) {
	a, b := testKey(1), testKey(2)
	ab := NewAccountBalance(map[PublicKey]int64{a: 20})
	outputs := NewTxOutputList(TxOutput{b, 15}, TxOutput{b, 15})
	tx := NewTransaction(NewTxInputList(signedInput(a, 15, outputs), signedInput(a, 15, outputs)), outputs)

	err := ab.ApplyTransaction(tx, fakeVerify)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(20), ab.GetBalance(a))
	assert.False(t, ab.HasAccount(b))
}

func TestProcessTransactionIsUnchecked(t *testing.T) {
	a, b := testKey(1), testKey(2)
	ab := NewAccountBalance(map[PublicKey]int64{a: 5})
	outputs := NewTxOutputList(TxOutput{b, 10})
	ab.ProcessTransaction(NewTransaction(NewTxInputList(NewTxInput(a, 10, nil)), outputs))
	assert.Equal(t, int64(-5), ab.GetBalance(a))
	assert.Equal(t, int64(10), ab.GetBalance(b))
}

func TestCopyIsIndependent(t *testing.T) {
	a, b := testKey(1), testKey(2)
	ab := NewAccountBalance(map[PublicKey]int64{a: 20})
	c, err := ab.Copy()
	require.NoError(t, err)
	assert.True(t, ab.Equal(c))

	c.SetBalance(a, 1)
	c.SetBalance(b, 2)
	assert.Equal(t, int64(20), ab.GetBalance(a))
	assert.False(t, ab.HasAccount(b))
	assert.Len(t, ab.GetPublicKeys(), 1)
	assert.False(t, ab.Equal(c))
}

func TestApplyTransactionRejectsCreditOverflow(t *testing.T) {
	a, b := testKey(1), testKey(2)
	ab := NewAccountBalance(map[PublicKey]int64{a: 10, b: math.MaxInt64})
	outputs := NewTxOutputList(TxOutput{b, 10})
	tx := NewTransaction(NewTxInputList(signedInput(a, 10, outputs)), outputs)

	err := ab.ApplyTransaction(tx, fakeVerify)
	assert.ErrorIs(t, err, ErrInvalidInput)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, b, verr.Key)
	assert.Equal(t, int64(10), ab.GetBalance(a))
	assert.Equal(t, int64(math.MaxInt64), ab.GetBalance(b))
}

func TestCreditUpToMaxBalance(t *testing.T) {
	a, b := testKey(1), testKey(2)
	ab := NewAccountBalance(map[PublicKey]int64{a: math.MaxInt64, b: math.MaxInt64 - 10})

	// The debit happens first, so a full balance can be sent back to itself.
	outputs := NewTxOutputList(TxOutput{a, 10}, TxOutput{b, 10})
	tx := NewTransaction(NewTxInputList(signedInput(a, 20, outputs)), outputs)
	require.NoError(t, ab.ApplyTransaction(tx, fakeVerify))
	assert.Equal(t, int64(math.MaxInt64-10), ab.GetBalance(a))
	assert.Equal(t, int64(math.MaxInt64), ab.GetBalance(b))

	// Negative recipients never overflow.
	ab.SetBalance(b, -5)
	outputs = NewTxOutputList(TxOutput{b, 10})
	tx = NewTransaction(NewTxInputList(signedInput(a, 10, outputs)), outputs)
	require.NoError(t, ab.ApplyTransaction(tx, fakeVerify))
	assert.Equal(t, int64(5), ab.GetBalance(b))
}
