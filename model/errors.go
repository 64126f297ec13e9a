package model

import "fmt"

// ValidationErrorKind classifies why a transaction was refused.
type ValidationErrorKind int

const (
	// Malformed data: bad keys, empty input list, amounts out of range.
	InvalidInput ValidationErrorKind = iota + 1
	// At least one input signature does not verify.
	BadSignature
	// Outputs spend more than the inputs provide.
	AmountMismatch
	// A sender does not hold the aggregated amount it is debited.
	InsufficientFunds
)

func (k ValidationErrorKind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case BadSignature:
		return "bad_signature"
	case AmountMismatch:
		return "amount_mismatch"
	case InsufficientFunds:
		return "insufficient_funds"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ValidationError reports the first rule a transaction broke.
type ValidationError struct {
	Kind ValidationErrorKind
	// Key is the offending account, zero when the failure is not tied to one.
	Key PublicKey
	// Index of the offending input, -1 when not tied to one.
	Index  int
	Reason string
}

// Sentinels for errors.Is. Any *ValidationError of the same kind matches.
var (
	ErrInvalidInput      = &ValidationError{Kind: InvalidInput, Index: -1}
	ErrBadSignature      = &ValidationError{Kind: BadSignature, Index: -1}
	ErrAmountMismatch    = &ValidationError{Kind: AmountMismatch, Index: -1}
	ErrInsufficientFunds = &ValidationError{Kind: InsufficientFunds, Index: -1}
)

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func invalidInput(reason string) *ValidationError {
	return &ValidationError{Kind: InvalidInput, Index: -1, Reason: reason}
}
