package service

import (
	"errors"
	"testing"

	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestStatusRoundTrip(t *testing.T) {
	verr := &model.ValidationError{Kind: model.InsufficientFunds, Index: -1, Reason: "account holds 5, debited 6"}

	st := ToStatus(verr)
	assert.Equal(t, codes.FailedPrecondition, status.Code(st))

	back := FromStatus(st)
	assert.ErrorIs(t, back, model.ErrInsufficientFunds)
	var got *model.ValidationError
	require.True(t, errors.As(back, &got))
	assert.Equal(t, "account holds 5, debited 6", got.Reason)
}

func TestStatusForOtherErrors(t *testing.T) {
	st := ToStatus(errors.New("boom"))
	assert.Equal(t, codes.Internal, status.Code(st))
	assert.Equal(t, st, FromStatus(st))
	assert.Nil(t, ToStatus(nil))
	assert.Equal(t, codes.PermissionDenied, status.Code(ToStatus(model.ErrBadSignature)))
}

func TestStatusForUnknownKind(t *testing.T) {
	st := ToStatus(&model.ValidationError{Kind: model.ValidationErrorKind(99), Index: -1, Reason: "odd"})
	require.Error(t, st)
	assert.Equal(t, codes.Internal, status.Code(st))
}
