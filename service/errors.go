package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Luismorlan/ledger_in_go/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var kindCodes = map[model.ValidationErrorKind]codes.Code{
	model.InvalidInput:      codes.InvalidArgument,
	model.BadSignature:      codes.PermissionDenied,
	model.AmountMismatch:    codes.InvalidArgument,
	model.InsufficientFunds: codes.FailedPrecondition,
}

// kindPrefix tags the status message so the client can restore the kind.
const kindPrefix = "kind="

// ToStatus converts a validation error into a gRPC status error.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		return status.Error(codes.Internal, err.Error())
	}
	code, ok := kindCodes[verr.Kind]
	if !ok {
		code = codes.Internal
	}
	return status.Errorf(code, "%s%d %s", kindPrefix, int(verr.Kind), verr.Reason)
}

// FromStatus restores the model sentinel carried by a status error, so that
// errors.Is(err, model.ErrInsufficientFunds) works on the client.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok || !strings.HasPrefix(st.Message(), kindPrefix) {
		return err
	}
	head, reason, _ := strings.Cut(strings.TrimPrefix(st.Message(), kindPrefix), " ")
	kind, convErr := strconv.Atoi(head)
	if convErr != nil {
		return err
	}
	return &model.ValidationError{Kind: model.ValidationErrorKind(kind), Index: -1, Reason: reason}
}
