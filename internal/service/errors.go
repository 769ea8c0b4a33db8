package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/report"
	"github.com/mmynk/settleup/internal/state"
)

var invalidArgumentErrors = []error{
	models.ErrMissingPayer,
	models.ErrNoParticipants,
	models.ErrNonPositiveAmount,
	models.ErrMissingItemName,
	models.ErrUnknownSplitMethod,
	models.ErrManualSplitMismatch,
	models.ErrNegativeSplit,
	models.ErrNonFiniteSplit,
	models.ErrDuplicateParticipant,
	models.ErrSplitNotParticipant,
	models.ErrEmptyMemberName,
	state.ErrUnknownMember,
	state.ErrMissingExpenseID,
}

// toConnectError maps domain errors to Connect codes.
func toConnectError(err error) *connect.Error {
	switch {
	case errors.Is(err, state.ErrExpenseNotFound),
		errors.Is(err, state.ErrBillNotFound),
		errors.Is(err, report.ErrMemberNotInBill):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, models.ErrDuplicateMember),
		errors.Is(err, state.ErrDuplicateExpense):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, state.ErrNothingToSettle):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	}
	for _, target := range invalidArgumentErrors {
		if errors.Is(err, target) {
			return connect.NewError(connect.CodeInvalidArgument, err)
		}
	}
	return connect.NewError(connect.CodeInternal, err)
}
