package api

import (
	"context"
	"errors"

	"github.com/solatis/spellcore/internal/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Validation errors map to INVALID_ARGUMENT.
// Unknown rule sets map to NOT_FOUND.
// Context timeouts map to DEADLINE_EXCEEDED.
// Anything else is INTERNAL.

// errInvalidRequest marks malformed request payloads.
var errInvalidRequest = errors.New("invalid request")

func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var code codes.Code
	switch {
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, types.ErrEmptyWord),
		errors.Is(err, types.ErrWordTooLong),
		errors.Is(err, types.ErrEmptyFlag):
		code = codes.InvalidArgument
	case errors.Is(err, types.ErrRuleSetNotFound):
		code = codes.NotFound
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	default:
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}
