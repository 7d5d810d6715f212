package api

import (
	"errors"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error reasons carried in google.rpc.ErrorInfo details.
const (
	ReasonValidation      = "VALIDATION"
	ReasonUnauthenticated = "UNAUTHENTICATED"
	ReasonTokenExpired    = "TOKEN_EXPIRED"
	ReasonConflict        = "CONFLICT"
	ReasonNotFound        = "NOT_FOUND"
	ReasonInternal        = "INTERNAL"
)

// internalMessage replaces the text of errors that are not a known kind, so
// that driver or infrastructure details never reach the caller.
const internalMessage = "internal error"

// ToStatus converts a domain error into a gRPC status error with an
// ErrorInfo detail. nil stays nil; errors that already are statuses pass
// through unchanged.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	code, reason, msg := classify(err)

	st := status.New(code, msg)
	if withDetails, derr := st.WithDetails(&errdetails.ErrorInfo{
		Reason: reason,
		Domain: common.ErrorDomain,
	}); derr == nil {
		st = withDetails
	}
	return st.Err()
}

func classify(err error) (codes.Code, string, string) {
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		return codes.Unauthenticated, ReasonTokenExpired, err.Error()
	case errors.Is(err, common.ErrorUnauthorized):
		return codes.Unauthenticated, ReasonUnauthenticated, err.Error()
	case errors.Is(err, common.ErrorValidation):
		return codes.InvalidArgument, ReasonValidation, err.Error()
	case errors.Is(err, common.ErrorConflict):
		return codes.AlreadyExists, ReasonConflict, err.Error()
	case errors.Is(err, common.ErrorNotFound):
		return codes.NotFound, ReasonNotFound, err.Error()
	default:
		return codes.Internal, ReasonInternal, internalMessage
	}
}

// Reason extracts the ErrorInfo reason of a status error in the todo domain,
// or "" if there is none.
func Reason(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == common.ErrorDomain {
			return info.GetReason()
		}
	}
	return ""
}

// FromStatus rebuilds a domain error from a status error produced by
// ToStatus. The result wraps the matching kind from package common and keeps
// the server message. Statuses without a todo ErrorInfo fall back to the
// status code. Errors that are not statuses are returned unchanged.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	var kind error
	switch Reason(err) {
	case ReasonTokenExpired:
		return common.ErrTokenExpired
	case ReasonUnauthenticated:
		kind = common.ErrorUnauthorized
	case ReasonValidation:
		kind = common.ErrorValidation
	case ReasonConflict:
		kind = common.ErrorConflict
	case ReasonNotFound:
		kind = common.ErrorNotFound
	case ReasonInternal:
		kind = common.ErrorInternal
	default:
		switch st.Code() {
		case codes.Unauthenticated, codes.PermissionDenied:
			kind = common.ErrorUnauthorized
		case codes.InvalidArgument:
			kind = common.ErrorValidation
		case codes.AlreadyExists:
			kind = common.ErrorConflict
		case codes.NotFound:
			kind = common.ErrorNotFound
		default:
			return err
		}
	}

	return &remoteError{kind: kind, msg: st.Message()}
}

// remoteError is a domain error received from the server.
type remoteError struct {
	kind error
	msg  string
}

func (e *remoteError) Error() string { return e.msg }
func (e *remoteError) Unwrap() error { return e.kind }
