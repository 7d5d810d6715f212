package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatus(t *testing.T) {
	tests := []struct {
		name   string
		in     error
		code   codes.Code
		reason string
		msg    string
	}{
		{"validation", common.ErrEmptyText, codes.InvalidArgument, ReasonValidation, common.ErrEmptyText.Error()},
		{"unauthenticated", common.ErrUnauthenticated, codes.Unauthenticated, ReasonUnauthenticated, common.ErrUnauthenticated.Error()},
		{"expired", common.ErrTokenExpired, codes.Unauthenticated, ReasonTokenExpired, common.ErrTokenExpired.Error()},
		{"conflict", common.ErrDuplicateEmail, codes.AlreadyExists, ReasonConflict, common.ErrDuplicateEmail.Error()},
		{"not found", fmt.Errorf("task x: %w", common.ErrorNotFound), codes.NotFound, ReasonNotFound, "task x: not found"},
		{"internal hides details", errors.New("db error: connection refused"), codes.Internal, ReasonInternal, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ToStatus(tt.in)
			st, ok := status.FromError(err)
			assert.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
			assert.Equal(t, tt.msg, st.Message())
			assert.Equal(t, tt.reason, Reason(err))
		})
	}
}

func TestToStatus_NilAndPassthrough(t *testing.T) {
	assert.NoError(t, ToStatus(nil))

	orig := status.Error(codes.Unavailable, "down")
	assert.Equal(t, orig, ToStatus(orig))
}

func TestFromStatus_RoundTrip(t *testing.T) {
	kinds := []error{
		common.ErrEmptyText,
		common.ErrInvalidCredentials,
		common.ErrDuplicateEmail,
		common.ErrorNotFound,
	}
	for _, in := range kinds {
		got := FromStatus(ToStatus(in))
		assert.ErrorIs(t, got, common.Kind(in), "kind of %v", in)
		assert.Equal(t, in.Error(), got.Error())
	}

	assert.ErrorIs(t, FromStatus(ToStatus(common.ErrTokenExpired)), common.ErrTokenExpired)
	assert.ErrorIs(t, FromStatus(ToStatus(errors.New("x"))), common.ErrorInternal)
}

func TestFromStatus_CodeFallback(t *testing.T) {
	assert.ErrorIs(t, FromStatus(status.Error(codes.PermissionDenied, "no")), common.ErrorUnauthorized)
	assert.ErrorIs(t, FromStatus(status.Error(codes.NotFound, "no")), common.ErrorNotFound)

	un := status.Error(codes.Unavailable, "down")
	assert.Equal(t, un, FromStatus(un))

	plain := errors.New("plain")
	assert.Equal(t, plain, FromStatus(plain))
	assert.NoError(t, FromStatus(nil))
}
