package client

import (
	"errors"

	"github.com/dmitrijs2005/gophtodo/internal/api"
	"github.com/dmitrijs2005/gophtodo/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = common.ErrorUnauthorized
)

// mapError turns a call error into ErrUnavailable for transport failures
// and into a domain error from package common otherwise.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Unavailable, codes.DeadlineExceeded:
			return ErrUnavailable
		}
	}
	return api.FromStatus(err)
}
