package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophtodo/internal/common"
)

// internal marks err as common.ErrorInternal unless it already belongs to a
// known kind. The cause stays in the chain for logging.
func internal(err error) error {
	if err == nil {
		return nil
	}
	if common.Kind(err) != common.ErrorInternal || errors.Is(err, common.ErrorInternal) {
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrorInternal, err)
}
