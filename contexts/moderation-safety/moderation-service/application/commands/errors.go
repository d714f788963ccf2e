package commands

import (
	"fmt"

	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
)

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domainerrors.ErrValidation, fmt.Sprintf(format, args...))
}
