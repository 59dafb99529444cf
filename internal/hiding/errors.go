package hiding

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is wrapped by every error the package returns.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	ErrUnsortedHidings = fmt.Errorf("%w: hidings must be sorted by start offset", ErrInvalidArgument)
	ErrInvalidRange    = fmt.Errorf("%w: start offset is greater than end offset", ErrInvalidArgument)
	ErrOutOfBounds     = fmt.Errorf("%w: hiding must be within document boundary", ErrInvalidArgument)
	ErrEmptyRange      = fmt.Errorf("%w: hiding must not be empty", ErrInvalidArgument)
	ErrUnknownSection  = fmt.Errorf("%w: section is not managed here", ErrInvalidArgument)
	ErrViewAttached    = fmt.Errorf("%w: view already attached", ErrInvalidArgument)
	ErrViewNotAttached = fmt.Errorf("%w: view not attached", ErrInvalidArgument)
	ErrInvalidView     = fmt.Errorf("%w: invalid view", ErrInvalidArgument)
	ErrInvalidDocument = fmt.Errorf("%w: invalid document", ErrInvalidArgument)
	ErrNotInstalled    = fmt.Errorf("%w: no hiding manager installed", ErrInvalidArgument)
)
