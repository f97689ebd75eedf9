package archive

import (
	"errors"
	"fmt"

	"github.com/jchantrell/lgres/internal/layout"
)

var (
	// ErrResourceNotFound is returned when no directory entry has the requested ID.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrCompressed is returned for LZW-compressed resources, which cannot be
	// loaded yet. It matches errors.ErrUnsupported.
	ErrCompressed = fmt.Errorf("LZW-compressed resource: %w", errors.ErrUnsupported)

	// ErrCompound is returned for compound resources, which cannot be loaded
	// yet. It matches errors.ErrUnsupported.
	ErrCompound = fmt.Errorf("compound resource: %w", errors.ErrUnsupported)
)

// Errors re-exported from layout.
var (
	// ErrBadSignature is returned when the source is not a RES file.
	ErrBadSignature = layout.ErrBadSignature
)
