package rdfio

import (
	"errors"
	"fmt"
)

// Common I/O errors.
var (
	// ErrUnknownFormat is returned for a format name that is not registered.
	ErrUnknownFormat = errors.New("unknown RDF format")

	// ErrUnsupportedTerm is returned when a term cannot be written in the target format.
	ErrUnsupportedTerm = errors.New("term not supported by format")
)

func unknownFormat(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}
