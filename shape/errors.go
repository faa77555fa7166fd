package shape

import "github.com/rotisserie/eris"

// Error kinds raised by the text and binary walkers while encoding or
// decoding a described Shape. They live here, not in package registry,
// because both text and binary depend on shape with no cycle back to
// registry; registry's own sentinels of the same name alias these so
// eris.Is matches regardless of which layer actually raised the error.
var (
	ErrMissingField        = eris.New("shape: required field is absent and has no default")
	ErrInvalidEnumValue    = eris.New("shape: value is not a declared enum variant")
	ErrInvalidUnionTag     = eris.New("shape: tag is not a declared variant case")
	ErrArrayLengthMismatch = eris.New("shape: fixed-size array has the wrong element count")
	ErrStringTooLong       = eris.New("shape: string exceeds the configured length limit")
	ErrArrayTooLong        = eris.New("shape: array exceeds the configured element limit")
)
