package registry

import (
	"github.com/rotisserie/eris"

	"github.com/labelle-toolkit/serialization/binary"
	"github.com/labelle-toolkit/serialization/shape"
)

// Error kinds surfaced at the API boundary (spec §6), each a distinct
// sentinel so callers can eris.Is against the specific failure rather than
// string-matching a message.
//
// ErrMissingField, ErrInvalidEnumValue, ErrInvalidUnionTag,
// ErrArrayLengthMismatch, ErrStringTooLong, and ErrArrayTooLong alias the
// sentinels declared in package shape: the text and binary walkers are the
// actual raise sites for these failures, and both already depend on shape
// with no cycle back to registry, so registry re-exports shape's values
// instead of declaring independent ones that eris.Is would never match.
// ErrInvalidMagic and ErrUnsupportedFormatVersion similarly alias package
// binary's header sentinels.
var (
	ErrSaveFromNewerVersion   = eris.New("registry: save is from a newer version than this build accepts")
	ErrSaveTooOld             = eris.New("registry: save is older than the minimum loadable version")
	ErrInvalidSaveFormat      = eris.New("registry: save blob is not structurally valid")
	ErrUnregisteredComponent  = eris.New("registry: component type is not in the registered set")
	ErrInvalidEntityReference = eris.New("registry: entity reference could not be resolved")
	ErrTypeMismatch           = eris.New("registry: value does not match the component's declared shape")
	ErrArrayLengthMismatch    = shape.ErrArrayLengthMismatch
	ErrMissingField           = shape.ErrMissingField
	ErrInvalidEnumValue       = shape.ErrInvalidEnumValue
	ErrInvalidUnionTag        = shape.ErrInvalidUnionTag
	ErrChecksumMismatch       = eris.New("registry: checksum does not match the canonical re-emission")
	ErrStringTooLong          = shape.ErrStringTooLong
	ErrArrayTooLong           = shape.ErrArrayTooLong
	ErrInvalidMagic           = binary.ErrBadMagic
	ErrUnsupportedFormatVersion = binary.ErrUnsupportedFormatVersion
	ErrComponentNotInSave     = eris.New("registry: requested component is absent from the save and skip_missing is not set")
	ErrMissingVersion         = eris.New("registry: save metadata has no version")
	ErrWriteOnlyComponent     = eris.New("registry: component has a custom emit hook but no matching parse hook, so it cannot be loaded")
	ErrFileTooLarge           = eris.New("registry: save blob exceeds the configured file size limit")
)
