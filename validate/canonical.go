// Package validate structurally checks a save blob against a supported
// version window and, optionally, a CRC-32 checksum of its components
// sub-tree re-emitted in canonical form.
//
// Canonical form resolves an explicit open question in the distilled spec:
// the original implementation's canonicalization did not sort object keys,
// which made its checksums sensitive to emission order. This package sorts
// object keys lexicographically before stripping whitespace, a deliberate
// departure documented in this module's design notes rather than a silent
// repeat of the source's order-sensitive behavior.
package validate

import (
	"hash/crc32"

	"github.com/tidwall/pretty"
)

// Canonicalize returns raw's bytes with every object's keys sorted
// lexicographically and all insignificant whitespace removed.
func Canonicalize(raw []byte) []byte {
	sorted := pretty.PrettyOptions(raw, &pretty.Options{SortKeys: true})
	return pretty.Ugly(sorted)
}

// Checksum computes the CRC-32 (IEEE polynomial) of the canonical form of
// raw, matching the algorithm the expanded spec names explicitly by name.
func Checksum(raw []byte) uint32 {
	return crc32.ChecksumIEEE(Canonicalize(raw))
}
