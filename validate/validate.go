package validate

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Status classifies the outcome of a Validate call.
type Status int

const (
	Valid Status = iota
	MissingMetadata
	InvalidStructure
	VersionMismatch
	ChecksumMismatch
)

func (s Status) String() string {
	switch s {
	case Valid:
		return "Valid"
	case MissingMetadata:
		return "MissingMetadata"
	case InvalidStructure:
		return "InvalidStructure"
	case VersionMismatch:
		return "VersionMismatch"
	case ChecksumMismatch:
		return "ChecksumMismatch"
	default:
		return "Unknown"
	}
}

// Result is the outcome of validating a save blob.
type Result struct {
	Status           Status
	Reason           string
	SaveVersion      int64
	MaxVersion       int64
	ExpectedChecksum uint32
	ActualChecksum   uint32
}

// Validate runs the structural and (optional) checksum checks from the
// expanded spec's validator section, in order: parse succeeds, root is an
// object, meta is present, version is an integer within the accepted
// window, an optional checksum matches the canonical re-emission of
// components, and components is present and is an object.
func Validate(blob []byte, maxAcceptedVersion int64) Result {
	if !gjson.ValidBytes(blob) {
		return Result{Status: InvalidStructure, Reason: "not valid JSON"}
	}
	root := gjson.ParseBytes(blob)
	if !root.IsObject() {
		return Result{Status: InvalidStructure, Reason: "root is not an object"}
	}

	meta := root.Get("meta")
	if !meta.Exists() {
		return Result{Status: MissingMetadata}
	}

	versionResult := meta.Get("version")
	if versionResult.Type != gjson.Number {
		return Result{Status: InvalidStructure, Reason: "meta.version is not a number"}
	}
	version := versionResult.Int()
	if version > maxAcceptedVersion {
		return Result{Status: VersionMismatch, SaveVersion: version, MaxVersion: maxAcceptedVersion}
	}

	components := root.Get("components")
	if !components.Exists() || !components.IsObject() {
		return Result{Status: InvalidStructure, Reason: "components is missing or not an object"}
	}

	if checksumResult := meta.Get("checksum"); checksumResult.Exists() {
		expected := uint32(checksumResult.Uint())
		actual := Checksum([]byte(components.Raw))
		if expected != actual {
			return Result{
				Status:           ChecksumMismatch,
				ExpectedChecksum: expected,
				ActualChecksum:   actual,
				SaveVersion:      version,
			}
		}
	}

	if !components.Exists() || !components.IsObject() {
		return Result{Status: InvalidStructure, Reason: "components is missing or not an object"}
	}

	return Result{Status: Valid, SaveVersion: version}
}

// AddChecksum re-emits blob with meta.checksum set to the CRC-32 of the
// canonical form of its components sub-tree, so later verification is
// independent of whatever whitespace or key order produced the blob.
func AddChecksum(blob []byte) ([]byte, error) {
	components := gjson.GetBytes(blob, "components")
	checksum := Checksum([]byte(components.Raw))
	return sjson.SetBytes(blob, "meta.checksum", checksum)
}
