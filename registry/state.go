package registry

// State tracks a Codec's current phase, matching the "Idle -> Serializing
// -> Idle" / "Idle -> Validating -> Creating -> Populating -> Idle" state
// machine from §4.4. A Codec is single-use per call: Encode/Decode reset to
// Idle on return, success or failure.
type State int

const (
	Idle State = iota
	Serializing
	Validating
	Creating
	Populating
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Serializing:
		return "Serializing"
	case Validating:
		return "Validating"
	case Creating:
		return "Creating"
	case Populating:
		return "Populating"
	default:
		return "Unknown"
	}
}
