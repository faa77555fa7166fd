package text

import "github.com/tidwall/pretty"

// Pretty re-indents raw JSON with two-space indentation, matching the
// pretty-mode output the text format promises.
func Pretty(raw []byte) []byte {
	return pretty.PrettyOptions(raw, &pretty.Options{Indent: "  "})
}

// Compact strips all insignificant whitespace, matching compact-mode
// output.
func Compact(raw []byte) []byte {
	return pretty.Ugly(raw)
}
