// Package text implements the text save format (spec §4.2): a JSON
// rendering of a shape tree with struct fields emitted in declaration
// order. Field order is preserved by building the document with
// github.com/tidwall/sjson, which appends new object keys in call order
// rather than through a Go map (maps would scramble field order); decoding
// reads the same document back with github.com/tidwall/gjson, looking each
// field up by name so order on read never matters. Compact and pretty
// rendering are the same buffer passed through github.com/tidwall/pretty.
package text
