package workspace_scanner

import "strings"

// DecodeLossy converts raw bytes to a string, dropping byte sequences that
// are not valid UTF-8 rather than failing the read. This is a deliberate
// lossy policy: a prompt built from slightly mangled text still beats no
// content at all.
func DecodeLossy(raw []byte) string {
	return strings.ToValidUTF8(string(raw), "")
}
