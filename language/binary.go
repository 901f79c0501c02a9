package language

import "bytes"

// SniffLen is how many leading bytes are inspected for binary detection.
const SniffLen = 512

// IsBinaryContent reports whether data looks like binary rather than source text.
// A NUL byte within the first SniffLen bytes marks the content as binary.
func IsBinaryContent(data []byte) bool {
	if len(data) > SniffLen {
		data = data[:SniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}
