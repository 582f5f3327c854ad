package reading

import "unicode/utf8"

// DefaultChunkSize is the byte window used to simulate token-by-token
// streaming over an already-complete message.
const DefaultChunkSize = 28

// chunkMessage splits a message into windows of at most size bytes. A window
// boundary that would split a multi-byte rune is pulled back to the previous
// rune start, so concatenating the chunks always reconstructs the message.
func chunkMessage(message string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	data := []byte(message)
	var chunks []string
	for start := 0; start < len(data); {
		end := start + size
		if end >= len(data) {
			chunks = append(chunks, string(data[start:]))
			break
		}
		for end > start && !utf8.RuneStart(data[end]) {
			end--
		}
		if end == start {
			// A single rune wider than the window; emit it whole.
			_, width := utf8.DecodeRune(data[start:])
			end = start + width
		}
		chunks = append(chunks, string(data[start:end]))
		start = end
	}
	return chunks
}
