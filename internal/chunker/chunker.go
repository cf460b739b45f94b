// Package chunker splits flattened text tokens into bounded-size chunks
// suitable for embedding.
package chunker

// DefaultMaxChars is the default chunk size in characters.
const DefaultMaxChars = 800

// Split greedily accumulates tokens into chunks of at most maxChars
// characters, joining buffered tokens with a single space. A token whose
// own length is at least maxChars is hard-split into maxChars-sized slices
// and never merged with buffered content. No emitted chunk exceeds
// maxChars and no token is dropped, regardless of size.
//
// The output is a pure function of the token order and maxChars. An empty
// input yields no chunks.
func Split(tokens []string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	var chunks []string
	var buf []byte
	bufLen := 0

	flush := func() {
		if bufLen > 0 {
			chunks = append(chunks, string(buf))
			buf = buf[:0]
			bufLen = 0
		}
	}

	for _, t := range tokens {
		// Appending t (plus a separator) would overflow: flush first.
		if bufLen+len(t)+1 > maxChars {
			flush()
		}

		if len(t) >= maxChars {
			// Oversized token: emit fixed-size slices on their own.
			for i := 0; i < len(t); i += maxChars {
				end := i + maxChars
				if end > len(t) {
					end = len(t)
				}
				chunks = append(chunks, t[i:end])
			}
			continue
		}

		if bufLen > 0 {
			buf = append(buf, ' ')
			bufLen++
		}
		buf = append(buf, t...)
		bufLen += len(t)
	}

	flush()
	return chunks
}
