package chunker

import "strings"

// Chunker splits text into overlapping windows of a target rune size,
// preferring paragraph, newline, sentence, and word boundaries over a
// hard cut.
type Chunker struct {
	size    int
	overlap int
}

// Separators tried in order when looking for a cut point.
var separators = []string{"\n\n", "\n", ". ", " "}

// New creates a chunker with the given window size and overlap, both
// in runes. Invalid values fall back to 1000/200.
func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = 200
		if overlap >= size {
			overlap = size / 5
		}
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split returns the ordered sequence of chunks for text. The sequence
// is deterministic: splitting the same text twice yields the same
// chunks, and the index of a chunk in the slice is its chunk number.
func (c *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + c.size
		if end >= len(runes) {
			if chunk := strings.TrimSpace(string(runes[start:])); chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}

		cut := c.cutPoint(runes, start, end)
		if chunk := strings.TrimSpace(string(runes[start:cut])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := cut - c.overlap
		if next <= start {
			// Overlap would stall the scan; advance past the cut.
			next = cut
		}
		start = next
	}
	return chunks
}

// cutPoint finds where to end the window starting at start. It scans
// the second half of the window backwards for the highest-priority
// separator and falls back to a hard cut at end.
func (c *Chunker) cutPoint(runes []rune, start, end int) int {
	window := string(runes[start:end])
	minCut := c.size / 2

	for _, sep := range separators {
		idx := strings.LastIndex(window, sep)
		if idx < 0 {
			continue
		}
		// LastIndex is a byte offset; convert to runes.
		runeIdx := len([]rune(window[:idx]))
		if runeIdx < minCut {
			continue
		}
		return start + runeIdx + len([]rune(sep))
	}
	return end
}
