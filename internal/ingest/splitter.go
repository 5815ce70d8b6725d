package ingest

import "strings"

// Chunk sizing is fixed: passages stay well under typical embedding context
// limits and neighbouring chunks share a tail so continuity survives the cut.
const (
	ChunkSize    = 1200
	ChunkOverlap = 200
)

var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter re-chunks text into bounded passages, preferring to break at
// paragraph, line, and word boundaries before falling back to raw
// character cuts.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// NewSplitter returns a splitter with the default chunk bounds.
func NewSplitter() *Splitter {
	return &Splitter{
		chunkSize:  ChunkSize,
		overlap:    ChunkOverlap,
		separators: defaultSeparators,
	}
}

// Split breaks text into chunks of at most the configured size.
// Whitespace-only output is dropped.
func (s *Splitter) Split(text string) []string {
	var out []string
	for _, chunk := range s.split(text, s.separators) {
		chunk = strings.TrimSpace(chunk)
		if chunk != "" {
			out = append(out, chunk)
		}
	}
	return out
}

func (s *Splitter) split(text string, separators []string) []string {
	if countChars(text) <= s.chunkSize {
		return []string{text}
	}

	// Pick the first separator that occurs in the text; the empty string
	// always matches and forces a character-level cut.
	sep := ""
	var rest []string
	for i, cand := range separators {
		if cand == "" {
			sep = ""
			break
		}
		if strings.Contains(text, cand) {
			sep = cand
			rest = separators[i+1:]
			break
		}
	}

	if sep == "" {
		return splitByChars(text, s.chunkSize, s.overlap)
	}

	var out []string
	cur := ""      // accumulated chunk
	carry := false // cur holds only the overlap tail of the previous chunk

	flush := func() {
		if cur == "" || carry {
			cur = ""
			carry = false
			return
		}
		out = append(out, cur)
		// Seed the next chunk with the tail of this one.
		if s.overlap > 0 {
			cur = tailChars(cur, s.overlap)
			carry = true
		} else {
			cur = ""
		}
	}

	for _, piece := range strings.Split(text, sep) {
		if piece == "" {
			continue
		}
		if countChars(piece) > s.chunkSize {
			// Oversized piece: emit what we have and recurse with the
			// finer separators.
			flush()
			cur = ""
			carry = false
			out = append(out, s.split(piece, rest)...)
			continue
		}

		need := countChars(piece)
		if cur != "" {
			need += countChars(sep)
		}
		if countChars(cur)+need > s.chunkSize {
			flush()
		}
		if cur != "" {
			cur += sep
		}
		cur += piece
		carry = false
	}
	if cur != "" && !carry {
		out = append(out, cur)
	}
	return out
}

// splitByChars is the last-resort window cut over runes.
func splitByChars(text string, maxChars int, overlap int) []string {
	text = strings.TrimSpace(text)
	if maxChars <= 0 || len(text) <= maxChars {
		return []string{text}
	}
	if overlap < 0 {
		overlap = 0
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return []string{text}
	}
	step := maxChars - overlap
	if step <= 0 {
		step = maxChars
	}
	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return out
}

func tailChars(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}

func countChars(text string) int {
	return len([]rune(text))
}
