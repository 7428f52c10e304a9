// Package chunker splits page text into overlapping, bounded-size
// fragments using a hierarchical separator fallback: paragraph breaks
// first, then line breaks, then spaces, then fixed character windows as
// a last resort.
package chunker

import "strings"

// DefaultChunkSize is the default soft maximum chunk length in characters.
const DefaultChunkSize = 800

// DefaultOverlap is the default number of overlapping characters repeated
// at the start of the next chunk.
const DefaultOverlap = 120

// separators lists split boundaries from coarsest to finest. The empty
// string is the mid-token last resort.
var separators = []string{"\n\n", "\n", " ", ""}

// Splitter splits a single page's text. It has no knowledge of document
// or corpus identity.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the soft maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Overlap must leave room for fresh content in every chunk.
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// Split returns the ordered, non-empty fragments of text. Each fragment
// is at most the chunk size unless a single unbreakable token exceeds it.
// Empty input yields no fragments.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, separators)
}

// split recursively breaks text on the coarsest separator present and
// merges the pieces back into chunks of at most chunkSize characters.
// Pieces that are still too large descend to the next-finer separator.
func (s *Splitter) split(text string, seps []string) []string {
	sep, rest := pickSeparator(text, seps)

	var pieces []string
	if sep == "" {
		return s.windows(text)
	}
	pieces = strings.Split(text, sep)

	var out []string
	var pending []string

	flush := func() {
		if len(pending) > 0 {
			out = append(out, s.merge(pending, sep)...)
			pending = nil
		}
	}

	for _, piece := range pieces {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		if runeLen(piece) <= s.chunkSize {
			pending = append(pending, piece)
			continue
		}
		// Oversized piece: emit what we have, then split finer.
		flush()
		out = append(out, s.split(piece, rest)...)
	}
	flush()

	return out
}

// merge greedily joins small pieces into chunks up to chunkSize, carrying
// roughly overlap characters of trailing context into the next chunk.
func (s *Splitter) merge(pieces []string, sep string) []string {
	sepLen := runeLen(sep)

	var chunks []string
	var window []string
	total := 0

	emit := func() {
		if len(window) == 0 {
			return
		}
		chunk := strings.TrimSpace(strings.Join(window, sep))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	for _, piece := range pieces {
		pl := runeLen(piece)
		joined := total + pl
		if len(window) > 0 {
			joined += sepLen
		}
		if joined > s.chunkSize && len(window) > 0 {
			emit()
			// Drop leading pieces until the retained tail fits the
			// overlap budget and leaves room for the incoming piece.
			for len(window) > 0 &&
				(total > s.overlap || total+pl+sepLen > s.chunkSize) {
				total -= runeLen(window[0])
				if len(window) > 1 {
					total -= sepLen
				}
				window = window[1:]
			}
		}
		window = append(window, piece)
		total += pl
		if len(window) > 1 {
			total += sepLen
		}
	}
	emit()

	return chunks
}

// windows slices text into fixed-size character windows with overlap.
// Used only when no separator at any level produced small enough pieces.
func (s *Splitter) windows(text string) []string {
	runes := []rune(text)
	step := s.chunkSize - s.overlap
	if step <= 0 {
		step = s.chunkSize
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// pickSeparator returns the coarsest separator present in text and the
// finer separators remaining below it.
func pickSeparator(text string, seps []string) (string, []string) {
	for i, sep := range seps {
		if sep == "" {
			return "", nil
		}
		if strings.Contains(text, sep) {
			return sep, seps[i+1:]
		}
	}
	return "", nil
}

func runeLen(s string) int {
	return len([]rune(s))
}
