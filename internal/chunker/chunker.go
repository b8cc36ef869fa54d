// Package chunker splits extracted text into overlapping, size-bounded
// chunks by recursive separator priority.
package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driven"
)

// DefaultSeparators is the split priority order: paragraph break, line
// break, sentence end, word boundary, then hard character split.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter splits text on the largest available separator so that each
// chunk stays within the size limit wherever the text's structure
// allows, carrying up to the configured overlap across chunk
// boundaries. It implements the Chunker port.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

var _ driven.Chunker = (*Splitter)(nil)

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the maximum chunk size in characters.
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

// WithSeparators sets the separator priority list. The empty string,
// when present, acts as the hard character-split fallback.
func WithSeparators(separators []string) Option {
	return func(s *Splitter) {
		if len(separators) > 0 {
			s.separators = separators
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize:  domain.DefaultChunkSize,
		overlap:    domain.DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// Chunk splits text into document-ordered chunks for the given source.
// The split runs first so the final count is known, then every chunk is
// built carrying that count in its metadata.
func (s *Splitter) Chunk(text, source string) ([]domain.Chunk, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: source name is empty", domain.ErrInvalidInput)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		// Empty content produces no chunks
		return nil, nil
	}

	texts := s.split(trimmed, s.separators)
	total := len(texts)

	chunks := make([]domain.Chunk, 0, total)
	for i, t := range texts {
		chunk, err := domain.NewChunk(source, t, i, total)
		if err != nil {
			return nil, fmt.Errorf("building chunk %d of %s: %w", i, source, err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// split recursively breaks text on the first separator from seps that
// occurs in it, descending to finer separators for pieces that are
// still too large.
func (s *Splitter) split(text string, seps []string) []string {
	if utf8.RuneCountInString(text) <= s.chunkSize {
		if piece := strings.TrimSpace(text); piece != "" {
			return []string{piece}
		}
		return nil
	}

	sep, rest := pickSeparator(text, seps)
	if sep == "" {
		return s.hardSplit(text)
	}

	// SplitAfter keeps the separator attached to the preceding piece,
	// so re-joining pieces reconstructs the original text.
	pieces := strings.SplitAfter(text, sep)

	var final []string
	var fitting []string
	for _, piece := range pieces {
		if utf8.RuneCountInString(piece) <= s.chunkSize {
			fitting = append(fitting, piece)
			continue
		}
		if len(fitting) > 0 {
			final = append(final, s.merge(fitting)...)
			fitting = nil
		}
		final = append(final, s.split(piece, rest)...)
	}
	if len(fitting) > 0 {
		final = append(final, s.merge(fitting)...)
	}
	return final
}

// merge greedily packs separator-sized pieces into chunks up to the
// size limit. When a chunk is emitted, pieces are dropped from the
// front of the window until at most overlap characters remain to seed
// the next chunk.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string
	var window []string
	total := 0

	for _, piece := range pieces {
		pieceLen := utf8.RuneCountInString(piece)
		if total > 0 && total+pieceLen > s.chunkSize {
			if joined := strings.TrimSpace(strings.Join(window, "")); joined != "" {
				chunks = append(chunks, joined)
			}
			for len(window) > 0 && (total > s.overlap || total+pieceLen > s.chunkSize) {
				total -= utf8.RuneCountInString(window[0])
				window = window[1:]
			}
		}
		window = append(window, piece)
		total += pieceLen
	}

	if joined := strings.TrimSpace(strings.Join(window, "")); joined != "" {
		chunks = append(chunks, joined)
	}
	return chunks
}

// hardSplit is the last resort for text with no usable separators:
// fixed windows advancing by (size - overlap) characters.
func (s *Splitter) hardSplit(text string) []string {
	runes := []rune(text)
	step := s.chunkSize - s.overlap
	if step <= 0 {
		step = s.chunkSize
	}

	chunks := make([]string, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		if piece := strings.TrimSpace(string(runes[start:end])); piece != "" {
			chunks = append(chunks, piece)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// pickSeparator returns the first separator present in text and the
// lower-priority tail after it. The empty separator always matches.
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
