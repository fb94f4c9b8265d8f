// ABOUTME: Splits long text into grapheme-budgeted chunks for a reply thread
// ABOUTME: Prefers sentence boundaries, falls back to commas, labels parts "N/M "
package thread

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Segmenter splits text into chunks that each fit MaxGraphemes.
//
// A fragment that is still over budget after comma splitting is emitted as a
// single oversized chunk. With Strict set, that case returns ErrInputTooLarge,
// and a labeled chunk pushed over budget by a multi-digit label returns
// ErrLabelOverflow.
type Segmenter struct {
	MaxGraphemes int
	Strict       bool
}

// NewSegmenter creates a non-strict Segmenter with the given budget.
func NewSegmenter(maxGraphemes int) *Segmenter {
	return &Segmenter{MaxGraphemes: maxGraphemes}
}

// Segment splits text using the non-strict policy.
func Segment(text string, maxGraphemes int) []string {
	chunks, _ := NewSegmenter(maxGraphemes).Split(text)
	return chunks
}

// Split returns the ordered chunks for text. Text that already fits is
// returned unchanged as the only chunk, without a label.
func (s *Segmenter) Split(text string) ([]string, error) {
	maxGraphemes := s.MaxGraphemes
	if maxGraphemes <= 0 {
		maxGraphemes = DefaultMaxGraphemes
	}
	if Count(text) <= maxGraphemes {
		return []string{text}, nil
	}

	effective := maxGraphemes - LabelReserve
	if effective < 1 {
		effective = 1
	}

	var (
		chunks    []string
		current   string
		oversized bool
	)

	flush := func() {
		if current != "" {
			chunks = append(chunks, current)
			current = ""
		}
	}

	add := func(part, sep string) {
		candidate := part
		if current != "" {
			candidate = current + sep + part
		}
		if Count(candidate) <= effective {
			current = candidate
			return
		}
		flush()
		current = part
	}

	for _, sentence := range splitSentences(text) {
		if Count(sentence) <= effective {
			add(sentence, " ")
			continue
		}

		// Clauses of an over-long sentence never share a chunk with earlier sentences
		flush()
		for _, clause := range splitClauses(sentence) {
			if Count(clause) > effective {
				oversized = true
			}
			add(clause, ", ")
		}
	}
	flush()

	// Over-budget whitespace trims away entirely; still yield one chunk
	if len(chunks) == 0 {
		return []string{""}, nil
	}

	if oversized && s.Strict {
		return nil, fmt.Errorf("%w: limit %d graphemes", ErrInputTooLarge, effective)
	}

	labeled := labelChunks(chunks)
	if s.Strict {
		for i, chunk := range labeled {
			if Count(chunk) > maxGraphemes {
				return nil, fmt.Errorf("%w: part %d of %d", ErrLabelOverflow, i+1, len(labeled))
			}
		}
	}

	return labeled, nil
}

// labelChunks prefixes each chunk with "i/N ". N is only known once splitting
// is finished, so this runs as a separate pass. A single chunk stays unlabeled.
func labelChunks(chunks []string) []string {
	if len(chunks) <= 1 {
		return chunks
	}
	labeled := make([]string, len(chunks))
	for i, chunk := range chunks {
		labeled[i] = fmt.Sprintf("%d/%d %s", i+1, len(chunks), chunk)
	}
	return labeled
}

// splitSentences splits after '.', '!' or '?' when followed by whitespace.
// The whitespace between sentences is dropped.
func splitSentences(text string) []string {
	var sentences []string
	start := 0

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			r, size := utf8.DecodeRuneInString(text[i+1:])
			if size > 0 && unicode.IsSpace(r) {
				sentences = appendTrimmed(sentences, text[start:i+1])
				start = i + 1
			}
		}
	}
	return appendTrimmed(sentences, text[start:])
}

// splitClauses splits a sentence on commas. The commas are dropped.
func splitClauses(sentence string) []string {
	var clauses []string
	for _, part := range strings.Split(sentence, ",") {
		clauses = appendTrimmed(clauses, part)
	}
	return clauses
}

func appendTrimmed(parts []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return parts
	}
	return append(parts, s)
}
