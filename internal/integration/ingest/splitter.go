package ingest

import (
	"strings"
	"unicode/utf8"
)

var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter cuts text into chunks of at most size runes, preferring paragraph, then line,
// then word boundaries. Consecutive chunks share up to overlap runes.
type Splitter struct {
	size       int
	overlap    int
	separators []string
}

func NewSplitter(size, overlap int) *Splitter {
	if overlap >= size {
		overlap = size / 5
	}
	return &Splitter{size: size, overlap: overlap, separators: defaultSeparators}
}

func (s *Splitter) Split(text string) []string {
	out := s.split(text, s.separators)
	chunks := make([]string, 0, len(out))
	for _, c := range out {
		if c = strings.TrimSpace(c); c != "" {
			chunks = append(chunks, c)
		}
	}
	return chunks
}

func (s *Splitter) split(text string, separators []string) []string {
	sep := separators[len(separators)-1]
	var rest []string
	for i, candidate := range separators {
		if candidate == "" || strings.Contains(text, candidate) {
			sep = candidate
			rest = separators[i+1:]
			break
		}
	}

	var pieces []string
	if sep == "" {
		pieces = strings.Split(text, "")
	} else {
		pieces = strings.Split(text, sep)
	}

	var (
		chunks []string
		small  []string
	)
	for _, p := range pieces {
		if runeLen(p) <= s.size {
			small = append(small, p)
			continue
		}
		if len(small) > 0 {
			chunks = append(chunks, s.merge(small, sep)...)
			small = nil
		}
		if len(rest) == 0 {
			chunks = append(chunks, p)
			continue
		}
		chunks = append(chunks, s.split(p, rest)...)
	}
	if len(small) > 0 {
		chunks = append(chunks, s.merge(small, sep)...)
	}

	return chunks
}

// merge packs pieces into windows of at most size runes, carrying an overlap tail
func (s *Splitter) merge(pieces []string, sep string) []string {
	sepLen := runeLen(sep)

	var (
		chunks  []string
		current []string
		total   int
	)
	for _, p := range pieces {
		pLen := runeLen(p)
		joinLen := 0
		if len(current) > 0 {
			joinLen = sepLen
		}

		if total+pLen+joinLen > s.size && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, sep))

			for total > s.overlap || (total+pLen+sepLen > s.size && total > 0) {
				total -= runeLen(current[0])
				if len(current) > 1 {
					total -= sepLen
				}
				current = current[1:]
			}
			if len(current) == 0 {
				total = 0
			}
		}

		if len(current) > 0 {
			total += sepLen
		}
		current = append(current, p)
		total += pLen
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, sep))
	}

	return chunks
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
