package airports

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Domenick1991/wolkenticket/internal/domain"
	"github.com/agnivade/levenshtein"
)

const (
	// DefaultListSize is how many options a search returns when no limit is given.
	DefaultListSize = 15
	// MinQueryLength is the shortest query that is matched instead of listing.
	MinQueryLength = 2

	matchThreshold = 0.3
	matchDistance  = 100.0
)

// Index is an in-memory approximate matcher over airport options.
// A match scores errors/len(query) + position/100 and is kept when the score is at most 0.3.
// Label, value and country are searched; the best key wins.
type Index struct {
	options []domain.AirportOption
	keys    [][]string
}

func NewIndex(options []domain.AirportOption) *Index {
	keys := make([][]string, len(options))
	for i, o := range options {
		keys[i] = []string{strings.ToLower(o.Label), strings.ToLower(o.Value), strings.ToLower(o.Country)}
	}
	return &Index{options: options, keys: keys}
}

func (x *Index) Len() int {
	return len(x.options)
}

type hit struct {
	pos   int
	score float64
}

// Search returns options matching query ordered by score, ties in list order.
// A query shorter than MinQueryLength returns the head of the list unfiltered.
func (x *Index) Search(query string, limit int) []domain.AirportOption {
	if limit <= 0 {
		limit = DefaultListSize
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(query) < MinQueryLength {
		return head(x.options, limit)
	}

	var hits []hit
	for i, keys := range x.keys {
		best, ok := 1.0, false
		for _, key := range keys {
			if s, matched := score(query, key); matched && s < best {
				best, ok = s, true
			}
		}
		if ok {
			hits = append(hits, hit{pos: i, score: best})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].score < hits[b].score
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]domain.AirportOption, len(hits))
	for i, h := range hits {
		out[i] = x.options[h.pos]
	}
	return out
}

func head(options []domain.AirportOption, n int) []domain.AirportOption {
	if len(options) < n {
		n = len(options)
	}
	out := make([]domain.AirportOption, n)
	copy(out, options[:n])
	return out
}

// score finds the best approximate occurrence of pattern in text.
// Only windows that could still beat the threshold are examined.
func score(pattern, text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	if pos := strings.Index(text, pattern); pos >= 0 {
		if s := float64(utf8.RuneCountInString(text[:pos])) / matchDistance; s <= matchThreshold {
			return s, true
		}
	}

	p := []rune(pattern)
	t := []rune(text)
	m := len(p)
	maxErrors := int(matchThreshold * float64(m))
	if maxErrors == 0 {
		return 0, false
	}
	maxPos := int(matchThreshold * matchDistance)

	best, found := 1.0, false
	for start := 0; start <= maxPos && start < len(t); start++ {
		for size := m - maxErrors; size <= m+maxErrors; size++ {
			if size <= 0 || start+size > len(t) {
				continue
			}
			errs := levenshtein.ComputeDistance(pattern, string(t[start:start+size]))
			if errs > maxErrors {
				continue
			}
			s := float64(errs)/float64(m) + float64(start)/matchDistance
			if s <= matchThreshold && s < best {
				best, found = s, true
			}
		}
	}
	return best, found
}
