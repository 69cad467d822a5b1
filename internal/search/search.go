package search

import (
	"log/slog"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/pixfind/internal/domain"
	"github.com/sahilm/fuzzy"
)

// Modes
const (
	ModeSubstring = "substring"
	ModeFuzzy     = "fuzzy"
)

// minFilenameQuery is the query length above which filenames are searched too
const minFilenameQuery = 2

// Result is one matching picture with match positions for highlighting
type Result struct {
	Picture         domain.Picture
	AuthorMatches   []int // Rune positions in Author
	FilenameMatches []int // Rune positions in Filename
}

// Results holds the shown matches and how many matched in total
type Results struct {
	Query   string
	Matches []Result
	Total   int
}

// Truncated reports whether more pictures matched than are shown
func (r Results) Truncated() bool {
	return r.Total > len(r.Matches)
}

// Service filters the picture list
type Service struct {
	mode   string
	limit  int
	logger *slog.Logger
}

// NewService creates a search service showing at most limit matches
func NewService(mode string, limit int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if mode == "" {
		mode = ModeSubstring
	}
	return &Service{
		mode:   mode,
		limit:  limit,
		logger: logger,
	}
}

// Filter returns the pictures matching query. A blank query returns nil.
func (s *Service) Filter(query string, pictures []domain.Picture) *Results {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	var found []Result
	switch s.mode {
	case ModeFuzzy:
		found = fuzzyMatches(query, pictures)
	default:
		for _, p := range MatchSubstring(query, pictures) {
			found = append(found, Result{
				Picture:         p,
				AuthorMatches:   HighlightIndexes(p.Author, query),
				FilenameMatches: HighlightIndexes(p.Filename, query),
			})
		}
	}

	results := &Results{Query: query, Total: len(found), Matches: found}
	if s.limit > 0 && len(found) > s.limit {
		results.Matches = found[:s.limit]
	}

	s.logger.Debug("filtered pictures", "query", query, "mode", s.mode, "total", results.Total)
	return results
}

// MatchSubstring keeps list order. A picture matches when its author
// contains the lowercased query, or, for queries longer than two characters,
// when its filename contains the query as typed.
func MatchSubstring(query string, pictures []domain.Picture) []domain.Picture {
	searchFor := strings.ToLower(query)
	searchFilenames := utf8.RuneCountInString(searchFor) > minFilenameQuery

	var found []domain.Picture
	for _, p := range pictures {
		if strings.Contains(strings.ToLower(p.Author), searchFor) ||
			(searchFilenames && strings.Contains(p.Filename, query)) {
			found = append(found, p)
		}
	}
	return found
}

// fuzzyMatches ranks "author filename" with diacritic-insensitive fuzzy
// matching, best first.
func fuzzyMatches(query string, pictures []domain.Picture) []Result {
	targets := make([]string, len(pictures))
	for i, p := range pictures {
		targets[i] = p.Author + " " + p.Filename
	}

	ranks := lfuzzy.RankFindNormalizedFold(strings.TrimSpace(query), targets)
	sort.Stable(ranks)

	results := make([]Result, 0, len(ranks))
	for _, rank := range ranks {
		p := pictures[rank.OriginalIndex]
		results = append(results, Result{
			Picture:         p,
			AuthorMatches:   FuzzyIndexes(p.Author, query),
			FilenameMatches: FuzzyIndexes(p.Filename, query),
		})
	}
	return results
}

// HighlightIndexes returns the rune positions covered by non-overlapping,
// case-insensitive occurrences of query in text.
func HighlightIndexes(text, query string) []int {
	t := []rune(text)
	q := []rune(query)
	if len(q) == 0 || len(q) > len(t) {
		return nil
	}

	var indexes []int
	for i := 0; i+len(q) <= len(t); {
		if runesEqualFold(t[i:i+len(q)], q) {
			for j := 0; j < len(q); j++ {
				indexes = append(indexes, i+j)
			}
			i += len(q)
			continue
		}
		i++
	}
	return indexes
}

func runesEqualFold(a, b []rune) bool {
	for i := range a {
		if unicode.ToLower(a[i]) != unicode.ToLower(b[i]) {
			return false
		}
	}
	return true
}

// FuzzyIndexes returns the rune positions of a fuzzy match of query in text
func FuzzyIndexes(text, query string) []int {
	matches := fuzzy.Find(strings.TrimSpace(query), []string{text})
	if len(matches) == 0 {
		return nil
	}
	return byteToRuneIndexes(text, matches[0].MatchedIndexes)
}

// byteToRuneIndexes converts byte offsets into text to rune positions
func byteToRuneIndexes(text string, byteIndexes []int) []int {
	if len(byteIndexes) == 0 {
		return nil
	}
	positions := make(map[int]int, len(text))
	r := 0
	for b := range text {
		positions[b] = r
		r++
	}

	out := make([]int, 0, len(byteIndexes))
	for _, b := range byteIndexes {
		if pos, ok := positions[b]; ok {
			out = append(out, pos)
		}
	}
	return out
}
