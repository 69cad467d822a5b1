package search

import (
	"reflect"
	"testing"

	"github.com/mmcdole/pixfind/internal/domain"
)

var pictures = []domain.Picture{
	{ID: 0, Author: "Alejandro Escamilla", Filename: "0000_yCiOzS5VlNA.jpeg"},
	{ID: 10, Author: "Paul Jarvis", Filename: "0010_zbvFkvYqAAk.jpeg"},
	{ID: 11, Author: "Paul Jarvis", Filename: "0011_Cm7oKel-X2Q.jpeg"},
	{ID: 20, Author: "Aleks Dorohovich", Filename: "0020_nJdwUHmaY8A.jpeg"},
	{ID: 42, Author: "Luke Chesser", Filename: "0042_3Vwv2lpKVjs.jpeg"},
}

func ids(rs []Result) []int {
	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = r.Picture.ID
	}
	return out
}

func TestFilter_BlankQueryHasNoResults(t *testing.T) {
	s := NewService(ModeSubstring, 10, nil)
	for _, q := range []string{"", "   ", "\t"} {
		if got := s.Filter(q, pictures); got != nil {
			t.Errorf("Filter(%q) = %+v; want nil", q, got)
		}
	}
}

func TestFilter_Substring(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"author case-insensitive", "PAUL", []int{10, 11}},
		{"author prefix shared", "ale", []int{0, 20}},
		{"short query skips filenames", "00", nil},
		{"filename match over two chars", "0042", []int{42}},
		{"filename is case-sensitive", "cm7okel", nil},
		{"filename exact case", "Cm7oKel", []int{11}},
		{"extension matches everything", ".jpeg", []int{0, 10, 11, 20, 42}},
		{"no match", "zzz", nil},
	}

	s := NewService(ModeSubstring, 10, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Filter(tt.query, pictures)
			if got == nil {
				t.Fatal("Filter() returned nil for a non-blank query")
			}
			if g := ids(got.Matches); len(g) != len(tt.want) || (len(g) > 0 && !reflect.DeepEqual(g, tt.want)) {
				t.Errorf("ids = %v; want %v", g, tt.want)
			}
			if got.Total != len(tt.want) {
				t.Errorf("Total = %d; want %d", got.Total, len(tt.want))
			}
		})
	}
}

func TestFilter_LimitsShownMatches(t *testing.T) {
	s := NewService(ModeSubstring, 2, nil)
	got := s.Filter(".jpeg", pictures)

	if got.Total != 5 {
		t.Errorf("Total = %d; want 5", got.Total)
	}
	if !reflect.DeepEqual(ids(got.Matches), []int{0, 10}) {
		t.Errorf("ids = %v; want first two in list order", ids(got.Matches))
	}
	if !got.Truncated() {
		t.Error("Truncated() should be true")
	}
}

func TestFilter_Fuzzy(t *testing.T) {
	s := NewService(ModeFuzzy, 10, nil)
	got := s.Filter("lkchsr", pictures)

	if got == nil || len(got.Matches) == 0 {
		t.Fatal("expected a fuzzy match")
	}
	if got.Matches[0].Picture.ID != 42 {
		t.Errorf("best match = %d; want 42", got.Matches[0].Picture.ID)
	}
	if len(got.Matches[0].AuthorMatches) == 0 {
		t.Error("expected author highlight positions")
	}
}

func TestFilter_FuzzyIgnoresDiacritics(t *testing.T) {
	list := []domain.Picture{{ID: 1, Author: "Zoë Hernández", Filename: "0001_a.jpeg"}}
	got := NewService(ModeFuzzy, 10, nil).Filter("zoe hernandez", list)

	if got == nil || got.Total != 1 {
		t.Fatalf("Filter() = %+v; want one match", got)
	}
}

func TestHighlightIndexes(t *testing.T) {
	tests := []struct {
		text, query string
		want        []int
	}{
		{"Paul Jarvis", "paul", []int{0, 1, 2, 3}},
		{"Anna Anna", "an", []int{0, 1, 5, 6}},
		{"aaa", "aa", []int{0, 1}},
		{"Łukasz", "ŁU", []int{0, 1}},
		{"short", "longer query", nil},
		{"text", "", nil},
	}

	for _, tt := range tests {
		got := HighlightIndexes(tt.text, tt.query)
		if len(got) != len(tt.want) || (len(got) > 0 && !reflect.DeepEqual(got, tt.want)) {
			t.Errorf("HighlightIndexes(%q, %q) = %v; want %v", tt.text, tt.query, got, tt.want)
		}
	}
}

func TestByteToRuneIndexes(t *testing.T) {
	// "é" is two bytes, so "x" sits at byte 2 but rune 1
	got := byteToRuneIndexes("éx", []int{0, 2})
	if !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("byteToRuneIndexes() = %v; want [0 1]", got)
	}
}
