package components

import (
	"strings"
	"testing"
)

func TestHighlightMatches(t *testing.T) {
	out := highlightMatches("Alejandro", []int{0, 1}, authorHighlight)

	want := authorHighlight.match + "Al" + reset + authorHighlight.normal + "ejandro" + reset
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestHighlightMatches_NoMatches(t *testing.T) {
	out := highlightMatches("héllo", nil, plainHighlight)
	if strings.Contains(out, plainHighlight.match) {
		t.Errorf("unexpected match styling in %q", out)
	}
	if !strings.Contains(out, "héllo") {
		t.Errorf("text lost in %q", out)
	}
	if highlightMatches("", []int{0}, plainHighlight) != "" {
		t.Error("empty text should render nothing")
	}
}

func TestHighlightMatches_RunePositions(t *testing.T) {
	out := highlightMatches("Zoë Ray", []int{2}, filenameHighlight)
	if !strings.Contains(out, filenameHighlight.match+"ë"+reset) {
		t.Errorf("multibyte rune not highlighted as one unit: %q", out)
	}
}
