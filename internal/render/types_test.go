package render

import (
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestLineWidthCountsColumns(t *testing.T) {
	t.Parallel()

	line := Line{Spans: []Span{{Text: "ab"}, {Text: "你好"}}}
	if got := line.Width(); got != 6 {
		t.Fatalf("width: got %d want 6", got)
	}
}

func TestLineIsBlank(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want bool
	}{
		{"", true},
		{"   ", true},
		{" x ", false},
	}
	for _, c := range cases {
		line := Line{Spans: []Span{{Text: c.text}}}
		if got := line.IsBlank(); got != c.want {
			t.Fatalf("IsBlank(%q): got %v want %v", c.text, got, c.want)
		}
	}
}

func TestPrefixLinesDistinguishesFirstRow(t *testing.T) {
	t.Parallel()

	lines := []Line{
		{Spans: []Span{{Text: "first"}}},
		{Spans: []Span{{Text: "second"}}},
	}
	out := PrefixLines(lines, Span{Text: "› "}, Span{Text: "  "})
	got := []string{out[0].Text(), out[1].Text()}
	want := []string{"› first", "  second"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestPadLineFillsToWidth(t *testing.T) {
	t.Parallel()

	line := Line{Spans: []Span{{Text: "hi"}}}
	out := PadLine(line, 6, lipgloss.NewStyle())
	if got := out.Text(); got != "hi    " {
		t.Fatalf("padded text: got %q", got)
	}
	if out.Width() != 6 {
		t.Fatalf("padded width: got %d", out.Width())
	}
}

func TestPadLineLeavesOverflowAlone(t *testing.T) {
	t.Parallel()

	line := Line{Spans: []Span{{Text: "overflowing"}}}
	out := PadLine(line, 4, lipgloss.NewStyle())
	if out.Text() != "overflowing" {
		t.Fatalf("overwide line must be returned untouched: %q", out.Text())
	}
}

func TestPadLineDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	line := Line{Spans: []Span{{Text: "hi"}}}
	_ = PadLine(line, 8, lipgloss.NewStyle())
	if len(line.Spans) != 1 || line.Spans[0].Text != "hi" {
		t.Fatalf("input line mutated: %+v", line)
	}
}

func TestLineToStringRendersBlankLineBlank(t *testing.T) {
	t.Parallel()

	if got := LineToString(Line{}); strings.TrimSpace(got) != "" {
		t.Fatalf("blank line must render blank: %q", got)
	}
}
