package render

import (
	"slices"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func lineTexts(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Text())
	}
	return out
}

func TestWrapLineBreaksAtSpaces(t *testing.T) {
	t.Parallel()

	line := Line{Spans: []Span{{Text: "one two three four"}}}
	got := lineTexts(WrapLine(line, 9))
	want := []string{"one two", "three", "four"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestWrapLineKeepsShortLineIntact(t *testing.T) {
	t.Parallel()

	line := Line{Spans: []Span{{Text: "short"}}}
	got := WrapLine(line, 40)
	if len(got) != 1 || got[0].Text() != "short" {
		t.Fatalf("short line must not be split: %v", lineTexts(got))
	}
}

func TestWrapLineHardBreaksUnbrokenRuns(t *testing.T) {
	t.Parallel()

	line := Line{Spans: []Span{{Text: "abcdefghij"}}}
	got := lineTexts(WrapLine(line, 4))
	want := []string{"abcd", "efgh", "ij"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestWrapLineNeverSplitsWideRunes(t *testing.T) {
	t.Parallel()

	line := Line{Spans: []Span{{Text: "你好世界"}}}
	for _, sub := range WrapLine(line, 3) {
		if sub.Width() > 3 {
			t.Fatalf("sub-line exceeds width: %q (%d cols)", sub.Text(), sub.Width())
		}
	}
	got := lineTexts(WrapLine(line, 3))
	want := []string{"你", "好", "世", "界"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestWrapLinePreservesStyleRuns(t *testing.T) {
	t.Parallel()

	bold := lipgloss.NewStyle().Bold(true)
	line := Line{Spans: []Span{
		{Text: "plain "},
		{Text: "bold", Style: bold},
	}}
	subs := WrapLine(line, 6)
	if len(subs) != 2 {
		t.Fatalf("expected 2 sub-lines, got %v", lineTexts(subs))
	}
	if subs[1].Text() != "bold" {
		t.Fatalf("second sub-line: got %q", subs[1].Text())
	}
	if !subs[1].Spans[0].Style.GetBold() {
		t.Fatalf("style run lost across the break")
	}
}

func TestWrapTextSplitsOnNewlines(t *testing.T) {
	t.Parallel()

	got := lineTexts(WrapText("alpha\n\nbeta", 40, lipgloss.NewStyle()))
	want := []string{"alpha", "", "beta"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestWrapTextEmptyInputYieldsOneBlankLine(t *testing.T) {
	t.Parallel()

	got := WrapText("", 40, lipgloss.NewStyle())
	if len(got) != 1 || !got[0].IsBlank() {
		t.Fatalf("empty text must map to a single blank line, got %v", lineTexts(got))
	}
}

func TestSliceKeepsSpanBoundaries(t *testing.T) {
	t.Parallel()

	bold := lipgloss.NewStyle().Bold(true)
	line := Line{Spans: []Span{
		{Text: "abc"},
		{Text: "def", Style: bold},
	}}
	got := Slice(line, 2, 4)
	if got.Text() != "cd" {
		t.Fatalf("slice text: got %q", got.Text())
	}
	if len(got.Spans) != 2 {
		t.Fatalf("slice must keep the span boundary, got %d spans", len(got.Spans))
	}
	if !got.Spans[1].Style.GetBold() {
		t.Fatalf("second span lost its style")
	}
}
