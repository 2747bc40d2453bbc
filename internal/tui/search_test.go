package tui

import (
	"strings"
	"testing"
)

func TestHistorySearchOpenListsNewestFirst(t *testing.T) {
	t.Parallel()

	var s historySearch
	s.Open([]string{"oldest", "middle", "newest"})

	if len(s.matches) != 3 {
		t.Fatalf("empty query must list recent entries, got %d", len(s.matches))
	}
	if s.matches[0].Str != "newest" {
		t.Fatalf("newest entry must come first, got %q", s.matches[0].Str)
	}
}

func TestHistorySearchOpenCapsRows(t *testing.T) {
	t.Parallel()

	entries := make([]string, 0, searchMaxRows+5)
	for i := 0; i < searchMaxRows+5; i++ {
		entries = append(entries, strings.Repeat("x", i+1))
	}
	var s historySearch
	s.Open(entries)
	if len(s.matches) != searchMaxRows {
		t.Fatalf("listing must be capped at %d rows, got %d", searchMaxRows, len(s.matches))
	}
}

func TestHistorySearchFuzzyQuery(t *testing.T) {
	t.Parallel()

	var s historySearch
	s.Open([]string{"git status", "list files", "git stash pop"})
	s.query = "gst"
	s.refresh()

	if len(s.matches) == 0 {
		t.Fatalf("fuzzy query found nothing")
	}
	for _, match := range s.matches {
		if !strings.HasPrefix(match.Str, "git st") {
			t.Fatalf("unexpected match %q", match.Str)
		}
	}
}

func TestHistorySearchChoice(t *testing.T) {
	t.Parallel()

	var s historySearch
	s.Open([]string{"alpha", "beta"})
	s.sel = 1
	got, ok := s.Choice()
	if !ok || got != "alpha" {
		t.Fatalf("choice: got %q ok=%v", got, ok)
	}

	s.Open(nil)
	if _, ok := s.Choice(); ok {
		t.Fatalf("empty search must have no choice")
	}
}

func TestHistorySearchRefreshClampsSelection(t *testing.T) {
	t.Parallel()

	var s historySearch
	s.Open([]string{"alpha", "beta", "gamma"})
	s.sel = 2
	s.query = "alpha"
	s.refresh()

	if s.sel >= len(s.matches) {
		t.Fatalf("selection must be clamped to the match list: sel=%d matches=%d", s.sel, len(s.matches))
	}
	if _, ok := s.Choice(); !ok {
		t.Fatalf("clamped selection must stay valid")
	}
}
