package tui

import (
	"reflect"
	"testing"
)

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	got := wrapText("reviewed the open PR", 10)
	want := []string{"reviewed", "the open", "PR"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wrapText = %q, want %q", got, want)
	}
}

func TestWrapTextHardBreaksLongWords(t *testing.T) {
	got := wrapText("abcdefgh", 3)
	want := []string{"abc", "def", "gh"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wrapText = %q, want %q", got, want)
	}
}

func TestWrapTextCountsWideRunes(t *testing.T) {
	got := wrapText("会議会議", 4)
	want := []string{"会議", "会議"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wrapText = %q, want %q", got, want)
	}
}

func TestWrapTextEmpty(t *testing.T) {
	got := wrapText("", 10)
	if len(got) != 1 || got[0] != "" {
		t.Fatalf("wrapText(\"\") = %q", got)
	}
}
