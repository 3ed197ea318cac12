package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitEmptyText(t *testing.T) {
	c := New(1000, 200)
	if chunks := c.Split(""); chunks != nil {
		t.Errorf("expected nil for empty text, got %v", chunks)
	}
	if chunks := c.Split("   \n\n  "); chunks != nil {
		t.Errorf("expected nil for whitespace-only text, got %v", chunks)
	}
}

func TestSplitShortText(t *testing.T) {
	c := New(1000, 200)
	chunks := c.Split("un texto corto")
	if len(chunks) != 1 || chunks[0] != "un texto corto" {
		t.Errorf("expected single chunk, got %v", chunks)
	}
}

func TestChunksRespectWindowSize(t *testing.T) {
	c := New(100, 20)
	text := strings.Repeat("palabra palabra palabra. ", 100)
	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if n := utf8.RuneCountInString(chunk); n > 100 {
			t.Errorf("chunk %d has %d runes, want <= 100", i, n)
		}
	}
}

func TestSplitIsDeterministic(t *testing.T) {
	c := New(120, 30)
	text := strings.Repeat("Una frase sobre el documento. ", 60)
	first := c.Split(text)
	second := c.Split(text)
	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestPrefersParagraphBoundary(t *testing.T) {
	para1 := strings.Repeat("a", 70)
	para2 := strings.Repeat("b", 70)
	text := para1 + "\n\n" + para2
	c := New(100, 10)

	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected a split, got %v", chunks)
	}
	if chunks[0] != para1 {
		t.Errorf("first chunk should end at the paragraph break, got %q", chunks[0])
	}
}

func TestConsecutiveChunksOverlap(t *testing.T) {
	// Unbroken text forces hard cuts, where the overlap is exact.
	text := strings.Repeat("x", 95) + strings.Repeat("y", 95) + strings.Repeat("z", 95)
	c := New(100, 20)
	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		tail := chunks[i-1][len(chunks[i-1])-20:]
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("chunk %d does not start with the previous chunk's tail", i)
		}
	}
}

func TestSplitIsRuneSafe(t *testing.T) {
	text := strings.Repeat("ñá", 300)
	c := New(100, 20)
	for i, chunk := range c.Split(text) {
		if !utf8.ValidString(chunk) {
			t.Errorf("chunk %d is not valid UTF-8", i)
		}
	}
}
