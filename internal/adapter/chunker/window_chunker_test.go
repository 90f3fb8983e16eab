package chunker

import (
	"math"
	"strings"
	"testing"

	"osindexer/internal/domain"
)

func TestWindowChunkerHelloWorld(t *testing.T) {
	c, err := NewWindowChunker(5, 0)
	if err != nil {
		t.Fatal(err)
	}

	chunks, err := c.Chunk(domain.Document{Path: "/data/hello.txt", Text: "hello world"})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"hello", " worl", "d"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, w := range want {
		if chunks[i].Text != w {
			t.Errorf("chunk %d: expected %q, got %q", i, w, chunks[i].Text)
		}
		if chunks[i].Ordinal != i {
			t.Errorf("chunk %d: expected ordinal %d, got %d", i, i, chunks[i].Ordinal)
		}
	}
}

func TestWindowChunkerCountLaw(t *testing.T) {
	cases := []struct {
		length  int
		max     int
		overlap int
	}{
		{11, 5, 0},
		{10, 5, 0},
		{100, 10, 3},
		{300, 300, 30},
		{301, 300, 30},
		{1000, 300, 30},
		{7, 5, 2},
	}

	for _, tc := range cases {
		c, err := NewWindowChunker(tc.max, tc.overlap)
		if err != nil {
			t.Fatal(err)
		}

		text := strings.Repeat("x", tc.length)
		chunks, err := c.Chunk(domain.Document{Path: "/data/law.txt", Text: text})
		if err != nil {
			t.Fatal(err)
		}

		want := 1
		if tc.length > tc.max {
			want = int(math.Ceil(float64(tc.length-tc.overlap) / float64(tc.max-tc.overlap)))
		}
		if len(chunks) != want {
			t.Errorf("L=%d max=%d overlap=%d: expected %d chunks, got %d",
				tc.length, tc.max, tc.overlap, want, len(chunks))
		}
	}
}

func TestWindowChunkerRoundTrip(t *testing.T) {
	c, err := NewWindowChunker(7, 3)
	if err != nil {
		t.Fatal(err)
	}

	text := "the quick brown fox jumps over the lazy dog"
	chunks, err := c.Chunk(domain.Document{Path: "/data/fox.txt", Text: text})
	if err != nil {
		t.Fatal(err)
	}

	var rebuilt strings.Builder
	for i, chunk := range chunks {
		runes := []rune(chunk.Text)
		if i > 0 {
			runes = runes[3:]
		}
		rebuilt.WriteString(string(runes))
	}

	if rebuilt.String() != text {
		t.Errorf("round trip failed: got %q", rebuilt.String())
	}
}

func TestWindowChunkerShortDocument(t *testing.T) {
	c, err := NewWindowChunker(300, 30)
	if err != nil {
		t.Fatal(err)
	}

	chunks, err := c.Chunk(domain.Document{Path: "/data/short.txt", Text: "tiny"})
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "tiny" {
		t.Errorf("expected chunk text to match document")
	}
}

func TestWindowChunkerEmptyDocument(t *testing.T) {
	c, err := NewWindowChunker(300, 30)
	if err != nil {
		t.Fatal(err)
	}

	chunks, err := c.Chunk(domain.Document{Path: "/data/empty.txt", Text: ""})
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty document, got %d", len(chunks))
	}
}

func TestWindowChunkerMultibyte(t *testing.T) {
	c, err := NewWindowChunker(2, 0)
	if err != nil {
		t.Fatal(err)
	}

	chunks, err := c.Chunk(domain.Document{Path: "/data/utf8.txt", Text: "héllo"})
	if err != nil {
		t.Fatal(err)
	}

	// 5 runes with window 2: "hé", "ll", "o".
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != "hé" {
		t.Errorf("expected first chunk %q, got %q", "hé", chunks[0].Text)
	}
}

func TestWindowChunkerRejectsBadParams(t *testing.T) {
	if _, err := NewWindowChunker(0, 0); err == nil {
		t.Error("expected error for zero max")
	}
	if _, err := NewWindowChunker(5, 5); err == nil {
		t.Error("expected error for overlap == max")
	}
	if _, err := NewWindowChunker(5, 6); err == nil {
		t.Error("expected error for overlap > max")
	}
	if _, err := NewWindowChunker(5, -1); err == nil {
		t.Error("expected error for negative overlap")
	}
}

func TestChunkIDDeterminism(t *testing.T) {
	c, err := NewWindowChunker(5, 0)
	if err != nil {
		t.Fatal(err)
	}

	doc := domain.Document{Path: "/data/hello.txt", Text: "hello world"}
	first, err := c.Chunk(doc)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Chunk(doc)
	if err != nil {
		t.Fatal(err)
	}

	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("chunk %d: IDs differ across runs", i)
		}
	}

	ids := make(map[string]bool)
	for _, chunk := range first {
		if ids[chunk.ID] {
			t.Errorf("duplicate chunk ID: %s", chunk.ID)
		}
		ids[chunk.ID] = true
	}
}
