package ingest_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"pdfchat/src/core/ingest"
)

func TestSplitSmallInputs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "whitespace only", text: "  \n\t  ", want: 0},
		{name: "below chunk size", text: "short text", want: 1},
	}

	c := ingest.NewChunker(1000, 200)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Split(tt.text)
			if len(got) != tt.want {
				t.Fatalf("Split produced %d chunks, want %d", len(got), tt.want)
			}
			if tt.want == 1 {
				if got[0].Text != tt.text || got[0].SourceIndex != 0 || got[0].Length != len(tt.text) {
					t.Errorf("Split single chunk = %+v, want full text at offset 0", got[0])
				}
			}
		})
	}
}

func TestSplitStrideWithoutBoundaries(t *testing.T) {
	// 2900 chars with no cut candidates force hard cuts at exactly the
	// chunk size, so offsets and lengths are fully determined.
	text := strings.Repeat("a", 2900)
	chunks := ingest.NewChunker(1000, 200).Split(text)

	want := []struct {
		sourceIndex int
		length      int
	}{
		{0, 1000},
		{800, 1000},
		{1600, 1000},
		{2400, 500},
	}

	if len(chunks) != len(want) {
		t.Fatalf("Split produced %d chunks, want %d", len(chunks), len(want))
	}
	for i, w := range want {
		if chunks[i].SourceIndex != w.sourceIndex || chunks[i].Length != w.length {
			t.Errorf("chunk %d = offset %d length %d, want offset %d length %d",
				i, chunks[i].SourceIndex, chunks[i].Length, w.sourceIndex, w.length)
		}
		if chunks[i].Text != text[w.sourceIndex:w.sourceIndex+w.length] {
			t.Errorf("chunk %d text does not match its source span", i)
		}
	}
}

func TestSplitOverlapInvariant(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		text    string
	}{
		{name: "uniform", size: 100, overlap: 20, text: strings.Repeat("b", 950)},
		{name: "with spaces", size: 100, overlap: 20, text: strings.Repeat("word ", 200)},
		{name: "overlap clamped", size: 10, overlap: 15, text: strings.Repeat("c", 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ingest.NewChunker(tt.size, tt.overlap)
			chunks := c.Split(tt.text)
			if len(chunks) < 2 {
				t.Fatalf("expected multiple chunks, got %d", len(chunks))
			}
			overlap := tt.overlap
			if overlap >= tt.size {
				overlap = tt.size / 2
			}
			for i := 1; i < len(chunks); i++ {
				prevEnd := chunks[i-1].SourceIndex + chunks[i-1].Length
				if chunks[i].SourceIndex != prevEnd-overlap {
					t.Errorf("chunk %d starts at %d, want %d (previous end %d minus overlap %d)",
						i, chunks[i].SourceIndex, prevEnd-overlap, prevEnd, overlap)
				}
				if chunks[i].SourceIndex <= chunks[i-1].SourceIndex {
					t.Errorf("chunk %d does not advance past chunk %d", i, i-1)
				}
			}
			last := chunks[len(chunks)-1]
			if last.SourceIndex+last.Length != len(tt.text) {
				t.Errorf("last chunk ends at %d, want %d", last.SourceIndex+last.Length, len(tt.text))
			}
		})
	}
}

func TestSplitNeverTearsRunes(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "cjk without boundaries", text: strings.Repeat("世界和平", 100)},
		{name: "mixed ascii and cjk", text: strings.Repeat("data 数据处理 pipeline ", 60)},
	}

	c := ingest.NewChunker(100, 20)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := c.Split(tt.text)
			if len(chunks) < 2 {
				t.Fatalf("expected multiple chunks, got %d", len(chunks))
			}

			prevEnd := 0
			var rebuilt strings.Builder
			for i, ch := range chunks {
				if !utf8.ValidString(ch.Text) {
					t.Errorf("chunk %d is not valid UTF-8 (starts %q)", i, ch.Text[:4])
				}
				if ch.Text != tt.text[ch.SourceIndex:ch.SourceIndex+ch.Length] {
					t.Errorf("chunk %d text does not match its source span", i)
				}
				if ch.SourceIndex > prevEnd {
					t.Fatalf("gap in source coverage before chunk %d", i)
				}
				rebuilt.WriteString(ch.Text[prevEnd-ch.SourceIndex:])
				prevEnd = ch.SourceIndex + ch.Length
			}
			if rebuilt.String() != tt.text {
				t.Error("non-overlapping chunk spans do not reconstruct the source text")
			}
		})
	}
}

func TestSplitPrefersBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantSuffix string
		wantLength int
	}{
		{
			name:       "paragraph break",
			text:       strings.Repeat("a", 84) + "\n\n" + strings.Repeat("a", 60),
			wantSuffix: "\n\n",
			wantLength: 86,
		},
		{
			name:       "sentence end",
			text:       strings.Repeat("a", 85) + ". " + strings.Repeat("a", 63),
			wantSuffix: ". ",
			wantLength: 87,
		},
		{
			name:       "word boundary",
			text:       strings.Repeat("a", 90) + " " + strings.Repeat("a", 59),
			wantSuffix: " ",
			wantLength: 91,
		},
	}

	c := ingest.NewChunker(100, 20)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := c.Split(tt.text)
			if len(chunks) == 0 {
				t.Fatal("Split produced no chunks")
			}
			first := chunks[0]
			if !strings.HasSuffix(first.Text, tt.wantSuffix) {
				t.Errorf("first chunk ends with %q, want suffix %q",
					first.Text[len(first.Text)-2:], tt.wantSuffix)
			}
			if first.Length != tt.wantLength {
				t.Errorf("first chunk length = %d, want %d", first.Length, tt.wantLength)
			}
		})
	}
}
