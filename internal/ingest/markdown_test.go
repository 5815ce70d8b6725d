package ingest

import "testing"

func TestSplitMarkdownByHeaders(t *testing.T) {
	text := `intro before any heading

# Guide

opening words

## Install

install steps

### Linux

apt instructions

## Usage

usage notes
`

	sections := splitMarkdownByHeaders(text)
	if len(sections) != 5 {
		t.Fatalf("got %d sections, want 5: %+v", len(sections), sections)
	}

	tests := []struct {
		content string
		h1      any
		h2      any
		h3      any
	}{
		{"intro before any heading", nil, nil, nil},
		{"opening words", "Guide", nil, nil},
		{"install steps", "Guide", "Install", nil},
		{"apt instructions", "Guide", "Install", "Linux"},
		{"usage notes", "Guide", "Usage", nil},
	}

	for i, tt := range tests {
		sec := sections[i]
		if sec.Content != tt.content {
			t.Errorf("section %d content = %q, want %q", i, sec.Content, tt.content)
		}
		if sec.Headers["header_1"] != tt.h1 {
			t.Errorf("section %d header_1 = %v, want %v", i, sec.Headers["header_1"], tt.h1)
		}
		if sec.Headers["header_2"] != tt.h2 {
			t.Errorf("section %d header_2 = %v, want %v", i, sec.Headers["header_2"], tt.h2)
		}
		if sec.Headers["header_3"] != tt.h3 {
			t.Errorf("section %d header_3 = %v, want %v", i, sec.Headers["header_3"], tt.h3)
		}
	}
}

func TestSplitMarkdownIgnoresFencedHeadings(t *testing.T) {
	text := "# Real\n\nbody\n\n```\n# not a heading\n```\n\ntail"

	sections := splitMarkdownByHeaders(text)
	if len(sections) != 1 {
		t.Fatalf("got %d sections, want 1: %+v", len(sections), sections)
	}
	if sections[0].Headers["header_1"] != "Real" {
		t.Errorf("header_1 = %v, want Real", sections[0].Headers["header_1"])
	}
}

func TestSplitMarkdownNoHeadings(t *testing.T) {
	sections := splitMarkdownByHeaders("just a plain paragraph")
	if len(sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(sections))
	}
	if len(sections[0].Headers) != 0 {
		t.Errorf("unexpected headers: %v", sections[0].Headers)
	}
}
