package ingest

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Format is the closed set of first-class document formats. Dispatch is a
// static suffix lookup; anything unrecognized falls through to FormatText.
type Format int

const (
	FormatText Format = iota
	FormatMarkdown
	FormatPDF
	FormatEPUB
)

var suffixFormats = map[string]Format{
	".txt":      FormatText,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".pdf":      FormatPDF,
	".epub":     FormatEPUB,
}

// FormatForPath returns the format for a file path and whether the suffix
// was explicitly recognized.
func FormatForPath(path string) (Format, bool) {
	format, ok := suffixFormats[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return FormatText, false
	}
	return format, true
}

// SupportedSuffix reports whether a path carries one of the first-class
// suffixes. Directory discovery uses this; explicit single-file adds
// instead fall back to the plain-text loader.
func SupportedSuffix(path string) bool {
	_, ok := suffixFormats[strings.ToLower(filepath.Ext(path))]
	return ok
}

// LoadError marks a per-file loader failure: malformed content or a
// missing external converter. It is distinguishable from duplicate or
// size rejections and never aborts a multi-file batch.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// loadSegments dispatches to the format-specific loader.
func loadSegments(ctx context.Context, path string, format Format) ([]Segment, error) {
	switch format {
	case FormatPDF:
		return loadPDF(ctx, path)
	case FormatEPUB:
		return loadEPUB(ctx, path)
	default:
		// Markdown structure is handled after loading; reading the raw
		// file is the same as for plain text.
		return loadTextFile(path)
	}
}

func loadTextFile(path string) ([]Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return []Segment{{
		Text:     string(data),
		Metadata: map[string]any{"source": filepath.Base(path)},
	}}, nil
}

// loadPDF extracts text with the pdftotext converter, one segment per
// page (pages are separated by form feeds in the converter output).
func loadPDF(ctx context.Context, path string) ([]Segment, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf(
			"pdftotext is required to ingest PDF files; install poppler-utils and retry")}
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "pdftotext", "-enc", "UTF-8", path, "-")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf(
			"pdftotext: %v: %s", err, strings.TrimSpace(stderr.String()))}
	}

	source := filepath.Base(path)
	var segments []Segment
	for i, page := range strings.Split(stdout.String(), "\f") {
		if strings.TrimSpace(page) == "" {
			continue
		}
		segments = append(segments, Segment{
			Text: page,
			Metadata: map[string]any{
				"source": source,
				"page":   i + 1,
			},
		})
	}
	if len(segments) == 0 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("no extractable text")}
	}
	return segments, nil
}

// loadEPUB converts through pandoc. A missing pandoc install is the usual
// failure here, so the error names it explicitly.
func loadEPUB(ctx context.Context, path string) ([]Segment, error) {
	if _, err := exec.LookPath("pandoc"); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf(
			"pandoc is required to ingest EPUB files; please ensure pandoc is installed and on PATH")}
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "pandoc", "-t", "plain", path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf(
			"pandoc: %v: %s", err, strings.TrimSpace(stderr.String()))}
	}

	text := stdout.String()
	if strings.TrimSpace(text) == "" {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("no extractable text")}
	}
	return []Segment{{
		Text:     text,
		Metadata: map[string]any{"source": filepath.Base(path)},
	}}, nil
}
