package ingest

import "strings"

// markdownSection is a run of content under one heading path.
type markdownSection struct {
	Headers map[string]any // header_1 .. header_3
	Content string
}

var headerMetaKeys = []string{"header_1", "header_2", "header_3"}

// splitMarkdownByHeaders pre-splits markdown at #, ## and ### headings so
// structural boundaries are respected before the size-bounded splitter
// runs. Heading text moves into section metadata; fenced code blocks are
// never treated as headings.
func splitMarkdownByHeaders(text string) []markdownSection {
	var sections []markdownSection
	headers := map[string]any{}
	var content []string
	inFence := false

	flush := func() {
		body := strings.TrimSpace(strings.Join(content, "\n"))
		content = content[:0]
		if body == "" {
			return
		}
		meta := make(map[string]any, len(headers))
		for k, v := range headers {
			meta[k] = v
		}
		sections = append(sections, markdownSection{Headers: meta, Content: body})
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			content = append(content, line)
			continue
		}
		if !inFence {
			if level, title, ok := parseHeading(trimmed); ok {
				flush()
				headers[headerMetaKeys[level-1]] = title
				// A new heading invalidates deeper levels.
				for l := level; l < len(headerMetaKeys); l++ {
					delete(headers, headerMetaKeys[l])
				}
				continue
			}
		}
		content = append(content, line)
	}
	flush()

	return sections
}

// parseHeading reports whether line is an ATX heading of level 1-3.
func parseHeading(line string) (level int, title string, ok bool) {
	for level = 1; level <= 3; level++ {
		prefix := strings.Repeat("#", level) + " "
		if strings.HasPrefix(line, prefix) {
			return level, strings.TrimSpace(line[len(prefix):]), true
		}
	}
	return 0, "", false
}
