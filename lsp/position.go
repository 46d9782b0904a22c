package lsp

import (
	"net/url"
	"path/filepath"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// position converts a byte offset into a zero-based line and a column
// counted in UTF-16 code units.
func position(text string, offset int) protocol.Position {
	offset = min(max(offset, 0), len(text))
	line := strings.Count(text[:offset], "\n")
	start := strings.LastIndexByte(text[:offset], '\n') + 1
	var col int
	for _, r := range text[start:offset] {
		col += utf16Len(r)
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)}
}

func utf16Len(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

// span returns the range of text[start:end].
func span(text string, start, end int) protocol.Range {
	return protocol.Range{Start: position(text, start), End: position(text, end)}
}

func uriToPath(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return uri
		}
		return filepath.Clean(parsed.Path)
	}
	return uri
}
