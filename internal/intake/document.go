package intake

import "strings"

// Document is normalized OCR text: line endings unified, lines trimmed,
// blank lines removed. Rules match against either the joined text or the
// line list, whichever fits their heuristic.
type Document struct {
	Text  string
	Lines []string
}

// NewDocument normalizes raw OCR output.
func NewDocument(raw string) Document {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(normalized, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return Document{Text: normalized, Lines: lines}
}
