package content

import (
	"strings"
)

const fence = "---"

// SplitFrontMatter separates a Markdown document into its YAML front matter
// and body. ok is false when the document does not open with a fence or the
// closing fence is missing.
func SplitFrontMatter(doc []byte) (front []byte, body string, ok bool) {
	text := strings.TrimPrefix(string(doc), "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	lines := strings.SplitAfter(text, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t\n") != fence {
		return nil, text, false
	}
	offset := len(lines[0])
	for _, line := range lines[1:] {
		if strings.TrimRight(line, " \t\n") == fence {
			front = []byte(text[len(lines[0]):offset])
			return front, text[offset+len(line):], true
		}
		offset += len(line)
	}
	return nil, text, false
}
