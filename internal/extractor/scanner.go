package extractor

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ledgerline/statement-recon/internal/models"
)

// LineScanner yields the lines of an extracted document in original order.
// It is a forward-only, non-restartable sequence: once consumed, a new
// scanner must be built from the source to iterate again.
type LineScanner struct {
	lines []models.RawLine
	pos   int
}

// NewLineScanner builds a scanner over the given pages, tagging each line
// as header, footer, or body. An empty document yields a scanner that
// produces no lines; that is a valid outcome, not an error.
func NewLineScanner(pages []string) *LineScanner {
	var lines []models.RawLine
	for p, page := range pages {
		for i, text := range strings.Split(page, "\n") {
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			lines = append(lines, models.RawLine{
				Text: text,
				Page: p + 1,
				Line: i + 1,
				Tag:  classifyLine(text),
			})
		}
	}
	return &LineScanner{lines: lines}
}

// Next advances to the next line. It returns false when the sequence is
// exhausted.
func (s *LineScanner) Next() bool {
	if s.pos >= len(s.lines) {
		return false
	}
	s.pos++
	return true
}

// Line returns the current line. Only valid after a true Next.
func (s *LineScanner) Line() models.RawLine {
	return s.lines[s.pos-1]
}

// Remaining reports how many lines have not been consumed yet.
func (s *LineScanner) Remaining() int {
	return len(s.lines) - s.pos
}

func classifyLine(text string) models.LineTag {
	if isColumnHeader(text) {
		return models.TagHeader
	}
	if isFooterLine(text) {
		return models.TagFooter
	}
	return models.TagBody
}

// ExtractDocument reads a statement source and returns its pages of text.
// PDF files go through the multi-method PDF extraction chain; anything else
// is treated as plain text with form-feed page breaks.
func ExtractDocument(path string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return ExtractPages(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return SplitTextPages(string(data)), nil
}

// SplitTextPages splits plain statement text into pages on form feeds.
func SplitTextPages(text string) []string {
	var pages []string
	for _, page := range strings.Split(text, "\f") {
		page = strings.TrimSpace(page)
		if page != "" {
			pages = append(pages, page)
		}
	}
	return pages
}
