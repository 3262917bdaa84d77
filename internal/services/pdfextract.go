package services

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"github.com/NatiqIskandarli/papercut-backend/internal/pkg/logger"
)

const pdfFallbackText = "PDF text extraction failed"

type ExtractedField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ExtractedContent struct {
	Text      string           `json:"extractedText"`
	Fields    []ExtractedField `json:"extractedFields"`
	PageCount int              `json:"pageCount"`
}

// PdfExtractService performs heuristic best-effort content extraction from
// uploaded PDFs. Extract can fail; ProcessPdfFile never does: internal
// failures degrade to fixed fallback metadata so record creation is never
// blocked by a bad PDF.
type PdfExtractService interface {
	Extract(data []byte) (*ExtractedContent, error)
	ProcessPdfFile(data []byte, originalName string) *ExtractedContent
}

type pdfExtractService struct {
	log        *logger.Logger
	scratchDir string
}

// NewPdfExtractService builds the extractor. scratchDir is the explicitly
// configured scratch location for temporary parse files; it must exist
// (created once at startup, never implicitly here).
func NewPdfExtractService(baseLog *logger.Logger, scratchDir string) PdfExtractService {
	return &pdfExtractService{
		log:        baseLog.With("service", "PdfExtractService"),
		scratchDir: scratchDir,
	}
}

func (s *pdfExtractService) Extract(data []byte) (content *ExtractedContent, err error) {
	// The parser panics on some malformed files; extraction must never
	// escape its own boundary.
	defer func() {
		if r := recover(); r != nil {
			content = nil
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	tmp, err := os.CreateTemp(s.scratchDir, "extract-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("scratch file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if rmErr := os.Remove(tmpPath); rmErr != nil {
			s.log.Warn("failed to remove scratch file", "path", tmpPath, "error", rmErr)
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("scratch write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("scratch close: %w", err)
	}

	f, reader, err := pdf.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("pdf open: %w", err)
	}
	defer f.Close()

	pageCount := reader.NumPage()
	var allLines []string
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		allLines = append(allLines, rebuildLines(page.Content().Text)...)
	}

	fields := harvestLabeledFields(allLines)
	fields = append(fields, analyzeTextStructure(allLines, fields)...)

	return &ExtractedContent{
		Text:      strings.Join(allLines, "\n"),
		Fields:    fields,
		PageCount: pageCount,
	}, nil
}

func (s *pdfExtractService) ProcessPdfFile(data []byte, originalName string) *ExtractedContent {
	content, err := s.Extract(data)
	if err != nil {
		s.log.Warn("pdf extraction failed, using fallback metadata", "file", originalName, "error", err)
		return fallbackContent(data, originalName)
	}
	return content
}

func fallbackContent(data []byte, originalName string) *ExtractedContent {
	kb := int(math.Round(float64(len(data)) / 1024.0))
	return &ExtractedContent{
		Text: pdfFallbackText,
		Fields: []ExtractedField{
			{Name: "Document Name", Value: originalName},
			{Name: "File Size", Value: fmt.Sprintf("%d KB", kb)},
		},
		PageCount: 1,
	}
}

// rebuildLines reconstructs logical text lines from positioned fragments by
// clustering fragments whose vertical position differs by at most one unit.
// Fragment text within one line is joined with single spaces.
func rebuildLines(fragments []pdf.Text) []string {
	if len(fragments) == 0 {
		return nil
	}
	sorted := make([]pdf.Text, len(fragments))
	copy(sorted, fragments)
	// PDF Y grows upward: higher Y means earlier line.
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []string
	var current []string
	currentY := sorted[0].Y
	flush := func() {
		line := strings.TrimSpace(strings.Join(current, " "))
		if line != "" {
			lines = append(lines, line)
		}
		current = current[:0]
	}
	for _, frag := range sorted {
		text := strings.TrimSpace(frag.S)
		if text == "" {
			continue
		}
		if math.Abs(frag.Y-currentY) > 1 {
			flush()
			currentY = frag.Y
		}
		current = append(current, text)
	}
	flush()
	return lines
}

// harvestLabeledFields emits a candidate field for every `key: value` line
// whose key is longer than one character and whose value is non-empty.
func harvestLabeledFields(lines []string) []ExtractedField {
	var fields []ExtractedField
	for _, line := range lines {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if len(key) > 1 && value != "" {
			fields = append(fields, ExtractedField{Name: key, Value: value})
		}
	}
	return fields
}

var (
	addressIntroducers = []string{"bill to", "ship to", "address", "customer", "client"}

	// documentVocabulary maps keywords to emitted field names; longer keys
	// are matched first so "due date" wins over "date".
	documentVocabulary = []struct {
		keyword  string
		name     string
		monetary bool
		date     bool
	}{
		{"due date", "Due Date", false, true},
		{"po number", "PO Number", false, false},
		{"subtotal", "Subtotal", true, false},
		{"invoice", "Invoice", false, false},
		{"payment", "Payment", true, false},
		{"amount", "Amount", true, false},
		{"total", "Total", true, false},
		{"date", "Date", false, true},
		{"tax", "Tax", true, false},
	}

	currencyPattern = regexp.MustCompile(`[$€£]\s*\d[\d,]*(?:\.\d+)?|\d[\d,]*\.\d{2}`)
	datePattern     = regexp.MustCompile(`\d{1,4}[/.\-]\d{1,2}[/.\-]\d{1,4}`)
	numericPattern  = regexp.MustCompile(`\d[\d.,]*`)
)

// analyzeTextStructure runs the secondary structural pass over reconstructed
// lines: address-introducer lookahead blocks plus vocabulary-driven value
// extraction. Field names already found (case-insensitively) are skipped.
func analyzeTextStructure(lines []string, existing []ExtractedField) []ExtractedField {
	seen := map[string]bool{}
	for _, f := range existing {
		seen[strings.ToLower(f.Name)] = true
	}

	var fields []ExtractedField
	add := func(name, value string) {
		key := strings.ToLower(name)
		if value == "" || seen[key] {
			return
		}
		seen[key] = true
		fields = append(fields, ExtractedField{Name: name, Value: value})
	}

	for i, line := range lines {
		lower := strings.ToLower(line)

		if intro := matchAddressIntroducer(lower); intro != "" {
			add(strings.TrimRight(strings.TrimSpace(line), ":"), addressLookahead(lines, i+1))
			continue
		}

		for _, entry := range documentVocabulary {
			if !strings.Contains(lower, entry.keyword) {
				continue
			}
			if value := extractVocabularyValue(lines, i, entry.monetary, entry.date); value != "" {
				add(entry.name, value)
			}
			break
		}
	}
	return fields
}

func matchAddressIntroducer(lower string) string {
	for _, intro := range addressIntroducers {
		if strings.Contains(lower, intro) {
			return intro
		}
	}
	return ""
}

// addressLookahead captures up to the next 4 non-empty, colon-free lines as
// one concatenated address value.
func addressLookahead(lines []string, start int) string {
	var parts []string
	for i := start; i < len(lines) && len(parts) < 4; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if strings.Contains(line, ":") {
			break
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, ", ")
}

// extractVocabularyValue pulls a value for a vocabulary keyword in priority
// order: explicit colon value on the line, currency match for monetary
// fields, date match for date fields, any numeric tokens, then the following
// line when it is not itself a labeled field.
func extractVocabularyValue(lines []string, index int, monetary, date bool) string {
	line := lines[index]
	if _, value, ok := strings.Cut(line, ":"); ok {
		if v := strings.TrimSpace(value); v != "" {
			return v
		}
	}
	if monetary {
		if m := currencyPattern.FindString(line); m != "" {
			return strings.TrimSpace(m)
		}
	}
	if date {
		if m := datePattern.FindString(line); m != "" {
			return m
		}
	}
	if m := numericPattern.FindString(line); m != "" {
		return m
	}
	if index+1 < len(lines) {
		next := strings.TrimSpace(lines[index+1])
		if next != "" && !strings.Contains(next, ":") {
			return next
		}
	}
	return ""
}
