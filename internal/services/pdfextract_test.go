package services

import (
	"testing"

	pdf "github.com/ledongthuc/pdf"

	"github.com/NatiqIskandarli/papercut-backend/internal/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestProcessPdfFileFallback(t *testing.T) {
	svc := NewPdfExtractService(testLogger(t), t.TempDir())

	// 2600 bytes of garbage is not a PDF; extraction must degrade, never fail.
	data := make([]byte, 2600)
	content := svc.ProcessPdfFile(data, "invoice.pdf")

	if content.Text != "PDF text extraction failed" {
		t.Fatalf("unexpected fallback text: %q", content.Text)
	}
	if content.PageCount != 1 {
		t.Fatalf("expected page count 1, got %d", content.PageCount)
	}
	if len(content.Fields) != 2 {
		t.Fatalf("expected 2 fallback fields, got %+v", content.Fields)
	}
	if content.Fields[0].Name != "Document Name" || content.Fields[0].Value != "invoice.pdf" {
		t.Fatalf("unexpected document name field: %+v", content.Fields[0])
	}
	// 2600/1024 rounds to 3.
	if content.Fields[1].Name != "File Size" || content.Fields[1].Value != "3 KB" {
		t.Fatalf("unexpected file size field: %+v", content.Fields[1])
	}
}

func TestExtractRejectsGarbage(t *testing.T) {
	svc := NewPdfExtractService(testLogger(t), t.TempDir())
	if _, err := svc.Extract([]byte("not a pdf")); err == nil {
		t.Fatalf("expected extraction error for garbage input")
	}
}

func TestRebuildLinesClustersByY(t *testing.T) {
	fragments := []pdf.Text{
		{X: 50, Y: 700, S: "Invoice"},
		{X: 120, Y: 700.6, S: "#123"},
		{X: 50, Y: 680, S: "Total:"},
		{X: 100, Y: 680, S: "$50.00"},
	}
	lines := rebuildLines(fragments)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %v", lines)
	}
	if lines[0] != "Invoice #123" {
		t.Fatalf("expected clustered first line, got %q", lines[0])
	}
	if lines[1] != "Total: $50.00" {
		t.Fatalf("expected second line, got %q", lines[1])
	}
}

func TestRebuildLinesOrdersTopDown(t *testing.T) {
	fragments := []pdf.Text{
		{X: 50, Y: 100, S: "bottom"},
		{X: 50, Y: 700, S: "top"},
	}
	lines := rebuildLines(fragments)
	if len(lines) != 2 || lines[0] != "top" || lines[1] != "bottom" {
		t.Fatalf("expected top-down order, got %v", lines)
	}
}

func TestHarvestLabeledFields(t *testing.T) {
	lines := []string{
		"Invoice Number: INV-42",
		"no separator here",
		"X: short key is skipped",
		"Empty:",
	}
	fields := harvestLabeledFields(lines)
	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %+v", fields)
	}
	if fields[0].Name != "Invoice Number" || fields[0].Value != "INV-42" {
		t.Fatalf("unexpected field: %+v", fields[0])
	}
}

func TestAnalyzeTextStructureAddressBlock(t *testing.T) {
	lines := []string{
		"Bill To",
		"Acme Corp",
		"1 Main Street",
		"Springfield",
		"Phone: 555-0100",
	}
	fields := analyzeTextStructure(lines, nil)
	var got string
	for _, f := range fields {
		if f.Name == "Bill To" {
			got = f.Value
		}
	}
	if got != "Acme Corp, 1 Main Street, Springfield" {
		t.Fatalf("unexpected address value: %q", got)
	}
}

func TestAnalyzeTextStructureVocabulary(t *testing.T) {
	lines := []string{
		"Due Date 12/31/2024",
		"Total $1,250.00",
	}
	fields := analyzeTextStructure(lines, nil)

	want := map[string]string{
		"Due Date": "12/31/2024",
		"Total":    "$1,250.00",
	}
	for _, f := range fields {
		if expected, ok := want[f.Name]; ok && f.Value == expected {
			delete(want, f.Name)
		}
	}
	if len(want) != 0 {
		t.Fatalf("missing vocabulary fields %v in %+v", want, fields)
	}
}

func TestAnalyzeTextStructureSkipsExistingNames(t *testing.T) {
	lines := []string{"Total $99.00"}
	existing := []ExtractedField{{Name: "total", Value: "$1.00"}}
	fields := analyzeTextStructure(lines, existing)
	for _, f := range fields {
		if f.Name == "Total" {
			t.Fatalf("expected Total to be skipped, got %+v", fields)
		}
	}
}

func TestExtractVocabularyValueColonWins(t *testing.T) {
	lines := []string{"Total: due on receipt $5.00"}
	if got := extractVocabularyValue(lines, 0, true, false); got != "due on receipt $5.00" {
		t.Fatalf("expected colon value priority, got %q", got)
	}
}
