package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Section is a titled block of body text.
type Section struct {
	Title string
	Body  string
}

// Document describes a titled, sectioned text document.
type Document struct {
	Title    string
	Sections []Section
	Footer   string
}

// PDFExporter renders Documents on Letter paper with one-inch margins.
type PDFExporter struct {
	pageSize string
	margin   float64
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{pageSize: "Letter", margin: 25.4}
}

// RenderDocument lays out the title, each section heading with its body and
// an optional right-aligned footer. Newlines in bodies are kept as line breaks.
func (e *PDFExporter) RenderDocument(doc Document) ([]byte, error) {
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("pdf requires at least one section")
	}
	pdf := gofpdf.New("P", "mm", e.pageSize, "")
	pdf.SetMargins(e.margin, e.margin, e.margin)
	pdf.SetAutoPageBreak(true, e.margin)
	pdf.SetTitle(doc.Title, true)
	// Core fonts are cp1252; accented Spanish text needs translating.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if doc.Title != "" {
		pdf.SetFont("Arial", "B", 18)
		pdf.MultiCell(0, 10, tr(doc.Title), "", "C", false)
		pdf.Ln(6)
	}

	for _, section := range doc.Sections {
		pdf.SetFont("Arial", "B", 13)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(3)
		pdf.MultiCell(0, 7, tr(section.Title), "", "L", false)
		pdf.Ln(2)

		pdf.SetFont("Arial", "", 11)
		body := strings.ReplaceAll(section.Body, "\r\n", "\n")
		pdf.MultiCell(0, 5, tr(body), "", "L", false)
		pdf.Ln(5)
	}

	if doc.Footer != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "I", 9)
		pdf.SetTextColor(0x66, 0x66, 0x66)
		pdf.MultiCell(0, 5, tr(doc.Footer), "", "R", false)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("layout pdf: %w", err)
	}
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
