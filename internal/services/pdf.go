package services

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/jung-kurt/gofpdf/v2"
)

// PDFService transcodes the stored draft HTML into a downloadable PDF.
// When the wkhtmltopdf binary is available the HTML is passed through
// unchanged; otherwise a text-layout fallback strips the markup and
// renders the plain text.
type PDFService struct {
	wkhtmltopdfOK bool
}

func NewPDFService(wkhtmltopdfPath string) *PDFService {
	if wkhtmltopdfPath != "" {
		wkhtmltopdf.SetPath(wkhtmltopdfPath)
	}

	_, err := wkhtmltopdf.NewPDFGenerator()
	return &PDFService{wkhtmltopdfOK: err == nil}
}

// Export converts the HTML content into PDF bytes. The caller treats an
// error as "no file to send" and must not stream a partial body.
func (s *PDFService) Export(htmlContent string) ([]byte, error) {
	if strings.TrimSpace(htmlContent) == "" {
		return nil, fmt.Errorf("no content to export")
	}

	if s.wkhtmltopdfOK {
		return s.exportHTML(htmlContent)
	}
	return s.exportText(htmlContent)
}

func (s *PDFService) exportHTML(htmlContent string) ([]byte, error) {
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("init pdf generator: %w", err)
	}

	page := wkhtmltopdf.NewPageReader(strings.NewReader(htmlContent))
	page.EnableLocalFileAccess.Set(false)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	out := pdfg.Bytes()
	if len(out) == 0 {
		return nil, fmt.Errorf("pdf renderer produced no output")
	}
	return out, nil
}

var (
	breakTagPattern = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</h[1-6]>|</li>`)
	anyTagPattern   = regexp.MustCompile(`<[^>]*>`)
)

func (s *PDFService) exportText(htmlContent string) ([]byte, error) {
	text := breakTagPattern.ReplaceAllString(htmlContent, "\n")
	text = anyTagPattern.ReplaceAllString(text, "")
	text = html.UnescapeString(text)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Discharge Summary", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Discharge Summary")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			pdf.Ln(4)
			continue
		}
		pdf.MultiCell(0, 6, tr(line), "", "L", false)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}

	return buf.Bytes(), nil
}
