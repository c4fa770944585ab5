package render

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/logger"
)

const (
	pageMarginMM  = 15.0
	lineHeightMM  = 6.0
	pageBottomMM  = 297.0 - pageMarginMM
)

// RenderMarkdown renders the minimal Markdown subset to a single-page
// PDF. Content past the first page is truncated, with a warning logged.
func RenderMarkdown(markdown string, log logger.Log) ([]byte, error) {
	blocks := parseMarkdown([]byte(markdown))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	// No pagination: content past the first page is truncated, never
	// flowed onto a second page.
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 11)

	truncated := false
	for _, b := range blocks {
		if pdf.GetY() > pageBottomMM {
			truncated = true
			break
		}
		switch b.kind {
		case blockHeading:
			size := map[int]float64{1: 20, 2: 16, 3: 13}[b.level]
			if size == 0 {
				size = 13
			}
			pdf.SetFont("Helvetica", "B", size)
			pdf.MultiCell(0, lineHeightMM+2, b.text, "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
		case blockParagraph:
			pdf.MultiCell(0, lineHeightMM, b.text, "", "L", false)
		case blockBlockquote:
			pdf.SetTextColor(90, 90, 90)
			pdf.MultiCell(0, lineHeightMM, "  | "+b.text, "", "L", false)
			pdf.SetTextColor(0, 0, 0)
		case blockListItem:
			bullet := "-"
			if b.ordered {
				bullet = "1."
			}
			pdf.MultiCell(0, lineHeightMM, fmt.Sprintf("  %s %s", bullet, b.text), "", "L", false)
		case blockTableRow:
			if len(b.cells) == 0 {
				continue
			}
			style := ""
			if b.header {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, 10)
			cellWidth := (210 - 2*pageMarginMM) / float64(len(b.cells))
			for _, cell := range b.cells {
				pdf.CellFormat(cellWidth, lineHeightMM, cell, "1", 0, "L", false, 0, "")
			}
			pdf.Ln(lineHeightMM)
			pdf.SetFont("Helvetica", "", 11)
		case blockRule:
			y := pdf.GetY() + 2
			pdf.Line(pageMarginMM, y, 210-pageMarginMM, y)
			pdf.SetY(y + 2)
		}
	}
	if truncated && log != nil {
		log.Warn("report content truncated: pagination is not implemented")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderBasic draws text on a single page with no Markdown processing,
// the fallback renderer for when no template is configured or template
// rendering failed.
func RenderBasic(text string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, lineHeightMM, text, "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
