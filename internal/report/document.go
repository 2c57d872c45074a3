package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	marginLeft   = 15.0
	marginTop    = 15.0
	marginRight  = 15.0
	marginBottom = 20.0
	lineHeight   = 6.0
	fontFamily   = "Helvetica"
)

type rgb struct{ r, g, b int }

var (
	colorPrimary  = rgb{31, 78, 121}
	colorText     = rgb{33, 33, 33}
	colorMuted    = rgb{117, 117, 117}
	colorGreen    = rgb{46, 125, 50}
	colorAmber    = rgb{239, 159, 0}
	colorRed      = rgb{198, 40, 40}
	colorDarkRed  = rgb{136, 14, 79}
	colorGrey     = rgb{224, 224, 224}
	colorHeaderBg = rgb{232, 240, 248}
)

// document wraps a gofpdf page buffer with the helpers shared by every
// template. Text is run through a cp1252 translator so accented labels print
// with the core fonts.
type document struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func newDocument(orientation string, compress bool, created time.Time) *document {
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetCompression(compress)
	pdf.SetCreator("cobit5", true)
	if !created.IsZero() {
		pdf.SetCreationDate(created)
	}
	return &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (d *document) setColor(c rgb) { d.pdf.SetTextColor(c.r, c.g, c.b) }

func (d *document) contentWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	return w - marginLeft - marginRight
}

// ensureSpace starts a new page when fewer than h millimetres remain above
// the bottom margin. It reports whether a page was added.
func (d *document) ensureSpace(h float64) bool {
	_, pageH := d.pdf.GetPageSize()
	if d.pdf.GetY()+h <= pageH-marginBottom {
		return false
	}
	d.pdf.AddPage()
	return true
}

func (d *document) title(text string) {
	d.pdf.SetFont(fontFamily, "B", 20)
	d.setColor(colorPrimary)
	d.pdf.CellFormat(0, 12, d.tr(text), "", 1, "L", false, 0, "")
	d.pdf.Ln(2)
	d.setColor(colorText)
}

func (d *document) heading(text string) {
	d.ensureSpace(16)
	d.pdf.Ln(2)
	d.pdf.SetFont(fontFamily, "B", 14)
	d.setColor(colorPrimary)
	d.pdf.CellFormat(0, 9, d.tr(text), "B", 1, "L", false, 0, "")
	d.pdf.Ln(2)
	d.setColor(colorText)
}

func (d *document) subheading(text string) {
	d.ensureSpace(12)
	d.pdf.SetFont(fontFamily, "B", 11)
	d.pdf.CellFormat(0, 7, d.tr(text), "", 1, "L", false, 0, "")
}

// field prints a bold label followed by its value on one line.
func (d *document) field(label, value string) {
	d.pdf.SetFont(fontFamily, "B", 10)
	lw := d.pdf.GetStringWidth(d.tr(label+": ")) + 1
	d.pdf.CellFormat(lw, lineHeight, d.tr(label+": "), "", 0, "L", false, 0, "")
	d.pdf.SetFont(fontFamily, "", 10)
	d.pdf.CellFormat(0, lineHeight, d.tr(value), "", 1, "L", false, 0, "")
}

func (d *document) paragraph(text string) {
	d.pdf.SetFont(fontFamily, "", 10)
	d.pdf.MultiCell(0, 5, d.tr(text), "", "L", false)
	d.pdf.Ln(1)
}

func (d *document) bullet(text string) {
	d.pdf.SetFont(fontFamily, "", 10)
	d.pdf.CellFormat(6, lineHeight, "-", "", 0, "R", false, 0, "")
	d.pdf.MultiCell(0, lineHeight, d.tr(" "+text), "", "L", false)
}

// notice prints an explicit "nothing to show" message.
func (d *document) notice(text string) {
	d.pdf.SetFont(fontFamily, "I", 10)
	d.setColor(colorMuted)
	d.pdf.CellFormat(0, 8, d.tr(text), "", 1, "L", false, 0, "")
	d.setColor(colorText)
}

func (d *document) rule() {
	y := d.pdf.GetY() + 1
	d.pdf.SetDrawColor(colorGrey.r, colorGrey.g, colorGrey.b)
	d.pdf.Line(marginLeft, y, marginLeft+d.contentWidth(), y)
	d.pdf.SetDrawColor(0, 0, 0)
	d.pdf.Ln(3)
}

// metricBox draws a filled box with a large value and a caption.
func (d *document) metricBox(x, y, w float64, c rgb, value, caption string) {
	d.pdf.SetFillColor(c.r, c.g, c.b)
	d.pdf.Rect(x, y, w, 24, "F")
	d.pdf.SetTextColor(255, 255, 255)
	d.pdf.SetFont(fontFamily, "B", 18)
	d.pdf.SetXY(x, y+3)
	d.pdf.CellFormat(w, 10, value, "", 0, "C", false, 0, "")
	d.pdf.SetFont(fontFamily, "", 9)
	d.pdf.SetXY(x, y+14)
	d.pdf.CellFormat(w, 6, d.tr(caption), "", 0, "C", false, 0, "")
	d.setColor(colorText)
}

// table lays out rows with a repeated header on every page it spans.
type table struct {
	doc     *document
	widths  []float64
	headers []string
}

func (d *document) newTable(widths []float64, headers ...string) *table {
	t := &table{doc: d, widths: widths, headers: headers}
	t.header()
	return t
}

func (t *table) header() {
	pdf := t.doc.pdf
	pdf.SetFont(fontFamily, "B", 9)
	pdf.SetFillColor(colorHeaderBg.r, colorHeaderBg.g, colorHeaderBg.b)
	for i, h := range t.headers {
		pdf.CellFormat(t.widths[i], 7, t.doc.tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
}

func (t *table) row(cells ...string) {
	if t.doc.ensureSpace(6) {
		t.header()
	}
	pdf := t.doc.pdf
	pdf.SetFont(fontFamily, "", 8)
	for i, c := range cells {
		pdf.CellFormat(t.widths[i], 6, t.doc.tr(c), "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

// finish numbers every buffered page and serialises the document.
func (d *document) finish() ([]byte, error) {
	if err := d.pdf.Error(); err != nil {
		return nil, err
	}

	n := d.pdf.PageCount()
	d.pdf.SetAutoPageBreak(false, 0)
	_, pageH := d.pdf.GetPageSize()
	for i := 1; i <= n; i++ {
		d.pdf.SetPage(i)
		d.pdf.SetY(pageH - 12)
		d.pdf.SetFont(fontFamily, "I", 8)
		d.setColor(colorMuted)
		d.pdf.CellFormat(0, 6, d.tr(fmt.Sprintf("Página %d de %d", i, n)), "", 0, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
