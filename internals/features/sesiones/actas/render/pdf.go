package render

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/builder"
)

const (
	pdfFont      = "Helvetica"
	pdfMargin    = 20.0
	pdfLineH     = 5.5
	pdfIndent    = 6.0
	pdfLabelColW = 55.0
	pdfBullet    = "• "
)

// PDFRenderer genera un A4 paginado. Cada nodo de primer nivel de una
// sección se mantiene junto en una página; la firma nunca se parte.
type PDFRenderer struct{}

func (PDFRenderer) ContentType() string { return "application/pdf" }
func (PDFRenderer) Extension() string   { return FormatPDF }

func (PDFRenderer) Render(w io.Writer, doc builder.Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetCatalogSort(true)
	if !doc.GeneratedAt.IsZero() {
		pdf.SetCreationDate(doc.GeneratedAt)
		pdf.SetModificationDate(doc.GeneratedAt)
	}

	p := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetTitle(p.tr(doc.Title), false)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(pdfFont, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 10, p.tr(fmt.Sprintf("Página %d/{nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	for _, s := range doc.Sections {
		p.section(s)
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return pdf.Output(w)
}

type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (p *pdfWriter) section(s builder.Section) {
	align := "L"
	if s.Kind == builder.SectionHeader || s.Kind == builder.SectionFooter {
		align = "C"
	}

	var lead []op
	if s.Title != "" {
		lead = append(lead, op{kind: opHeading, level: 3, text: s.Title, align: "L"})
	}

	switch s.Kind {
	case builder.SectionSignature, builder.SectionFooter:
		group := append(lead, op{kind: opSpace, height: 12})
		for _, n := range s.Nodes {
			group = flatten(n, 0, align, group)
		}
		p.group(group)
	default:
		for i, n := range s.Nodes {
			var group []op
			if i == 0 {
				group = lead
			}
			p.group(flatten(n, 0, align, group))
		}
		if len(s.Nodes) == 0 && len(lead) > 0 {
			p.group(lead)
		}
	}
}

// group dibuja ops como unidad: si no caben en lo que resta de la página
// pero sí en una página vacía, empieza una nueva.
func (p *pdfWriter) group(ops []op) {
	var h float64
	for _, o := range ops {
		h += o.measure(p)
	}
	_, pageH := p.pdf.GetPageSize()
	_, top, _, bottom := p.pdf.GetMargins()
	if needsBreak(p.pdf.GetY(), h, pageH, top, bottom) {
		p.pdf.AddPage()
	}
	for _, o := range ops {
		o.draw(p)
	}
}

func needsBreak(y, h, pageH, top, bottom float64) bool {
	limit := pageH - bottom
	usable := limit - top
	return y+h > limit && h <= usable
}

func (p *pdfWriter) width(indent float64) float64 {
	pageW, _ := p.pdf.GetPageSize()
	left, _, right, _ := p.pdf.GetMargins()
	return pageW - left - right - indent
}

func (p *pdfWriter) lines(text string, indent float64) int {
	return p.countLines(text, p.width(indent))
}

// countLines mide sobre el texto ya traducido a cp1252; SplitLines trabaja
// por bytes, igual que la tabla de anchos de las fuentes core.
func (p *pdfWriter) countLines(text string, w float64) int {
	n := len(p.pdf.SplitLines([]byte(p.tr(text)), w))
	if n == 0 {
		return 1
	}
	return n
}

/* ---------- ops ---------- */

type opKind int

const (
	opHeading opKind = iota
	opText
	opField
	opTable
	opLink
	opListTitle
	opSpace
)

type op struct {
	kind   opKind
	level  int
	label  string
	text   string
	href   string
	rows   []builder.Field
	indent float64
	align  string
	bullet bool
	height float64
}

// flatten convierte un nodo en ops; listas indentan y marcan viñeta en el
// primer op de cada ítem.
func flatten(n builder.Node, indent float64, align string, out []op) []op {
	switch n.Kind {
	case builder.NodeHeading:
		out = append(out, op{kind: opHeading, level: n.Level, text: n.Text, indent: indent, align: align})
	case builder.NodeParagraph:
		out = append(out, op{kind: opText, text: n.Text, indent: indent, align: align})
	case builder.NodeField:
		out = append(out, op{kind: opField, label: n.Label, text: n.Text, indent: indent})
	case builder.NodeTable:
		out = append(out, op{kind: opTable, rows: n.Rows, indent: indent})
	case builder.NodeLink:
		out = append(out, op{kind: opLink, text: n.Text, href: n.Href, indent: indent})
	case builder.NodeList:
		if n.Text != "" {
			out = append(out, op{kind: opListTitle, text: n.Text, indent: indent})
		}
		for _, c := range n.Children {
			start := len(out)
			out = flatten(c, indent+pdfIndent, "L", out)
			if start < len(out) {
				out[start].bullet = true
			}
		}
	case builder.NodeBlock:
		for _, c := range n.Children {
			out = flatten(c, indent, align, out)
		}
		out = append(out, op{kind: opSpace, height: 2})
	}
	return out
}

func headingSize(level int) float64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 13
	case 3:
		return 12
	default:
		return 11
	}
}

func (o op) prefix() string {
	if o.bullet {
		return pdfBullet
	}
	return ""
}

func (o op) measure(p *pdfWriter) float64 {
	switch o.kind {
	case opHeading:
		size := headingSize(o.level)
		p.pdf.SetFont(pdfFont, "B", size)
		return float64(p.lines(o.text, o.indent))*size*0.5 + 3
	case opText, opLink:
		p.pdf.SetFont(pdfFont, "", 10)
		return float64(p.lines(o.prefix()+o.text, o.indent)) * pdfLineH
	case opField, opListTitle:
		// negrita como cota superior del ancho
		p.pdf.SetFont(pdfFont, "B", 10)
		return float64(p.lines(o.prefix()+o.label+": "+o.text, o.indent)) * pdfLineH
	case opTable:
		p.pdf.SetFont(pdfFont, "", 10)
		var h float64
		for _, r := range o.rows {
			h += p.rowHeight(r, o.indent)
		}
		return h + 2
	case opSpace:
		return o.height
	}
	return 0
}

func (p *pdfWriter) rowHeight(r builder.Field, indent float64) float64 {
	return float64(p.countLines(r.Value, p.width(indent)-pdfLabelColW)) * pdfLineH
}

func (o op) draw(p *pdfWriter) {
	pdf := p.pdf
	left, _, _, _ := pdf.GetMargins()
	x := left + o.indent
	pdf.SetTextColor(34, 34, 34)

	switch o.kind {
	case opHeading:
		size := headingSize(o.level)
		pdf.SetFont(pdfFont, "B", size)
		pdf.SetX(x)
		pdf.MultiCell(p.width(o.indent), size*0.5, p.tr(o.text), "", o.align, false)
		if o.level == 3 {
			y := pdf.GetY() + 0.5
			pageW, _ := pdf.GetPageSize()
			pdf.SetDrawColor(150, 150, 150)
			pdf.Line(left, y, pageW-left, y)
		}
		pdf.Ln(3)

	case opText:
		pdf.SetFont(pdfFont, "", 10)
		pdf.SetX(x)
		pdf.MultiCell(p.width(o.indent), pdfLineH, p.tr(o.prefix()+o.text), "", o.align, false)

	case opField, opListTitle:
		p.withLeftMargin(x, func() {
			pdf.SetFont(pdfFont, "B", 10)
			if o.kind == opListTitle {
				pdf.Write(pdfLineH, p.tr(o.prefix()+o.text))
			} else {
				pdf.Write(pdfLineH, p.tr(o.prefix()+o.label+": "))
				pdf.SetFont(pdfFont, "", 10)
				pdf.Write(pdfLineH, p.tr(o.text))
			}
			pdf.Ln(pdfLineH)
		})

	case opLink:
		p.withLeftMargin(x, func() {
			pdf.SetFont(pdfFont, "", 10)
			if o.bullet {
				pdf.Write(pdfLineH, p.tr(pdfBullet))
			}
			pdf.SetTextColor(20, 70, 160)
			if o.href != "" {
				pdf.WriteLinkString(pdfLineH, p.tr(o.text), o.href)
			} else {
				pdf.Write(pdfLineH, p.tr(o.text))
			}
			pdf.Ln(pdfLineH)
		})

	case opTable:
		pdf.SetFont(pdfFont, "", 10)
		pdf.SetDrawColor(200, 200, 200)
		pdf.SetFillColor(242, 242, 242)
		valueW := p.width(o.indent) - pdfLabelColW
		for _, r := range o.rows {
			h := p.rowHeight(r, o.indent)
			pdf.SetX(x)
			pdf.SetFont(pdfFont, "B", 10)
			pdf.CellFormat(pdfLabelColW, h, p.tr(r.Label), "1", 0, "L", true, 0, "")
			pdf.SetFont(pdfFont, "", 10)
			pdf.MultiCell(valueW, pdfLineH, p.tr(r.Value), "1", "L", false)
		}
		pdf.Ln(2)

	case opSpace:
		pdf.Ln(o.height)
	}
}

func (p *pdfWriter) withLeftMargin(x float64, fn func()) {
	left, _, _, _ := p.pdf.GetMargins()
	p.pdf.SetLeftMargin(x)
	p.pdf.SetX(x)
	fn()
	p.pdf.SetLeftMargin(left)
}
