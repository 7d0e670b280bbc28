package builder

import "time"

/* =========================================================
 * OUTPUT: árbol de nodos independiente del renderer
 * ========================================================= */

type SectionKind string

const (
	SectionHeader       SectionKind = "header"
	SectionGeneralInfo  SectionKind = "general_info"
	SectionParticipants SectionKind = "participants"
	SectionAgenda       SectionKind = "agenda"
	SectionSignature    SectionKind = "signature"
	SectionFooter       SectionKind = "footer"
)

type NodeKind string

const (
	NodeHeading   NodeKind = "heading"
	NodeParagraph NodeKind = "paragraph"
	NodeField     NodeKind = "field"
	NodeTable     NodeKind = "table"
	NodeList      NodeKind = "list"
	NodeBlock     NodeKind = "block"
	NodeLink      NodeKind = "link"
)

type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Node es un elemento del documento. Qué campos aplican depende de Kind:
// heading usa Level+Text, field usa Label+Text, table usa Rows,
// list/block usan Children, link usa Text+Href.
type Node struct {
	Kind     NodeKind `json:"kind"`
	Level    int      `json:"level,omitempty"`
	Label    string   `json:"label,omitempty"`
	Text     string   `json:"text,omitempty"`
	Href     string   `json:"href,omitempty"`
	Rows     []Field  `json:"rows,omitempty"`
	Children []Node   `json:"children,omitempty"`
}

type Section struct {
	Kind  SectionKind `json:"kind"`
	Title string      `json:"title,omitempty"`
	Nodes []Node      `json:"nodes"`
}

// Warning registra un campo que no se pudo formatear y se dejó en crudo.
type Warning struct {
	Field   string `json:"field"`
	Raw     string `json:"raw"`
	Message string `json:"message"`
}

type Document struct {
	Title       string    `json:"title"`
	Sections    []Section `json:"sections"`
	GeneratedAt time.Time `json:"generated_at"`
	Warnings    []Warning `json:"warnings,omitempty"`
}

// Section devuelve la sección del tipo dado.
func (d Document) Section(kind SectionKind) (Section, bool) {
	for _, s := range d.Sections {
		if s.Kind == kind {
			return s, true
		}
	}
	return Section{}, false
}

// Text aplana el contenido visible de la sección, una línea por nodo hoja.
func (s Section) Text() []string {
	var out []string
	if s.Title != "" {
		out = append(out, s.Title)
	}
	for _, n := range s.Nodes {
		out = n.appendText(out)
	}
	return out
}

func (n Node) appendText(out []string) []string {
	switch n.Kind {
	case NodeField:
		out = append(out, n.Label+": "+n.Text)
	case NodeTable:
		for _, r := range n.Rows {
			out = append(out, r.Label+": "+r.Value)
		}
	case NodeList, NodeBlock:
		if n.Text != "" {
			out = append(out, n.Text)
		}
		for _, c := range n.Children {
			out = c.appendText(out)
		}
	default:
		out = append(out, n.Text)
	}
	return out
}

/* ---------- constructores ---------- */

func Heading(level int, text string) Node { return Node{Kind: NodeHeading, Level: level, Text: text} }
func Paragraph(text string) Node { return Node{Kind: NodeParagraph, Text: text} }
func KV(label, value string) Node { return Node{Kind: NodeField, Label: label, Text: value} }
func Table(rows ...Field) Node { return Node{Kind: NodeTable, Rows: rows} }
func List(title string, items ...Node) Node {
	return Node{Kind: NodeList, Text: title, Children: items}
}
func Block(children ...Node) Node { return Node{Kind: NodeBlock, Children: children} }
func Link(text, href string) Node { return Node{Kind: NodeLink, Text: text, Href: href} }
