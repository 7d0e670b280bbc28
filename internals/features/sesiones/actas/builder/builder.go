// Package builder arma el acta de una sesión como un árbol de nodos.
//
// El builder es puro: no hace I/O, no modifica la entrada y, con el mismo
// reloj, produce el mismo documento. Solo el pie depende del reloj.
package builder

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
)

// ErrInvalidSession: faltan campos base de la sesión; no se genera nada.
var ErrInvalidSession = errors.New("sesión incompleta para generar el acta")

const (
	DocumentTitle = "ACTA DE SESIÓN"

	TitleGeneralInfo  = "INFORMACIÓN GENERAL"
	TitleParticipants = "PARTICIPANTES"
	TitleAgenda       = "AGENDA"

	HeadingBoardPresent    = "Miembros de la Junta Directiva Presentes:"
	HeadingExternalPresent = "Participantes Externos Presentes:"

	NoBoardMembers = "No hay miembros de la junta directiva presentes registrados."
	NoExternals    = "No hay participantes externos presentes registrados."
	NoAgendaItems  = "No hay puntos de agenda registrados para esta sesión."

	SignatureLine = "___________________________"
	FooterNotice  = "Acta generada automáticamente por el sistema de gestión de reuniones."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

type Builder struct {
	now func() time.Time
	loc *time.Location
}

type Option func(*Builder)

// WithClock fija el reloj del pie de página (útil en pruebas).
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithLocation fija la zona horaria del sello de generación.
func WithLocation(loc *time.Location) Option {
	return func(b *Builder) {
		if loc != nil {
			b.loc = loc
		}
	}
}

func New(opts ...Option) *Builder {
	b := &Builder{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Validate revisa los campos sin los cuales el acta no tiene identidad.
// Todos los faltantes se reportan juntos.
func Validate(s SessionRecord) error {
	var merr *multierror.Error
	if err := validate.Struct(s); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			return fmt.Errorf("%w: %v", ErrInvalidSession, err)
		}
		for _, fe := range ves {
			merr = multierror.Append(merr, fmt.Errorf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	for field, v := range map[string]string{"codigo_sesion": s.CodigoSesion, "fecha": s.Fecha, "hora": s.Hora} {
		if v != "" && blank(v) {
			merr = multierror.Append(merr, fmt.Errorf("%s: required", field))
		}
	}
	if merr == nil {
		return nil
	}
	merr.ErrorFormat = func(es []error) string {
		parts := make([]string, len(es))
		for i, e := range es {
			parts[i] = e.Error()
		}
		sort.Strings(parts)
		return strings.Join(parts, "; ")
	}
	return fmt.Errorf("%w: %w", ErrInvalidSession, merr)
}

// Build arma el documento en orden fijo: encabezado, información general,
// participantes, agenda, firma y pie.
func (b *Builder) Build(s SessionRecord) (Document, error) {
	if err := Validate(s); err != nil {
		return Document{}, err
	}
	a := &assembly{}
	a.doc.Title = DocumentTitle + " " + strings.TrimSpace(s.CodigoSesion)
	a.header(s)
	a.generalInfo(s)
	a.participants(s)
	a.agenda(s)
	a.signature()
	a.footer(b.now(), b.loc)
	return a.doc, nil
}

type assembly struct {
	doc Document
}

func (a *assembly) add(kind SectionKind, title string, nodes ...Node) {
	a.doc.Sections = append(a.doc.Sections, Section{Kind: kind, Title: title, Nodes: nodes})
}

/* ===================== HEADER ===================== */

func (a *assembly) header(s SessionRecord) {
	nodes := []Node{
		Heading(1, DocumentTitle),
		Heading(2, joinNonBlank(" ", s.Tipo, s.CodigoSesion)),
		Paragraph("Celebrada el " + a.when(s)),
	}
	modalidad, lugar := strings.TrimSpace(s.Modalidad), strings.TrimSpace(s.Lugar)
	switch {
	case modalidad != "" && lugar != "":
		nodes = append(nodes, Paragraph("Modalidad: "+modalidad+" en "+lugar))
	case modalidad != "":
		nodes = append(nodes, Paragraph("Modalidad: "+modalidad))
	case lugar != "":
		nodes = append(nodes, Paragraph("Lugar: "+lugar))
	}
	a.add(SectionHeader, "", nodes...)
}

// when: "lunes 15 de enero de 2024 a las 09:00 - 11:30".
func (a *assembly) when(s SessionRecord) string {
	out := a.longDate("fecha", s.Fecha) + " a las " + a.clock("hora", s.Hora)
	if !blank(s.HoraFin) {
		out += " - " + a.clock("hora_fin", s.HoraFin)
	}
	return out
}

/* ===================== GENERAL INFO ===================== */

func (a *assembly) generalInfo(s SessionRecord) {
	rows := []Field{
		{Label: "Código de Sesión", Value: strings.TrimSpace(s.CodigoSesion)},
		{Label: "Fecha", Value: a.shortDate("fecha", s.Fecha)},
		{Label: "Hora", Value: a.clock("hora", s.Hora)},
	}
	if !blank(s.HoraFin) {
		rows = append(rows, Field{Label: "Hora de Finalización", Value: a.clock("hora_fin", s.HoraFin)})
	}
	if !blank(s.Modalidad) {
		rows = append(rows, Field{Label: "Modalidad", Value: strings.TrimSpace(s.Modalidad)})
	}
	if !blank(s.Lugar) {
		rows = append(rows, Field{Label: "Lugar", Value: strings.TrimSpace(s.Lugar)})
	}
	if !blank(s.Tipo) {
		rows = append(rows, Field{Label: "Tipo de Sesión", Value: strings.TrimSpace(s.Tipo)})
	}
	a.add(SectionGeneralInfo, TitleGeneralInfo, Table(rows...))
}

/* ===================== PARTICIPANTS ===================== */

func (a *assembly) participants(s SessionRecord) {
	var board, external []Node
	for _, p := range s.Participantes {
		if p.EstadoAsistencia != AsistenciaPresente {
			continue
		}
		id := p.Resolve(ParticipantOrder...)
		switch id.Kind {
		case KindExternal:
			external = append(external, Paragraph(id.Name+" ("+id.Contact+")"))
		default:
			// miembro, usuario interno o referencia sin resolver ("N/A")
			board = append(board, Paragraph(withRole(id)))
		}
	}
	a.add(SectionParticipants, TitleParticipants,
		Heading(4, HeadingBoardPresent),
		listOr(board, NoBoardMembers),
		Heading(4, HeadingExternalPresent),
		listOr(external, NoExternals),
	)
}

func withRole(id Identity) string {
	if id.Role == "" {
		return id.Name
	}
	return id.Name + " (" + id.Role + ")"
}

func listOr(items []Node, placeholder string) Node {
	if len(items) == 0 {
		return Paragraph(placeholder)
	}
	return List("", items...)
}

/* ===================== AGENDA ===================== */

func (a *assembly) agenda(s SessionRecord) {
	var puntos []AgendaItem
	if s.Agenda != nil {
		puntos = append(puntos, s.Agenda.PuntosAgenda...)
	}
	if len(puntos) == 0 {
		a.add(SectionAgenda, TitleAgenda, Paragraph(NoAgendaItems))
		return
	}
	sort.SliceStable(puntos, func(i, j int) bool { return puntos[i].Orden < puntos[j].Orden })

	nodes := make([]Node, 0, len(puntos))
	for i, p := range puntos {
		nodes = append(nodes, a.item(i, p))
	}
	a.add(SectionAgenda, TitleAgenda, nodes...)
}

func (a *assembly) item(i int, p AgendaItem) Node {
	children := []Node{Heading(4, fmt.Sprintf("%d. %s", i+1, strings.TrimSpace(p.Titulo)))}

	if !blank(p.Descripcion) {
		children = append(children, KV("Descripción", strings.TrimSpace(p.Descripcion)))
	}
	if p.TiempoEstimado != nil && *p.TiempoEstimado > 0 {
		children = append(children, KV("Tiempo Estimado", fmt.Sprintf("%d minutos", *p.TiempoEstimado)))
	}
	children = append(children, KV("Categoría", orNA(p.Categoria)))
	if !blank(p.Anotaciones) {
		children = append(children, KV("Anotaciones", strings.TrimSpace(p.Anotaciones)))
	}

	if p.RequiereVotacion {
		estado := strings.TrimSpace(p.EstadoVotacion)
		if estado == "" {
			estado = AsistenciaPendiente
		}
		children = append(children, Block(
			KV("Votación", estado),
			List("",
				Paragraph(fmt.Sprintf("Votos a favor: %d", p.VotosAFavor)),
				Paragraph(fmt.Sprintf("Votos en contra: %d", p.VotosEnContra)),
				Paragraph(fmt.Sprintf("Votos abstención: %d", p.VotosAbstenciones)),
			),
		))
	}

	if names := ResponsibleNames(p.Responsables); names != "" {
		children = append(children, KV("Responsable(s)", names))
	}

	if len(p.Documentos) > 0 {
		docs := make([]Node, 0, len(p.Documentos))
		for _, d := range p.Documentos {
			label := strings.TrimSpace(d.Nombre)
			if !blank(d.Tipo) {
				label += " (" + strings.TrimSpace(d.Tipo) + ")"
			}
			docs = append(docs, Link(label, d.URL))
		}
		children = append(children, List("Documentos Adjuntos:", docs...))
	}

	if len(p.Acuerdos) > 0 {
		acuerdos := make([]Node, 0, len(p.Acuerdos))
		for j, ac := range p.Acuerdos {
			acuerdos = append(acuerdos, a.agreement(i, j, ac))
		}
		children = append(children, List("Acuerdos:", acuerdos...))
	}

	return Block(children...)
}

func (a *assembly) agreement(i, j int, ac Agreement) Node {
	children := []Node{Paragraph(strings.TrimSpace(ac.Descripcion))}
	if !blank(ac.FechaLimite) {
		field := fmt.Sprintf("puntos_agenda[%d].acuerdos[%d].fecha_limite", i, j)
		children = append(children, KV("Fecha Límite", a.shortDate(field, ac.FechaLimite)))
	}
	if names := ResponsibleNames(ac.Responsables); names != "" {
		children = append(children, KV("Responsable(s)", names))
	}
	return Block(children...)
}

/* ===================== SIGNATURE & FOOTER ===================== */

func (a *assembly) signature() {
	a.add(SectionSignature, "",
		Paragraph(SignatureLine),
		Paragraph("Firma del Secretario/a"),
		Paragraph("[Nombre del Secretario/a]"),
		Paragraph("[Rol del Secretario/a]"),
	)
}

func (a *assembly) footer(now time.Time, loc *time.Location) {
	a.doc.GeneratedAt = now
	a.add(SectionFooter, "",
		Paragraph(FooterNotice),
		Paragraph("Fecha de generación: "+Stamp(now, loc)),
	)
}

func joinNonBlank(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
