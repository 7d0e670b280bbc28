package builder_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/builder"
)

var fixedNow = time.Date(2024, 1, 15, 17, 45, 0, 0, time.UTC)

func newBuilder() *builder.Builder {
	return builder.New(
		builder.WithClock(func() time.Time { return fixedNow }),
		builder.WithLocation(time.UTC),
	)
}

func intPtr(v int) *int { return &v }

func anaRuiz() *builder.BoardMember {
	return &builder.BoardMember{ID: "m-1", NombreCompleto: "Ana Ruiz", Puesto: "Secretaria", Correo: "ana@junta.org"}
}

// presupuestoSession es la sesión del ejemplo de punta a punta.
func presupuestoSession() builder.SessionRecord {
	return builder.SessionRecord{
		ID:           "s-1",
		CodigoSesion: "ORD-20240115-0007",
		Tipo:         builder.TipoOrdinaria,
		Fecha:        "2024-01-15",
		Hora:         "09:00:00",
		HoraFin:      "11:30:00",
		Modalidad:    builder.ModalidadVirtual,
		Estado:       builder.EstadoEnCurso,
		Participantes: []builder.Participant{
			{Party: builder.Party{Miembro: anaRuiz()}, EstadoAsistencia: builder.AsistenciaPresente},
		},
		Agenda: &builder.Agenda{PuntosAgenda: []builder.AgendaItem{{
			ID:                "p-1",
			Orden:             1,
			Titulo:            "Aprobación de presupuesto",
			Categoria:         builder.CategoriaAprobacion,
			RequiereVotacion:  true,
			EstadoVotacion:    "APROBADO",
			VotosAFavor:       4,
			VotosEnContra:     1,
			VotosAbstenciones: 0,
			Acuerdos: []builder.Agreement{{
				Descripcion:  "Enviar presupuesto a auditoría",
				FechaLimite:  "2024-02-01",
				Estado:       builder.AcuerdoPendiente,
				Responsables: []builder.Party{{Miembro: anaRuiz()}},
			}},
		}}},
	}
}

func sectionText(t *testing.T, doc builder.Document, kind builder.SectionKind) string {
	t.Helper()
	s, ok := doc.Section(kind)
	require.True(t, ok, "sección %s ausente", kind)
	return strings.Join(s.Text(), "\n")
}

func TestBuild_EndToEnd(t *testing.T) {
	before := time.Now()
	doc, err := builder.New(builder.WithLocation(time.UTC)).Build(presupuestoSession())
	require.NoError(t, err)
	assert.Empty(t, doc.Warnings)

	kinds := make([]builder.SectionKind, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, []builder.SectionKind{
		builder.SectionHeader,
		builder.SectionGeneralInfo,
		builder.SectionParticipants,
		builder.SectionAgenda,
		builder.SectionSignature,
		builder.SectionFooter,
	}, kinds)

	header := sectionText(t, doc, builder.SectionHeader)
	assert.Contains(t, header, "ORDINARIA ORD-20240115-0007")
	assert.Contains(t, header, "Celebrada el lunes 15 de enero de 2024 a las 09:00 - 11:30")
	assert.Contains(t, header, "Modalidad: VIRTUAL")

	info, _ := doc.Section(builder.SectionGeneralInfo)
	require.Len(t, info.Nodes, 1)
	assert.Equal(t, []builder.Field{
		{Label: "Código de Sesión", Value: "ORD-20240115-0007"},
		{Label: "Fecha", Value: "15/01/2024"},
		{Label: "Hora", Value: "09:00"},
		{Label: "Hora de Finalización", Value: "11:30"},
		{Label: "Modalidad", Value: "VIRTUAL"},
		{Label: "Tipo de Sesión", Value: "ORDINARIA"},
	}, info.Nodes[0].Rows)

	participants, _ := doc.Section(builder.SectionParticipants)
	assert.Equal(t, []string{
		builder.TitleParticipants,
		builder.HeadingBoardPresent,
		"Ana Ruiz (Secretaria)",
		builder.HeadingExternalPresent,
		builder.NoExternals,
	}, participants.Text())

	agenda := sectionText(t, doc, builder.SectionAgenda)
	assert.Contains(t, agenda, "1. Aprobación de presupuesto")
	assert.Contains(t, agenda, "Votación: APROBADO")
	assert.Contains(t, agenda, "Votos a favor: 4")
	assert.Contains(t, agenda, "Votos en contra: 1")
	assert.Contains(t, agenda, "Votos abstención: 0")
	assert.Contains(t, agenda, "Enviar presupuesto a auditoría")
	assert.Contains(t, agenda, "Fecha Límite: 01/02/2024")
	assert.Contains(t, agenda, "Responsable(s): Ana Ruiz")

	assert.Contains(t, sectionText(t, doc, builder.SectionSignature), "Firma del Secretario/a")
	assert.Contains(t, sectionText(t, doc, builder.SectionFooter), builder.FooterNotice)
	assert.False(t, doc.GeneratedAt.Before(before.Truncate(time.Second)))
}

func TestBuild_Deterministic(t *testing.T) {
	b := newBuilder()
	s := presupuestoSession()

	first, err := b.Build(s)
	require.NoError(t, err)
	second, err := b.Build(s)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, sectionText(t, first, builder.SectionFooter), "Fecha de generación: 15/01/2024 17:45")
}

func TestBuild_FooterUsesLocation(t *testing.T) {
	cr := time.FixedZone("CST", -6*60*60)
	b := builder.New(
		builder.WithClock(func() time.Time { return fixedNow }),
		builder.WithLocation(cr),
	)
	doc, err := b.Build(presupuestoSession())
	require.NoError(t, err)
	assert.Contains(t, sectionText(t, doc, builder.SectionFooter), "Fecha de generación: 15/01/2024 11:45")
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	s := presupuestoSession()
	s.Agenda.PuntosAgenda = []builder.AgendaItem{
		{Orden: 3, Titulo: "C", Categoria: builder.CategoriaDiscusion},
		{Orden: 1, Titulo: "A", Categoria: builder.CategoriaInformativo},
	}
	_, err := newBuilder().Build(s)
	require.NoError(t, err)
	assert.Equal(t, "C", s.Agenda.PuntosAgenda[0].Titulo)
}

func TestBuild_SortsAgendaByOrden(t *testing.T) {
	s := presupuestoSession()
	s.Agenda.PuntosAgenda = []builder.AgendaItem{
		{Orden: 3, Titulo: "Tercero", Categoria: builder.CategoriaInformativo},
		{Orden: 1, Titulo: "Primero", Categoria: builder.CategoriaInformativo},
		{Orden: 2, Titulo: "Segundo", Categoria: builder.CategoriaInformativo},
	}
	doc, err := newBuilder().Build(s)
	require.NoError(t, err)

	agenda, _ := doc.Section(builder.SectionAgenda)
	require.Len(t, agenda.Nodes, 3)
	var titles []string
	for _, n := range agenda.Nodes {
		titles = append(titles, n.Children[0].Text)
	}
	assert.Equal(t, []string{"1. Primero", "2. Segundo", "3. Tercero"}, titles)
}

func TestBuild_SortIsStable(t *testing.T) {
	s := presupuestoSession()
	s.Agenda.PuntosAgenda = []builder.AgendaItem{
		{Orden: 2, Titulo: "B1"},
		{Orden: 1, Titulo: "A"},
		{Orden: 2, Titulo: "B2"},
	}
	doc, err := newBuilder().Build(s)
	require.NoError(t, err)

	agenda, _ := doc.Section(builder.SectionAgenda)
	assert.Equal(t, "2. B1", agenda.Nodes[1].Children[0].Text)
	assert.Equal(t, "3. B2", agenda.Nodes[2].Children[0].Text)
}

func TestBuild_AttendanceFilter(t *testing.T) {
	s := presupuestoSession()
	s.Participantes = []builder.Participant{
		{Party: builder.Party{Miembro: &builder.BoardMember{NombreCompleto: "Pendiente Pérez", Puesto: "Vocal"}}, EstadoAsistencia: builder.AsistenciaPendiente},
		{Party: builder.Party{Miembro: &builder.BoardMember{NombreCompleto: "Ausente Arias", Puesto: "Tesorero"}}, EstadoAsistencia: builder.AsistenciaAusente},
		{Party: builder.Party{Externo: &builder.ExternalParticipant{Nombre: "Invitada Ausente", Email: "x@y.com"}}, EstadoAsistencia: builder.AsistenciaAusente},
	}
	doc, err := newBuilder().Build(s)
	require.NoError(t, err)

	text := sectionText(t, doc, builder.SectionParticipants)
	assert.NotContains(t, text, "Pendiente Pérez")
	assert.NotContains(t, text, "Ausente Arias")
	assert.NotContains(t, text, "Invitada Ausente")
	assert.Contains(t, text, builder.NoBoardMembers)
	assert.Contains(t, text, builder.NoExternals)
}

func TestBuild_ParticipantGroups(t *testing.T) {
	s := presupuestoSession()
	s.Participantes = []builder.Participant{
		{Party: builder.Party{Usuario: &builder.InternalUser{Nombre: "Luis Mora", Rol: "ADMIN"}}, EstadoAsistencia: builder.AsistenciaPresente},
		{Party: builder.Party{
			Usuario: &builder.InternalUser{Nombre: "Usuario Doble", Rol: "USER"},
			Miembro: &builder.BoardMember{NombreCompleto: "Miembro Doble", Puesto: "Presidente"},
		}, EstadoAsistencia: builder.AsistenciaPresente},
		{Party: builder.Party{Externo: &builder.ExternalParticipant{Nombre: "Carla Soto"}}, EstadoAsistencia: builder.AsistenciaPresente},
	}
	doc, err := newBuilder().Build(s)
	require.NoError(t, err)

	participants, _ := doc.Section(builder.SectionParticipants)
	assert.Equal(t, []string{
		builder.TitleParticipants,
		builder.HeadingBoardPresent,
		"Luis Mora (ADMIN)",
		"Miembro Doble (Presidente)",
		builder.HeadingExternalPresent,
		"Carla Soto (N/A)",
	}, participants.Text())
}

func TestBuild_UnresolvedParticipantIsNA(t *testing.T) {
	s := presupuestoSession()
	s.Participantes = []builder.Participant{{EstadoAsistencia: builder.AsistenciaPresente}}
	doc, err := newBuilder().Build(s)
	require.NoError(t, err)
	assert.Contains(t, sectionText(t, doc, builder.SectionParticipants), builder.NotAvailable)
}

func TestBuild_OptionalFieldsOmitted(t *testing.T) {
	s := presupuestoSession()
	s.Agenda.PuntosAgenda = []builder.AgendaItem{
		{Orden: 1, Titulo: "Sin tiempo", Categoria: builder.CategoriaInformativo},
		{Orden: 2, Titulo: "Cero minutos", Categoria: builder.CategoriaInformativo, TiempoEstimado: intPtr(0)},
		{Orden: 3, Titulo: "Con tiempo", Categoria: builder.CategoriaInformativo, TiempoEstimado: intPtr(15)},
	}
	doc, err := newBuilder().Build(s)
	require.NoError(t, err)

	agenda, _ := doc.Section(builder.SectionAgenda)
	first := strings.Join(builder.Section{Nodes: agenda.Nodes[:1]}.Text(), "\n")
	assert.NotContains(t, first, "Tiempo Estimado")
	assert.NotContains(t, first, "Descripción")
	assert.NotContains(t, first, "Votación")
	assert.NotContains(t, first, "Responsable(s)")
	assert.NotContains(t, first, "Acuerdos:")
	assert.Contains(t, first, "Categoría: INFORMATIVO")

	second := strings.Join(builder.Section{Nodes: agenda.Nodes[1:2]}.Text(), "\n")
	assert.NotContains(t, second, "Tiempo Estimado")

	third := strings.Join(builder.Section{Nodes: agenda.Nodes[2:]}.Text(), "\n")
	assert.Contains(t, third, "Tiempo Estimado: 15 minutos")

	info, _ := doc.Section(builder.SectionGeneralInfo)
	for _, r := range info.Nodes[0].Rows {
		assert.NotEqual(t, "Lugar", r.Label)
		assert.NotEmpty(t, r.Value)
	}
}

func TestBuild_ZeroTalliesStillShown(t *testing.T) {
	s := presupuestoSession()
	s.Agenda.PuntosAgenda = []builder.AgendaItem{
		{Orden: 1, Titulo: "Votación vacía", Categoria: builder.CategoriaAprobacion, RequiereVotacion: true},
	}
	doc, err := newBuilder().Build(s)
	require.NoError(t, err)

	agenda := sectionText(t, doc, builder.SectionAgenda)
	assert.Contains(t, agenda, "Votación: PENDIENTE")
	assert.Contains(t, agenda, "Votos a favor: 0")
	assert.Contains(t, agenda, "Votos en contra: 0")
	assert.Contains(t, agenda, "Votos abstención: 0")
}

func TestBuild_ResponsiblePrecedence(t *testing.T) {
	s := presupuestoSession()
	s.Agenda.PuntosAgenda[0].Responsables = []builder.Party{
		{
			Usuario: &builder.InternalUser{Nombre: "Usuario Interno"},
			Miembro: &builder.BoardMember{NombreCompleto: "Miembro Junta"},
		},
		{},
		{Externo: &builder.ExternalParticipant{Nombre: "Asesor Externo"}},
	}
	doc, err := newBuilder().Build(s)
	require.NoError(t, err)

	agenda := sectionText(t, doc, builder.SectionAgenda)
	assert.Contains(t, agenda, "Responsable(s): Usuario Interno, Asesor Externo")
	assert.NotContains(t, agenda, "Miembro Junta")
}

func TestBuild_DocumentsListed(t *testing.T) {
	s := presupuestoSession()
	s.Agenda.PuntosAgenda[0].Documentos = []builder.Documento{
		{Nombre: "Presupuesto 2024", URL: "https://cdn.example.com/p.pdf", Tipo: "PDF"},
	}
	doc, err := newBuilder().Build(s)
	require.NoError(t, err)

	agenda, _ := doc.Section(builder.SectionAgenda)
	var link *builder.Node
	for _, c := range agenda.Nodes[0].Children {
		if c.Kind == builder.NodeList && c.Text == "Documentos Adjuntos:" {
			link = &c.Children[0]
		}
	}
	require.NotNil(t, link)
	assert.Equal(t, builder.NodeLink, link.Kind)
	assert.Equal(t, "Presupuesto 2024 (PDF)", link.Text)
	assert.Equal(t, "https://cdn.example.com/p.pdf", link.Href)
}

func TestBuild_EmptyAgenda(t *testing.T) {
	for name, agenda := range map[string]*builder.Agenda{
		"nil":   nil,
		"empty": {PuntosAgenda: []builder.AgendaItem{}},
	} {
		t.Run(name, func(t *testing.T) {
			s := presupuestoSession()
			s.Agenda = agenda
			doc, err := newBuilder().Build(s)
			require.NoError(t, err)

			sec, ok := doc.Section(builder.SectionAgenda)
			require.True(t, ok)
			assert.Equal(t, []string{builder.TitleAgenda, builder.NoAgendaItems}, sec.Text())
		})
	}
}

func TestBuild_MalformedDueDate(t *testing.T) {
	s := presupuestoSession()
	s.Agenda.PuntosAgenda[0].Acuerdos[0].FechaLimite = "fin de mes"
	doc, err := newBuilder().Build(s)
	require.NoError(t, err)

	assert.Len(t, doc.Sections, 6)
	assert.Contains(t, sectionText(t, doc, builder.SectionAgenda), "Fecha Límite: fin de mes")
	require.Len(t, doc.Warnings, 1)
	assert.Equal(t, "puntos_agenda[0].acuerdos[0].fecha_limite", doc.Warnings[0].Field)
	assert.Equal(t, "fin de mes", doc.Warnings[0].Raw)
}

func TestBuild_MalformedSessionDateFallsBack(t *testing.T) {
	s := presupuestoSession()
	s.Fecha = "15-01-2024"
	s.Hora = "9am"
	doc, err := newBuilder().Build(s)
	require.NoError(t, err)

	assert.Contains(t, sectionText(t, doc, builder.SectionHeader), "Celebrada el 15-01-2024 a las 9am - 11:30")
	assert.Contains(t, sectionText(t, doc, builder.SectionGeneralInfo), "Fecha: 15-01-2024")
	// un warning por campo aunque aparezca en dos secciones
	assert.Len(t, doc.Warnings, 2)
}

func TestBuild_MissingRequiredFields(t *testing.T) {
	s := presupuestoSession()
	s.Fecha = ""
	s.CodigoSesion = "   "

	doc, err := newBuilder().Build(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, builder.ErrInvalidSession))
	assert.Contains(t, err.Error(), "codigo_sesion")
	assert.Contains(t, err.Error(), "fecha")
	assert.Empty(t, doc.Sections)
}
