package builder

/* =========================================================
 * INPUT: sesión hidratada (lectura, nunca se modifica)
 * ========================================================= */

const (
	TipoOrdinaria      = "ORDINARIA"
	TipoExtraordinaria = "EXTRAORDINARIA"

	ModalidadPresencial = "PRESENCIAL"
	ModalidadVirtual    = "VIRTUAL"

	EstadoProgramada = "PROGRAMADA"
	EstadoEnCurso    = "EN_CURSO"
	EstadoFinalizada = "FINALIZADA"
	EstadoCancelada  = "CANCELADA"

	AsistenciaPendiente = "PENDIENTE"
	AsistenciaPresente  = "PRESENTE"
	AsistenciaAusente   = "AUSENTE"

	CategoriaInformativo = "INFORMATIVO"
	CategoriaAprobacion  = "APROBACION"
	CategoriaDiscusion   = "DISCUSION"

	AcuerdoPendiente  = "PENDIENTE"
	AcuerdoEnProgreso = "EN_PROGRESO"
	AcuerdoCompletado = "COMPLETADO"
)

// SessionRecord es la sesión completa tal como la entrega la capa de datos.
// Fecha y horas viajan como texto ("2006-01-02", "15:04[:05]").
type SessionRecord struct {
	ID           string `json:"id"`
	CodigoSesion string `json:"codigo_sesion" validate:"required"`
	Tipo         string `json:"tipo"`

	Fecha   string `json:"fecha" validate:"required"`
	Hora    string `json:"hora" validate:"required"`
	HoraFin string `json:"hora_fin,omitempty"`

	Modalidad string `json:"modalidad"`
	Lugar     string `json:"lugar"`
	Estado    string `json:"estado"`

	Participantes []Participant `json:"participantes"`
	Agenda        *Agenda       `json:"agenda,omitempty"`
}

type Participant struct {
	Party
	EstadoAsistencia string `json:"estado_asistencia"`
}

type Agenda struct {
	ID           string       `json:"id,omitempty"`
	PuntosAgenda []AgendaItem `json:"puntos_agenda"`
}

type AgendaItem struct {
	ID             string `json:"id,omitempty"`
	Orden          int    `json:"orden"`
	Titulo         string `json:"titulo"`
	Descripcion    string `json:"descripcion,omitempty"`
	Categoria      string `json:"categoria"`
	TiempoEstimado *int   `json:"tiempo_estimado,omitempty"`

	RequiereVotacion  bool   `json:"requiere_votacion"`
	EstadoVotacion    string `json:"estado_votacion,omitempty"`
	VotosAFavor       int    `json:"votos_a_favor"`
	VotosEnContra     int    `json:"votos_en_contra"`
	VotosAbstenciones int    `json:"votos_abstenciones"`

	Anotaciones  string      `json:"anotaciones,omitempty"`
	Documentos   []Documento `json:"documentos,omitempty"`
	Responsables []Party     `json:"responsables,omitempty"`
	Acuerdos     []Agreement `json:"acuerdos,omitempty"`
}

type Documento struct {
	Nombre string `json:"nombre"`
	URL    string `json:"url"`
	Tipo   string `json:"tipo"`
}

type Agreement struct {
	ID           string  `json:"id,omitempty"`
	Descripcion  string  `json:"descripcion"`
	FechaLimite  string  `json:"fecha_limite,omitempty"`
	Estado       string  `json:"estado"`
	Responsables []Party `json:"responsables,omitempty"`
}
