package builder

import "strings"

// NotAvailable se muestra cuando una referencia no resuelve a ninguna forma.
const NotAvailable = "N/A"

// Kind identifica cuál de las tres formas de referencia se resolvió.
type Kind int

const (
	KindNone Kind = iota
	KindInternalUser
	KindBoardMember
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindInternalUser:
		return "usuario"
	case KindBoardMember:
		return "junta_directiva"
	case KindExternal:
		return "externo"
	default:
		return "ninguno"
	}
}

type InternalUser struct {
	ID     string `json:"id,omitempty"`
	Nombre string `json:"nombre"`
	Email  string `json:"email,omitempty"`
	Rol    string `json:"rol,omitempty"`
}

type BoardMember struct {
	ID             string `json:"id,omitempty"`
	NombreCompleto string `json:"nombre_completo"`
	Puesto         string `json:"puesto,omitempty"`
	Correo         string `json:"correo,omitempty"`
}

type ExternalParticipant struct {
	ID     string `json:"id,omitempty"`
	Nombre string `json:"nombre"`
	Email  string `json:"email,omitempty"`
}

// Party es la referencia polimórfica: participante o responsable.
// Se espera una sola forma poblada, pero Resolve no lo asume.
type Party struct {
	Usuario *InternalUser        `json:"usuarios,omitempty"`
	Miembro *BoardMember         `json:"junta_directiva_miembros,omitempty"`
	Externo *ExternalParticipant `json:"sesion_participantes_externos,omitempty"`
}

// Identity es el resultado resuelto de una Party.
type Identity struct {
	Kind    Kind
	Name    string
	Contact string
	Role    string
}

var (
	// ParticipantOrder: miembro de junta primero, luego usuario interno.
	ParticipantOrder = []Kind{KindBoardMember, KindInternalUser, KindExternal}
	// ResponsibleOrder: usuario interno primero.
	ResponsibleOrder = []Kind{KindInternalUser, KindBoardMember, KindExternal}
)

// Resolve prueba las formas en el orden dado y devuelve la primera que
// tenga nombre. Sin coincidencias devuelve KindNone con "N/A".
func (p Party) Resolve(order ...Kind) Identity {
	if len(order) == 0 {
		order = ResponsibleOrder
	}
	for _, k := range order {
		if id, ok := p.shape(k); ok {
			return id
		}
	}
	return Identity{Kind: KindNone, Name: NotAvailable, Contact: NotAvailable}
}

func (p Party) shape(k Kind) (Identity, bool) {
	switch k {
	case KindInternalUser:
		if p.Usuario == nil || blank(p.Usuario.Nombre) {
			return Identity{}, false
		}
		return Identity{
			Kind:    k,
			Name:    strings.TrimSpace(p.Usuario.Nombre),
			Contact: orNA(p.Usuario.Email),
			Role:    strings.TrimSpace(p.Usuario.Rol),
		}, true
	case KindBoardMember:
		if p.Miembro == nil || blank(p.Miembro.NombreCompleto) {
			return Identity{}, false
		}
		return Identity{
			Kind:    k,
			Name:    strings.TrimSpace(p.Miembro.NombreCompleto),
			Contact: orNA(p.Miembro.Correo),
			Role:    strings.TrimSpace(p.Miembro.Puesto),
		}, true
	case KindExternal:
		if p.Externo == nil || blank(p.Externo.Nombre) {
			return Identity{}, false
		}
		return Identity{
			Kind:    k,
			Name:    strings.TrimSpace(p.Externo.Nombre),
			Contact: orNA(p.Externo.Email),
		}, true
	}
	return Identity{}, false
}

// ResponsibleNames une los nombres resueltos con ", ". Las referencias que
// no resuelven no aportan nombre.
func ResponsibleNames(parties []Party) string {
	names := make([]string, 0, len(parties))
	for _, p := range parties {
		id := p.Resolve(ResponsibleOrder...)
		if id.Kind == KindNone {
			continue
		}
		names = append(names, id.Name)
	}
	return strings.Join(names, ", ")
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func orNA(s string) string {
	if blank(s) {
		return NotAvailable
	}
	return strings.TrimSpace(s)
}
