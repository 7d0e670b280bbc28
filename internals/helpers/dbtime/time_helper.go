package dbtime

import (
	"log"
	"strings"
	"time"
)

// DefaultTimezone se usa cuando ACTA_TIMEZONE no está definido o es inválido.
const DefaultTimezone = "America/Costa_Rica"

// LoadLocation resuelve la zona horaria de la organización:
// 1) el nombre dado, 2) DefaultTimezone, 3) time.UTC.
func LoadLocation(name string) *time.Location {
	if name = strings.TrimSpace(name); name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
		log.Printf("[TIME] zona %q inválida, usando %s", name, DefaultTimezone)
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// In convierte t (normalmente UTC desde la DB) a loc. Cero se devuelve tal cual.
func In(t time.Time, loc *time.Location) time.Time {
	if t.IsZero() || loc == nil {
		return t
	}
	return t.In(loc)
}

// ParseDate acepta "2006-01-02" o un timestamp RFC3339 del que toma la fecha.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
