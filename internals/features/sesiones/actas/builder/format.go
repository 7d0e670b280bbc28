package builder

import (
	"fmt"
	"time"

	"github.com/goodsign/monday"

	"github.com/Stevennnncz/ProyectoDiseno/internals/helpers/dbtime"
)

const (
	layoutLongDate = "Monday 02 de January de 2006"
	layoutDate     = "02/01/2006"
	layoutStamp    = "02/01/2006 15:04"
)

// LongDate: "lunes 15 de enero de 2024".
func LongDate(t time.Time) string {
	return monday.Format(t, layoutLongDate, monday.LocaleEsES)
}

// ShortDate: "15/01/2024".
func ShortDate(t time.Time) string { return t.Format(layoutDate) }

// Stamp: "15/01/2024 09:30" en la zona dada.
func Stamp(t time.Time, loc *time.Location) string {
	return dbtime.In(t, loc).Format(layoutStamp)
}

// Cada formateo que falla deja el valor crudo y registra un Warning.

func (a *assembly) longDate(field, raw string) string {
	t, err := dbtime.ParseDate(raw)
	if err != nil {
		a.warn(field, raw, err)
		return raw
	}
	return LongDate(t)
}

func (a *assembly) shortDate(field, raw string) string {
	t, err := dbtime.ParseDate(raw)
	if err != nil {
		a.warn(field, raw, err)
		return raw
	}
	return ShortDate(t)
}

func (a *assembly) clock(field, raw string) string {
	t, err := dbtime.Parse(raw)
	if err != nil {
		a.warn(field, raw, err)
		return raw
	}
	return t.Short()
}

func (a *assembly) warn(field, raw string, err error) {
	for _, w := range a.doc.Warnings {
		if w.Field == field && w.Raw == raw {
			return
		}
	}
	a.doc.Warnings = append(a.doc.Warnings, Warning{
		Field:   field,
		Raw:     raw,
		Message: fmt.Sprintf("formato inválido: %v", err),
	})
}
