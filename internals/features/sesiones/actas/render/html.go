package render

import (
	"html/template"
	"io"

	"github.com/Stevennnncz/ProyectoDiseno/internals/features/sesiones/actas/builder"
)

type HTMLRenderer struct{}

func (HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }
func (HTMLRenderer) Extension() string   { return FormatHTML }

func (HTMLRenderer) Render(w io.Writer, doc builder.Document) error {
	return actaTmpl.Execute(w, doc)
}

var actaTmpl = template.Must(template.New("acta").Parse(actaHTML))

const actaHTML = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; margin: 40px; }
h1, h2 { text-align: center; margin: 4px 0; }
h3 { border-bottom: 1px solid #999; padding-bottom: 2px; margin-top: 24px; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
th { background: #f2f2f2; width: 35%; }
.block { page-break-inside: avoid; margin-bottom: 12px; }
.acta-header p, .acta-footer p { text-align: center; }
.acta-signature { margin-top: 48px; page-break-inside: avoid; }
.acta-footer { margin-top: 32px; font-size: 10px; color: #666; }
</style>
</head>
<body>
{{- range .Sections}}
<section class="acta-{{.Kind}}">
{{- if .Title}}
<h3>{{.Title}}</h3>
{{- end}}
{{- range .Nodes}}
{{template "node" .}}
{{- end}}
</section>
{{- end}}
</body>
</html>
{{define "node" -}}
{{- if eq .Kind "heading" -}}
{{- if eq .Level 1}}<h1>{{.Text}}</h1>{{else if eq .Level 2}}<h2>{{.Text}}</h2>{{else}}<h4>{{.Text}}</h4>{{end -}}
{{- else if eq .Kind "paragraph" -}}
<p>{{.Text}}</p>
{{- else if eq .Kind "field" -}}
<p><strong>{{.Label}}:</strong> {{.Text}}</p>
{{- else if eq .Kind "table" -}}
<table>
{{- range .Rows}}
<tr><th>{{.Label}}</th><td>{{.Value}}</td></tr>
{{- end}}
</table>
{{- else if eq .Kind "link" -}}
<a href="{{.Href}}">{{.Text}}</a>
{{- else if eq .Kind "list" -}}
{{- if .Text}}<p><strong>{{.Text}}</strong></p>{{end}}
<ul>
{{- range .Children}}
<li>{{template "node" .}}</li>
{{- end}}
</ul>
{{- else if eq .Kind "block" -}}
<div class="block">
{{- range .Children}}
{{template "node" .}}
{{- end}}
</div>
{{- end -}}
{{- end}}`
