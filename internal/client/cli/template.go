package cli

import (
	"strings"
	"text/template"
	"time"

	"github.com/iudanet/gophtodo/internal/client/board"
)

// dateLayout формат сроков в командах и выводе
const dateLayout = "2006-01-02"

var templateFuncs = template.FuncMap{
	"join": strings.Join,
	"date": func(t *time.Time) string { return t.Local().Format(dateLayout) },
	"datetime": func(t time.Time) string {
		return t.Local().Format("2006-01-02 15:04")
	},
	"lock": lockLabel,
}

const recordTemplate = `
=== Record #{{ .Record.ID }} ===

Title:    {{ .Record.Title }}
Status:   {{ if .Record.Completed }}done{{ else }}open{{ end }}
Priority: {{ .Record.Priority }}
{{- if .Record.Tags }}
Tags:     {{ join .Record.Tags ", " }}
{{- end }}
{{- if .Record.DueAt }}
Due:      {{ date .Record.DueAt }}
{{- end }}
Created:  {{ datetime .Record.CreatedAt }}
{{- with lock . }}
Lock:     {{ . }}
{{- end }}
`

var recordTmpl = template.Must(template.New("record").Funcs(templateFuncs).Parse(recordTemplate))

// lockLabel подпись блокировки для вывода; пусто для свободной записи
func lockLabel(it board.Item) string {
	switch it.LockState() {
	case board.LockedByMe:
		return "locked by you"
	case board.LockedByOther:
		return "locked"
	default:
		return ""
	}
}
