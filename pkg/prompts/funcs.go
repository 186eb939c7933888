package prompts

import (
	"bytes"
	"strings"
	"text/template"
)

var funcs = template.FuncMap{
	"join":    strings.Join,
	"oneline": func(s string) string { return strings.ReplaceAll(s, "\n", " ") },
}

func render(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Funcs(funcs).Parse(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
