package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"burgerlog/chart"
	"burgerlog/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"list.html", "detail.html", "form.html", "error.html"}

var templateFuncs = template.FuncMap{
	"stars": func(n int) string {
		n = max(0, min(models.MaxRating, n))
		return strings.Repeat("★", n) + strings.Repeat("☆", models.MaxRating-n)
	},
	"points": chart.Points,
	"scale": func() []int {
		out := make([]int, 0, models.MaxRating)
		for n := models.MinRating; n <= models.MaxRating; n++ {
			out = append(out, n)
		}
		return out
	},
	"selected": func(value string, n int) bool {
		return value == fmt.Sprint(n)
	},
}

type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	r := &renderer{pages: map[string]*template.Template{}}
	for _, name := range pageNames {
		t, err := template.New(name).
			Funcs(templateFuncs).
			Option("missingkey=error").
			ParseFS(templateFS, "templates/layout.html", "templates/chart.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// render executes a page into a buffer first so a template failure never
// leaves a half-written response.
func (r *renderer) render(w http.ResponseWriter, status int, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %s", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
