package views

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path"

	"github.com/gorilla/csrf"

	"github.com/balain/bkmrkr/internal/auth/context/loggercontext"
	"github.com/balain/bkmrkr/internal/auth/context/usercontext"
	"github.com/balain/bkmrkr/web"
	"github.com/balain/bkmrkr/web/templates"
)

type Template struct {
	htmlTemplate *template.Template
}

func Must(tpl Template, err error) Template {
	if err != nil {
		panic(err)
	}
	return tpl
}

// ParseTemplate loads pages from the embedded FS. Request-scoped functions
// are stubbed here and swapped in per request by Execute.
func ParseTemplate(filePaths ...string) (Template, error) {
	tpl := template.New(path.Base(filePaths[0]))
	tpl.Funcs(template.FuncMap{
		"csrfField": func() (template.HTML, error) {
			return "", fmt.Errorf("csrfField not implemented")
		},
		"currentUser": func() (string, error) {
			return "", fmt.Errorf("currentUser not implemented")
		},
		"messages": func() []web.NavbarMessage {
			return nil
		},
	})
	tpl, err := tpl.ParseFS(templates.FS, filePaths...)
	if err != nil {
		return Template{}, fmt.Errorf("parse fs template: %w", err)
	}
	return Template{
		htmlTemplate: tpl,
	}, nil
}

func (t Template) Execute(w http.ResponseWriter, r *http.Request, data any, navMsgs ...web.NavbarMessage) {
	logger := loggercontext.Logger(r.Context())
	tpl, err := t.htmlTemplate.Clone()
	if err != nil {
		logger.Errorw("cloning template failed", "error", err)
		http.Error(w, "There was an error serving your request", http.StatusInternalServerError)
		return
	}

	tpl = tpl.Funcs(template.FuncMap{
		"csrfField": func() template.HTML {
			return csrf.TemplateField(r)
		},
		"currentUser": func() string {
			return usercontext.User(r.Context())
		},
		"messages": func() []web.NavbarMessage {
			return navMsgs
		},
	})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var buf bytes.Buffer
	err = tpl.Execute(&buf, data)
	if err != nil {
		logger.Errorw("executing template", "error", err)
		http.Error(w, "There was an error executing the template", http.StatusInternalServerError)
		return
	}
	io.Copy(w, &buf)
}
