package web

import "net/http"

type NavbarMessage struct {
	Message string
	IsError bool
}

type Template interface {
	Execute(w http.ResponseWriter, r *http.Request, data any, msgs ...NavbarMessage)
}

func StaticHandler(tpl Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tpl.Execute(w, r, nil)
	}
}
