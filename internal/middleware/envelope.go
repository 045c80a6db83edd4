package middleware

import (
	"net/http"

	"github.com/go-chi/render"

	"keycratecli/pkg/contracts/domain"
)

// Respond writes env as JSON with the given status
func Respond(w http.ResponseWriter, r *http.Request, status int, env domain.Envelope) {
	render.Status(r, status)
	render.JSON(w, r, env)
}

// Fail writes a failed envelope carrying code
func Fail(w http.ResponseWriter, r *http.Request, status int, code string) {
	Respond(w, r, status, domain.Envelope{Success: false, Message: code})
}
