// Package httpform exposes a formcheck validator over HTTP. It mounts a
// single route, POST /{section}, that parses an urlencoded form body,
// validates it against the named section, and answers with a JSON error bag.
package httpform

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/formcheck"
)

// FormValidator is the slice of the formcheck engine the handler needs.
type FormValidator interface {
	Validate(section string, values map[string]any) (formcheck.Errors, error)
}

// response is the JSON body for every outcome.
type response struct {
	OK     bool             `json:"ok"`
	Error  string           `json:"error,omitempty"`
	Errors formcheck.Errors `json:"errors,omitempty"`
}

type handler struct {
	validator FormValidator
	log       *slog.Logger
}

// Option configures the handler.
type Option func(*handler)

// WithLogger sets the logger for request failures. Defaults to discarding.
func WithLogger(log *slog.Logger) Option {
	return func(h *handler) {
		if log != nil {
			h.log = log
		}
	}
}

// Handler returns an http.Handler serving POST /{section}.
//
// Responses: 200 with {"ok":true} when every field passes, 422 with
// {"ok":false,"errors":{field:message}} when any field fails, 400 for an
// unparsable body, and 500 when the validator reports a fatal configuration
// error.
func Handler(v FormValidator, opts ...Option) http.Handler {
	h := &handler{
		validator: v,
		log:       slog.New(discardHandler{}),
	}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Post("/{section}", h.validateForm)
	return r
}

func (h *handler) validateForm(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Error: "malformed form body"})
		return
	}

	// First value wins for repeated keys, matching single-value semantics of
	// the engine.
	values := make(map[string]any, len(r.PostForm))
	for key := range r.PostForm {
		values[key] = r.PostForm.Get(key)
	}

	errs, err := h.validator.Validate(section, values)
	if err != nil {
		h.log.Error("validation engine misconfigured", "section", section, "error", err)
		writeJSON(w, http.StatusInternalServerError, response{Error: "validation unavailable"})
		return
	}

	if !errs.IsEmpty() {
		writeJSON(w, http.StatusUnprocessableEntity, response{Errors: errs})
		return
	}
	writeJSON(w, http.StatusOK, response{OK: true})
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// discardHandler is a slog.Handler that drops all records.
type discardHandler struct{}

func (discardHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (discardHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (d discardHandler) WithAttrs(_ []slog.Attr) slog.Handler        { return d }
func (d discardHandler) WithGroup(_ string) slog.Handler             { return d }
