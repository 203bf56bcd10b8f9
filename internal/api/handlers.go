package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mmrzaf/colgen/internal/app"
	"github.com/mmrzaf/colgen/internal/domain"
	"github.com/mmrzaf/colgen/internal/infra/repos/schemas"
	"github.com/mmrzaf/colgen/internal/schema"
)

type Handler struct {
	sampleService *app.SampleService
}

func NewHandler(sampleService *app.SampleService) *Handler {
	return &Handler{sampleService: sampleService}
}

type schemaSummary struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Dialect     schema.Dialect `json:"dialect"`
	Tables      []string       `json:"tables"`
}

func (h *Handler) ListSchemas(w http.ResponseWriter, r *http.Request) {
	list, err := h.sampleService.ListSchemas()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]schemaSummary, len(list))
	for i, s := range list {
		tables := make([]string, len(s.Tables))
		for j, t := range s.Tables {
			tables[j] = t.Name
		}
		out[i] = schemaSummary{ID: s.ID, Name: s.Name, Description: s.Description, Dialect: s.Dialect, Tables: tables}
	}
	writeJSON(w, out)
}

func (h *Handler) GetSchema(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s, err := h.sampleService.GetSchema(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, s)
}

// CreateSample generates rows synchronously and returns them in the body.
// The request context cancels generation when the client goes away.
func (h *Handler) CreateSample(w http.ResponseWriter, r *http.Request) {
	var req domain.SampleRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Format != "" && req.Format != domain.FormatJSONL {
		http.Error(w, "only jsonl rows are served over http", http.StatusBadRequest)
		return
	}
	res, err := h.sampleService.Collect(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, res)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schemas.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, app.ErrInvalidRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSONStrict(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}
