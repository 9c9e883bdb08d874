// Package http exposes the trainer over a JSON API and a WebSocket drill
// endpoint. It is a thin collaborator: request decoding and error mapping
// live here, everything else stays in internal/app.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"selfquiz-service/internal/app"
	"selfquiz-service/internal/domain"
)

// defaultUser keys session state when the client sends no user header;
// a single-learner deployment never needs to set one.
const defaultUser = "local"

type Handler struct {
	trainer  *app.Trainer
	importer *app.Importer
}

func NewHandler(trainer *app.Trainer, importer *app.Importer) *Handler {
	return &Handler{trainer: trainer, importer: importer}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/import", h.handleImport)
	mux.HandleFunc("/questions", h.handleQuestions)
	mux.HandleFunc("/summary", h.handleSummary)
	mux.HandleFunc("/sessions", h.handleCreateSession)
	mux.HandleFunc("/sessions/current", h.handleCurrentSession)
	mux.HandleFunc("/sessions/submit", h.handleSubmit)
	mux.HandleFunc("/results", h.handleResults)
	mux.HandleFunc("/review", h.handleReview)
}

type sessionRequest struct {
	Count  string `json:"count"`
	Domain string `json:"domain"`
	Mode   string `json:"mode"`
}

type submitRequest struct {
	Answers map[string][]string `json:"answers"`
}

type reviewResponse struct {
	Questions []domain.Question    `json:"questions"`
	Records   []domain.WrongAnswer `json:"records"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var payload any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("request body is not valid JSON"))
		return
	}
	stats, err := h.importer.Import(r.Context(), payload)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	questions, err := h.trainer.Questions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	summary, err := h.trainer.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("request body is not valid JSON"))
		return
	}
	session, err := h.trainer.CreateSession(r.Context(), userKey(r), app.SessionRequest{
		Count:  req.Count,
		Domain: req.Domain,
		Mode:   domain.SessionMode(req.Mode),
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleCurrentSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	session, err := h.trainer.CurrentSession(r.Context(), userKey(r))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("request body is not valid JSON"))
		return
	}
	results, err := h.trainer.Submit(r.Context(), userKey(r), req.Answers)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) handleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	results, err := h.trainer.LastResults(r.Context(), userKey(r))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	questions, records, err := h.trainer.ReviewQuestions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewResponse{Questions: questions, Records: records})
}

func userKey(r *http.Request) string {
	if user := r.Header.Get("X-User-ID"); user != "" {
		return user
	}
	return defaultUser
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat), errors.Is(err, domain.ErrInvalidQuestion):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoActiveSession), errors.Is(err, domain.ErrNoResults), errors.Is(err, domain.ErrEmptyPool):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}
