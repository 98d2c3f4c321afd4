package api

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/MikeSquared-Agency/Apportion/internal/ahp"
	"github.com/MikeSquared-Agency/Apportion/internal/chart"
	"github.com/MikeSquared-Agency/Apportion/internal/palette"
	"github.com/MikeSquared-Agency/Apportion/internal/session"
)

type CategoriesHandler struct {
	svc       *session.Service
	palette   palette.Palette
	validator *validator.Validate
}

func NewCategoriesHandler(svc *session.Service, p palette.Palette) *CategoriesHandler {
	return &CategoriesHandler{svc: svc, palette: p, validator: validator.New()}
}

type UpdateRankRequest struct {
	Rank int `json:"rank" validate:"required,min=1"`
}

type ComputeRequest struct {
	Matrix [][]float64 `json:"matrix" validate:"required,min=1,max=64"`
}

// CreateSession handles POST /api/v1/sessions
func (h *CategoriesHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Create(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// Session handles GET /api/v1/session
func (h *CategoriesHandler) Session(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Get(r.Context(), SessionID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// List handles GET /api/v1/categories
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Get(r.Context(), SessionID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.State.Categories)
}

// UpdateRank handles PATCH /api/v1/categories/{name}
func (h *CategoriesHandler) UpdateRank(w http.ResponseWriter, r *http.Request) {
	var req UpdateRankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": extractValidationErrors(err)})
		return
	}

	name, err := pathParam(r, "name")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category name"})
		return
	}

	sess, err := h.svc.EditRank(r.Context(), SessionID(r.Context()), name, req.Rank)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.State.Categories)
}

// Calculate handles POST /api/v1/weights/calculate
func (h *CategoriesHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Calculate(r.Context(), SessionID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.State.Categories)
}

// Chart handles GET /api/v1/chart
func (h *CategoriesHandler) Chart(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Get(r.Context(), SessionID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"weighted": sess.State.Weighted(),
		"slices":   chart.Slices(sess.State, h.palette),
	})
}

// Compute handles POST /api/v1/weights/compute. It does not read or change any
// session.
func (h *CategoriesHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": extractValidationErrors(err)})
		return
	}

	res, err := h.svc.Compute(ahp.Matrix(req.Matrix))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// pathParam returns a decoded URL parameter. chi matches against RawPath when the
// request has one, leaving escapes such as %2F in place; otherwise the parameter is
// already decoded.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}
