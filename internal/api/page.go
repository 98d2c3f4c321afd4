package api

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Apportion/internal/budget"
	"github.com/MikeSquared-Agency/Apportion/internal/chart"
	"github.com/MikeSquared-Agency/Apportion/internal/palette"
	"github.com/MikeSquared-Agency/Apportion/internal/session"
	"github.com/MikeSquared-Agency/Apportion/internal/store"
)

const sessionCookie = "apportion_session"

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// PageHandler serves the server-rendered ranking page. The session is tracked with a
// cookie and created on first visit.
type PageHandler struct {
	svc       *session.Service
	palette   palette.Palette
	chartSize int
	logger    *slog.Logger
}

func NewPageHandler(svc *session.Service, p palette.Palette, chartSize int, logger *slog.Logger) *PageHandler {
	return &PageHandler{svc: svc, palette: p, chartSize: chartSize, logger: logger}
}

type pageData struct {
	Categories []budget.Category
	Max        int
	Weighted   bool
	Slices     []chart.Slice
	Chart      template.HTML
	Error      string
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	h.render(w, http.StatusOK, sess, "")
}

// Rank handles POST /rank with form fields name and rank.
func (h *PageHandler) Rank(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, sess, "invalid form")
		return
	}
	rank, err := strconv.Atoi(r.PostForm.Get("rank"))
	if err != nil {
		h.render(w, http.StatusBadRequest, sess, "rank must be a whole number")
		return
	}

	if _, err := h.svc.EditRank(r.Context(), sess.ID, r.PostForm.Get("name"), rank); err != nil {
		if status := statusFor(err); status != http.StatusInternalServerError {
			h.render(w, status, sess, err.Error())
			return
		}
		h.fail(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Calculate handles POST /calculate
func (h *PageHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	if _, err := h.svc.Calculate(r.Context(), sess.ID); err != nil {
		if status := statusFor(err); status != http.StatusInternalServerError {
			h.render(w, status, sess, err.Error())
			return
		}
		h.fail(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ChartSVG handles GET /chart.svg
func (h *PageHandler) ChartSVG(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.open(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := chart.RenderSVG(&buf, chart.Slices(sess.State, h.palette), h.chartSize); err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// open loads the cookie's session, creating and setting a new one when needed.
func (h *PageHandler) open(w http.ResponseWriter, r *http.Request) (*store.Session, bool) {
	id := uuid.Nil
	if c, err := r.Cookie(sessionCookie); err == nil {
		if parsed, err := uuid.Parse(c.Value); err == nil {
			id = parsed
		}
	}

	sess, err := h.svc.Open(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return nil, false
	}
	if sess.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sess.ID.String(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Now().Add(30 * 24 * time.Hour),
		})
	}
	return sess, true
}

func (h *PageHandler) render(w http.ResponseWriter, status int, sess *store.Session, msg string) {
	// One palette pass per render: the pie and the legend share colours.
	slices := chart.Slices(sess.State, h.palette)
	data := pageData{
		Categories: sess.State.Categories,
		Max:        sess.State.Len(),
		Weighted:   sess.State.Weighted(),
		Slices:     slices,
		Error:      msg,
	}
	if data.Weighted {
		var svg bytes.Buffer
		if err := chart.RenderSVG(&svg, slices, h.chartSize); err != nil {
			h.fail(w, err)
			return
		}
		// RenderSVG escapes titles and only emits validated colours.
		data.Chart = template.HTML(svg.String())
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (h *PageHandler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("page request failed", "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
