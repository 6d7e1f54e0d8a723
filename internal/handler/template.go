package handler

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/dukerupert/foodmenu/internal/dashboard"
	"github.com/dukerupert/foodmenu/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateHandler renders the dashboard page from the controller's mirror.
type TemplateHandler struct {
	ctrl      *dashboard.Controller
	templates *template.Template
	logger    *slog.Logger
}

func NewTemplateHandler(ctrl *dashboard.Controller, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{
		ctrl:      ctrl,
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
		logger:    logger,
	}
}

type dashboardData struct {
	Title    string
	Foods    []model.Food
	Surfaces dashboard.Surfaces
	Editing  *model.Food
}

func (h *TemplateHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := dashboardData{
		Title:    "Food menu",
		Foods:    h.ctrl.Items(),
		Surfaces: h.ctrl.Surfaces(),
	}
	if f, ok := h.ctrl.Editing(); ok {
		data.Editing = &f
	}
	h.render(w, "dashboard.html", data)
}

// FoodList renders only the list, for refreshing after a change message.
func (h *TemplateHandler) FoodList(w http.ResponseWriter, r *http.Request) {
	h.render(w, "food-list", dashboardData{Foods: h.ctrl.Items()})
}

// render executes into a buffer so a template error never leaves a
// half-written page.
func (h *TemplateHandler) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("render template", "template", name, "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
