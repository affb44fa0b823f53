package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui"
)

const renderTimeout = 10 * time.Second

type PageHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewPageHandlers(analytics *services.Analytics, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// HandleDashboard serves the page with the default selection already
// rendered; later interactions go through the SSE endpoints.
func (h *PageHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		errors.WriteError(w, h.logger, errors.NotFound("Page not found").WithDetails(r.URL.Path),
			observability.GetRequestID(r.Context()))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	sel := h.analytics.DefaultSelection()
	page := ui.Page{
		Categories:    h.analytics.Categories(),
		SubCategories: h.analytics.SubCategories(sel.Category),
		Views:         h.analytics.Render(sel),
	}

	html, err := ui.Render(ctx, ui.Dashboard(page))
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "Failed to render dashboard"),
			observability.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write([]byte(html))
}
