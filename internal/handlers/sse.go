package handlers

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	jsoniter "github.com/json-iterator/go"
	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SSEHandlers re-run the views on every interaction. The selection lives in
// the client's signals and is re-validated on each request.
type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// readSelection turns the request's signals into a valid selection. Bad or
// missing signals and unknown categories fall back to the default.
func (h *SSEHandlers) readSelection(r *http.Request) models.Selection {
	logger := observability.FromContext(r.Context(), h.logger)

	var signals ui.Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		logger.Debug("no usable signals, using default selection", "error", err)
		return h.analytics.DefaultSelection()
	}

	sel, err := h.analytics.NormalizeSelection(signals.Category, signals.SubCategories)
	if err != nil {
		if stderrors.Is(err, services.ErrUnknownCategory) {
			logger.Warn("unknown category in signals, using default", "category", signals.Category)
		}
		return h.analytics.DefaultSelection()
	}
	return sel
}

func (h *SSEHandlers) patch(ctx context.Context, sse *datastar.ServerSentEventGenerator, components ...templ.Component) error {
	for _, c := range components {
		html, err := ui.Render(ctx, c)
		if err != nil {
			return err
		}
		if err := sse.PatchElements(html); err != nil {
			return err
		}
	}
	return nil
}

func (h *SSEHandlers) patchSignals(sse *datastar.ServerSentEventGenerator, sel models.Selection) error {
	signals, err := json.Marshal(ui.SignalsFor(sel))
	if err != nil {
		return err
	}
	return sse.PatchSignals(signals)
}

func (h *SSEHandlers) selectionFragments(views models.Views) []templ.Component {
	return []templ.Component{
		ui.MetricsCards(views.Metrics),
		ui.TrendTable(views.Trend),
		ui.RecordsTable(views.Filtered),
	}
}

// HandleViews recomputes every view for the current selection and patches
// the selection-dependent fragments.
func (h *SSEHandlers) HandleViews(w http.ResponseWriter, r *http.Request) {
	sel := h.readSelection(r)
	sse := datastar.NewSSE(w, r)

	views := h.analytics.Render(sel)
	if err := h.patch(r.Context(), sse, h.selectionFragments(views)...); err != nil {
		h.logger.Error("patch view fragments", "error", err)
		return
	}
	if err := h.patchSignals(sse, views.Selection); err != nil {
		h.logger.Error("patch selection signals", "error", err)
		return
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleSubCategories runs when the category changes: the sub-category
// options are replaced and the selection beneath the category is cleared.
func (h *SSEHandlers) HandleSubCategories(w http.ResponseWriter, r *http.Request) {
	sel := h.readSelection(r)
	sel.SubCategories = []string{}
	sse := datastar.NewSSE(w, r)

	options := h.analytics.SubCategories(sel.Category)
	views := h.analytics.Render(sel)

	components := append([]templ.Component{ui.SubCategorySelect(options, nil)}, h.selectionFragments(views)...)
	if err := h.patch(r.Context(), sse, components...); err != nil {
		h.logger.Error("patch sub-category fragments", "error", err)
		return
	}
	if err := h.patchSignals(sse, sel); err != nil {
		h.logger.Error("patch selection signals", "error", err)
		return
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
