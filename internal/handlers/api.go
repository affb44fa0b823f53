package handlers

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/report"
	"sales-dashboard/internal/services"
)

const (
	cacheMaxAge        = "public, max-age=300"
	defaultRecordLimit = 50
	maxRecordLimit     = 10000
	xlsxContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Version is reported by the health endpoint. Set at startup.
var Version = "dev"

var cached = map[string]string{"Cache-Control": cacheMaxAge}

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// selection reads category and repeated sub_category parameters and
// validates them against the taxonomy.
func (h *APIHandlers) selection(q url.Values) (models.Selection, error) {
	var subs []string
	for _, v := range q["sub_category"] {
		if v = strings.TrimSpace(v); v != "" {
			subs = append(subs, v)
		}
	}

	sel, err := h.analytics.NormalizeSelection(strings.TrimSpace(q.Get("category")), subs)
	if stderrors.Is(err, services.ErrUnknownCategory) {
		return sel, errors.ValidationWrap(err, "Unknown category").WithDetails(q.Get("category"))
	}
	return sel, err
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
}

func (h *APIHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.Categories(), cached)
}

func (h *APIHandlers) HandleSubCategories(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selection(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	errors.WriteSuccessWithHeaders(w, map[string]any{
		"category":       sel.Category,
		"sub_categories": h.analytics.SubCategories(sel.Category),
	}, cached)
}

func (h *APIHandlers) HandleCategorySales(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.CategorySums(), cached)
}

func (h *APIHandlers) HandleMonthlySales(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.MonthlySums(), cached)
}

func (h *APIHandlers) HandleViews(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selection(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	_, span := observability.StartSpan(r.Context(), "render views")
	views := h.analytics.Render(sel)
	span.SetTag("filtered", strconv.Itoa(len(views.Filtered)))
	span.Finish()

	errors.WriteSuccess(w, views)
}

func (h *APIHandlers) HandleRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := defaultRecordLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(w, r, errors.BadRequestWrap(err, "Invalid limit").WithDetails("limit must be an integer"))
			return
		}
		if n < 1 || n > maxRecordLimit {
			h.fail(w, r, errors.BadRequest("Invalid limit").
				WithDetails(fmt.Sprintf("limit must be between 1 and %d", maxRecordLimit)))
			return
		}
		limit = n
	}

	sel, err := h.selection(q)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	records := h.analytics.Filtered(sel, limit)
	errors.WriteSuccess(w, map[string]any{
		"selection": sel,
		"count":     len(records),
		"records":   records,
	})
}

func (h *APIHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selection(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, h.analytics.Render(sel)); err != nil {
		h.fail(w, r, errors.InternalWrap(err, "Failed to build workbook"))
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(sel.Category)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("write workbook response", "error", err)
	}
}

func exportFilename(category string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, category)
	if slug == "" {
		slug = "all"
	}
	return "sales-" + slug + ".xlsx"
}

// HandleHealth reports unavailable until a dataset with records is loaded.
func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if h.analytics.Len() == 0 {
		h.fail(w, r, errors.ServiceUnavailable("No records loaded"))
		return
	}

	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   Version,
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}
