package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/neoteran-api/internal/calendar"
	"github.com/zapponejosh/neoteran-api/internal/ephemeris"
)

// maxRangeDays caps /convert/range.
const maxRangeDays = 90

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	source    *ephemeris.Source
	converter *calendar.Converter
	logger    *slog.Logger
	now       func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(source *ephemeris.Source, log *slog.Logger) *Handlers {
	return &Handlers{
		source:    source,
		converter: calendar.NewConverter(source.Provider, log),
		logger:    log,
		now:       time.Now,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.source.Health(ctx); err != nil {
		h.logger.WarnContext(ctx, "health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Event store unhealthy", CodeUnhealthy)
		return
	}

	body := map[string]interface{}{
		"status": "healthy",
		"source": h.source.Name,
	}
	if h.source.Cache != nil {
		body["cache"] = h.source.Cache.Stats()
	}
	if h.source.DB != nil {
		counts, err := h.source.DB.CountEvents(ctx)
		if err != nil {
			h.logger.WarnContext(ctx, "count events failed", slog.Any("error", err))
		} else {
			body["events"] = counts
		}
	}

	WriteSuccess(w, body)
}

// ConvertNow handles GET /api/v1/convert/now
func (h *Handlers) ConvertNow(w http.ResponseWriter, r *http.Request) {
	h.convert(w, r, h.now())
}

// ConvertInstant handles GET /api/v1/convert/{datetime}
func (h *Handlers) ConvertInstant(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "datetime")
	if raw == "" {
		WriteBadRequest(w, "datetime parameter is required")
		return
	}

	t, err := calendar.ParseInstant(raw)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid datetime: %s. Use YYYY-MM-DD or YYYY-MM-DDTHH:MM (UTC)", raw))
		return
	}

	h.convert(w, r, t)
}

func (h *Handlers) convert(w http.ResponseWriter, r *http.Request, t time.Time) {
	conv, err := h.converter.Convert(r.Context(), t)
	if err != nil {
		h.writeCalendarError(w, r, t, err)
		return
	}
	WriteSuccess(w, NewConversionResponse(conv))
}

// rangeFailure reports one day of a range that could not be converted.
type rangeFailure struct {
	Date    string `json:"date"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ConvertRange handles GET /api/v1/convert/range?start=YYYY-MM-DD&end=YYYY-MM-DD
//
// Each day is converted at 00:00 UTC.
func (h *Handlers) ConvertRange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" || endStr == "" {
		WriteBadRequest(w, "Both start and end date parameters are required")
		return
	}

	startDate, err := calendar.ParseDateString(startStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid start date format: %s. Use YYYY-MM-DD", startStr))
		return
	}

	endDate, err := calendar.ParseDateString(endStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid end date format: %s. Use YYYY-MM-DD", endStr))
		return
	}

	if startDate.After(endDate) {
		WriteBadRequest(w, "Start date must be before or equal to end date")
		return
	}

	// Limit range to prevent abuse
	daysDiff := int(endDate.Sub(startDate).Hours() / 24)
	if daysDiff > maxRangeDays {
		WriteBadRequest(w, fmt.Sprintf("Date range cannot exceed %d days", maxRangeDays))
		return
	}

	results := make([]ConversionResponse, 0, daysDiff+1)
	var failures []rangeFailure
	for current := startDate; !current.After(endDate); current = current.AddDate(0, 0, 1) {
		conv, err := h.converter.Convert(ctx, current)
		if err != nil {
			if ctx.Err() != nil {
				// Client went away
				return
			}
			h.logger.WarnContext(ctx, "failed to convert date in range",
				slog.String("date", calendar.FormatDate(current)),
				slog.Any("error", err))
			// Continue with other dates even if one fails
			failures = append(failures, rangeFailure{
				Date:    calendar.FormatDate(current),
				Message: err.Error(),
				Code:    calendarErrorCode(err),
			})
			continue
		}
		results = append(results, NewConversionResponse(conv))
	}

	WriteSuccess(w, map[string]interface{}{
		"start":       startStr,
		"end":         endStr,
		"conversions": results,
		"failures":    failures,
	})
}

// GetYear handles GET /api/v1/year/{datetime}
func (h *Handlers) GetYear(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "datetime")
	t, err := calendar.ParseInstant(raw)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid datetime: %s. Use YYYY-MM-DD or YYYY-MM-DDTHH:MM (UTC)", raw))
		return
	}

	year, err := h.converter.Year(r.Context(), t)
	if err != nil {
		h.writeCalendarError(w, r, t, err)
		return
	}

	WriteSuccess(w, NewYearResponse(year))
}

// calendarErrorCode returns the response code for a converter error.
func calendarErrorCode(err error) string {
	switch {
	case errors.Is(err, calendar.ErrInvalidInput):
		return CodeBadRequest
	case errors.Is(err, calendar.ErrInsufficientData):
		return CodeInsufficientData
	case errors.Is(err, calendar.ErrAnchorNotFound):
		return CodeAnchorNotFound
	case errors.Is(err, calendar.ErrPatternNotRecognized):
		return CodePatternNotRecognized
	case errors.Is(err, calendar.ErrInvalidRoster):
		return CodeInvalidRoster
	default:
		return CodeInternal
	}
}

// writeCalendarError maps converter errors to responses. Missing or
// inconsistent astronomical data is the client's range problem (422);
// anything else is ours (500).
func (h *Handlers) writeCalendarError(w http.ResponseWriter, r *http.Request, t time.Time, err error) {
	ctx := r.Context()
	log := h.logger.With(slog.Time("instant", t))

	switch {
	case errors.Is(err, calendar.ErrInvalidInput):
		WriteBadRequest(w, err.Error())
	case errors.Is(err, calendar.ErrInsufficientData):
		log.InfoContext(ctx, "conversion outside event coverage", slog.Any("error", err))
		WriteUnprocessable(w, err.Error(), CodeInsufficientData)
	case errors.Is(err, calendar.ErrAnchorNotFound):
		log.InfoContext(ctx, "year anchor not found", slog.Any("error", err))
		WriteUnprocessable(w, err.Error(), CodeAnchorNotFound)
	case errors.Is(err, calendar.ErrPatternNotRecognized):
		log.WarnContext(ctx, "leap pattern not recognized", slog.Any("error", err))
		WriteUnprocessable(w, err.Error(), CodePatternNotRecognized)
	case errors.Is(err, calendar.ErrInvalidRoster):
		log.WarnContext(ctx, "invalid conjunction roster", slog.Any("error", err))
		WriteUnprocessable(w, err.Error(), CodeInvalidRoster)
	default:
		log.ErrorContext(ctx, "conversion failed", slog.Any("error", err))
		WriteInternalError(w, "Failed to convert date")
	}
}
