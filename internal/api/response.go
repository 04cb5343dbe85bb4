package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/zapponejosh/neoteran-api/internal/calendar"
)

// Response represents a standard API response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error codes
const (
	CodeBadRequest           = "BAD_REQUEST"
	CodeInternal             = "INTERNAL_ERROR"
	CodeRateLimited          = "RATE_LIMITED"
	CodeUnhealthy            = "HEALTH_CHECK_FAILED"
	CodeInsufficientData     = "INSUFFICIENT_DATA"
	CodeAnchorNotFound       = "ANCHOR_NOT_FOUND"
	CodePatternNotRecognized = "PATTERN_NOT_RECOGNIZED"
	CodeInvalidRoster        = "INVALID_ROSTER"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, status int, message string, code ...string) error {
	errInfo := ErrorInfo{
		Message: message,
	}
	if len(code) > 0 {
		errInfo.Code = code[0]
	}

	return WriteJSON(w, status, Response{
		Success: false,
		Error:   &errInfo,
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusBadRequest, message, CodeBadRequest)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusInternalServerError, message, CodeInternal)
}

// WriteUnprocessable writes a 422 response for instants the calendar cannot
// resolve with the available astronomical data.
func WriteUnprocessable(w http.ResponseWriter, message, code string) error {
	return WriteError(w, http.StatusUnprocessableEntity, message, code)
}

// -----------------------------------------------------------------
// Response bodies
// -----------------------------------------------------------------

// MonthInfo describes the month a conversion falls in.
type MonthInfo struct {
	Conjunction time.Time `json:"conjunction"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

// ConversionResponse is the body of the convert endpoints.
type ConversionResponse struct {
	Input       time.Time `json:"input"`
	Date        string    `json:"date"`
	Day         int       `json:"day"`
	MonthCode   string    `json:"month_code"`
	Year        int       `json:"year"`
	Era         string    `json:"era"`
	Intercalary bool      `json:"intercalary"`
	Ordinal     int       `json:"ordinal"`
	LeapYear    bool      `json:"leap_year"`
	Pattern     string    `json:"pattern,omitempty"`
	Estimated   bool      `json:"estimated,omitempty"`
	BaseEquinox time.Time `json:"base_equinox"`
	Month       MonthInfo `json:"month"`
}

// NewConversionResponse flattens a conversion for JSON.
func NewConversionResponse(c *calendar.Conversion) ConversionResponse {
	resp := ConversionResponse{
		Input:       c.Input,
		Date:        c.Date.String(),
		Day:         c.Date.Day,
		MonthCode:   c.Date.MonthCode,
		Year:        c.Date.Year,
		Era:         string(c.Date.Era),
		Intercalary: c.Date.IsIntercalary(),
		Ordinal:     c.Ordinal,
		LeapYear:    c.Leap,
		Estimated:   c.Estimated,
		BaseEquinox: c.Year.BaseEquinox,
		Month: MonthInfo{
			Conjunction: c.Month.Conjunction,
			Start:       c.Month.Start,
			End:         c.Month.End,
		},
	}
	if c.Pattern != calendar.PatternNone {
		resp.Pattern = c.Pattern.String()
	}
	return resp
}

// YearMonthResponse is one month of a year listing.
type YearMonthResponse struct {
	Ordinal     int       `json:"ordinal"`
	Code        string    `json:"code"`
	Intercalary bool      `json:"intercalary"`
	Conjunction time.Time `json:"conjunction"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

// YearResponse is the body of the year endpoint.
type YearResponse struct {
	Number      int                 `json:"number"`
	Era         string              `json:"era"`
	LeapYear    bool                `json:"leap_year"`
	Pattern     string              `json:"pattern,omitempty"`
	BaseEquinox time.Time           `json:"base_equinox"`
	Months      []YearMonthResponse `json:"months"`
}

// NewYearResponse flattens a year calendar for JSON.
func NewYearResponse(y *calendar.YearCalendar) YearResponse {
	resp := YearResponse{
		Number:      y.Number,
		Era:         string(y.Era),
		LeapYear:    y.Leap,
		BaseEquinox: y.BaseEquinox,
		Months:      make([]YearMonthResponse, 0, len(y.Months)),
	}
	if y.Pattern != calendar.PatternNone {
		resp.Pattern = y.Pattern.String()
	}
	for _, m := range y.Months {
		resp.Months = append(resp.Months, YearMonthResponse{
			Ordinal:     m.Ordinal,
			Code:        m.Code,
			Intercalary: calendar.Date{MonthCode: m.Code}.IsIntercalary(),
			Conjunction: m.Conjunction,
			Start:       m.Start,
			End:         m.End,
		})
	}
	return resp
}
