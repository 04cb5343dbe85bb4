package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ConversionResponse is the response for /convert/{datetime} and /convert/now
type ConversionResponse struct {
	Input       time.Time `json:"input"`
	Date        string    `json:"date"`
	MonthCode   string    `json:"month_code"`
	Year        int       `json:"year"`
	Era         string    `json:"era"`
	Intercalary bool      `json:"intercalary"`
	Ordinal     int       `json:"ordinal"`
	LeapYear    bool      `json:"leap_year"`
	Pattern     string    `json:"pattern,omitempty"`
	Estimated   bool      `json:"estimated,omitempty"`
	BaseEquinox time.Time `json:"base_equinox"`
}

// RangeResponse is the response for /convert/range
type RangeResponse struct {
	Start       string               `json:"start"`
	End         string               `json:"end"`
	Conversions []ConversionResponse `json:"conversions"`
	Failures    []json.RawMessage    `json:"failures"`
}

// YearResponse is the response for /year/{datetime}
type YearResponse struct {
	Number   int    `json:"number"`
	Era      string `json:"era"`
	LeapYear bool   `json:"leap_year"`
	Pattern  string `json:"pattern,omitempty"`
	Months   []struct {
		Ordinal     int    `json:"ordinal"`
		Code        string `json:"code"`
		Intercalary bool   `json:"intercalary"`
	} `json:"months"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status string `json:"status"`
	Source string `json:"source"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	verbose      bool
	out          io.Writer
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
		out:     os.Stdout,
	}
}

func (tr *TestRunner) Run() {
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "Neoteran API Test Suite")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "Base URL: %s\n", tr.baseURL)
	fmt.Fprintln(tr.out)

	// Run test groups
	tr.testHealth()
	tr.testNow()
	tr.testSpecificInstants()
	tr.testDateRange()
	tr.testYears()
	tr.testEdgeCases()

	// Print summary
	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health HealthResponse
	if err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess(fmt.Sprintf("Health check passed (source: %s)", health.Source))
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testNow() {
	tr.printSection("Current Instant")

	var data ConversionResponse
	if err := tr.getData("/api/v1/convert/now", &data); err != nil {
		tr.recordError("Now", err.Error())
		return
	}

	if time.Since(data.Input) > time.Minute {
		tr.recordError("Now", fmt.Sprintf("input %s is not the current instant", data.Input))
		return
	}
	tr.recordSuccess(fmt.Sprintf("Now (%s): %s", data.Input.Format(time.RFC3339), data.Date))
	tr.printConversionDetail(data)
}

// referenceInstants are conversions checked against the reference ephemeris.
var referenceInstants = []struct {
	datetime    string
	expected    string
	description string
}{
	// Epoch
	{"2020-09-18T14:59:59", "30|12S|0001 AR", "Last second of the AR era"},
	{"2020-09-18T15:01", "01|01C|0001 ER", "First minutes of the ER era"},

	// Year 1 ER
	{"2020-12-15T15:01", "01|04C|0001 ER", "Month opened by an afternoon conjunction"},
	{"2021-03-01T12:00", "17|06C|0001 ER", "Ordinary year"},

	// Before the epoch
	{"2020-01-01T00:00", "06|05C|0001 AR", "AR leap year, pattern 1"},

	// Year 3 ER, leap with pattern 2
	{"2023-05-01", "11|09C|0003 ER", "Month before the intercalary month"},
	{"2023-06-01", "12|09S|0003 ER", "Intercalary month"},
}

func (tr *TestRunner) testSpecificInstants() {
	tr.printSection("Reference Instants")

	for _, tc := range referenceInstants {
		var data ConversionResponse
		if err := tr.getData("/api/v1/convert/"+tc.datetime, &data); err != nil {
			tr.recordError(tc.datetime, err.Error())
			continue
		}

		if data.Date == tc.expected {
			tr.recordSuccess(fmt.Sprintf("%s: %s (%s)", tc.datetime, data.Date, tc.description))
		} else {
			tr.recordError(tc.datetime, fmt.Sprintf("Expected '%s', got '%s'", tc.expected, data.Date))
		}

		if tr.verbose {
			tr.printConversionDetail(data)
		}
	}
}

func (tr *TestRunner) testDateRange() {
	tr.printSection("Date Range Tests")

	// Test a week range
	var rangeData RangeResponse
	if err := tr.getData("/api/v1/convert/range?start=2021-03-01&end=2021-03-07", &rangeData); err != nil {
		tr.recordError("Range (week)", err.Error())
	} else if len(rangeData.Conversions) == 7 {
		tr.recordSuccess(fmt.Sprintf("Week range returned %d days", len(rangeData.Conversions)))
	} else {
		tr.recordError("Range (week)", fmt.Sprintf("Expected 7 days, got %d (%d failures)",
			len(rangeData.Conversions), len(rangeData.Failures)))
	}

	// Test range limit (should reject > 90 days)
	tr.expectStatus("Range limit enforced (>90 days rejected)", "/api/v1/convert/range?start=2021-01-01&end=2021-12-31", http.StatusBadRequest)

	// Test invalid range (end before start)
	tr.expectStatus("Invalid range rejected (end before start)", "/api/v1/convert/range?start=2021-12-31&end=2021-01-01", http.StatusBadRequest)
}

func (tr *TestRunner) testYears() {
	tr.printSection("Years")

	testCases := []struct {
		datetime    string
		months      int
		intercalary string
	}{
		{"2021-01-01", 12, ""},
		{"2020-01-01", 13, "12S"},
		{"2023-05-01", 13, "09S"},
	}

	for _, tc := range testCases {
		var data YearResponse
		if err := tr.getData("/api/v1/year/"+tc.datetime, &data); err != nil {
			tr.recordError("Year "+tc.datetime, err.Error())
			continue
		}

		intercalary := ""
		for _, m := range data.Months {
			if m.Intercalary {
				intercalary = m.Code
			}
		}

		if len(data.Months) == tc.months && intercalary == tc.intercalary {
			tr.recordSuccess(fmt.Sprintf("Year of %s: %04d %s, %d months %s", tc.datetime, data.Number, data.Era, len(data.Months), data.Pattern))
		} else {
			tr.recordError("Year "+tc.datetime, fmt.Sprintf("Expected %d months with intercalary '%s', got %d with '%s'",
				tc.months, tc.intercalary, len(data.Months), intercalary))
		}
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	// Invalid datetime format
	tr.expectStatus("Invalid datetime rejected", "/api/v1/convert/invalid", http.StatusBadRequest)

	// Impossible date
	tr.expectStatus("Impossible date rejected", "/api/v1/convert/2021-02-30", http.StatusBadRequest)

	// Missing parameters for range
	tr.expectStatus("Missing end parameter rejected", "/api/v1/convert/range?start=2021-01-01", http.StatusBadRequest)

	// Unknown route
	tr.expectStatus("Unknown route returns 404", "/api/v1/readings/today", http.StatusNotFound)

	// Leap day
	var data ConversionResponse
	if err := tr.getData("/api/v1/convert/2024-02-29", &data); err != nil {
		tr.recordError("Leap day", err.Error())
	} else {
		tr.recordSuccess(fmt.Sprintf("Leap day (2024-02-29) handled: %s", data.Date))
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) get(path string) (*APIResponse, error) {
	resp, err := tr.getRaw(path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
			if apiResp.Error.Code != "" {
				errMsg = apiResp.Error.Code + ": " + errMsg
			}
		}
		return nil, fmt.Errorf("API error: %s", errMsg)
	}

	return &apiResp, nil
}

func (tr *TestRunner) getData(path string, target any) error {
	resp, err := tr.get(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Data, target); err != nil {
		return fmt.Errorf("data parse error: %w", err)
	}
	return nil
}

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	url := tr.baseURL + path
	return tr.client.Get(url)
}

func (tr *TestRunner) expectStatus(description, path string, status int) {
	resp, err := tr.getRaw(path)
	if err != nil {
		tr.recordError(description, err.Error())
		return
	}
	resp.Body.Close()

	if resp.StatusCode == status {
		tr.recordSuccess(description)
	} else {
		tr.recordError(description, fmt.Sprintf("Expected HTTP %d, got %d", status, resp.StatusCode))
	}
}

func (tr *TestRunner) printSection(name string) {
	fmt.Fprintln(tr.out)
	fmt.Fprintf(tr.out, "--- %s ---\n", name)
	fmt.Fprintln(tr.out)
}

func (tr *TestRunner) printConversionDetail(c ConversionResponse) {
	fmt.Fprintf(tr.out, "    Base equinox: %s\n", c.BaseEquinox.Format(time.RFC3339))
	fmt.Fprintf(tr.out, "    Ordinal:      %d\n", c.Ordinal)
	if c.LeapYear {
		fmt.Fprintf(tr.out, "    Leap year:    %s\n", c.Pattern)
	}
	if c.Estimated {
		fmt.Fprintln(tr.out, "    Ordinal estimated")
	}
	fmt.Fprintln(tr.out)
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Fprintf(tr.out, "  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Fprintf(tr.out, "  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Fprintln(tr.out)
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "Summary")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "  Passed: %d\n", tr.successCount)
	fmt.Fprintf(tr.out, "  Failed: %d\n", tr.errorCount)
	fmt.Fprintln(tr.out)

	if tr.errorCount > 0 {
		fmt.Fprintln(tr.out, "Failures:")
		for _, err := range tr.errors {
			fmt.Fprintf(tr.out, "  • %s\n", err)
		}
		fmt.Fprintln(tr.out)
	}

	if tr.errorCount == 0 {
		fmt.Fprintln(tr.out, "All tests passed! ✓")
	} else {
		fmt.Fprintf(tr.out, "Tests completed with %d failure(s)\n", tr.errorCount)
	}
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flag.Bool("v", false, "Verbose output (show conversion details)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
