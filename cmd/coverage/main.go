// Command coverage converts every day of a span of civil years through a
// running API and reports failures and calendar discontinuities.
//
// Usage:
//
//	go run ./cmd/coverage -url http://localhost:8080 -start 2020 -years 4
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"
)

// APIResponse matches the API response structure
type APIResponse[T any] struct {
	Success bool       `json:"success"`
	Data    T          `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// RangeResponse is the data of /api/v1/convert/range.
type RangeResponse struct {
	Conversions []Conversion   `json:"conversions"`
	Failures    []RangeFailure `json:"failures"`
}

type Conversion struct {
	Input       time.Time `json:"input"`
	Date        string    `json:"date"`
	Day         int       `json:"day"`
	MonthCode   string    `json:"month_code"`
	Year        int       `json:"year"`
	Era         string    `json:"era"`
	Intercalary bool      `json:"intercalary"`
	Estimated   bool      `json:"estimated"`
}

type RangeFailure struct {
	Date    string `json:"date"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// TestResult holds the result for a single date
type TestResult struct {
	Date       string `json:"date"`
	Success    bool   `json:"success"`
	Neoteran   string `json:"neoteran,omitempty"`
	MonthCode  string `json:"month_code,omitempty"`
	Day        int    `json:"day,omitempty"`
	Year       int    `json:"year,omitempty"`
	Era        string `json:"era,omitempty"`
	Estimated  bool   `json:"estimated,omitempty"`
	Error      string `json:"error,omitempty"`
	ErrorCode  string `json:"error_code,omitempty"`
	Continuity string `json:"continuity,omitempty"`
}

// maxRangeDays matches the API's range limit.
const maxRangeDays = 90

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	startYear := flag.Int("start", 2020, "Start year")
	years := flag.Int("years", 4, "Number of years to test")
	verbose := flag.Bool("v", false, "Verbose output (show each date)")
	outputFile := flag.String("o", "", "Output results to JSON file")
	flag.Parse()

	endYear := *startYear + *years - 1

	fmt.Println("================================================================")
	fmt.Println("Neoteran API - Full Coverage Test")
	fmt.Println("================================================================")
	fmt.Printf("Base URL:    %s\n", *baseURL)
	fmt.Printf("Date Range:  %d-01-01 to %d-12-31\n", *startYear, endYear)
	fmt.Printf("Total Years: %d\n", *years)
	fmt.Println()

	// Check if server is reachable
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	start := time.Date(*startYear, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(endYear, 12, 31, 0, 0, 0, 0, time.UTC)

	results, err := testAllDates(client, *baseURL, start, end)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	checkContinuity(results)

	if *verbose {
		for _, r := range results {
			status := "✓"
			if !r.Success || r.Continuity != "" {
				status = "✗"
			}
			fmt.Printf("  %s %s: %s %s%s\n", status, r.Date, r.Neoteran, r.Error, r.Continuity)
		}
		fmt.Println()
	}

	analysis := analyzeResults(results)

	printSummary(analysis, *startYear, endYear)
	printFailures(analysis)

	if *outputFile != "" {
		saveResults(*outputFile, results, analysis)
	}

	if analysis.TotalFailed > 0 || len(analysis.Discontinuities) > 0 {
		os.Exit(1)
	}
}

// testAllDates walks [start, end] in range requests of at most maxRangeDays.
func testAllDates(client *http.Client, baseURL string, start, end time.Time) ([]TestResult, error) {
	var results []TestResult

	totalDays := int(end.Sub(start).Hours()/24) + 1
	fmt.Printf("Testing %d days...\n\n", totalDays)

	for chunkStart := start; !chunkStart.After(end); chunkStart = chunkStart.AddDate(0, 0, maxRangeDays) {
		chunkEnd := chunkStart.AddDate(0, 0, maxRangeDays-1)
		if chunkEnd.After(end) {
			chunkEnd = end
		}

		chunk, err := testRange(client, baseURL, chunkStart, chunkEnd)
		if err != nil {
			return nil, fmt.Errorf("range %s..%s: %w", chunkStart.Format("2006-01-02"), chunkEnd.Format("2006-01-02"), err)
		}
		results = append(results, chunk...)

		fmt.Printf("  Progress: %d%% (%d/%d)\n", len(results)*100/totalDays, len(results), totalDays)
	}

	fmt.Println()
	sort.Slice(results, func(i, j int) bool { return results[i].Date < results[j].Date })
	return results, nil
}

func testRange(client *http.Client, baseURL string, start, end time.Time) ([]TestResult, error) {
	url := fmt.Sprintf("%s/api/v1/convert/range?start=%s&end=%s",
		baseURL, start.Format("2006-01-02"), end.Format("2006-01-02"))

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	var apiResp APIResponse[RangeResponse]
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if !apiResp.Success {
		msg := "unknown error"
		if apiResp.Error != nil {
			msg = apiResp.Error.Message
		}
		return nil, fmt.Errorf("request failed (%d): %s", resp.StatusCode, msg)
	}

	results := make([]TestResult, 0, len(apiResp.Data.Conversions)+len(apiResp.Data.Failures))
	for _, c := range apiResp.Data.Conversions {
		results = append(results, TestResult{
			Date:      c.Input.UTC().Format("2006-01-02"),
			Success:   true,
			Neoteran:  c.Date,
			MonthCode: c.MonthCode,
			Day:       c.Day,
			Year:      c.Year,
			Era:       c.Era,
			Estimated: c.Estimated,
		})
	}
	for _, f := range apiResp.Data.Failures {
		results = append(results, TestResult{
			Date:      f.Date,
			Error:     f.Message,
			ErrorCode: f.Code,
		})
	}
	return results, nil
}

// checkContinuity flags consecutive successful days whose dates do not follow
// one another. Samples are taken at 00:00 UTC, so within a month the day
// advances by one and a new month is always seen first on its day 1.
func checkContinuity(results []TestResult) {
	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1], results[i]
		if !prev.Success || !cur.Success {
			continue
		}
		sameMonth := prev.MonthCode == cur.MonthCode && prev.Year == cur.Year && prev.Era == cur.Era
		switch {
		case sameMonth && cur.Day == prev.Day+1:
		case !sameMonth && cur.Day == 1:
		default:
			results[i].Continuity = fmt.Sprintf("after %s", prev.Neoteran)
		}
	}
}

// Analysis holds the analyzed results
type Analysis struct {
	TotalDays       int
	TotalSuccess    int
	TotalFailed     int
	Estimated       int
	ByYear          map[int]*YearStats
	ByErrorCode     map[string]int
	MonthCodes      map[string]int
	AllFailures     []TestResult
	Discontinuities []TestResult
}

type YearStats struct {
	Year        int `json:"year"`
	TotalDays   int `json:"total_days"`
	SuccessDays int `json:"success_days"`
	FailedDays  int `json:"failed_days"`
}

func analyzeResults(results []TestResult) *Analysis {
	analysis := &Analysis{
		ByYear:      make(map[int]*YearStats),
		ByErrorCode: make(map[string]int),
		MonthCodes:  make(map[string]int),
	}

	for _, r := range results {
		analysis.TotalDays++

		date, _ := time.Parse("2006-01-02", r.Date)
		year := date.Year()
		if _, ok := analysis.ByYear[year]; !ok {
			analysis.ByYear[year] = &YearStats{Year: year}
		}
		analysis.ByYear[year].TotalDays++

		if r.Success {
			analysis.TotalSuccess++
			analysis.ByYear[year].SuccessDays++
			analysis.MonthCodes[r.MonthCode]++
			if r.Estimated {
				analysis.Estimated++
			}
			if r.Continuity != "" {
				analysis.Discontinuities = append(analysis.Discontinuities, r)
			}
		} else {
			analysis.TotalFailed++
			analysis.ByYear[year].FailedDays++
			analysis.ByErrorCode[r.ErrorCode]++
			analysis.AllFailures = append(analysis.AllFailures, r)
		}
	}

	return analysis
}

func printSummary(analysis *Analysis, startYear, endYear int) {
	fmt.Println("================================================================")
	fmt.Println("SUMMARY")
	fmt.Println("================================================================")
	fmt.Printf("Total Days Tested: %d\n", analysis.TotalDays)
	fmt.Printf("Successful:        %d (%.1f%%)\n", analysis.TotalSuccess, percent(analysis.TotalSuccess, analysis.TotalDays))
	fmt.Printf("Failed:            %d (%.1f%%)\n", analysis.TotalFailed, percent(analysis.TotalFailed, analysis.TotalDays))
	fmt.Printf("Estimated ordinal: %d\n", analysis.Estimated)
	fmt.Printf("Discontinuities:   %d\n", len(analysis.Discontinuities))
	fmt.Println()

	fmt.Println("By Year:")
	for year := startYear; year <= endYear; year++ {
		if stats, ok := analysis.ByYear[year]; ok {
			status := "✓"
			if stats.FailedDays > 0 {
				status = "✗"
			}
			fmt.Printf("  %s %d: %d/%d days (%.1f%% success)\n",
				status, year, stats.SuccessDays, stats.TotalDays, percent(stats.SuccessDays, stats.TotalDays))
		}
	}
	fmt.Println()

	fmt.Println("Days per month code:")
	codes := make([]string, 0, len(analysis.MonthCodes))
	for code := range analysis.MonthCodes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		fmt.Printf("  %s: %d\n", code, analysis.MonthCodes[code])
	}
	fmt.Println()
}

func printFailures(analysis *Analysis) {
	if analysis.TotalFailed == 0 && len(analysis.Discontinuities) == 0 {
		fmt.Println("No failures!")
		return
	}

	if analysis.TotalFailed > 0 {
		fmt.Println("================================================================")
		fmt.Println("FAILURES BY ERROR CODE")
		fmt.Println("================================================================")
		for code, n := range analysis.ByErrorCode {
			fmt.Printf("  %s: %d\n", code, n)
		}
		fmt.Println()

		shown := 0
		for _, f := range analysis.AllFailures {
			if shown >= 50 {
				fmt.Printf("  ... and %d more\n", len(analysis.AllFailures)-50)
				break
			}
			fmt.Printf("  %s | %s\n", f.Date, f.Error)
			shown++
		}
		fmt.Println()
	}

	if len(analysis.Discontinuities) > 0 {
		fmt.Println("================================================================")
		fmt.Println("DISCONTINUITIES")
		fmt.Println("================================================================")
		for _, d := range analysis.Discontinuities {
			fmt.Printf("  %s | %s %s\n", d.Date, d.Neoteran, d.Continuity)
		}
		fmt.Println()
	}
}

func saveResults(filename string, results []TestResult, analysis *Analysis) {
	output := struct {
		GeneratedAt     string             `json:"generated_at"`
		Summary         map[string]any     `json:"summary"`
		ByYear          map[int]*YearStats `json:"by_year"`
		Failures        []TestResult       `json:"failures"`
		Discontinuities []TestResult       `json:"discontinuities"`
		Results         []TestResult       `json:"results"`
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Summary: map[string]any{
			"total_days":    analysis.TotalDays,
			"total_success": analysis.TotalSuccess,
			"total_failed":  analysis.TotalFailed,
			"estimated":     analysis.Estimated,
			"success_rate":  fmt.Sprintf("%.2f%%", percent(analysis.TotalSuccess, analysis.TotalDays)),
		},
		ByYear:          analysis.ByYear,
		Failures:        analysis.AllFailures,
		Discontinuities: analysis.Discontinuities,
		Results:         results,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling results: %v\n", err)
		return
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		fmt.Printf("Error writing file: %v\n", err)
		return
	}

	fmt.Printf("Results saved to: %s\n", filename)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
