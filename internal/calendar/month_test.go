package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/zapponejosh/neoteran-api/internal/astro/astrotest"
)

func TestMonthStart(t *testing.T) {
	tests := []struct {
		name string
		conj string
		want string
	}{
		{"early morning conjunction", "2024-01-11T05:00", "2024-01-11T15:00"},
		{"exactly 09:00", "2024-01-11T09:00", "2024-01-11T15:00"},
		{"just after 09:00", "2024-01-11T09:01", "2024-01-12T15:00"},
		{"midday conjunction", "2024-01-11T12:00", "2024-01-12T15:00"},
		{"late evening conjunction", "2020-12-14T16:17", "2020-12-15T15:00"},
		{"month rollover", "2021-01-31T22:00", "2021-02-01T15:00"},
		{"year rollover", "2019-12-31T23:59", "2020-01-01T15:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthStart(at(tt.conj))
			if want := at(tt.want); !got.Equal(want) {
				t.Errorf("MonthStart(%s) = %s, want %s", tt.conj, got, want)
			}
		})
	}
}

func TestMonthStart_AlwaysAfternoon(t *testing.T) {
	for _, s := range astrotest.NewMoons {
		conj := at(s)
		start := MonthStart(conj)

		if start.Hour() != 15 || start.Minute() != 0 || start.Second() != 0 {
			t.Errorf("MonthStart(%s) = %s, want 15:00:00", s, start)
		}
		if lag := start.Sub(conj); lag <= 0 || lag > 30*time.Hour {
			t.Errorf("MonthStart(%s) lags conjunction by %s", s, lag)
		}
	}
}

func TestMonthEnd(t *testing.T) {
	got := MonthEnd(at("2024-01-11T05:00"))
	want := at("2024-01-11T14:59:59Z")
	if !got.Equal(want) {
		t.Errorf("MonthEnd() = %s, want %s", got, want)
	}
}

func TestConverter_MonthSpan(t *testing.T) {
	c := testConverter(t)

	tests := []struct {
		conj      string
		wantStart string
		wantEnd   string
	}{
		{"2020-09-17T11:00", "2020-09-18T15:00", "2020-10-17T14:59:59Z"},
		{"2020-08-19T02:41", "2020-08-19T15:00", "2020-09-18T14:59:59Z"},
		{"2020-12-14T16:17", "2020-12-15T15:00", "2021-01-13T14:59:59Z"},
	}

	for _, tt := range tests {
		t.Run(tt.conj, func(t *testing.T) {
			span, err := c.MonthSpan(context.Background(), at(tt.conj))
			if err != nil {
				t.Fatalf("MonthSpan() error = %v", err)
			}
			if !span.Start.Equal(at(tt.wantStart)) {
				t.Errorf("Start = %s, want %s", span.Start, tt.wantStart)
			}
			if !span.End.Equal(at(tt.wantEnd)) {
				t.Errorf("End = %s, want %s", span.End, tt.wantEnd)
			}
			if !span.Conjunction.Equal(at(tt.conj)) {
				t.Errorf("Conjunction = %s, want %s", span.Conjunction, tt.conj)
			}
		})
	}
}

func TestMonthSpan_Contains(t *testing.T) {
	span := MonthSpan{
		Start: at("2020-09-18T15:00"),
		End:   at("2020-10-17T14:59:59Z"),
	}

	tests := []struct {
		t    string
		want bool
	}{
		{"2020-09-18T14:59:59Z", false},
		{"2020-09-18T15:00:00Z", true},
		{"2020-10-01T00:00:00Z", true},
		{"2020-10-17T14:59:59Z", true},
		{"2020-10-17T15:00:00Z", false},
	}
	for _, tt := range tests {
		if got := span.Contains(at(tt.t)); got != tt.want {
			t.Errorf("Contains(%s) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestDayOfMonth(t *testing.T) {
	start := at("2020-09-18T15:00")

	tests := []struct {
		name string
		t    time.Time
		want int
	}{
		{"month start", start, 1},
		{"last second of first day", start.Add(24*time.Hour - time.Second), 1},
		{"second day", start.Add(24 * time.Hour), 2},
		{"day thirty", start.Add(29*24*time.Hour + 3*time.Hour), 30},
		{"before start", start.Add(-time.Hour), 0},
		{"well before start", start.Add(-25 * time.Hour), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayOfMonth(tt.t, start); got != tt.want {
				t.Errorf("DayOfMonth() = %d, want %d", got, tt.want)
			}
		})
	}
}
