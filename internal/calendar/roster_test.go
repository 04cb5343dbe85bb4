package calendar

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/zapponejosh/neoteran-api/internal/astro"
	"github.com/zapponejosh/neoteran-api/internal/astro/astrotest"
)

func times(ss ...string) []time.Time {
	out := make([]time.Time, len(ss))
	for i, s := range ss {
		out[i] = at(s)
	}
	return out
}

func TestEnumerateYear(t *testing.T) {
	c := testConverter(t)

	tests := []struct {
		name     string
		anchor   string
		wantLen  int
		wantLeap bool
		first    string
		last     string
	}{
		{"2019 leap year", "2019-09-23T07:50", 14, true, "2019-08-30T10:37", "2020-09-17T11:00"},
		{"2020 ordinary year", "2020-09-22T13:31", 13, false, "2020-09-17T11:00", "2021-09-07T00:52"},
		{"2021 ordinary year", "2021-09-22T19:21", 13, false, "2021-09-07T00:52", "2022-08-27T08:17"},
		{"2022 leap year", "2022-09-23T01:03", 14, true, "2022-08-27T08:17", "2023-09-15T01:40"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := c.EnumerateYear(context.Background(), at(tt.anchor))
			if err != nil {
				t.Fatalf("EnumerateYear() error = %v", err)
			}
			if r.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", r.Len(), tt.wantLen)
			}
			if r.IsLeap() != tt.wantLeap {
				t.Errorf("IsLeap() = %v, want %v", r.IsLeap(), tt.wantLeap)
			}
			if !r.Conjunctions[0].Equal(at(tt.first)) {
				t.Errorf("C01 = %s, want %s", r.Conjunctions[0], tt.first)
			}
			if got := r.Conjunctions[r.Len()-1]; !got.Equal(at(tt.last)) {
				t.Errorf("N01 = %s, want %s", got, tt.last)
			}
			for i := 1; i < r.Len(); i++ {
				if !r.Conjunctions[i].After(r.Conjunctions[i-1]) {
					t.Errorf("entries %d and %d out of order", i-1, i)
				}
			}
		})
	}
}

func TestEnumerateYear_Consecutive(t *testing.T) {
	// N01 of one year is C01 of the next.
	c := testConverter(t)
	ctx := context.Background()

	r2020, err := c.EnumerateYear(ctx, at("2020-09-22T13:31"))
	if err != nil {
		t.Fatalf("EnumerateYear(2020) error = %v", err)
	}
	r2021, err := c.EnumerateYear(ctx, at("2021-09-22T19:21"))
	if err != nil {
		t.Fatalf("EnumerateYear(2021) error = %v", err)
	}
	if !r2020.Conjunctions[r2020.Len()-1].Equal(r2021.Conjunctions[0]) {
		t.Errorf("N01 of 2020 = %s, C01 of 2021 = %s", r2020.Conjunctions[r2020.Len()-1], r2021.Conjunctions[0])
	}
}

func TestEnumerateYear_NextEquinoxMissing(t *testing.T) {
	c := testConverter(t)

	_, err := c.EnumerateYear(context.Background(), at("2023-09-23T06:50"))
	if !IsAnchorNotFound(err) {
		t.Errorf("error = %v, want ErrAnchorNotFound", err)
	}
}

func TestEnumerateYear_InvalidRoster(t *testing.T) {
	var phases []astro.PhaseEvent
	for _, s := range astrotest.NewMoons {
		if strings.HasPrefix(s, "2021-0") && s < "2021-04" {
			continue
		}
		phases = append(phases, astro.PhaseEvent{Time: at(s), Phase: astro.PhaseNew})
	}
	fixture := astrotest.Provider()
	seasons, err := fixture.SolarSeasonEvents(context.Background(), at("2019-01-01T00:00"), at("2024-01-01T00:00"))
	if err != nil {
		t.Fatalf("SolarSeasonEvents() error = %v", err)
	}
	c := newQuietConverter(astro.NewStatic(phases, seasons))

	_, err = c.EnumerateYear(context.Background(), at("2020-09-22T13:31"))
	if !errors.Is(err, ErrInvalidRoster) {
		t.Errorf("error = %v, want ErrInvalidRoster", err)
	}
}

func TestRoster_ID(t *testing.T) {
	r := Roster{Conjunctions: make([]time.Time, LeapRosterLen)}

	var got []string
	for i := 0; i < r.Len(); i++ {
		got = append(got, r.ID(i))
	}
	want := []string{
		"C01", "C02", "C03", "C04", "C05", "C06", "C07",
		"C08", "C09", "C10", "C11", "C12", "C13", "N01",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
}

func TestRoster_Ordinal(t *testing.T) {
	r := Roster{
		Anchor: at("2020-09-22T13:31"),
		Conjunctions: times(
			"2020-09-17T11:00", "2020-10-16T19:31", "2020-11-15T05:07", "2020-12-14T16:17",
			"2021-01-13T05:00", "2021-02-11T19:06", "2021-03-13T10:21", "2021-04-12T02:31",
			"2021-05-11T19:00", "2021-06-10T10:53", "2021-07-10T01:17", "2021-08-08T13:50",
			"2021-09-07T00:52",
		),
	}

	tests := []struct {
		name      string
		conj      string
		want      int
		wantExact bool
	}{
		{"first", "2020-09-17T11:00", 1, true},
		{"within tolerance", "2020-09-17T11:40", 1, true},
		{"sixth", "2021-02-11T19:06", 6, true},
		{"twelfth", "2021-08-08T13:50", 12, true},
		{"N01 wraps to month one", "2021-09-07T00:52", 1, true},
		{"unlisted, estimated", "2020-11-20T00:00", 3, false},
		{"unlisted, clamped low", "2020-08-01T00:00", 1, false},
		{"unlisted, clamped high", "2021-12-01T00:00", 13, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, exact := r.Ordinal(at(tt.conj))
			if got != tt.want || exact != tt.wantExact {
				t.Errorf("Ordinal(%s) = (%d, %v), want (%d, %v)", tt.conj, got, exact, tt.want, tt.wantExact)
			}
		})
	}
}

func TestRoster_LandmarkID(t *testing.T) {
	r := Roster{Conjunctions: times(
		"2020-09-17T11:00", "2020-10-16T19:31", "2020-11-15T05:07",
	)}

	if got := r.landmarkID(at("2020-10-16T19:31")); got != "C02" {
		t.Errorf("landmarkID(C02) = %q", got)
	}
	if got := r.landmarkID(at("2020-11-15T05:07")); got != "" {
		t.Errorf("landmarkID(N01) = %q, want empty", got)
	}
	if got := r.landmarkID(at("2021-01-13T05:00")); got != "" {
		t.Errorf("landmarkID(unlisted) = %q, want empty", got)
	}
}
