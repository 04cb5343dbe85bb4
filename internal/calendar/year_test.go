package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/zapponejosh/neoteran-api/internal/astro"
	"github.com/zapponejosh/neoteran-api/internal/astro/astrotest"
)

func TestEraOf(t *testing.T) {
	tests := []struct {
		t    string
		want Era
	}{
		{"2019-01-01T00:00", EraAR},
		{"2020-09-18T14:59:59Z", EraAR},
		{"2020-09-18T15:00:00Z", EraER},
		{"2020-09-18T15:01", EraER},
		{"2031-06-01T00:00", EraER},
	}
	for _, tt := range tests {
		if got := EraOf(at(tt.t)); got != tt.want {
			t.Errorf("EraOf(%s) = %s, want %s", tt.t, got, tt.want)
		}
	}
}

func TestResolveYearAnchor(t *testing.T) {
	c := testConverter(t)

	tests := []struct {
		name  string
		start string
		end   string
		want  string
	}{
		{
			name:  "month containing the equinox takes the later anchor",
			start: "2020-09-18T15:00",
			end:   "2020-10-17T14:59:59Z",
			want:  "2020-09-22T13:31",
		},
		{
			name:  "month ending before the equinox keeps the earlier anchor",
			start: "2020-08-19T15:00",
			end:   "2020-09-18T14:59:59Z",
			want:  "2019-09-23T07:50",
		},
		{
			name:  "mid year",
			start: "2021-02-12T15:00",
			end:   "2021-03-14T14:59:59Z",
			want:  "2020-09-22T13:31",
		},
		{
			name:  "late 2022 month",
			start: "2022-09-26T15:00",
			end:   "2022-10-26T14:59:59Z",
			want:  "2022-09-23T01:03",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span := MonthSpan{Start: at(tt.start), End: at(tt.end)}
			got, err := c.ResolveYearAnchor(context.Background(), span)
			if err != nil {
				t.Fatalf("ResolveYearAnchor() error = %v", err)
			}
			if want := at(tt.want); !got.Equal(want) {
				t.Errorf("ResolveYearAnchor() = %s, want %s", got, want)
			}
		})
	}
}

func TestResolveYearAnchor_NoEquinox(t *testing.T) {
	var phases []astro.PhaseEvent
	for _, s := range astrotest.NewMoons {
		phases = append(phases, astro.PhaseEvent{Time: at(s), Phase: astro.PhaseNew})
	}
	c := newQuietConverter(astro.NewStatic(phases, nil))

	span := MonthSpan{Start: at("2021-02-12T15:00"), End: at("2021-03-14T14:59:59Z")}
	_, err := c.ResolveYearAnchor(context.Background(), span)
	if !IsAnchorNotFound(err) {
		t.Errorf("error = %v, want ErrAnchorNotFound", err)
	}
}

func TestYearNumber(t *testing.T) {
	c := testConverter(t)

	tests := []struct {
		anchor string
		want   int
	}{
		{"2019-09-23T07:50", 1},
		{"2020-09-22T13:31", 1},
		{"2021-09-22T19:21", 2},
		{"2022-09-23T01:03", 3},
	}

	for _, tt := range tests {
		t.Run(tt.anchor, func(t *testing.T) {
			got, err := c.YearNumber(context.Background(), at(tt.anchor))
			if err != nil {
				t.Fatalf("YearNumber() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("YearNumber(%s) = %d, want %d", tt.anchor, got, tt.want)
			}
		})
	}
}

func TestYearNumber_AnchorAlwaysCounted(t *testing.T) {
	// No equinox events at all: the anchor alone is counted.
	c := newQuietConverter(astro.NewStatic(nil, nil))

	got, err := c.YearNumber(context.Background(), at("2020-09-22T13:31"))
	if err != nil {
		t.Fatalf("YearNumber() error = %v", err)
	}
	if got != 1 {
		t.Errorf("YearNumber() = %d, want 1", got)
	}
}

func TestYearContext(t *testing.T) {
	c := testConverter(t)
	ctx := context.Background()

	query := at("2021-03-01T12:00")
	conj, err := c.GoverningConjunction(ctx, query)
	if err != nil {
		t.Fatalf("GoverningConjunction() error = %v", err)
	}
	span, err := c.MonthSpan(ctx, conj)
	if err != nil {
		t.Fatalf("MonthSpan() error = %v", err)
	}

	got, err := c.YearContext(ctx, query, span)
	if err != nil {
		t.Fatalf("YearContext() error = %v", err)
	}
	want := YearContext{BaseEquinox: at("2020-09-22T13:31"), Number: 1, Era: EraER}
	if !got.BaseEquinox.Equal(want.BaseEquinox) || got.Number != want.Number || got.Era != want.Era {
		t.Errorf("YearContext() = %+v, want %+v", got, want)
	}
}

func TestDedupeSorted(t *testing.T) {
	base := at("2020-09-22T13:31")
	got := dedupeSorted([]time.Time{
		base.Add(365 * 24 * time.Hour),
		base,
		base.Add(500 * time.Millisecond),
	})
	if len(got) != 2 {
		t.Fatalf("dedupeSorted() returned %d instants, want 2", len(got))
	}
	if !got[0].Equal(base) {
		t.Errorf("first = %s, want %s", got[0], base)
	}
}
