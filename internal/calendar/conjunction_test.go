package calendar

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/zapponejosh/neoteran-api/internal/astro"
	"github.com/zapponejosh/neoteran-api/internal/astro/astrotest"
)

// =============================================================================
// TEST SETUP HELPERS
// =============================================================================

// testConverter returns a converter over the 2019-2023 fixture events.
func testConverter(t *testing.T) *Converter {
	t.Helper()
	return newQuietConverter(astrotest.Provider())
}

func newQuietConverter(p astro.Provider) *Converter {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Quiet during tests
	}))
	return NewConverter(p, logger)
}

var at = astrotest.MustTime

type failingProvider struct{ err error }

func (f failingProvider) LunarPhaseEvents(context.Context, time.Time, time.Time) ([]astro.PhaseEvent, error) {
	return nil, f.err
}

func (f failingProvider) SolarSeasonEvents(context.Context, time.Time, time.Time) ([]astro.SeasonEvent, error) {
	return nil, f.err
}

// =============================================================================
// CONJUNCTION RESOLVER TESTS
// =============================================================================

func TestGoverningConjunction(t *testing.T) {
	tests := []struct {
		name string
		ref  time.Time
		want string
	}{
		{
			name: "well inside a month",
			ref:  at("2021-01-01T00:00"),
			want: "2020-12-14T16:17",
		},
		{
			name: "day after a late conjunction, before 15:00",
			ref:  at("2020-09-18T14:59"),
			want: "2020-08-19T02:41",
		},
		{
			name: "day after a late conjunction, exactly 15:00",
			ref:  at("2020-09-18T15:00"),
			want: "2020-08-19T02:41",
		},
		{
			name: "day after a late conjunction, after 15:00",
			ref:  at("2020-09-18T15:01"),
			want: "2020-09-17T11:00",
		},
		{
			name: "same day as conjunction, after 09:00",
			ref:  at("2021-01-13T09:00"),
			want: "2020-12-14T16:17",
		},
		{
			name: "same day as conjunction, before 09:00",
			ref:  at("2021-01-13T08:59"),
			want: "2021-01-13T05:00",
		},
		{
			name: "evening conjunction, next morning",
			ref:  at("2021-02-12T10:00"),
			want: "2021-01-13T05:00",
		},
		{
			name: "descendant equinox 2020",
			ref:  at("2020-09-22T13:31"),
			want: "2020-09-17T11:00",
		},
	}

	c := testConverter(t)
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.GoverningConjunction(ctx, tt.ref)
			if err != nil {
				t.Fatalf("GoverningConjunction() error = %v", err)
			}
			if want := at(tt.want); !got.Equal(want) {
				t.Errorf("GoverningConjunction(%s) = %s, want %s", tt.ref, got, want)
			}
		})
	}
}

func TestGoverningConjunction_StableWithinMonth(t *testing.T) {
	c := testConverter(t)
	ctx := context.Background()
	want := at("2020-12-14T16:17")

	for ref := at("2020-12-17T00:00"); ref.Before(at("2021-01-12T00:00")); ref = ref.Add(6 * time.Hour) {
		got, err := c.GoverningConjunction(ctx, ref)
		if err != nil {
			t.Fatalf("GoverningConjunction(%s) error = %v", ref, err)
		}
		if !got.Equal(want) {
			t.Errorf("GoverningConjunction(%s) = %s, want %s", ref, got, want)
		}
	}
}

func TestGoverningConjunction_InsufficientData(t *testing.T) {
	p := astro.NewStatic([]astro.PhaseEvent{
		{Time: at("2021-01-13T05:00"), Phase: astro.PhaseNew},
		{Time: at("2021-01-20T21:02"), Phase: astro.PhaseFirstQuarter},
		{Time: at("2021-01-28T19:16"), Phase: astro.PhaseFull},
	}, nil)
	c := newQuietConverter(p)

	_, err := c.GoverningConjunction(context.Background(), at("2021-02-01T00:00"))
	if !IsInsufficientData(err) {
		t.Errorf("error = %v, want ErrInsufficientData", err)
	}
}

func TestGoverningConjunction_ProviderError(t *testing.T) {
	boom := errors.New("ephemeris offline")
	c := newQuietConverter(failingProvider{err: boom})

	_, err := c.GoverningConjunction(context.Background(), at("2021-02-01T00:00"))
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped provider error", err)
	}
}
