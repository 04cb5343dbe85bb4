package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zapponejosh/neoteran-api/internal/astro"
	"github.com/zapponejosh/neoteran-api/internal/astro/astrotest"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        string
		wantOrdinal int
		wantLeap    bool
		wantPattern Pattern
	}{
		{
			name:        "last moments of the AR era",
			input:       "2020-09-18T14:59:59Z",
			want:        "30|12S|0001 AR",
			wantOrdinal: 13,
			wantLeap:    true,
			wantPattern: Pattern1,
		},
		{
			name:        "first month of the ER era",
			input:       "2020-09-18T15:01",
			want:        "01|01C|0001 ER",
			wantOrdinal: 1,
		},
		{
			name:        "ordinary year, mid month",
			input:       "2021-03-01T12:00",
			want:        "17|06C|0001 ER",
			wantOrdinal: 6,
		},
		{
			name:        "AR leap year before intercalation",
			input:       "2020-01-01T00:00",
			want:        "06|05C|0001 AR",
			wantOrdinal: 5,
			wantLeap:    true,
			wantPattern: Pattern1,
		},
		{
			name:        "third ER year, regular month",
			input:       "2023-05-01T00:00",
			want:        "11|09C|0003 ER",
			wantOrdinal: 9,
			wantLeap:    true,
			wantPattern: Pattern2,
		},
		{
			name:        "third ER year, intercalary month",
			input:       "2023-06-01T00:00",
			want:        "12|09S|0003 ER",
			wantOrdinal: 10,
			wantLeap:    true,
			wantPattern: Pattern2,
		},
	}

	c := testConverter(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Convert(context.Background(), at(tt.input))
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if got.Date.String() != tt.want {
				t.Errorf("Convert(%s) = %s, want %s", tt.input, got.Date, tt.want)
			}
			if got.Ordinal != tt.wantOrdinal {
				t.Errorf("Ordinal = %d, want %d", got.Ordinal, tt.wantOrdinal)
			}
			if got.Leap != tt.wantLeap {
				t.Errorf("Leap = %v, want %v", got.Leap, tt.wantLeap)
			}
			if got.Pattern != tt.wantPattern {
				t.Errorf("Pattern = %v, want %v", got.Pattern, tt.wantPattern)
			}
			if got.Estimated {
				t.Error("Estimated = true, want exact roster match")
			}
			if !got.Month.Contains(got.Input) {
				t.Errorf("month %s..%s does not contain input", got.Month.Start, got.Month.End)
			}
		})
	}
}

func TestConvert_EraBoundary(t *testing.T) {
	c := testConverter(t)
	ctx := context.Background()

	before, err := c.Convert(ctx, at("2020-09-18T14:59:59Z"))
	if err != nil {
		t.Fatalf("Convert(before) error = %v", err)
	}
	atBoundary, err := c.Convert(ctx, EpochBoundary)
	if err != nil {
		t.Fatalf("Convert(boundary) error = %v", err)
	}

	if before.Date.Era != EraAR {
		t.Errorf("era before boundary = %s, want AR", before.Date.Era)
	}
	if atBoundary.Date.Era != EraER {
		t.Errorf("era at boundary = %s, want ER", atBoundary.Date.Era)
	}
}

func TestConvert_DayAdvancesAtMonthStart(t *testing.T) {
	c := testConverter(t)
	ctx := context.Background()

	start := at("2020-12-15T15:00")
	for day := 1; day <= 29; day++ {
		t0 := start.Add(time.Duration(day-1)*24*time.Hour + time.Hour)
		got, err := c.Convert(ctx, t0)
		if err != nil {
			t.Fatalf("Convert(%s) error = %v", t0, err)
		}
		if got.Date.Day != day {
			t.Errorf("Convert(%s) day = %d, want %d", t0, got.Date.Day, day)
		}
		if got.Date.MonthCode != "04C" {
			t.Errorf("Convert(%s) month = %s, want 04C", t0, got.Date.MonthCode)
		}
	}
}

func TestConvert_NonUTCInput(t *testing.T) {
	c := testConverter(t)
	loc := time.FixedZone("UTC+2", 2*60*60)

	got, err := c.Convert(context.Background(), time.Date(2021, 3, 1, 14, 0, 0, 0, loc))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if got.Date.String() != "17|06C|0001 ER" {
		t.Errorf("Convert() = %s, want 17|06C|0001 ER", got.Date)
	}
	if got.Input.Location() != time.UTC {
		t.Errorf("Input location = %v, want UTC", got.Input.Location())
	}
}

func TestConvertCivil(t *testing.T) {
	c := testConverter(t)

	got, err := c.ConvertCivil(context.Background(), 2021, time.March, 1, 12, 0)
	if err != nil {
		t.Fatalf("ConvertCivil() error = %v", err)
	}
	if got.Date.String() != "17|06C|0001 ER" {
		t.Errorf("ConvertCivil() = %s, want 17|06C|0001 ER", got.Date)
	}
}

func TestConvertCivil_InvalidInput(t *testing.T) {
	c := testConverter(t)

	tests := []struct {
		name              string
		year              int
		month             time.Month
		day, hour, minute int
	}{
		{"month zero", 2021, 0, 1, 0, 0},
		{"month thirteen", 2021, 13, 1, 0, 0},
		{"february 30", 2021, time.February, 30, 0, 0},
		{"february 29, common year", 2021, time.February, 29, 0, 0},
		{"day zero", 2021, time.March, 0, 0, 0},
		{"hour 24", 2021, time.March, 1, 24, 0},
		{"negative minute", 2021, time.March, 1, 0, -1},
		{"minute 60", 2021, time.March, 1, 0, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ConvertCivil(context.Background(), tt.year, tt.month, tt.day, tt.hour, tt.minute)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestConvert_Errors(t *testing.T) {
	var phases []astro.PhaseEvent
	for _, s := range astrotest.NewMoons {
		phases = append(phases, astro.PhaseEvent{Time: at(s), Phase: astro.PhaseNew})
	}
	boom := errors.New("ephemeris offline")

	tests := []struct {
		name     string
		provider astro.Provider
		input    string
		check    func(error) bool
	}{
		{
			name:     "no conjunctions",
			provider: astro.NewStatic(nil, nil),
			input:    "2021-03-01T12:00",
			check:    IsInsufficientData,
		},
		{
			name:     "no equinoxes",
			provider: astro.NewStatic(phases, nil),
			input:    "2021-03-01T12:00",
			check:    IsAnchorNotFound,
		},
		{
			name:     "outside fixture range",
			provider: astrotest.Provider(),
			input:    "2030-01-01T00:00",
			check:    IsInsufficientData,
		},
		{
			name:     "provider failure",
			provider: failingProvider{err: boom},
			input:    "2021-03-01T12:00",
			check:    func(err error) bool { return errors.Is(err, boom) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newQuietConverter(tt.provider)
			_, err := c.Convert(context.Background(), at(tt.input))
			if err == nil {
				t.Fatal("Convert() expected error")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConvert_ContextCanceled(t *testing.T) {
	c := testConverter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Convert(ctx, at("2021-03-01T12:00"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestYear(t *testing.T) {
	c := testConverter(t)
	ctx := context.Background()

	t.Run("ordinary ER year", func(t *testing.T) {
		cal, err := c.Year(ctx, at("2021-01-01T00:00"))
		if err != nil {
			t.Fatalf("Year() error = %v", err)
		}
		if cal.Number != 1 || cal.Era != EraER || cal.Leap || cal.Pattern != PatternNone {
			t.Errorf("Year() = number %d era %s leap %v pattern %v", cal.Number, cal.Era, cal.Leap, cal.Pattern)
		}
		if len(cal.Months) != 12 {
			t.Fatalf("len(Months) = %d, want 12", len(cal.Months))
		}
		if !cal.Months[0].Start.Equal(EpochBoundary) {
			t.Errorf("first month starts %s, want %s", cal.Months[0].Start, EpochBoundary)
		}
		if want := at("2021-09-07T14:59:59Z"); !cal.Months[11].End.Equal(want) {
			t.Errorf("last month ends %s, want %s", cal.Months[11].End, want)
		}
		for i, m := range cal.Months {
			if m.Code != StandardCode(i+1) {
				t.Errorf("month %d code = %s, want %s", i+1, m.Code, StandardCode(i+1))
			}
			if i > 0 && !m.Start.Equal(cal.Months[i-1].End.Add(time.Second)) {
				t.Errorf("month %d does not follow month %d", i+1, i)
			}
		}
	})

	t.Run("AR leap year", func(t *testing.T) {
		cal, err := c.Year(ctx, at("2020-01-01T00:00"))
		if err != nil {
			t.Fatalf("Year() error = %v", err)
		}
		if cal.Number != 1 || cal.Era != EraAR || !cal.Leap || cal.Pattern != Pattern1 {
			t.Errorf("Year() = number %d era %s leap %v pattern %v", cal.Number, cal.Era, cal.Leap, cal.Pattern)
		}
		if len(cal.Months) != 13 {
			t.Fatalf("len(Months) = %d, want 13", len(cal.Months))
		}
		if cal.Months[12].Code != "12S" {
			t.Errorf("last month code = %s, want 12S", cal.Months[12].Code)
		}
	})

	t.Run("third ER year", func(t *testing.T) {
		cal, err := c.Year(ctx, at("2023-05-01T00:00"))
		if err != nil {
			t.Fatalf("Year() error = %v", err)
		}
		if cal.Number != 3 || cal.Pattern != Pattern2 || len(cal.Months) != 13 {
			t.Fatalf("Year() = number %d pattern %v months %d", cal.Number, cal.Pattern, len(cal.Months))
		}
		if cal.Months[9].Code != "09S" || cal.Months[12].Code != "12C" {
			t.Errorf("codes = %s, %s; want 09S, 12C", cal.Months[9].Code, cal.Months[12].Code)
		}
		if !cal.BaseEquinox.Equal(at("2022-09-23T01:03")) {
			t.Errorf("BaseEquinox = %s", cal.BaseEquinox)
		}
	})
}
