package calendar

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		name      string
		landmarks Landmarks
		want      Pattern
		wantErr   bool
	}{
		{"pattern 1", Landmarks{"C04", "C07", "C10"}, Pattern1, false},
		{"pattern 2", Landmarks{"C04", "C07", "C11"}, Pattern2, false},
		{"pattern 3", Landmarks{"C04", "C08", "C11"}, Pattern3, false},
		{"pattern 3, any northern", Landmarks{"C04", "C08", ""}, Pattern3, false},
		{"pattern 4", Landmarks{"C05", "C08", "C11"}, Pattern4, false},
		{"pattern 4, any later landmarks", Landmarks{"C05", "", ""}, Pattern4, false},
		{"southern too early", Landmarks{"C03", "C06", "C09"}, PatternNone, true},
		{"ascendant too late", Landmarks{"C04", "C09", "C12"}, PatternNone, true},
		{"northern unmatched", Landmarks{"C04", "C07", "C12"}, PatternNone, true},
		{"nothing located", Landmarks{}, PatternNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchPattern(tt.landmarks)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MatchPattern() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !IsPatternNotRecognized(err) {
				t.Errorf("error = %v, want ErrPatternNotRecognized", err)
			}
			if got != tt.want {
				t.Errorf("MatchPattern() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPattern_MonthCode(t *testing.T) {
	tests := []struct {
		pattern Pattern
		want    []string
	}{
		{PatternNone, []string{
			"01C", "02C", "03C", "04C", "05C", "06C", "07C", "08C", "09C", "10C", "11C", "12C", "13C",
		}},
		{Pattern1, []string{
			"01C", "02C", "03C", "04C", "05C", "06C", "07C", "08C", "09C", "10C", "11C", "12C", "12S",
		}},
		{Pattern2, []string{
			"01C", "02C", "03C", "04C", "05C", "06C", "07C", "08C", "09C", "09S", "10C", "11C", "12C",
		}},
		{Pattern3, []string{
			"01C", "02C", "03C", "04C", "05C", "06C", "06S", "07C", "08C", "09C", "10C", "11C", "12C",
		}},
		{Pattern4, []string{
			"01C", "02C", "03C", "03S", "04C", "05C", "06C", "07C", "08C", "09C", "10C", "11C", "12C",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern.String(), func(t *testing.T) {
			var got []string
			for ordinal := 1; ordinal <= 13; ordinal++ {
				code, err := tt.pattern.MonthCode(ordinal)
				if err != nil {
					t.Fatalf("MonthCode(%d) error = %v", ordinal, err)
				}
				got = append(got, code)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("codes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLeapTables_OneIntercalaryMonth(t *testing.T) {
	for _, p := range []Pattern{Pattern1, Pattern2, Pattern3, Pattern4} {
		count := 0
		for ordinal := 4; ordinal <= 13; ordinal++ {
			code, err := p.MonthCode(ordinal)
			if err != nil {
				t.Fatalf("%v MonthCode(%d) error = %v", p, ordinal, err)
			}
			if strings.HasSuffix(code, "S") {
				count++
			}
		}
		if count != 1 {
			t.Errorf("%v has %d intercalary months, want 1", p, count)
		}
	}
}

func TestPattern_MonthCode_OutOfRange(t *testing.T) {
	if _, err := Pattern2.MonthCode(14); err == nil {
		t.Error("MonthCode(14) expected error")
	}
	if _, err := Pattern(9).MonthCode(5); !IsPatternNotRecognized(err) {
		t.Errorf("unknown pattern error = %v, want ErrPatternNotRecognized", err)
	}
}

func TestConverter_LeapPattern(t *testing.T) {
	c := testConverter(t)
	ctx := context.Background()

	tests := []struct {
		anchor        string
		wantLandmarks Landmarks
		want          Pattern
	}{
		{"2019-09-23T07:50", Landmarks{"C04", "C07", "C10"}, Pattern1},
		{"2022-09-23T01:03", Landmarks{"C04", "C07", "C11"}, Pattern2},
	}

	for _, tt := range tests {
		t.Run(tt.anchor, func(t *testing.T) {
			roster, err := c.EnumerateYear(ctx, at(tt.anchor))
			if err != nil {
				t.Fatalf("EnumerateYear() error = %v", err)
			}

			landmarks, err := c.LeapLandmarks(ctx, roster)
			if err != nil {
				t.Fatalf("LeapLandmarks() error = %v", err)
			}
			if diff := cmp.Diff(tt.wantLandmarks, landmarks); diff != "" {
				t.Errorf("landmarks mismatch (-want +got):\n%s", diff)
			}

			got, err := c.LeapPattern(ctx, roster)
			if err != nil {
				t.Fatalf("LeapPattern() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("LeapPattern() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConverter_MonthCode(t *testing.T) {
	c := testConverter(t)
	ctx := context.Background()

	ordinary, err := c.EnumerateYear(ctx, at("2020-09-22T13:31"))
	if err != nil {
		t.Fatalf("EnumerateYear(2020) error = %v", err)
	}
	leap, err := c.EnumerateYear(ctx, at("2019-09-23T07:50"))
	if err != nil {
		t.Fatalf("EnumerateYear(2019) error = %v", err)
	}

	tests := []struct {
		name        string
		roster      Roster
		ordinal     int
		want        string
		wantPattern Pattern
	}{
		{"ordinary year", ordinary, 5, "05C", PatternNone},
		{"ordinary year, last month", ordinary, 12, "12C", PatternNone},
		{"leap year, early month", leap, 2, "02C", PatternNone},
		{"leap year, regular month", leap, 9, "09C", Pattern1},
		{"leap year, intercalary month", leap, 13, "12S", Pattern1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, pattern, err := c.MonthCode(ctx, tt.ordinal, tt.roster)
			if err != nil {
				t.Fatalf("MonthCode() error = %v", err)
			}
			if code != tt.want || pattern != tt.wantPattern {
				t.Errorf("MonthCode(%d) = (%s, %v), want (%s, %v)", tt.ordinal, code, pattern, tt.want, tt.wantPattern)
			}
		})
	}
}
