package calendar

import (
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		day  int
		code string
		year int
		era  Era
		want string
	}{
		{1, "01C", 1, EraER, "01|01C|0001 ER"},
		{30, "12S", 1, EraAR, "30|12S|0001 AR"},
		{7, "09S", 3, EraER, "07|09S|0003 ER"},
		{15, "10C", 1234, EraER, "15|10C|1234 ER"},
	}
	for _, tt := range tests {
		if got := Format(tt.day, tt.code, tt.year, tt.era); got != tt.want {
			t.Errorf("Format() = %q, want %q", got, tt.want)
		}
	}
}

func TestDate_IsIntercalary(t *testing.T) {
	if (Date{MonthCode: "06C"}).IsIntercalary() {
		t.Error("06C reported as intercalary")
	}
	if !(Date{MonthCode: "06S"}).IsIntercalary() {
		t.Error("06S not reported as intercalary")
	}
}

func TestParseInstant(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"2023-05-01", time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), false},
		{"2023-05-01T12:30", time.Date(2023, 5, 1, 12, 30, 0, 0, time.UTC), false},
		{"2023-05-01 12:30", time.Date(2023, 5, 1, 12, 30, 0, 0, time.UTC), false},
		{"2023-05-01T12:30:45", time.Date(2023, 5, 1, 12, 30, 45, 0, time.UTC), false},
		{"2023-05-01T14:30:00+02:00", time.Date(2023, 5, 1, 12, 30, 0, 0, time.UTC), false},
		{" 2023-05-01 ", time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), false},
		{"05/01/2023", time.Time{}, true},
		{"2023-13-01", time.Time{}, true},
		{"", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseInstant(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseInstant(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseInstant(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !tt.wantErr && got.Location() != time.UTC {
				t.Errorf("ParseInstant(%q) location = %v, want UTC", tt.input, got.Location())
			}
		})
	}
}

func TestParseDateString(t *testing.T) {
	got, err := ParseDateString("2020-09-22")
	if err != nil {
		t.Fatalf("ParseDateString() error = %v", err)
	}
	if FormatDate(got) != "2020-09-22" {
		t.Errorf("FormatDate() = %s", FormatDate(got))
	}
	if _, err := ParseDateString("22/09/2020"); err == nil {
		t.Error("ParseDateString() expected error for invalid format")
	}
}
