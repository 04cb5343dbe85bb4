package astro

import (
	"math"
	"time"
)

const (
	// julianUnixEpoch is the Julian day of 1970-01-01T00:00:00Z.
	julianUnixEpoch = 2440587.5
	secondsPerDay   = 86400
)

// JulianDay returns the Julian day number of t (UT).
func JulianDay(t time.Time) float64 {
	return julianUnixEpoch + float64(t.UnixNano())/1e9/secondsPerDay
}

// TimeFromJulianDay converts a Julian day (UT) to a UTC time rounded to the
// millisecond.
func TimeFromJulianDay(jd float64) time.Time {
	ms := math.Round((jd - julianUnixEpoch) * secondsPerDay * 1000)
	return time.UnixMilli(int64(ms)).UTC()
}

// decimalYear returns the year of t with the elapsed fraction of the year.
func decimalYear(t time.Time) float64 {
	t = t.UTC()
	start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	next := start.AddDate(1, 0, 0)
	return float64(t.Year()) + float64(t.Sub(start))/float64(next.Sub(start))
}

// deltaT estimates TT - UT in seconds for a decimal year, using the
// Espenak–Meeus polynomial fits.
func deltaT(y float64) float64 {
	switch {
	case y >= 1900 && y < 1920:
		t := y - 1900
		return -2.79 + 1.494119*t - 0.0598939*t*t + 0.0061966*t*t*t - 0.000197*t*t*t*t
	case y >= 1920 && y < 1941:
		t := y - 1920
		return 21.20 + 0.84493*t - 0.076100*t*t + 0.0020936*t*t*t
	case y >= 1941 && y < 1961:
		t := y - 1950
		return 29.07 + 0.407*t - t*t/233 + t*t*t/2547
	case y >= 1961 && y < 1986:
		t := y - 1975
		return 45.45 + 1.067*t - t*t/260 - t*t*t/718
	case y >= 1986 && y < 2005:
		t := y - 2000
		return 63.86 + 0.3345*t - 0.060374*t*t + 0.0017275*t*t*t + 0.000651814*t*t*t*t + 0.00002373599*t*t*t*t*t
	case y >= 2005 && y < 2050:
		t := y - 2000
		return 62.92 + 0.32217*t + 0.005589*t*t
	case y >= 2050 && y < 2150:
		u := (y - 1820) / 100
		return -20 + 32*u*u - 0.5628*(2150-y)
	default:
		u := (y - 1820) / 100
		return -20 + 32*u*u
	}
}

// dynamicalToUT converts a Julian Ephemeris Day to a UTC time.
func dynamicalToUT(jde float64) time.Time {
	approx := TimeFromJulianDay(jde)
	return TimeFromJulianDay(jde - deltaT(decimalYear(approx))/secondsPerDay)
}

func sinDeg(d float64) float64 { return math.Sin(d * math.Pi / 180) }
func cosDeg(d float64) float64 { return math.Cos(d * math.Pi / 180) }
