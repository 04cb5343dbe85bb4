package astro

import (
	"context"
	"math"
	"sort"
	"time"
)

// Analytic computes events from closed-form series (J. Meeus, Astronomical
// Algorithms, chapters 27 and 49). Lunar phases are accurate to well under a
// minute and seasons to about a minute for the 1900–2150 range, which is far
// inside the hour-scale thresholds of the calendar rules.
//
// Analytic holds no state and is safe for concurrent use.
type Analytic struct{}

// NewAnalytic returns an analytic provider.
func NewAnalytic() *Analytic {
	return &Analytic{}
}

// LunarPhaseEvents implements Provider.
func (a *Analytic) LunarPhaseEvents(ctx context.Context, start, end time.Time) ([]PhaseEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start, end = start.UTC(), end.UTC()

	var out []PhaseEvent
	k := math.Floor((decimalYear(start)-2000)*12.3685) - 2
	for {
		for q := 0; q < 4; q++ {
			phase := Phase(q)
			t := dynamicalToUT(phaseJDE(k+float64(q)/4, phase))
			if !t.Before(end) {
				return out, nil
			}
			if !t.Before(start) {
				out = append(out, PhaseEvent{Time: t, Phase: phase})
			}
		}
		k++
	}
}

// SolarSeasonEvents implements Provider.
func (a *Analytic) SolarSeasonEvents(ctx context.Context, start, end time.Time) ([]SeasonEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start, end = start.UTC(), end.UTC()

	var out []SeasonEvent
	for year := start.Year() - 1; year <= end.Year()+1; year++ {
		for s := SeasonVernalEquinox; s <= SeasonWinterSolstice; s++ {
			t := dynamicalToUT(seasonJDE(year, s))
			if inRange(t, start, end) {
				out = append(out, SeasonEvent{Time: t, Season: s})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

// phaseJDE returns the Julian Ephemeris Day of the lunar phase with lunation
// number k (k is integral for new moon, +0.25 first quarter, +0.5 full,
// +0.75 last quarter; k=0 is the new moon of 2000-01-06).
func phaseJDE(k float64, phase Phase) float64 {
	t := k / 1236.85
	t2, t3, t4 := t*t, t*t*t, t*t*t*t

	jde := 2451550.09766 + 29.530588861*k + 0.00015437*t2 - 0.000000150*t3 + 0.00000000073*t4

	e := 1 - 0.002516*t - 0.0000074*t2
	m := 2.5534 + 29.10535670*k - 0.0000014*t2 - 0.00000011*t3
	mp := 201.5643 + 385.81693528*k + 0.0107582*t2 + 0.00001238*t3 - 0.000000058*t4
	f := 160.7108 + 390.67050284*k - 0.0016118*t2 - 0.00000227*t3 + 0.000000011*t4
	om := 124.7746 - 1.56375588*k + 0.0020672*t2 + 0.00000215*t3

	switch phase {
	case PhaseNew:
		jde += newMoonCorrection(e, m, mp, f, om)
	case PhaseFull:
		jde += fullMoonCorrection(e, m, mp, f, om)
	default:
		jde += quarterCorrection(e, m, mp, f, om)
		w := 0.00306 - 0.00038*e*cosDeg(m) + 0.00026*cosDeg(mp) -
			0.00002*cosDeg(mp-m) + 0.00002*cosDeg(mp+m) + 0.00002*cosDeg(2*f)
		if phase == PhaseFirstQuarter {
			jde += w
		} else {
			jde -= w
		}
	}

	return jde + planetaryCorrection(k, t2)
}

func newMoonCorrection(e, m, mp, f, om float64) float64 {
	return -0.40720*sinDeg(mp) +
		0.17241*e*sinDeg(m) +
		0.01608*sinDeg(2*mp) +
		0.01039*sinDeg(2*f) +
		0.00739*e*sinDeg(mp-m) -
		0.00514*e*sinDeg(mp+m) +
		0.00208*e*e*sinDeg(2*m) -
		0.00111*sinDeg(mp-2*f) -
		0.00057*sinDeg(mp+2*f) +
		0.00056*e*sinDeg(2*mp+m) -
		0.00042*sinDeg(3*mp) +
		0.00042*e*sinDeg(m+2*f) +
		0.00038*e*sinDeg(m-2*f) -
		0.00024*e*sinDeg(2*mp-m) -
		0.00017*sinDeg(om) -
		0.00007*sinDeg(mp+2*m) +
		0.00004*sinDeg(2*mp-2*f) +
		0.00004*sinDeg(3*m) +
		0.00003*sinDeg(mp+m-2*f) +
		0.00003*sinDeg(2*mp+2*f) -
		0.00003*sinDeg(mp+m+2*f) +
		0.00003*sinDeg(mp-m+2*f) -
		0.00002*sinDeg(mp-m-2*f) -
		0.00002*sinDeg(3*mp+m) +
		0.00002*sinDeg(4*mp)
}

func fullMoonCorrection(e, m, mp, f, om float64) float64 {
	return -0.40614*sinDeg(mp) +
		0.17302*e*sinDeg(m) +
		0.01614*sinDeg(2*mp) +
		0.01043*sinDeg(2*f) +
		0.00734*e*sinDeg(mp-m) -
		0.00515*e*sinDeg(mp+m) +
		0.00209*e*e*sinDeg(2*m) -
		0.00111*sinDeg(mp-2*f) -
		0.00057*sinDeg(mp+2*f) +
		0.00056*e*sinDeg(2*mp+m) -
		0.00042*sinDeg(3*mp) +
		0.00042*e*sinDeg(m+2*f) +
		0.00038*e*sinDeg(m-2*f) -
		0.00024*e*sinDeg(2*mp-m) -
		0.00017*sinDeg(om) -
		0.00007*sinDeg(mp+2*m) +
		0.00004*sinDeg(2*mp-2*f) +
		0.00004*sinDeg(3*m) +
		0.00003*sinDeg(mp+m-2*f) +
		0.00003*sinDeg(2*mp+2*f) -
		0.00003*sinDeg(mp+m+2*f) +
		0.00003*sinDeg(mp-m+2*f) -
		0.00002*sinDeg(mp-m-2*f) -
		0.00002*sinDeg(3*mp+m) +
		0.00002*sinDeg(4*mp)
}

func quarterCorrection(e, m, mp, f, om float64) float64 {
	return -0.62801*sinDeg(mp) +
		0.17172*e*sinDeg(m) -
		0.01183*e*sinDeg(mp+m) +
		0.00862*sinDeg(2*mp) +
		0.00804*sinDeg(2*f) +
		0.00454*e*sinDeg(mp-m) +
		0.00204*e*e*sinDeg(2*m) -
		0.00180*sinDeg(mp-2*f) -
		0.00070*sinDeg(mp+2*f) -
		0.00040*sinDeg(3*mp) -
		0.00034*e*sinDeg(2*mp-m) +
		0.00032*e*sinDeg(m+2*f) +
		0.00032*e*sinDeg(m-2*f) -
		0.00028*e*e*sinDeg(mp+2*m) +
		0.00027*e*sinDeg(2*mp+m) -
		0.00017*sinDeg(om) -
		0.00005*sinDeg(mp-m-2*f) +
		0.00004*sinDeg(2*mp+2*f) -
		0.00004*sinDeg(mp+m+2*f) +
		0.00004*sinDeg(mp-2*m) +
		0.00003*sinDeg(mp+m-2*f) +
		0.00003*sinDeg(3*m) +
		0.00002*sinDeg(2*mp-2*f) +
		0.00002*sinDeg(mp-m+2*f) -
		0.00002*sinDeg(3*mp+m)
}

// planetaryArguments are the A1..A14 terms shared by all phases.
var planetaryArguments = [14]struct{ base, rate, coeff float64 }{
	{299.77, 0.107408, 0.000325},
	{251.88, 0.016321, 0.000165},
	{251.83, 26.651886, 0.000164},
	{349.42, 36.412478, 0.000126},
	{84.66, 18.206239, 0.000110},
	{141.74, 53.303771, 0.000062},
	{207.14, 2.453732, 0.000060},
	{154.84, 7.306860, 0.000056},
	{34.52, 27.261239, 0.000047},
	{207.19, 0.121824, 0.000042},
	{291.34, 1.844379, 0.000040},
	{161.72, 24.198154, 0.000037},
	{239.56, 25.513099, 0.000035},
	{331.55, 3.592518, 0.000023},
}

func planetaryCorrection(k, t2 float64) float64 {
	var sum float64
	for i, a := range planetaryArguments {
		arg := a.base + a.rate*k
		if i == 0 {
			arg -= 0.009173 * t2
		}
		sum += a.coeff * sinDeg(arg)
	}
	return sum
}

// meanSeasonCoefficients hold the mean season polynomials for years
// 1000–3000, indexed by Season, in Y = (year-2000)/1000.
var meanSeasonCoefficients = [4][5]float64{
	SeasonVernalEquinox:   {2451623.80984, 365242.37404, 0.05169, -0.00411, -0.00057},
	SeasonSummerSolstice:  {2451716.56767, 365241.62603, 0.00325, 0.00888, -0.00030},
	SeasonAutumnalEquinox: {2451810.21715, 365242.01767, -0.11575, 0.00337, 0.00078},
	SeasonWinterSolstice:  {2451900.05952, 365242.74049, -0.06223, -0.00823, 0.00032},
}

// seasonPeriodicTerms is the 24-term periodic correction (A, B, C).
var seasonPeriodicTerms = [24][3]float64{
	{485, 324.96, 1934.136},
	{203, 337.23, 32964.467},
	{199, 342.08, 20.186},
	{182, 27.85, 445267.112},
	{156, 73.14, 45036.886},
	{136, 171.52, 22518.443},
	{77, 222.54, 65928.934},
	{74, 296.72, 3034.906},
	{70, 243.58, 9037.513},
	{58, 119.81, 33718.147},
	{52, 297.17, 150.678},
	{50, 21.02, 2281.226},
	{45, 247.54, 29929.562},
	{44, 325.15, 31555.956},
	{29, 60.93, 4443.417},
	{18, 155.12, 67555.328},
	{17, 288.79, 4562.452},
	{16, 198.04, 62894.029},
	{14, 199.76, 31436.921},
	{12, 95.39, 14577.848},
	{12, 287.11, 31931.756},
	{12, 320.81, 34777.259},
	{9, 227.73, 1222.114},
	{8, 15.45, 16859.074},
}

// seasonJDE returns the Julian Ephemeris Day of a season marker in a year.
func seasonJDE(year int, season Season) float64 {
	y := (float64(year) - 2000) / 1000
	c := meanSeasonCoefficients[season]
	jde0 := c[0] + c[1]*y + c[2]*y*y + c[3]*y*y*y + c[4]*y*y*y*y

	t := (jde0 - 2451545.0) / 36525
	w := 35999.373*t - 2.47
	dl := 1 + 0.0334*cosDeg(w) + 0.0007*cosDeg(2*w)

	var s float64
	for _, term := range seasonPeriodicTerms {
		s += term[0] * cosDeg(term[1]+term[2]*t)
	}
	return jde0 + 0.00001*s/dl
}
