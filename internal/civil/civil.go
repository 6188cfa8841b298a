// Package civil converts a civil clock reading at a longitude into the
// universal time and Julian-day key used for every ephemeris query of a chart.
package civil

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// MaxOffsetHours is the largest UTC offset a longitude band can produce.
const MaxOffsetHours = 12

// BandWidth is the width in degrees of one hourly longitude band.
const BandWidth = 15

// ErrUnresolvedTimeZone is returned when a longitude falls outside every band.
var ErrUnresolvedTimeZone = errors.New("unresolved time zone")

// DayCounter is the part of an ephemeris that turns calendar time into a
// Julian day.
type DayCounter interface {
	JulianDay(year, month, day int, utcHour float64) float64
	DeltaT(jd float64) float64
}

// Resolution is the outcome of resolving a civil clock reading.
type Resolution struct {
	CivilHour   int     // hour after the DST adjustment
	OffsetHours int     // hours east of Greenwich, negative west
	UTCHour     float64 // whole-hour universal time, may fall outside [0, 24)
	UTCFraction float64 // UTCHour + minute/60
}

// UTCOffsetHours returns the hourly band of a longitude. The longitude is
// truncated toward zero and each band spans 15 whole degrees: 1..15 is one
// hour, 16..30 two hours, and so on up to 166..180 for twelve hours. West
// longitudes mirror east ones with a negative sign.
func UTCOffsetHours(longitude float64) (int, error) {
	if math.IsNaN(longitude) || math.IsInf(longitude, 0) {
		return 0, fmt.Errorf("%w: longitude %v", ErrUnresolvedTimeZone, longitude)
	}

	t := math.Trunc(longitude)
	if t == 0 {
		return 0, nil
	}

	band := math.Ceil(math.Abs(t) / BandWidth)
	if band > MaxOffsetHours {
		return 0, fmt.Errorf("%w: longitude %v is beyond ±180°", ErrUnresolvedTimeZone, longitude)
	}

	offset := int(band)
	if t < 0 {
		offset = -offset
	}
	return offset, nil
}

// UTCHour converts a civil hour to universal time. East longitudes subtract
// their offset, west longitudes add it.
func UTCHour(civilHour int, longitude float64) (float64, error) {
	offset, err := UTCOffsetHours(longitude)
	if err != nil {
		return 0, err
	}
	return float64(civilHour - offset), nil
}

// Resolve applies daylight saving and the longitude band to a clock reading.
func Resolve(hour, minute int, longitude float64, dst bool) (Resolution, error) {
	if dst {
		hour--
	}

	offset, err := UTCOffsetHours(longitude)
	if err != nil {
		return Resolution{}, err
	}

	utc := float64(hour - offset)
	return Resolution{
		CivilHour:   hour,
		OffsetHours: offset,
		UTCHour:     utc,
		UTCFraction: utc + float64(minute)/60,
	}, nil
}

// JulianDay returns the chart's time key: the Julian day of the universal
// time plus delta-T, rounded to six decimals.
func JulianDay(days DayCounter, year, month, day int, utcFraction float64) float64 {
	jd := days.JulianDay(year, month, day, utcFraction)
	return scalar.Round(jd+days.DeltaT(jd), 6)
}
