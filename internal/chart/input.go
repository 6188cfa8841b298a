package chart

import (
	"math"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/litescript/ls-natal/internal/aspect"
	"github.com/litescript/ls-natal/internal/ephem"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Input is a birth moment and place. Hour and Minute are local civil time.
type Input struct {
	Year      int     `json:"year" validate:"min=1,max=9999"`
	Month     int     `json:"month" validate:"min=1,max=12"`
	Day       int     `json:"day" validate:"min=1,max=31"`
	Hour      int     `json:"hour" validate:"min=0,max=23"`
	Minute    int     `json:"minute" validate:"min=0,max=59"`
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// InputAt builds an Input from a time value, using its wall clock fields.
func InputAt(t time.Time, lat, lon float64) Input {
	return Input{
		Year:      t.Year(),
		Month:     int(t.Month()),
		Day:       t.Day(),
		Hour:      t.Hour(),
		Minute:    t.Minute(),
		Latitude:  lat,
		Longitude: lon,
	}
}

// Time returns the civil clock reading as a UTC-located time value.
func (in Input) Time() time.Time {
	return time.Date(in.Year, time.Month(in.Month), in.Day, in.Hour, in.Minute, 0, 0, time.UTC)
}

// Add returns the input shifted by d on the civil clock. The place is kept.
func (in Input) Add(d time.Duration) Input {
	return InputAt(in.Time().Add(d), in.Latitude, in.Longitude)
}

// Validate checks every field and reports all problems at once. Every
// returned error matches ErrInvalidInput.
func (in Input) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"Latitude", in.Latitude},
		{"Longitude", in.Longitude},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &FieldError{Field: f.name, Value: f.value, Reason: "must be a finite number"}
		}
	}

	if err := validate.Struct(in); err != nil {
		return fieldErrors(err)
	}

	// time.Date normalizes out-of-range days, so a round trip exposes them
	t := time.Date(in.Year, time.Month(in.Month), in.Day, 0, 0, 0, 0, time.UTC)
	if t.Day() != in.Day {
		return &FieldError{
			Field:  "Day",
			Value:  in.Day,
			Reason: "does not exist in " + time.Month(in.Month).String(),
		}
	}
	return nil
}

// Options select what a chart computes. An Options value is read-only
// input to Build; changing what is shown means building a new chart.
type Options struct {
	// DST subtracts one hour from the civil time.
	DST bool `json:"dst" yaml:"dst"`

	// Aspects are the kinds enabled for display. Classification always
	// covers every kind.
	Aspects aspect.Set `json:"aspects" yaml:"aspects"`

	// Midpoints switches the chart to midpoint mode: midpoint aspects
	// replace direct aspects.
	Midpoints    bool          `json:"midpoints" yaml:"midpoints"`
	MidpointFrom []ephem.Point `json:"midpoint_from" yaml:"midpoint_from"`
	MidpointTo   []ephem.Point `json:"midpoint_to" yaml:"midpoint_to"`

	// Orbs names the orb table; empty means symmetric.
	Orbs string `json:"orbs" yaml:"orbs" default:"symmetric" validate:"omitempty,oneof=symmetric legacy"`
}

// SetDefaults enables every aspect when none is selected. It is called by
// defaults.Set.
func (o *Options) SetDefaults() {
	if o.Aspects == 0 {
		o.Aspects = aspect.AllKinds()
	}
}

// DefaultOptions returns direct-aspect mode with every aspect enabled and
// the symmetric orb table.
func DefaultOptions() Options {
	var o Options
	if err := defaults.Set(&o); err != nil {
		// Only reachable through a malformed default tag
		panic(err)
	}
	return o
}

func (o Options) validate() error {
	if err := validate.Struct(o); err != nil {
		return fieldErrors(err)
	}
	for _, set := range []struct {
		name   string
		points []ephem.Point
	}{
		{"MidpointFrom", o.MidpointFrom},
		{"MidpointTo", o.MidpointTo},
	} {
		for _, p := range set.points {
			if !p.IsBody() {
				return &FieldError{Field: set.name, Value: p, Reason: "must list ephemeris bodies only"}
			}
		}
	}
	return nil
}
