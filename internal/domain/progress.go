package domain

import "errors"

var ErrInvalidProgress = errors.New("invalid progress values")

// ProgressEntry is one date-stamped triple of body-composition measurements.
// Storing the triple as a single record keeps the weight, muscle-mass and
// fat-mass series aligned by construction instead of by convention.
type ProgressEntry struct {
	Date       string  `bson:"date" json:"date"` // YYYY-MM-DD
	Weight     float64 `bson:"weight" json:"weight"`
	MuscleMass float64 `bson:"muscleMass" json:"muscleMass"`
	FatMass    float64 `bson:"fatMass" json:"fatMass"`
}

// Validate checks the entry shape.
func (p ProgressEntry) Validate() error {
	if !ValidDate(p.Date) {
		return ErrInvalidDate
	}
	if p.Weight <= 0 || p.MuscleMass <= 0 || p.FatMass <= 0 {
		return ErrInvalidProgress
	}
	return nil
}

// SeriesPoint is one point of a single measurement series as the chart
// clients consume it.
type SeriesPoint struct {
	Date  string  `json:"x"`
	Value float64 `json:"y"`
}

// ProgressSeries is the three-series view of the progress entries, in
// insertion order: weight, muscle mass, fat mass.
type ProgressSeries struct {
	Weight     []SeriesPoint `json:"weight"`
	MuscleMass []SeriesPoint `json:"muscleMass"`
	FatMass    []SeriesPoint `json:"fatMass"`
}

// SeriesOf projects the unified records into the three parallel series. All
// three always have the same length and the same date sequence.
func SeriesOf(entries []ProgressEntry) ProgressSeries {
	s := ProgressSeries{
		Weight:     make([]SeriesPoint, 0, len(entries)),
		MuscleMass: make([]SeriesPoint, 0, len(entries)),
		FatMass:    make([]SeriesPoint, 0, len(entries)),
	}
	for _, e := range entries {
		s.Weight = append(s.Weight, SeriesPoint{Date: e.Date, Value: e.Weight})
		s.MuscleMass = append(s.MuscleMass, SeriesPoint{Date: e.Date, Value: e.MuscleMass})
		s.FatMass = append(s.FatMass, SeriesPoint{Date: e.Date, Value: e.FatMass})
	}
	return s
}
