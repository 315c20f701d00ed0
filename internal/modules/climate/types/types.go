package types

// DateLayout is the canonical yyyy-mm-dd form of every stored date. String
// order of values in this layout equals chronological order.
const DateLayout = "2006-01-02"

type Station struct {
	StationID string
	Name      string
	Latitude  float64
	Longitude float64
	Elevation float64
}

// Measurement is one daily row. Nil readings mean no observation that day.
type Measurement struct {
	StationID     string
	Date          string
	Precipitation *float64
	Temperature   *float64
}

// MeasurementFilter bounds a measurement query. Empty fields do not constrain.
// From and To are inclusive.
type MeasurementFilter struct {
	StationID string
	From      string
	To        string
}

type StationCount struct {
	StationID string
	Count     int
}

// Observation is a single (date, value) pair taken from a measurement.
type Observation struct {
	Date  string
	Value *float64
}

// TemperatureStats aggregates non-null temperatures. Count == 0 means the
// range held no data and the other fields are meaningless.
type TemperatureStats struct {
	Count   int
	Minimum float64
	Maximum float64
	Average float64
}

func (s TemperatureStats) Empty() bool {
	return s.Count == 0
}
