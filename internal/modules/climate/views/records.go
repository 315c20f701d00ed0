package views

import (
	"bytes"
	"encoding/json"
	"math"

	"surfsup-server/internal/modules/climate/types"
)

// DatedValue is one (date, value) row. It serializes as a single-key object,
// {"<date>": value}, with null for a missing or non-finite reading.
type DatedValue struct {
	Date  string
	Value *float64
}

func (d DatedValue) MarshalJSON() ([]byte, error) {
	key, err := json.Marshal(d.Date)
	if err != nil {
		return nil, err
	}
	val := []byte("null")
	if d.Value != nil && !math.IsNaN(*d.Value) && !math.IsInf(*d.Value, 0) {
		if val, err = json.Marshal(*d.Value); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	buf.Grow(len(key) + len(val) + 3)
	buf.WriteByte('{')
	buf.Write(key)
	buf.WriteByte(':')
	buf.Write(val)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// StationRecord field order is the published key order.
type StationRecord struct {
	Name      string  `json:"Name"`
	StationID string  `json:"Station ID"`
	Elevation float64 `json:"Elevation"`
	Latitude  float64 `json:"Latitude"`
	Longitude float64 `json:"Longitude"`
}

// TemperatureSummary keeps the "Maxium Temperature" spelling existing
// consumers depend on. All fields are null when the range had no data.
type TemperatureSummary struct {
	Minimum *float64 `json:"Minimum Temperature"`
	Maximum *float64 `json:"Maxium Temperature"`
	Average *float64 `json:"Average Temperature"`
}

func DatedValues(obs []types.Observation) []DatedValue {
	out := make([]DatedValue, 0, len(obs))
	for _, o := range obs {
		out = append(out, DatedValue{Date: o.Date, Value: o.Value})
	}
	return out
}

func StationRecords(stations []types.Station) []StationRecord {
	out := make([]StationRecord, 0, len(stations))
	for _, s := range stations {
		out = append(out, StationRecord{
			Name:      s.Name,
			StationID: s.StationID,
			Elevation: s.Elevation,
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
		})
	}
	return out
}

// TemperatureSummaries wraps the aggregate in the one-element array the
// endpoint has always returned.
func TemperatureSummaries(stats types.TemperatureStats) []TemperatureSummary {
	if stats.Empty() {
		return []TemperatureSummary{{}}
	}
	minimum, maximum, average := stats.Minimum, stats.Maximum, stats.Average
	return []TemperatureSummary{{
		Minimum: &minimum,
		Maximum: &maximum,
		Average: &average,
	}}
}
