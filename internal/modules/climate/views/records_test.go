package views

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"surfsup-server/internal/modules/climate/types"
)

func ptr(v float64) *float64 { return &v }

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %T: %v", v, err)
	}
	return string(b)
}

func TestDatedValues(t *testing.T) {
	obs := []types.Observation{
		{Date: "2016-08-23", Value: ptr(1.79)},
		{Date: "2016-08-23", Value: ptr(0)},
		{Date: "2017-08-22", Value: nil},
	}

	got := mustJSON(t, DatedValues(obs))
	want := `[{"2016-08-23":1.79},{"2016-08-23":0},{"2017-08-22":null}]`
	if got != want {
		t.Errorf("DatedValues JSON = %s; want %s", got, want)
	}
}

func TestDatedValues_Empty(t *testing.T) {
	if got := mustJSON(t, DatedValues(nil)); got != "[]" {
		t.Errorf("DatedValues(nil) JSON = %s; want []", got)
	}
}

func TestDatedValue_NonFiniteIsNull(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		got := mustJSON(t, DatedValue{Date: "2017-01-01", Value: &v})
		if got != `{"2017-01-01":null}` {
			t.Errorf("DatedValue(%v) JSON = %s; want null value", v, got)
		}
	}
}

func TestStationRecords_KeyOrderAndTypes(t *testing.T) {
	stations := []types.Station{{
		StationID: "USC00519281",
		Name:      "WAIHEE 837.5, HI US",
		Latitude:  21.45167,
		Longitude: -157.84889,
		Elevation: 32.9,
	}}

	got := mustJSON(t, StationRecords(stations))
	want := `[{"Name":"WAIHEE 837.5, HI US","Station ID":"USC00519281","Elevation":32.9,"Latitude":21.45167,"Longitude":-157.84889}]`
	if got != want {
		t.Errorf("StationRecords JSON = %s; want %s", got, want)
	}

	if got := mustJSON(t, StationRecords(nil)); got != "[]" {
		t.Errorf("StationRecords(nil) JSON = %s; want []", got)
	}
}

func TestTemperatureSummaries(t *testing.T) {
	t.Run("with data", func(t *testing.T) {
		got := mustJSON(t, TemperatureSummaries(types.TemperatureStats{Count: 6, Minimum: 76, Maximum: 81, Average: 78.5}))
		want := `[{"Minimum Temperature":76,"Maxium Temperature":81,"Average Temperature":78.5}]`
		if got != want {
			t.Errorf("JSON = %s; want %s", got, want)
		}
	})

	t.Run("no data is null, not zero", func(t *testing.T) {
		got := mustJSON(t, TemperatureSummaries(types.TemperatureStats{}))
		want := `[{"Minimum Temperature":null,"Maxium Temperature":null,"Average Temperature":null}]`
		if got != want {
			t.Errorf("JSON = %s; want %s", got, want)
		}
	})

	t.Run("real zero stays zero", func(t *testing.T) {
		got := mustJSON(t, TemperatureSummaries(types.TemperatureStats{Count: 1}))
		if strings.Contains(got, "null") {
			t.Errorf("JSON = %s; zero readings must not render as null", got)
		}
	})

	t.Run("full precision average", func(t *testing.T) {
		got := TemperatureSummaries(types.TemperatureStats{Count: 9, Minimum: 70, Maximum: 81, Average: 700.0 / 9})
		if *got[0].Average != 700.0/9 {
			t.Errorf("Average = %v; want unrounded %v", *got[0].Average, 700.0/9)
		}
	})
}
