// Package dbtest builds throwaway in-memory copies of the climate dataset for
// tests. Fixtures are YAML documents listing stations and measurements.
package dbtest

import (
	"database/sql"
	_ "embed"
	"fmt"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/yaml.v3"
)

// Schema mirrors the tables of the published hawaii.sqlite file.
const Schema = `
CREATE TABLE station (
  id        INTEGER PRIMARY KEY,
  station   TEXT,
  name      TEXT,
  latitude  FLOAT,
  longitude FLOAT,
  elevation FLOAT
);
CREATE TABLE measurement (
  id      INTEGER PRIMARY KEY,
  station TEXT,
  date    TEXT,
  prcp    FLOAT,
  tobs    FLOAT
);
`

//go:embed testdata/sample.yaml
var sampleYAML []byte

type Fixture struct {
	Stations     []StationRow     `yaml:"stations"`
	Measurements []MeasurementRow `yaml:"measurements"`
}

type StationRow struct {
	Station   string  `yaml:"station"`
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Elevation float64 `yaml:"elevation"`
}

type MeasurementRow struct {
	Station string   `yaml:"station"`
	Date    string   `yaml:"date"`
	Prcp    *float64 `yaml:"prcp"`
	Tobs    *float64 `yaml:"tobs"`
}

// ParseFixture decodes a YAML fixture document.
func ParseFixture(data []byte) (Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	return f, nil
}

// Sample returns the bundled fixture: three Oahu stations around the
// 2017-08-23 anchor, with USC00519281 the most active.
func Sample(t testing.TB) Fixture {
	t.Helper()
	f, err := ParseFixture(sampleYAML)
	if err != nil {
		t.Fatalf("sample fixture: %v", err)
	}
	return f
}

// Open returns an empty in-memory dataset with the schema applied. The pool
// is pinned to one connection because each :memory: connection is its own
// database.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	if _, err := db.Exec(Schema); err != nil {
		t.Fatalf("exec schema: %v", err)
	}
	return db
}

// OpenWith is Open followed by Load.
func OpenWith(t testing.TB, f Fixture) *sql.DB {
	t.Helper()
	db := Open(t)
	Load(t, db, f)
	return db
}

// Load inserts the fixture rows in document order.
func Load(t testing.TB, db *sql.DB, f Fixture) {
	t.Helper()
	if err := Insert(db, f); err != nil {
		t.Fatalf("load fixture: %v", err)
	}
}

// Insert writes the fixture rows in one transaction.
func Insert(db *sql.DB, f Fixture) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, s := range f.Stations {
		if _, err = tx.Exec(
			`INSERT INTO station (station, name, latitude, longitude, elevation) VALUES (?, ?, ?, ?, ?)`,
			s.Station, s.Name, s.Latitude, s.Longitude, s.Elevation,
		); err != nil {
			return fmt.Errorf("insert station %s: %w", s.Station, err)
		}
	}
	for _, m := range f.Measurements {
		if _, err = tx.Exec(
			`INSERT INTO measurement (station, date, prcp, tobs) VALUES (?, ?, ?, ?)`,
			m.Station, m.Date, nullable(m.Prcp), nullable(m.Tobs),
		); err != nil {
			return fmt.Errorf("insert measurement %s/%s: %w", m.Station, m.Date, err)
		}
	}
	return tx.Commit()
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// F returns a pointer to v, for building fixtures in code.
func F(v float64) *float64 {
	return &v
}
