package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/andareed/markwrite/pendata"
)

// Column names looked up in the header row, case-insensitive.
const (
	colTime     = "time"
	colX        = "x"
	colY        = "y"
	colPressure = "pressure"
	colSeries   = "series"
)

// sampleFile is a parsed sample table.
type sampleFile struct {
	rows   []pendata.RawSample
	series *pendata.RunTable
}

// loadSamples reads a delimited sample table. .csv files are comma
// separated, anything else is tab separated.
func loadSamples(path string) (sampleFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return sampleFile{}, fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	comma := '\t'
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		comma = ','
	}
	sf, err := readSamples(f, comma)
	if err != nil {
		return sampleFile{}, fmt.Errorf("%s: %w", path, err)
	}
	return sf, nil
}

func readSamples(r io.Reader, comma rune) (sampleFile, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return sampleFile{}, fmt.Errorf("error reading samples: %w", err)
	}
	if len(records) < 2 {
		return sampleFile{}, fmt.Errorf("%w: no sample rows", pendata.ErrData)
	}

	header := records[0]
	idx := make(map[string]int, 5)
	for _, name := range []string{colTime, colX, colY, colPressure} {
		i := findColumn(header, name)
		if i < 0 {
			return sampleFile{}, fmt.Errorf("%w: missing %q column", pendata.ErrData, name)
		}
		idx[name] = i
	}
	seriesCol := findColumn(header, colSeries)

	var sf sampleFile
	var labels []int
	sf.rows = make([]pendata.RawSample, 0, len(records)-1)
	for n, rec := range records[1:] {
		line := n + 2
		var vals [4]float64
		for i, name := range []string{colTime, colX, colY, colPressure} {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[idx[name]]), 64)
			if err != nil {
				return sampleFile{}, fmt.Errorf("%w: line %d column %s: %v", pendata.ErrData, line, name, err)
			}
			vals[i] = v
		}
		sf.rows = append(sf.rows, pendata.RawSample{Time: vals[0], X: vals[1], Y: vals[2], Pressure: vals[3]})

		if seriesCol >= 0 {
			l, err := strconv.Atoi(strings.TrimSpace(rec[seriesCol]))
			if err != nil {
				return sampleFile{}, fmt.Errorf("%w: line %d column %s: %v", pendata.ErrData, line, colSeries, err)
			}
			labels = append(labels, l)
		}
	}
	if seriesCol >= 0 {
		runs := pendata.RunsFromLabels(labels)
		sf.series = &runs
	}
	return sf, nil
}

func findColumn(header []string, want string) int {
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if strings.EqualFold(name, want) {
			return i
		}
	}
	return -1
}
