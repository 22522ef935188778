package engine

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ErrColumnLength is returned when a column does not match the dataset's period count.
var ErrColumnLength = errors.New("column length does not match periods")

// Dataset is a labeled, quarterly-indexed table of model variables.
// Column names are lower case (xgdp, pcxfe, rff, lur, ...).
type Dataset struct {
	Periods []string
	columns map[string][]float64
}

func NewDataset(periods []string) *Dataset {
	return &Dataset{
		Periods: append([]string(nil), periods...),
		columns: map[string][]float64{},
	}
}

func (d *Dataset) Len() int { return len(d.Periods) }

// Index returns the row of a period label.
func (d *Dataset) Index(label string) (int, bool) {
	for i, p := range d.Periods {
		if strings.EqualFold(p, label) {
			return i, true
		}
	}
	return 0, false
}

func (d *Dataset) Has(name string) bool {
	_, ok := d.columns[strings.ToLower(name)]
	return ok
}

func (d *Dataset) Column(name string) ([]float64, bool) {
	c, ok := d.columns[strings.ToLower(name)]
	return c, ok
}

// Columns lists column names in sorted order.
func (d *Dataset) Columns() []string {
	out := make([]string, 0, len(d.columns))
	for k := range d.columns {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (d *Dataset) SetColumn(name string, vals []float64) error {
	if len(vals) != d.Len() {
		return fmt.Errorf("%s: %w (%d != %d)", name, ErrColumnLength, len(vals), d.Len())
	}
	d.columns[strings.ToLower(name)] = append([]float64(nil), vals...)
	return nil
}

// Set writes one cell, creating a zero-filled column when needed.
func (d *Dataset) Set(name string, row int, v float64) {
	key := strings.ToLower(name)
	c, ok := d.columns[key]
	if !ok {
		c = make([]float64, d.Len())
		d.columns[key] = c
	}
	c[row] = v
}

// Fill sets rows start..end (inclusive) of a column to v.
func (d *Dataset) Fill(name string, start, end int, v float64) {
	for i := start; i <= end; i++ {
		d.Set(name, i, v)
	}
}

// ValueOr returns the cell or def when the column is missing or the cell is NaN.
func (d *Dataset) ValueOr(name string, row int, def float64) float64 {
	c, ok := d.Column(name)
	if !ok || row < 0 || row >= len(c) || math.IsNaN(c[row]) {
		return def
	}
	return c[row]
}

func (d *Dataset) Clone() *Dataset {
	out := NewDataset(d.Periods)
	for k, v := range d.columns {
		out.columns[k] = append([]float64(nil), v...)
	}
	return out
}

// LoadDatasetCSV reads a LONGBASE-style table: a header row, the first column
// holding period labels and every other column numeric. "NA" and empty cells
// become NaN.
func LoadDatasetCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("dataset %s has no data rows", path)
	}
	header := rows[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("dataset %s has no variable columns", path)
	}

	body := rows[1:]
	periods := make([]string, len(body))
	for i, row := range body {
		periods[i] = strings.TrimSpace(row[0])
	}
	d := NewDataset(periods)
	for j := 1; j < len(header); j++ {
		vals := make([]float64, len(body))
		for i, row := range body {
			vals[i], err = parseCell(row[j])
			if err != nil {
				return nil, fmt.Errorf("dataset %s row %d column %s: %w", path, i+2, header[j], err)
			}
		}
		if err := d.SetColumn(strings.TrimSpace(header[j]), vals); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "NA") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// SyntheticDataset builds a flat baseline table of n quarters starting at
// firstYear Q1, used when no dataset file is available.
func SyntheticDataset(firstYear, n int) *Dataset {
	periods := make([]string, n)
	for i := range periods {
		periods[i] = QuarterLabel(firstYear+i/4, i%4+1)
	}
	d := NewDataset(periods)
	baseline := map[string]float64{
		"xgdp":          100.0,
		"pcxfe":         2.0,
		"rff":           2.5,
		"lur":           4.0,
		"lhp":           150.0,
		"dfpdbt":        0,
		"dfpsrp":        1,
		"xgap_aerr":     0,
		"rffintay_aerr": 0,
	}
	for name, v := range baseline {
		d.Fill(name, 0, n-1, v)
	}
	return d
}

func QuarterLabel(year, quarter int) string {
	return fmt.Sprintf("%dQ%d", year, quarter)
}
