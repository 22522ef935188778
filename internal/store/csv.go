package store

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"frbus-sweep/internal/scenario"
)

// WriteLookupCSV writes lookup rows as CSV, one scenario per line.
func WriteLookupCSV(path string, rows []scenario.LookupRow) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"simulation_id",
		"productivity_shock",
		"persistence",
		"monetary_response",
		"avg_gdp_impact",
		"max_gdp_impact",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		row := []string{
			strconv.Itoa(r.SimulationID),
			fmtFloat(r.ProductivityShock),
			fmtFloat(r.Persistence),
			fmtFloat(r.MonetaryResponse),
			fmtFloat(r.AvgGDPImpact),
			fmtFloat(r.MaxGDPImpact),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return writeFileAtomic(path, buf.Bytes())
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
