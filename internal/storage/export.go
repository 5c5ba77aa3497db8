package storage

import (
	"encoding/json"
	"io"
)

// ExportData is the single-document JSON form of a captured run.
type ExportData struct {
	Meta    RunMetadata          `json:"meta"`
	Columns []string             `json:"columns"`
	Series  map[string][]float64 `json:"series"`
}

// ExportJSON writes run runID with every frames.csv column as a series.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	table, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Meta:    *meta,
		Columns: table.Columns,
		Series:  make(map[string][]float64, len(table.Columns)),
	}
	for _, c := range table.Columns {
		data.Series[c] = table.Column(c)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
