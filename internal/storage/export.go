package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/rodsim/internal/linalg"
	"github.com/san-kum/rodsim/internal/sim"
)

type ExportData struct {
	Run     RunMetadata  `json:"run"`
	Samples []sim.Sample `json:"samples"`
	Final   [][3]float64 `json:"final,omitempty"`
}

// Export writes a stored run as a single JSON document.
func (s *Store) Export(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	final, err := s.LoadFinal(runID)
	if err != nil {
		return err
	}
	return ExportJSON(w, ExportData{Run: *meta, Samples: samples, Final: nodeTriples(final)})
}

func ExportJSON(w io.Writer, data ExportData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func nodeTriples(nodes linalg.Vectors) [][3]float64 {
	out := make([][3]float64, len(nodes))
	for i, p := range nodes {
		out[i] = [3]float64{p.X, p.Y, p.Z}
	}
	return out
}
